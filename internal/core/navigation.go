package core

import (
	"fmt"
	"strings"
)

// Workflow names an external page or flow an action label routes to.
type Workflow string

const (
	WorkflowResume    Workflow = "resume"
	WorkflowVideo     Workflow = "video"
	WorkflowReferrals Workflow = "referrals"
	WorkflowAnalytics Workflow = "analytics"
	WorkflowNone      Workflow = "none"
)

var knownWorkflows = map[Workflow]bool{
	WorkflowResume:    true,
	WorkflowVideo:     true,
	WorkflowReferrals: true,
	WorkflowAnalytics: true,
	WorkflowNone:      true,
}

// defaultRoutes maps action labels (lowercased) to workflows.
var defaultRoutes = map[string]Workflow{
	"ai interview":          WorkflowVideo,
	"take ai interview":     WorkflowVideo,
	"cover video":           WorkflowVideo,
	"record cover video":    WorkflowVideo,
	"find referral":         WorkflowReferrals,
	"search for referral":   WorkflowReferrals,
	"edit resume":           WorkflowResume,
	"view learning modules": WorkflowAnalytics,
}

// Navigator receives an action label and routes the user to the matching
// workflow. The core never waits for the workflow to finish.
type Navigator interface {
	Navigate(actionLabel string, workflow Workflow) error
}

// RouteTable resolves action labels to workflows.
type RouteTable struct {
	routes map[string]Workflow
}

// NewRouteTable returns the built-in routes with overrides applied.
// Override keys are action labels; values must be known workflow names.
func NewRouteTable(overrides map[string]string) (*RouteTable, error) {
	routes := make(map[string]Workflow, len(defaultRoutes)+len(overrides))
	for k, v := range defaultRoutes {
		routes[k] = v
	}
	for label, wf := range overrides {
		w := Workflow(strings.ToLower(strings.TrimSpace(wf)))
		if !knownWorkflows[w] {
			return nil, fmt.Errorf("route %q: unknown workflow %q", label, wf)
		}
		routes[routeKey(label)] = w
	}
	return &RouteTable{routes: routes}, nil
}

// Resolve returns the workflow for label, or WorkflowNone if it is unknown.
func (rt *RouteTable) Resolve(label string) Workflow {
	if rt == nil {
		if w, ok := defaultRoutes[routeKey(label)]; ok {
			return w
		}
		return WorkflowNone
	}
	if w, ok := rt.routes[routeKey(label)]; ok {
		return w
	}
	return WorkflowNone
}

// IsKnownWorkflow reports whether name is a workflow the router understands.
func IsKnownWorkflow(name string) bool {
	return knownWorkflows[Workflow(strings.ToLower(strings.TrimSpace(name)))]
}

func routeKey(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
