// Package mcp provides an MCP (Model Context Protocol) server that exposes
// application kits and next steps as MCP tools for AI assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/valter-silva-au/jobkit/internal/core"
	"github.com/valter-silva-au/jobkit/internal/observability"
	"github.com/valter-silva-au/jobkit/pkg/models"
)

// Server wraps the tracker and exposes it as MCP tools.
type Server struct {
	server      *gomcp.Server
	tracker     core.Tracker
	metricsCalc observability.MetricsCalculator
	alertEngine observability.AlertEngine
	now         func() time.Time
}

// NewServer creates a new MCP server over tracker. metricsCalc and
// alertEngine may be nil if observability is disabled.
func NewServer(tracker core.Tracker, metricsCalc observability.MetricsCalculator, alertEngine observability.AlertEngine, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		tracker:     tracker,
		metricsCalc: metricsCalc,
		alertEngine: alertEngine,
		now:         func() time.Time { return time.Now().UTC() },
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "jobkit", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type kitOutput struct {
	ID             string   `json:"id"`
	Company        string   `json:"company"`
	Position       string   `json:"position"`
	Location       string   `json:"location,omitempty"`
	SkillMatch     int      `json:"skill_match"`
	Status         string   `json:"status"`
	Priority       string   `json:"priority"`
	Progress       int      `json:"progress"`
	CompletedItems []string `json:"completed_items"`
	PendingItems   []string `json:"pending_items"`
	Deadline       string   `json:"deadline,omitempty"`
	Overdue        bool     `json:"overdue"`
	JobURL         string   `json:"job_url,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	Created        string   `json:"created"`
	LastUpdated    string   `json:"last_updated"`
}

type listKitsInput struct {
	Status string `json:"status,omitempty" jsonschema:"status tab to list (saved, applied, interviewing, decision, archived); all kits when empty"`
	Query  string `json:"query,omitempty" jsonschema:"case-insensitive search on company or position"`
}

type listKitsOutput struct {
	Kits  []kitOutput `json:"kits"`
	Count int         `json:"count"`
}

type getKitInput struct {
	KitID string `json:"kit_id" jsonschema:"the kit id or a unique prefix of it"`
}

type createKitInput struct {
	Company    string   `json:"company" jsonschema:"company name"`
	Position   string   `json:"position" jsonschema:"position title"`
	Location   string   `json:"location,omitempty" jsonschema:"job location"`
	SkillMatch int      `json:"skill_match,omitempty" jsonschema:"skill match score from 0 to 100"`
	Priority   string   `json:"priority,omitempty" jsonschema:"high, medium or low (default medium)"`
	Deadline   string   `json:"deadline,omitempty" jsonschema:"application deadline as YYYY-MM-DD"`
	JobURL     string   `json:"job_url,omitempty" jsonschema:"job posting URL"`
	Notes      string   `json:"notes,omitempty" jsonschema:"free-form notes"`
	Items      []string `json:"items,omitempty" jsonschema:"kit items to track (resume, ai_interview, referral, cover_video); all when omitted"`
}

type updateKitItemInput struct {
	KitID     string `json:"kit_id" jsonschema:"the kit id or a unique prefix of it"`
	Item      string `json:"item" jsonschema:"resume, ai_interview, referral or cover_video"`
	Completed *bool  `json:"completed,omitempty" jsonschema:"true marks the item completed, false marks it pending (default true)"`
}

type transitionKitInput struct {
	KitID  string `json:"kit_id" jsonschema:"the kit id or a unique prefix of it"`
	Status string `json:"status" jsonschema:"the target status (applied, interviewing, decision, archived)"`
}

type bulkApplyInput struct {
	Action string   `json:"action" jsonschema:"archive or delete"`
	KitIDs []string `json:"kit_ids" jsonschema:"the kits to act on"`
}

type bulkFailureOutput struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

type bulkApplyOutput struct {
	Action    string              `json:"action"`
	Succeeded []string            `json:"succeeded"`
	Failed    []bulkFailureOutput `json:"failed"`
}

type taskOutput struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	ActionLabel string `json:"action_label,omitempty"`
	Priority    string `json:"priority"`
	Completed   bool   `json:"completed"`
	DueDate     string `json:"due_date,omitempty"`
	KitID       string `json:"kit_id,omitempty"`
	Created     string `json:"created"`
}

type listTasksInput struct {
	Sort string `json:"sort,omitempty" jsonschema:"sort order: default, due, priority or created"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type addTaskInput struct {
	Description string `json:"description" jsonschema:"what needs to be done"`
	ActionLabel string `json:"action_label,omitempty" jsonschema:"the action that completes the task, e.g. Take AI Interview"`
	Priority    string `json:"priority,omitempty" jsonschema:"high, medium or low (default medium)"`
	DueDate     string `json:"due_date,omitempty" jsonschema:"due date as YYYY-MM-DD"`
	KitID       string `json:"kit_id,omitempty" jsonschema:"related kit id"`
}

type toggleTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"the task id or a unique prefix of it"`
}

type suggestTasksInput struct{}

type getStatsInput struct{}

type statsOutput struct {
	TotalKits         int            `json:"total_kits"`
	ByStatus          map[string]int `json:"by_status"`
	AverageSkillMatch float64        `json:"average_skill_match"`
	AverageProgress   float64        `json:"average_progress"`
	OverdueKits       int            `json:"overdue_kits"`
	CompleteKits      int            `json:"complete_kits"`
	PendingTasks      int            `json:"pending_tasks"`
	CompletedTasks    int            `json:"completed_tasks"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type metricsOutput struct {
	KitsCreated    int            `json:"kits_created"`
	KitsDeleted    int            `json:"kits_deleted"`
	StatusChanges  map[string]int `json:"status_changes"`
	ItemsCompleted int            `json:"items_completed"`
	ItemsReopened  int            `json:"items_reopened"`
	TasksCreated   int            `json:"tasks_created"`
	TasksSuggested int            `json:"tasks_suggested"`
	TasksCompleted int            `json:"tasks_completed"`
	BulkOperations int            `json:"bulk_operations"`
	BulkFailures   int            `json:"bulk_failures"`
	EventCount     int            `json:"event_count"`
	OldestEvent    string         `json:"oldest_event,omitempty"`
	NewestEvent    string         `json:"newest_event,omitempty"`
}

type getAlertsInput struct{}

type alertOutput struct {
	ID          string `json:"id"`
	Condition   string `json:"condition"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	TriggeredAt string `json:"triggered_at"`
}

type getAlertsOutput struct {
	Alerts []alertOutput `json:"alerts"`
	Count  int           `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_kits",
		Description: "List application kits in a status tab, optionally filtered by a search on company or position.",
	}, s.handleListKits)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_kit",
		Description: "Get an application kit by id, including progress and completed and pending items.",
	}, s.handleGetKit)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "create_kit",
		Description: "Create an application kit in the Saved stage with every item pending.",
	}, s.handleCreateKit)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "update_kit_item",
		Description: "Mark one kit item completed or pending. Progress is recomputed.",
	}, s.handleUpdateKitItem)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "transition_kit",
		Description: "Move a kit along the pipeline (saved -> applied -> interviewing -> decision, or archived from any stage).",
	}, s.handleTransitionKit)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "bulk_apply",
		Description: "Archive or delete several kits. Each kit succeeds or fails independently.",
	}, s.handleBulkApply)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List next-step tasks, open tasks first by priority and due date unless another sort is given.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_task",
		Description: "Add a next-step task.",
	}, s.handleAddTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "toggle_task",
		Description: "Flip a next-step task between open and completed.",
	}, s.handleToggleTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "suggest_tasks",
		Description: "Add a next-step task for each pending item of every kit that is not archived, skipping existing ones.",
	}, s.handleSuggestTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_stats",
		Description: "Get summary counters: kits per status, average skill match and progress, overdue kits and task counts.",
	}, s.handleGetStats)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get activity metrics from the event log: kits created, pipeline moves, items and tasks completed.",
	}, s.handleGetMetrics)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_alerts",
		Description: "Evaluate and return active alerts (overdue kits and tasks, stale kits, too many saved kits).",
	}, s.handleGetAlerts)
}

// --- Tool handlers ---

func (s *Server) handleListKits(_ context.Context, _ *gomcp.CallToolRequest, input listKitsInput) (*gomcp.CallToolResult, listKitsOutput, error) {
	var kits []*models.ApplicationKit
	if input.Status == "" {
		all := s.tracker.AllKits()
		if input.Query == "" {
			kits = all
		} else {
			for _, st := range models.AllStatuses {
				kits = append(kits, core.FilterKits(all, st, input.Query)...)
			}
		}
	} else {
		status, err := core.ParseKitStatus(input.Status)
		if err != nil {
			return errorResult(err.Error()), listKitsOutput{}, nil
		}
		kits = s.tracker.ListKits(status, input.Query)
	}

	now := s.now()
	out := listKitsOutput{
		Kits:  make([]kitOutput, len(kits)),
		Count: len(kits),
	}
	for i, k := range kits {
		out.Kits[i] = kitToOutput(k, now)
	}
	return nil, out, nil
}

func (s *Server) handleGetKit(_ context.Context, _ *gomcp.CallToolRequest, input getKitInput) (*gomcp.CallToolResult, kitOutput, error) {
	if input.KitID == "" {
		return errorResult("kit_id is required"), kitOutput{}, nil
	}
	id, err := s.tracker.ResolveKitID(input.KitID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting kit %s: %s", input.KitID, err)), kitOutput{}, nil
	}
	kit, err := s.tracker.GetKit(id)
	if err != nil {
		return errorResult(fmt.Sprintf("getting kit %s: %s", input.KitID, err)), kitOutput{}, nil
	}
	return nil, kitToOutput(kit, s.now()), nil
}

func (s *Server) handleCreateKit(_ context.Context, _ *gomcp.CallToolRequest, input createKitInput) (*gomcp.CallToolResult, kitOutput, error) {
	req := core.CreateKitRequest{
		Company:    input.Company,
		Position:   input.Position,
		Location:   input.Location,
		SkillMatch: input.SkillMatch,
		JobURL:     input.JobURL,
		Notes:      input.Notes,
	}
	if input.Priority != "" {
		p, err := core.ParsePriority(input.Priority)
		if err != nil {
			return errorResult(err.Error()), kitOutput{}, nil
		}
		req.Priority = p
	}
	deadline, err := parseDate(input.Deadline)
	if err != nil {
		return errorResult(err.Error()), kitOutput{}, nil
	}
	req.Deadline = deadline
	if input.Items != nil {
		req.Items = make([]models.KitItemType, 0, len(input.Items))
		for _, name := range input.Items {
			it, err := core.ParseKitItemType(name)
			if err != nil {
				return errorResult(err.Error()), kitOutput{}, nil
			}
			req.Items = append(req.Items, it)
		}
	}

	kit, err := s.tracker.CreateKit(req)
	if err != nil {
		return errorResult(fmt.Sprintf("creating kit: %s", err)), kitOutput{}, nil
	}
	return nil, kitToOutput(kit, s.now()), nil
}

func (s *Server) handleUpdateKitItem(_ context.Context, _ *gomcp.CallToolRequest, input updateKitItemInput) (*gomcp.CallToolResult, kitOutput, error) {
	if input.KitID == "" {
		return errorResult("kit_id is required"), kitOutput{}, nil
	}
	item, err := core.ParseKitItemType(input.Item)
	if err != nil {
		return errorResult(err.Error()), kitOutput{}, nil
	}
	id, err := s.tracker.ResolveKitID(input.KitID)
	if err != nil {
		return errorResult(fmt.Sprintf("updating kit %s: %s", input.KitID, err)), kitOutput{}, nil
	}
	completed := true
	if input.Completed != nil {
		completed = *input.Completed
	}

	kit, err := s.tracker.UpdateKitItems(id, item, completed)
	if err != nil {
		return errorResult(fmt.Sprintf("updating kit %s: %s", input.KitID, err)), kitOutput{}, nil
	}
	return nil, kitToOutput(kit, s.now()), nil
}

func (s *Server) handleTransitionKit(_ context.Context, _ *gomcp.CallToolRequest, input transitionKitInput) (*gomcp.CallToolResult, kitOutput, error) {
	if input.KitID == "" {
		return errorResult("kit_id is required"), kitOutput{}, nil
	}
	if input.Status == "" {
		return errorResult("status is required"), kitOutput{}, nil
	}
	to, err := core.ParseKitStatus(input.Status)
	if err != nil {
		return errorResult(err.Error()), kitOutput{}, nil
	}
	id, err := s.tracker.ResolveKitID(input.KitID)
	if err != nil {
		return errorResult(fmt.Sprintf("moving kit %s: %s", input.KitID, err)), kitOutput{}, nil
	}

	kit, err := s.tracker.TransitionStatus(id, to)
	if err != nil {
		return errorResult(fmt.Sprintf("moving kit %s: %s", input.KitID, err)), kitOutput{}, nil
	}
	return nil, kitToOutput(kit, s.now()), nil
}

func (s *Server) handleBulkApply(_ context.Context, _ *gomcp.CallToolRequest, input bulkApplyInput) (*gomcp.CallToolResult, bulkApplyOutput, error) {
	action, err := core.ParseBulkAction(input.Action)
	if err != nil {
		return errorResult(err.Error()), bulkApplyOutput{}, nil
	}

	result, err := s.tracker.BulkApply(action, input.KitIDs)
	if err != nil {
		return errorResult(fmt.Sprintf("applying %s: %s", action, err)), bulkApplyOutput{}, nil
	}

	out := bulkApplyOutput{
		Action:    string(result.Action),
		Succeeded: result.Succeeded,
		Failed:    make([]bulkFailureOutput, len(result.Failed)),
	}
	if out.Succeeded == nil {
		out.Succeeded = []string{}
	}
	for i, f := range result.Failed {
		out.Failed[i] = bulkFailureOutput{ID: f.ID, Error: f.Err.Error()}
	}
	return nil, out, nil
}

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	sortBy, err := core.ParseTaskSort(input.Sort)
	if err != nil {
		return errorResult(err.Error()), listTasksOutput{}, nil
	}
	tasks, err := s.tracker.ListTasks(sortBy)
	if err != nil {
		return errorResult(fmt.Sprintf("listing tasks: %s", err)), listTasksOutput{}, nil
	}

	out := listTasksOutput{
		Tasks: make([]taskOutput, len(tasks)),
		Count: len(tasks),
	}
	for i, t := range tasks {
		out.Tasks[i] = taskToOutput(t)
	}
	return nil, out, nil
}

func (s *Server) handleAddTask(_ context.Context, _ *gomcp.CallToolRequest, input addTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	req := core.NewTaskRequest{
		Description: input.Description,
		ActionLabel: input.ActionLabel,
		KitID:       input.KitID,
	}
	if input.Priority != "" {
		p, err := core.ParsePriority(input.Priority)
		if err != nil {
			return errorResult(err.Error()), taskOutput{}, nil
		}
		req.Priority = p
	}
	due, err := parseDate(input.DueDate)
	if err != nil {
		return errorResult(err.Error()), taskOutput{}, nil
	}
	req.DueDate = due

	task, err := s.tracker.AddTask(req)
	if err != nil {
		return errorResult(fmt.Sprintf("adding task: %s", err)), taskOutput{}, nil
	}
	return nil, taskToOutput(task), nil
}

func (s *Server) handleToggleTask(_ context.Context, _ *gomcp.CallToolRequest, input toggleTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), taskOutput{}, nil
	}
	id, err := s.tracker.ResolveTaskID(input.TaskID)
	if err != nil {
		return errorResult(fmt.Sprintf("toggling task %s: %s", input.TaskID, err)), taskOutput{}, nil
	}
	task, err := s.tracker.ToggleTask(id)
	if err != nil {
		return errorResult(fmt.Sprintf("toggling task %s: %s", input.TaskID, err)), taskOutput{}, nil
	}
	return nil, taskToOutput(task), nil
}

func (s *Server) handleSuggestTasks(_ context.Context, _ *gomcp.CallToolRequest, _ suggestTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	added, err := s.tracker.SuggestTasks()
	if err != nil {
		return errorResult(fmt.Sprintf("suggesting tasks: %s", err)), listTasksOutput{}, nil
	}
	out := listTasksOutput{
		Tasks: make([]taskOutput, len(added)),
		Count: len(added),
	}
	for i, t := range added {
		out.Tasks[i] = taskToOutput(t)
	}
	return nil, out, nil
}

func (s *Server) handleGetStats(_ context.Context, _ *gomcp.CallToolRequest, _ getStatsInput) (*gomcp.CallToolResult, statsOutput, error) {
	snap := s.tracker.GetStats()
	out := statsOutput{
		TotalKits:         snap.TotalKits,
		ByStatus:          make(map[string]int, len(snap.ByStatus)),
		AverageSkillMatch: snap.AverageSkillMatch,
		AverageProgress:   snap.AverageProgress,
		OverdueKits:       snap.OverdueKits,
		CompleteKits:      snap.CompleteKits,
		PendingTasks:      snap.PendingTasks,
		CompletedTasks:    snap.CompletedTasks,
	}
	for st, n := range snap.ByStatus {
		out.ByStatus[string(st)] = n
	}
	return nil, out, nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (observability may be disabled)"), emptyMetricsOutput(), nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}

	sinceTime, err := parseSince(sinceStr, s.now())
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), emptyMetricsOutput(), nil
	}

	metrics, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), emptyMetricsOutput(), nil
	}

	out := metricsOutput{
		KitsCreated:    metrics.KitsCreated,
		KitsDeleted:    metrics.KitsDeleted,
		StatusChanges:  metrics.StatusChanges,
		ItemsCompleted: metrics.ItemsCompleted,
		ItemsReopened:  metrics.ItemsReopened,
		TasksCreated:   metrics.TasksCreated,
		TasksSuggested: metrics.TasksSuggested,
		TasksCompleted: metrics.TasksCompleted,
		BulkOperations: metrics.BulkOperations,
		BulkFailures:   metrics.BulkFailures,
		EventCount:     metrics.EventCount,
	}
	if out.StatusChanges == nil {
		out.StatusChanges = make(map[string]int)
	}
	if metrics.OldestEvent != nil {
		out.OldestEvent = metrics.OldestEvent.Format(time.RFC3339)
	}
	if metrics.NewestEvent != nil {
		out.NewestEvent = metrics.NewestEvent.Format(time.RFC3339)
	}

	return nil, out, nil
}

func (s *Server) handleGetAlerts(_ context.Context, _ *gomcp.CallToolRequest, _ getAlertsInput) (*gomcp.CallToolResult, getAlertsOutput, error) {
	if s.alertEngine == nil {
		return errorResult("alert engine not available (observability may be disabled)"), getAlertsOutput{}, nil
	}

	tasks, err := s.tracker.ListTasks(core.SortCreated)
	if err != nil {
		return errorResult(fmt.Sprintf("evaluating alerts: %s", err)), getAlertsOutput{}, nil
	}
	alerts := s.alertEngine.Evaluate(s.tracker.AllKits(), tasks)

	out := getAlertsOutput{
		Alerts: make([]alertOutput, len(alerts)),
		Count:  len(alerts),
	}
	for i, a := range alerts {
		out.Alerts[i] = alertOutput{
			ID:          a.ID,
			Condition:   a.Condition,
			Severity:    string(a.Severity),
			Message:     a.Message,
			TriggeredAt: a.TriggeredAt.Format(time.RFC3339),
		}
	}

	return nil, out, nil
}

// --- Helpers ---

func kitToOutput(k *models.ApplicationKit, now time.Time) kitOutput {
	out := kitOutput{
		ID:             k.ID,
		Company:        k.Company,
		Position:       k.Position,
		Location:       k.Location,
		SkillMatch:     k.SkillMatch,
		Status:         string(k.Status),
		Priority:       string(k.Priority),
		Progress:       core.ComputeProgress(k),
		CompletedItems: itemNames(core.CompletedItems(k)),
		PendingItems:   itemNames(core.PendingItems(k)),
		Overdue:        core.IsOverdue(k, now),
		JobURL:         k.JobURL,
		Notes:          k.Notes,
		Created:        k.Created.Format(time.RFC3339),
		LastUpdated:    k.LastUpdated.Format(time.RFC3339),
	}
	if k.Deadline != nil {
		out.Deadline = k.Deadline.Format("2006-01-02")
	}
	return out
}

func itemNames(items []models.KitItemType) []string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = string(it)
	}
	return names
}

func taskToOutput(t *models.NextStepTask) taskOutput {
	out := taskOutput{
		ID:          t.ID,
		Description: t.Description,
		ActionLabel: t.ActionLabel,
		Priority:    string(t.Priority),
		Completed:   t.Completed,
		KitID:       t.KitID,
		Created:     t.Created.Format(time.RFC3339),
	}
	if t.DueDate != nil {
		out.DueDate = t.DueDate.Format("2006-01-02")
	}
	return out
}

func emptyMetricsOutput() metricsOutput {
	return metricsOutput{
		StatusChanges: make(map[string]int),
	}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// parseDate parses an optional YYYY-MM-DD date.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return &t, nil
}

// parseSince parses a human-friendly duration string like "7d", "30d", or "24h"
// into the corresponding time before now.
func parseSince(s string, now time.Time) (time.Time, error) {
	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]
	var num int
	if _, err := fmt.Sscanf(numStr, "%d", &num); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
