package cli

import (
	"fmt"
	"io"

	"github.com/valter-silva-au/jobkit/internal/core"
)

// PrintNavigator is the terminal's core.Navigator: it announces the workflow
// an action routes to. The workflows themselves live outside jobkit.
type PrintNavigator struct {
	Out io.Writer
}

// NewPrintNavigator returns a navigator writing to out.
func NewPrintNavigator(out io.Writer) *PrintNavigator {
	return &PrintNavigator{Out: out}
}

func (n *PrintNavigator) Navigate(actionLabel string, workflow core.Workflow) error {
	if workflow == core.WorkflowNone {
		_, err := fmt.Fprintf(n.Out, "%s: no workflow is registered for this action\n", actionLabel)
		return err
	}
	_, err := fmt.Fprintf(n.Out, "%s: opening %s workflow\n", actionLabel, workflow)
	return err
}
