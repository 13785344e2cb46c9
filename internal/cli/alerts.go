package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/jobkit/internal/core"
	"github.com/valter-silva-au/jobkit/internal/observability"
)

var alertsNotify bool

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show active alerts and warnings",
	Long: `Evaluate alert conditions against your kits and tasks and display any
triggered alerts.

Alerts flag overdue kits, kits left in Saved or Applied without an update,
overdue tasks, and too many saved kits. With --notify the alerts are also
posted to the configured Slack webhook.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if AlertEngine == nil {
			return fmt.Errorf("alert engine not initialized")
		}
		if err := requireTracker(); err != nil {
			return err
		}

		alerts, err := evaluateAlerts()
		if err != nil {
			return err
		}

		if len(alerts) == 0 {
			fmt.Println("No active alerts.")
		} else {
			fmt.Printf("%d active alert(s):\n\n", len(alerts))
			for _, alert := range alerts {
				severity := strings.ToUpper(string(alert.Severity))
				fmt.Printf("  [%s] %s\n", severity, alert.Message)
				fmt.Printf("         triggered at %s\n\n", alert.TriggeredAt.Format("2006-01-02 15:04 UTC"))
			}
		}

		if alertsNotify {
			if Notifier == nil {
				return fmt.Errorf("notifier not configured (set notifications.enabled and notifications.slack.webhook_url)")
			}
			if err := Notifier.Notify(commandContext(cmd), alerts); err != nil {
				return fmt.Errorf("sending notification: %w", err)
			}
			if len(alerts) > 0 {
				fmt.Println("Notification sent.")
			}
		}

		return nil
	},
}

// evaluateAlerts runs the alert engine over the tracker's current kits and tasks.
func evaluateAlerts() ([]observability.Alert, error) {
	tasks, err := Tracker.ListTasks(core.SortCreated)
	if err != nil {
		return nil, fmt.Errorf("evaluating alerts: %w", err)
	}
	return AlertEngine.Evaluate(Tracker.AllKits(), tasks), nil
}

func init() {
	alertsCmd.Flags().BoolVar(&alertsNotify, "notify", false, "Send alerts to the configured Slack webhook")
	rootCmd.AddCommand(alertsCmd)
}
