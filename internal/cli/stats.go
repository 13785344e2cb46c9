package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/jobkit/internal/core"
	"github.com/valter-silva-au/jobkit/pkg/models"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show summary counters for kits and tasks",
	Long: `Show how many kits sit in each pipeline status, average skill match and
progress, overdue and complete kits, and open versus completed tasks.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTracker(); err != nil {
			return err
		}
		snap := Tracker.GetStats()
		if statsJSON {
			return printJSON(snap)
		}

		fmt.Printf("Kits: %d\n\n", snap.TotalKits)
		for _, st := range models.AllStatuses {
			fmt.Printf("  %-16s %d\n", core.StatusLabel(st)+":", snap.ByStatus[st])
		}
		fmt.Println()
		fmt.Printf("  %-24s %.1f%%\n", "Average skill match:", snap.AverageSkillMatch)
		fmt.Printf("  %-24s %.1f%%\n", "Average progress:", snap.AverageProgress)
		fmt.Printf("  %-24s %d\n", "Complete kits:", snap.CompleteKits)
		fmt.Printf("  %-24s %d\n", "Overdue kits:", snap.OverdueKits)
		fmt.Println()
		fmt.Printf("  %-24s %d\n", "Pending tasks:", snap.PendingTasks)
		fmt.Printf("  %-24s %d\n", "Completed tasks:", snap.CompletedTasks)
		return nil
	},
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output stats as JSON")
	rootCmd.AddCommand(statsCmd)
}
