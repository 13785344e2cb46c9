package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "jobkit",
	Short: "Track application kits through your job search pipeline",
	Long: `jobkit tracks one application kit per job opportunity: which artifacts
(resume, AI interview, referral, cover video) are done, where the application
sits in the pipeline, and what to do next.

Kits move Saved -> Applied -> Interviewing -> Decision, and can be archived
from any stage. Next-step tasks can be added by hand or suggested from the
pending items of your kits.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("jobkit %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
