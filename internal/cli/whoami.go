package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the configured profile",
	Long:  `Show the display name and email configured under profile in .jobkitconfig.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTracker(); err != nil {
			return err
		}
		p := Tracker.Profile()
		if p.DisplayName == "" && p.Email == "" {
			fmt.Println("No profile configured (set profile.display_name in .jobkitconfig).")
			return nil
		}
		name := p.DisplayName
		if name == "" {
			name = "(no name)"
		}
		if p.Email != "" {
			fmt.Printf("%s <%s>\n", name, p.Email)
		} else {
			fmt.Println(name)
		}
		if p.Avatar != "" {
			fmt.Printf("avatar: %s\n", p.Avatar)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
