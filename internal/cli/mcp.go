package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	kitmcp "github.com/valter-silva-au/jobkit/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the jobkit MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the jobkit MCP server on stdio",
	Long: `Start the jobkit MCP server on stdio transport.

The server exposes kits and next steps as MCP tools that AI assistants can
call: list_kits, get_kit, create_kit, update_kit_item, transition_kit,
bulk_apply, list_tasks, add_task, toggle_task, suggest_tasks, get_stats,
get_metrics, get_alerts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tracker == nil {
			return fmt.Errorf("tracker not initialized")
		}

		srv := kitmcp.NewServer(Tracker, MetricsCalc, AlertEngine, appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
