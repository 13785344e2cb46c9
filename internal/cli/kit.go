package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/jobkit/internal/core"
	"github.com/valter-silva-au/jobkit/pkg/models"
)

var kitCmd = &cobra.Command{
	Use:   "kit",
	Short: "Manage application kits (list, create, show, update, move, delete)",
	Long: `Manage application kits.

A kit tracks one job application: the company and position, its pipeline
status, and which kit items (resume, AI interview, referral, cover video)
are done. Progress is derived from the items and is never set directly.`,
}

// --- kit list ---

var (
	kitListStatus string
	kitListQuery  string
	kitListAll    bool
	kitListJSON   bool
)

var kitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List kits in a status tab",
	Long: `List the kits in one status tab, optionally narrowed by a case-insensitive
search on company or position. Without --status the configured default tab
is used. Use --all to list every kit regardless of status.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTracker(); err != nil {
			return err
		}

		var kits []*models.ApplicationKit
		if kitListAll {
			kits = Tracker.AllKits()
			if q := strings.TrimSpace(kitListQuery); q != "" {
				var matched []*models.ApplicationKit
				for _, st := range models.AllStatuses {
					matched = append(matched, core.FilterKits(kits, st, q)...)
				}
				kits = matched
			}
		} else {
			tab, err := listTab(kitListStatus)
			if err != nil {
				return err
			}
			kits = Tracker.ListKits(tab, kitListQuery)
		}

		if kitListJSON {
			return printJSON(kits)
		}
		printKitTable(kits, time.Now().UTC())
		return nil
	},
}

func listTab(flag string) (models.KitStatus, error) {
	if strings.TrimSpace(flag) == "" {
		if Config != nil && Config.DefaultTab != "" {
			return Config.DefaultTab, nil
		}
		return models.StatusApplied, nil
	}
	return core.ParseKitStatus(flag)
}

func printKitTable(kits []*models.ApplicationKit, now time.Time) {
	if len(kits) == 0 {
		fmt.Println("No kits found.")
		return
	}
	fmt.Printf("%-8s  %-20s  %-24s  %-12s  %-4s  %-6s  %s\n", "ID", "COMPANY", "POSITION", "STATUS", "PROG", "PRI", "DEADLINE")
	for _, kit := range kits {
		deadline := formatDate(kit.Deadline)
		if core.IsOverdue(kit, now) {
			deadline += " (overdue)"
		}
		fmt.Printf("%-8s  %-20s  %-24s  %-12s  %3d%%  %-6s  %s\n",
			shortID(kit.ID),
			truncate(kit.Company, 20),
			truncate(kit.Position, 24),
			core.StatusLabel(kit.Status),
			core.ComputeProgress(kit),
			kit.Priority,
			deadline,
		)
	}
}

// --- kit create ---

var (
	kitCompany    string
	kitPosition   string
	kitLocation   string
	kitSkillMatch int
	kitPriority   string
	kitDeadline   string
	kitURL        string
	kitNotes      string
	kitItems      []string
)

var kitCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Start a new application kit",
	Long: `Create a kit in the Saved stage with every selected item pending.

--items restricts the kit to a subset of the catalog (resume, ai_interview,
referral, cover_video); by default the kit tracks all of them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTracker(); err != nil {
			return err
		}

		req := core.CreateKitRequest{
			Company:    kitCompany,
			Position:   kitPosition,
			Location:   kitLocation,
			SkillMatch: kitSkillMatch,
			JobURL:     kitURL,
			Notes:      kitNotes,
		}

		switch {
		case kitPriority != "":
			p, err := core.ParsePriority(kitPriority)
			if err != nil {
				return err
			}
			req.Priority = p
		case Config != nil:
			req.Priority = Config.DefaultPriority
		}

		deadline, err := parseDate(kitDeadline)
		if err != nil {
			return err
		}
		req.Deadline = deadline

		if cmd.Flags().Changed("items") {
			req.Items = make([]models.KitItemType, 0, len(kitItems))
			for _, name := range kitItems {
				it, err := core.ParseKitItemType(name)
				if err != nil {
					return err
				}
				req.Items = append(req.Items, it)
			}
		}

		kit, err := Tracker.CreateKit(req)
		if err != nil {
			return fmt.Errorf("creating kit: %w", err)
		}

		fmt.Printf("Created kit %s\n", shortID(kit.ID))
		printKitDetail(kit, time.Now().UTC())
		return nil
	},
}

// --- kit show ---

var kitShowJSON bool

var kitShowCmd = &cobra.Command{
	Use:   "show <kit-id>",
	Short: "Show a kit's details, items and allowed moves",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTracker(); err != nil {
			return err
		}
		id, err := resolveKit(args[0])
		if err != nil {
			return err
		}
		kit, err := Tracker.GetKit(id)
		if err != nil {
			return fmt.Errorf("getting kit: %w", err)
		}
		if kitShowJSON {
			return printJSON(kit)
		}
		printKitDetail(kit, time.Now().UTC())
		return nil
	},
}

func printKitDetail(kit *models.ApplicationKit, now time.Time) {
	fmt.Printf("  ID:          %s\n", kit.ID)
	fmt.Printf("  Company:     %s\n", kit.Company)
	fmt.Printf("  Position:    %s\n", kit.Position)
	if kit.Location != "" {
		fmt.Printf("  Location:    %s\n", kit.Location)
	}
	fmt.Printf("  Skill match: %d%%\n", kit.SkillMatch)
	fmt.Printf("  Status:      %s\n", core.StatusLabel(kit.Status))
	fmt.Printf("  Priority:    %s\n", kit.Priority)
	if kit.Deadline != nil {
		overdue := ""
		if core.IsOverdue(kit, now) {
			overdue = " (overdue)"
		}
		fmt.Printf("  Deadline:    %s%s\n", formatDate(kit.Deadline), overdue)
	}
	pct := core.ComputeProgress(kit)
	fmt.Printf("  Progress:    %s %d%%\n", progressBar(pct, 20), pct)
	fmt.Printf("  Items:       %s\n", itemSummary(kit))
	if kit.JobURL != "" {
		fmt.Printf("  URL:         %s\n", kit.JobURL)
	}
	if kit.Notes != "" {
		fmt.Printf("  Notes:       %s\n", kit.Notes)
	}
	if next := core.AllowedTransitions(kit.Status); len(next) > 0 {
		names := make([]string, len(next))
		for i, s := range next {
			names[i] = string(s)
		}
		fmt.Printf("  Can move to: %s\n", strings.Join(names, ", "))
	}
	fmt.Printf("  Updated:     %s\n", kit.LastUpdated.Format(time.RFC3339))
}

// --- kit update ---

var kitClearDeadline bool

var kitUpdateCmd = &cobra.Command{
	Use:   "update <kit-id>",
	Short: "Edit a kit's descriptive fields",
	Long: `Edit the fields given as flags and leave the rest unchanged. Use
'kit move' to change the pipeline status and 'kit item' to mark items.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTracker(); err != nil {
			return err
		}
		id, err := resolveKit(args[0])
		if err != nil {
			return err
		}

		patch, err := kitPatchFromFlags(cmd)
		if err != nil {
			return err
		}

		kit, err := Tracker.UpdateKit(id, patch)
		if err != nil {
			return fmt.Errorf("updating kit: %w", err)
		}
		fmt.Printf("Updated kit %s\n", shortID(kit.ID))
		printKitDetail(kit, time.Now().UTC())
		return nil
	},
}

func kitPatchFromFlags(cmd *cobra.Command) (core.KitPatch, error) {
	var patch core.KitPatch
	flags := cmd.Flags()
	if flags.Changed("company") {
		patch.Company = &kitCompany
	}
	if flags.Changed("position") {
		patch.Position = &kitPosition
	}
	if flags.Changed("location") {
		patch.Location = &kitLocation
	}
	if flags.Changed("skill-match") {
		patch.SkillMatch = &kitSkillMatch
	}
	if flags.Changed("priority") {
		p, err := core.ParsePriority(kitPriority)
		if err != nil {
			return patch, err
		}
		patch.Priority = &p
	}
	if flags.Changed("deadline") {
		d, err := parseDate(kitDeadline)
		if err != nil {
			return patch, err
		}
		patch.Deadline = d
		patch.ClearDeadline = d == nil
	}
	if kitClearDeadline {
		patch.ClearDeadline = true
	}
	if flags.Changed("url") {
		patch.JobURL = &kitURL
	}
	if flags.Changed("notes") {
		patch.Notes = &kitNotes
	}
	return patch, nil
}

// --- kit item ---

var kitItemPending bool

var kitItemCmd = &cobra.Command{
	Use:   "item <kit-id> <item>",
	Short: "Mark a kit item completed (or pending with --pending)",
	Long: `Mark one kit item as completed, or as pending again with --pending.
Items: resume, ai_interview, referral, cover_video (labels such as
"AI Interview" are accepted too). Progress is recomputed automatically.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTracker(); err != nil {
			return err
		}
		id, err := resolveKit(args[0])
		if err != nil {
			return err
		}
		item, err := core.ParseKitItemType(args[1])
		if err != nil {
			return err
		}

		kit, err := Tracker.UpdateKitItems(id, item, !kitItemPending)
		if err != nil {
			return fmt.Errorf("updating kit item: %w", err)
		}

		state := "completed"
		if kitItemPending {
			state = "pending"
		}
		fmt.Printf("%s marked %s on %s (%d%% complete)\n",
			core.ItemLabel(item), state, shortID(kit.ID), core.ComputeProgress(kit))
		return nil
	},
}

// --- kit move ---

var kitMoveCmd = &cobra.Command{
	Use:   "move <kit-id> <status>",
	Short: "Move a kit along the pipeline",
	Long: `Move a kit to another pipeline status. Kits advance one stage at a time
(saved -> applied -> interviewing -> decision) and may be archived from any
stage. Archived kits cannot be moved.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTracker(); err != nil {
			return err
		}
		id, err := resolveKit(args[0])
		if err != nil {
			return err
		}
		to, err := core.ParseKitStatus(args[1])
		if err != nil {
			return err
		}

		kit, err := Tracker.TransitionStatus(id, to)
		if err != nil {
			if errors.Is(err, core.ErrInvalidTransition) {
				return fmt.Errorf("moving kit: %w (allowed: %s)", err, allowedList(id))
			}
			return fmt.Errorf("moving kit: %w", err)
		}
		fmt.Printf("Moved %s to %s\n", shortID(kit.ID), core.StatusLabel(kit.Status))
		return nil
	},
}

func allowedList(id string) string {
	kit, err := Tracker.GetKit(id)
	if err != nil {
		return "none"
	}
	next := core.AllowedTransitions(kit.Status)
	if len(next) == 0 {
		return "none"
	}
	names := make([]string, len(next))
	for i, s := range next {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// --- kit delete ---

var kitDeleteCmd = &cobra.Command{
	Use:   "delete <kit-id>",
	Short: "Delete a kit permanently",
	Long:  `Delete a kit. Unlike archiving, deletion removes the record entirely.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTracker(); err != nil {
			return err
		}
		id, err := resolveKit(args[0])
		if err != nil {
			return err
		}
		if err := Tracker.DeleteKit(id); err != nil {
			return fmt.Errorf("deleting kit: %w", err)
		}
		fmt.Printf("Deleted kit %s\n", shortID(id))
		return nil
	},
}

// --- kit bulk ---

var (
	kitBulkStatus string
	kitBulkQuery  string
	kitBulkAll    bool
)

var kitBulkCmd = &cobra.Command{
	Use:   "bulk <archive|delete> [kit-id...]",
	Short: "Archive or delete several kits at once",
	Long: `Apply archive or delete to each listed kit. With --all, every kit in the
view selected by --status and --query is used instead.

Each kit is processed independently: a kit that cannot be archived or no
longer exists is reported as failed and the rest still complete.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTracker(); err != nil {
			return err
		}
		action, err := core.ParseBulkAction(args[0])
		if err != nil {
			return err
		}

		var result core.BulkResult
		if kitBulkAll {
			if len(args) > 1 {
				return fmt.Errorf("--all cannot be combined with explicit kit ids")
			}
			tab, err := listTab(kitBulkStatus)
			if err != nil {
				return err
			}
			sel := core.NewSelection(Tracker.ListKits(tab, kitBulkQuery))
			sel.SelectAll()
			result, err = Tracker.BulkApplySelection(action, sel)
			if err != nil {
				return fmt.Errorf("applying %s: %w", action, err)
			}
		} else {
			if len(args) < 2 {
				return fmt.Errorf("no kit ids given (or use --all)")
			}
			ids := make([]string, 0, len(args)-1)
			for _, prefix := range args[1:] {
				// Unresolvable ids are passed through so they are reported as failed.
				if id, err := Tracker.ResolveKitID(prefix); err == nil {
					ids = append(ids, id)
				} else {
					ids = append(ids, prefix)
				}
			}
			result, err = Tracker.BulkApply(action, ids)
			if err != nil {
				return fmt.Errorf("applying %s: %w", action, err)
			}
		}

		printBulkResult(result)
		if len(result.Failed) > 0 && len(result.Succeeded) == 0 {
			return fmt.Errorf("%s failed for every kit", action)
		}
		return nil
	},
}

func printBulkResult(result core.BulkResult) {
	fmt.Printf("%s: %d succeeded, %d failed\n", result.Action, len(result.Succeeded), len(result.Failed))
	for _, id := range result.Succeeded {
		fmt.Printf("  ok    %s\n", shortID(id))
	}
	for _, f := range result.Failed {
		fmt.Printf("  fail  %s: %v\n", shortID(f.ID), f.Err)
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("formatting JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func addKitFieldFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&kitCompany, "company", "", "Company name")
	cmd.Flags().StringVar(&kitPosition, "position", "", "Position title")
	cmd.Flags().StringVar(&kitLocation, "location", "", "Job location")
	cmd.Flags().IntVar(&kitSkillMatch, "skill-match", 0, "Skill match score (0-100)")
	cmd.Flags().StringVar(&kitPriority, "priority", "", "Priority (high, medium, low)")
	cmd.Flags().StringVar(&kitDeadline, "deadline", "", "Application deadline (YYYY-MM-DD)")
	cmd.Flags().StringVar(&kitURL, "url", "", "Job posting URL")
	cmd.Flags().StringVar(&kitNotes, "notes", "", "Free-form notes")
	_ = cmd.RegisterFlagCompletionFunc("priority", completePriorities)
}

func init() {
	kitListCmd.Flags().StringVarP(&kitListStatus, "status", "s", "", "Status tab to list (saved, applied, interviewing, decision, archived)")
	kitListCmd.Flags().StringVarP(&kitListQuery, "query", "q", "", "Search company or position")
	kitListCmd.Flags().BoolVar(&kitListAll, "all", false, "List kits in every status")
	kitListCmd.Flags().BoolVar(&kitListJSON, "json", false, "Output kits as JSON")
	_ = kitListCmd.RegisterFlagCompletionFunc("status", completeStatuses)

	addKitFieldFlags(kitCreateCmd)
	kitCreateCmd.Flags().StringSliceVar(&kitItems, "items", nil, "Kit items to track (default: all)")
	_ = kitCreateCmd.MarkFlagRequired("company")
	_ = kitCreateCmd.MarkFlagRequired("position")

	kitShowCmd.Flags().BoolVar(&kitShowJSON, "json", false, "Output the kit as JSON")

	addKitFieldFlags(kitUpdateCmd)
	kitUpdateCmd.Flags().BoolVar(&kitClearDeadline, "clear-deadline", false, "Remove the deadline")

	kitItemCmd.Flags().BoolVar(&kitItemPending, "pending", false, "Mark the item pending instead of completed")

	kitBulkCmd.Flags().StringVarP(&kitBulkStatus, "status", "s", "", "Status tab used with --all")
	kitBulkCmd.Flags().StringVarP(&kitBulkQuery, "query", "q", "", "Search filter used with --all")
	kitBulkCmd.Flags().BoolVar(&kitBulkAll, "all", false, "Apply to every kit in the filtered view")

	kitCmd.AddCommand(kitListCmd)
	kitCmd.AddCommand(kitCreateCmd)
	kitCmd.AddCommand(kitShowCmd)
	kitCmd.AddCommand(kitUpdateCmd)
	kitCmd.AddCommand(kitItemCmd)
	kitCmd.AddCommand(kitMoveCmd)
	kitCmd.AddCommand(kitDeleteCmd)
	kitCmd.AddCommand(kitBulkCmd)
	rootCmd.AddCommand(kitCmd)
}
