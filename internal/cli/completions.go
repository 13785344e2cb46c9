package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/jobkit/internal/core"
	"github.com/valter-silva-au/jobkit/pkg/models"
)

// completeKitIDs returns a completion function that lists kit IDs,
// optionally filtered to exclude certain statuses.
func completeKitIDs(excludeStatuses ...models.KitStatus) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if Tracker == nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		exclude := make(map[models.KitStatus]bool)
		for _, s := range excludeStatuses {
			exclude[s] = true
		}

		var ids []string
		for _, kit := range Tracker.AllKits() {
			if exclude[kit.Status] {
				continue
			}
			if toComplete == "" || strings.HasPrefix(kit.ID, toComplete) {
				// Company and position as description for better UX.
				ids = append(ids, kit.ID+"\t"+kit.Company+": "+kit.Position)
			}
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeTaskIDs lists next-step task IDs with their descriptions.
func completeTaskIDs(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if Tracker == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	tasks, err := Tracker.ListTasks(core.SortCreated)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var ids []string
	for _, task := range tasks {
		if toComplete == "" || strings.HasPrefix(task.ID, toComplete) {
			ids = append(ids, task.ID+"\t"+truncate(task.Description, 40))
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

// completeStatuses returns the pipeline statuses for shell completion.
func completeStatuses(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, len(models.AllStatuses))
	for i, s := range models.AllStatuses {
		names[i] = string(s)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func completePriorities(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{
		"high\tApply first",
		"medium\tDefault",
		"low\tWhen there is time",
	}, cobra.ShellCompDirectiveNoFileComp
}

// completeItemTypes lists the catalog item types with their labels.
func completeItemTypes(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	var items []string
	for _, e := range core.Catalog() {
		items = append(items, string(e.Type)+"\t"+e.Label)
	}
	return items, cobra.ShellCompDirectiveNoFileComp
}

// completeKitThen completes a kit ID as the first argument and defers to
// next for the second.
func completeKitThen(next func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective), excludeStatuses ...models.KitStatus) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	kits := completeKitIDs(excludeStatuses...)
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		switch len(args) {
		case 0:
			return kits(cmd, args, toComplete)
		case 1:
			return next(cmd, args, toComplete)
		default:
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
	}
}

func init() {
	kitShowCmd.ValidArgsFunction = completeKitIDs()
	kitUpdateCmd.ValidArgsFunction = completeKitIDs()
	kitDeleteCmd.ValidArgsFunction = completeKitIDs()
	kitBulkCmd.ValidArgsFunction = completeKitIDs()
	kitItemCmd.ValidArgsFunction = completeKitThen(completeItemTypes)
	kitMoveCmd.ValidArgsFunction = completeKitThen(completeStatuses, models.StatusArchived)

	taskToggleCmd.ValidArgsFunction = completeTaskIDs
	taskRemoveCmd.ValidArgsFunction = completeTaskIDs
	taskRunCmd.ValidArgsFunction = completeTaskIDs
	_ = taskAddCmd.RegisterFlagCompletionFunc("kit", completeKitIDs(models.StatusArchived))
}
