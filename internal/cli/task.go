package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/jobkit/internal/core"
	"github.com/valter-silva-au/jobkit/pkg/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage next-step tasks (list, add, toggle, remove, suggest, run)",
	Long: `Manage the next-step task list.

Tasks are reminders with a priority, an optional due date, and an action
label naming the workflow that completes them (for example "Take AI
Interview" opens the video workflow). Tasks can be suggested from the
pending items of your kits.`,
}

// --- task list ---

var (
	taskListSort string
	taskListJSON bool
)

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List next-step tasks",
	Long: `List next-step tasks. The default order puts open tasks before completed
ones, then high before medium before low priority, then the earliest due
date. --sort accepts default, due, priority or created.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTracker(); err != nil {
			return err
		}
		sortFlag := taskListSort
		if sortFlag == "" && Config != nil {
			sortFlag = Config.DefaultTaskSort
		}
		sortBy, err := core.ParseTaskSort(sortFlag)
		if err != nil {
			return err
		}
		tasks, err := Tracker.ListTasks(sortBy)
		if err != nil {
			return fmt.Errorf("listing tasks: %w", err)
		}
		if taskListJSON {
			return printJSON(tasks)
		}
		printTaskTable(tasks, time.Now().UTC())
		return nil
	},
}

func printTaskTable(tasks []*models.NextStepTask, now time.Time) {
	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return
	}
	for _, t := range tasks {
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}
		due := ""
		if t.DueDate != nil {
			due = " due " + formatDate(t.DueDate)
			if !t.Completed && core.IsTaskOverdue(t, now) {
				due += " (overdue)"
			}
		}
		action := ""
		if t.ActionLabel != "" {
			action = fmt.Sprintf(" -> %s", t.ActionLabel)
		}
		fmt.Printf("%s %-8s  %-6s  %s%s%s\n", check, shortID(t.ID), t.Priority, t.Description, action, due)
	}
}

// --- task add ---

var (
	taskAction   string
	taskPriority string
	taskDue      string
	taskKit      string
)

var taskAddCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Add a next-step task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTracker(); err != nil {
			return err
		}

		req := core.NewTaskRequest{
			Description: args[0],
			ActionLabel: taskAction,
		}
		switch {
		case taskPriority != "":
			p, err := core.ParsePriority(taskPriority)
			if err != nil {
				return err
			}
			req.Priority = p
		case Config != nil:
			req.Priority = Config.DefaultPriority
		}
		due, err := parseDate(taskDue)
		if err != nil {
			return err
		}
		req.DueDate = due
		if taskKit != "" {
			id, err := resolveKit(taskKit)
			if err != nil {
				return err
			}
			req.KitID = id
		}

		task, err := Tracker.AddTask(req)
		if err != nil {
			return fmt.Errorf("adding task: %w", err)
		}
		fmt.Printf("Added task %s: %s\n", shortID(task.ID), task.Description)
		return nil
	},
}

// --- task toggle ---

var taskToggleCmd = &cobra.Command{
	Use:   "toggle <task-id>",
	Short: "Flip a task between open and completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTracker(); err != nil {
			return err
		}
		id, err := resolveTask(args[0])
		if err != nil {
			return err
		}
		task, err := Tracker.ToggleTask(id)
		if err != nil {
			return fmt.Errorf("toggling task: %w", err)
		}
		state := "reopened"
		if task.Completed {
			state = "completed"
		}
		fmt.Printf("Task %s %s\n", shortID(task.ID), state)
		return nil
	},
}

// --- task remove ---

var taskRemoveCmd = &cobra.Command{
	Use:   "remove <task-id>",
	Short: "Remove a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTracker(); err != nil {
			return err
		}
		id, err := resolveTask(args[0])
		if err != nil {
			return err
		}
		if err := Tracker.RemoveTask(id); err != nil {
			return fmt.Errorf("removing task: %w", err)
		}
		fmt.Printf("Removed task %s\n", shortID(id))
		return nil
	},
}

// --- task suggest ---

var taskSuggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Add tasks for the pending items of your kits",
	Long: `Create a next-step task for every pending item of every kit that is not
archived, unless an equivalent task already exists. Suggested tasks inherit
the kit's priority and use its deadline as their due date.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTracker(); err != nil {
			return err
		}
		added, err := Tracker.SuggestTasks()
		if err != nil {
			return fmt.Errorf("suggesting tasks: %w", err)
		}
		if len(added) == 0 {
			fmt.Println("No new suggestions.")
			return nil
		}
		fmt.Printf("Added %d suggested task(s):\n", len(added))
		printTaskTable(added, time.Now().UTC())
		return nil
	},
}

// --- task run ---

var taskRunCmd = &cobra.Command{
	Use:   "run <task-id>",
	Short: "Open the workflow behind a task's action",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireTracker(); err != nil {
			return err
		}
		id, err := resolveTask(args[0])
		if err != nil {
			return err
		}
		if _, err := Tracker.RunTaskAction(id); err != nil {
			return fmt.Errorf("running task action: %w", err)
		}
		return nil
	},
}

func init() {
	taskListCmd.Flags().StringVar(&taskListSort, "sort", "", "Sort order (default, due, priority, created)")
	taskListCmd.Flags().BoolVar(&taskListJSON, "json", false, "Output tasks as JSON")
	_ = taskListCmd.RegisterFlagCompletionFunc("sort", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(core.TaskSorts))
		for i, s := range core.TaskSorts {
			names[i] = string(s)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	taskAddCmd.Flags().StringVar(&taskAction, "action", "", "Action label, e.g. \"Take AI Interview\"")
	taskAddCmd.Flags().StringVar(&taskPriority, "priority", "", "Priority (high, medium, low)")
	taskAddCmd.Flags().StringVar(&taskDue, "due", "", "Due date (YYYY-MM-DD)")
	taskAddCmd.Flags().StringVar(&taskKit, "kit", "", "Related kit id")
	_ = taskAddCmd.RegisterFlagCompletionFunc("priority", completePriorities)

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskToggleCmd)
	taskCmd.AddCommand(taskRemoveCmd)
	taskCmd.AddCommand(taskSuggestCmd)
	taskCmd.AddCommand(taskRunCmd)
	rootCmd.AddCommand(taskCmd)
}
