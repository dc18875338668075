package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/dateplan/internal/engine"
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <date> <task>...",
		Short: "Add a task to a date's plan",
		Long: `Append a task to the plan for the given date (DD/MM/YYYY or "today").

Remaining arguments are joined with spaces to form the task.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openPlan(cmd, args[0])
			if err != nil {
				return err
			}

			task := strings.TrimSpace(strings.Join(args[1:], " "))
			err = store.AddTask(task)
			if err != nil && !savedAnyway(err) {
				return err
			}
			if a.jsonOutput {
				view, _ := store.ViewTasks()
				if jsonErr := outputJSON(cmd.OutOrStdout(), view); jsonErr != nil {
					return jsonErr
				}
				return err
			}
			PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Task '%s' added to '%s'.", task, store.Date()))
			return err
		},
	}
}

func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "view <date>",
		Aliases: []string{"show"},
		Short:   "Show a date's plan",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openPlan(cmd, args[0])
			if err != nil {
				return err
			}

			view, err := store.ViewTasks()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return outputJSON(out, view)
			}

			if view.Empty() {
				PrintEmptyState(out, fmt.Sprintf("'%s' is empty.", view.Date))
				return nil
			}
			PrintSection(out, fmt.Sprintf("Plan for '%s' (%s)", view.Date, PrintCount(len(view.Tasks), "task", "tasks")))
			for _, line := range view.Lines() {
				PrintInfo(out, "  "+line)
			}
			return nil
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <date> <position>",
		Aliases: []string{"remove"},
		Short:   "Remove a task by position",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openPlan(cmd, args[0])
			if err != nil {
				return err
			}
			pos, err := engine.ParsePosition(args[1])
			if err != nil {
				return err
			}

			removed, err := store.RemoveTask(pos)
			if err != nil && !savedAnyway(err) {
				return err
			}
			PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Task '%s' removed from '%s'.", removed, store.Date()))
			return err
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update <date> <position> <task>...",
		Short: "Replace a task by position",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openPlan(cmd, args[0])
			if err != nil {
				return err
			}
			pos, err := engine.ParsePosition(args[1])
			if err != nil {
				return err
			}

			task := strings.TrimSpace(strings.Join(args[2:], " "))
			err = store.UpdateTask(pos, task)
			if err != nil && !savedAnyway(err) {
				return err
			}
			PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Task at %d updated to '%s' for '%s'.", pos, task, store.Date()))
			return err
		},
	}
}

func newMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <date> <position> <new-date>",
		Short: "Move one task to another date",
		Long: `Move the task at the given position to the end of another date's plan.

The task is removed from the source plan and appended to the target plan.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openPlan(cmd, args[0])
			if err != nil {
				return err
			}
			pos, err := engine.ParsePosition(args[1])
			if err != nil {
				return err
			}

			res, err := store.MoveTask(pos, engine.ResolveDateInput(args[2], clk))
			if res == nil {
				return err
			}
			if a.jsonOutput {
				if jsonErr := outputJSON(cmd.OutOrStdout(), res); jsonErr != nil {
					return jsonErr
				}
				return err
			}
			PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Task '%s' moved from %s to %s.", res.Task, res.From, res.To))
			return err
		},
	}
}
