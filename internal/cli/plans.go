package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/dateplan/internal/engine"
)

func newRedateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "redate <date> <new-date>",
		Short: "Move a whole plan to another date",
		Long: `Move every task of a plan to another date and delete the old plan file.

An existing plan at the new date is overwritten, not merged.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openPlan(cmd, args[0])
			if err != nil {
				return err
			}

			res, err := store.ChangeDate(engine.ResolveDateInput(args[1], clk))
			if res == nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.jsonOutput {
				if jsonErr := outputJSON(out, res); jsonErr != nil {
					return jsonErr
				}
				return err
			}

			if res.Replaced > 0 {
				PrintWarning(out, fmt.Sprintf("Replaced %s previously on %s", PrintCount(res.Replaced, "task", "tasks"), res.To))
			}
			PrintSuccess(out, fmt.Sprintf("Moved %s from %s to %s.", PrintCount(res.Tasks, "task", "tasks"), res.From, res.To))
			return err
		},
	}
}

func newPlansCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "plans",
		Aliases: []string{"ls"},
		Short:   "List saved plans",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.newStore(cmd)
			if err != nil {
				return err
			}

			dates, err := store.ListPlans()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return outputJSON(out, dates)
			}

			if len(dates) == 0 {
				PrintInfo(out, "No saved plans found.")
				return nil
			}
			PrintSection(out, "Available Plans")
			items := make([]string, len(dates))
			for i, d := range dates {
				items[i] = d.String()
			}
			PrintNumberedList(out, items, 1)
			return nil
		},
	}
}
