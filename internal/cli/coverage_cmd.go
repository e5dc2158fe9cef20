package cli

import (
	"context"
	"fmt"

	"github.com/Fred49680/PDC-sub001/internal/cli/formatter"
	"github.com/Fred49680/PDC-sub001/internal/domain"
	"github.com/spf13/cobra"
)

func newCoverageCmd(app *App) *cobra.Command {
	var windowFrom, windowTo string

	cmd := &cobra.Command{
		Use:   "coverage <demand-id>",
		Short: "Report how many distinct resources cover a demand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var window *domain.DateRange
			if windowFrom != "" || windowTo != "" {
				if windowFrom == "" || windowTo == "" {
					return fmt.Errorf("--window-from and --window-to must be given together")
				}
				start, err := parseDateFlag("window-from", windowFrom)
				if err != nil {
					return err
				}
				end, err := parseDateFlag("window-to", windowTo)
				if err != nil {
					return err
				}
				r := domain.NewDateRange(start, end)
				if !r.Valid() {
					return fmt.Errorf("window end before window start")
				}
				window = &r
			}

			rep, err := app.Demands.Coverage(ctx, args[0], window)
			if err != nil {
				return err
			}
			demand, err := app.Demands.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatCoverage(demand, rep))
			return nil
		},
	}

	cmd.Flags().StringVar(&windowFrom, "window-from", "", "Narrow to a display window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&windowTo, "window-to", "", "Narrow to a display window end (YYYY-MM-DD)")

	return cmd
}

func newCandidatesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "candidates <demand-id>",
		Short: "Evaluate which resources can cover a demand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			candidates, err := app.Assignments.Candidates(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatCandidates(candidates))
			return nil
		},
	}
	return cmd
}
