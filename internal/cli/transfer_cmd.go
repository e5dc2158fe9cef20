package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/Fred49680/PDC-sub001/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newTransferCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Inspect and apply cross-site transfer windows",
	}

	cmd.AddCommand(
		newTransferListCmd(app),
		newTransferApplyCmd(app),
	)

	return cmd
}

func newTransferListCmd(app *App) *cobra.Command {
	var resource string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a resource's transfer windows",
		RunE: func(cmd *cobra.Command, args []string) error {
			transfers, err := app.Transfers.ListByResource(context.Background(), resource)
			if err != nil {
				return err
			}
			if len(transfers) == 0 {
				fmt.Println("No transfer windows.")
				return nil
			}
			fmt.Print(formatter.FormatTransferList(transfers))
			return nil
		},
	}

	cmd.Flags().StringVar(&resource, "resource", "", "Resource ID")
	_ = cmd.MarkFlagRequired("resource")

	return cmd
}

func newTransferApplyCmd(app *App) *cobra.Command {
	var id, asOf string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a planned transfer, or all transfers due as of a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if id != "" {
				if err := app.Transfers.Apply(ctx, id); err != nil {
					return err
				}
				fmt.Printf("Applied transfer %s\n", id)
				return nil
			}

			day := time.Now()
			if asOf != "" {
				parsed, err := parseDateFlag("as-of", asOf)
				if err != nil {
					return err
				}
				day = parsed
			}
			n, err := app.Transfers.ApplyDue(ctx, day)
			if err != nil {
				return err
			}
			fmt.Printf("Applied %d due transfer(s)\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Transfer ID to apply")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Apply every planned transfer starting on or before this date (default today)")

	return cmd
}

func newAlertsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Show recent audit alerts (blocked conflicts, applied transfers)",
		RunE: func(cmd *cobra.Command, args []string) error {
			alerts, err := app.Alerts.ListRecent(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(alerts) == 0 {
				fmt.Println("No alerts.")
				return nil
			}
			for _, a := range alerts {
				fmt.Printf("%s  [%s]  %s\n",
					a.CreatedAt.Format(time.RFC3339), a.Kind, a.Message)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum alerts to show")

	return cmd
}
