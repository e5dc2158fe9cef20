package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/Fred49680/PDC-sub001/internal/cli/formatter"
	"github.com/Fred49680/PDC-sub001/internal/domain"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func parseDateFlag(name, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q: %w", name, value, err)
	}
	return t, nil
}

func newDemandCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demand",
		Short: "Manage demand periods (besoins)",
	}

	cmd.AddCommand(
		newDemandSaveCmd(app),
		newDemandListCmd(app),
		newDemandRemoveCmd(app),
	)

	return cmd
}

func newDemandSaveCmd(app *App) *cobra.Command {
	var id, project, site, skill, from, to string
	var headcount int
	var forced bool

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create or update a demand period",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDateFlag("from", from)
			if err != nil {
				return err
			}
			end, err := parseDateFlag("to", to)
			if err != nil {
				return err
			}

			d := &domain.DemandPeriod{
				ID:                id,
				ProjectID:         project,
				Site:              site,
				Skill:             skill,
				DateStart:         start,
				DateEnd:           end,
				RequiredHeadcount: headcount,
				Forced:            forced,
			}
			if err := app.Demands.Save(context.Background(), d); err != nil {
				return err
			}

			fmt.Printf("Saved demand %s (%s/%s/%s, %d required)\n",
				d.ID, d.ProjectID, d.Site, d.Skill, d.RequiredHeadcount)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Demand ID (omit to create)")
	cmd.Flags().StringVar(&project, "project", "", "Project (affaire) ID")
	cmd.Flags().StringVar(&site, "site", "", "Site code")
	cmd.Flags().StringVar(&skill, "skill", "", "Required skill")
	cmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&headcount, "headcount", 0, "Required headcount")
	cmd.Flags().BoolVar(&forced, "forced", false, "Keep this record out of consolidation")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("site")
	_ = cmd.MarkFlagRequired("skill")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newDemandListCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's demand periods",
		RunE: func(cmd *cobra.Command, args []string) error {
			demands, err := app.Demands.ListByProject(context.Background(), project)
			if err != nil {
				return err
			}
			if len(demands) == 0 {
				fmt.Println("No demand periods found.")
				return nil
			}
			fmt.Print(formatter.FormatDemandList(demands))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project (affaire) ID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newDemandRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <demand-id>",
		Short: "Delete a demand period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Demands.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted demand %s\n", args[0])
			return nil
		},
	}
	return cmd
}
