package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fred49680/PDC-sub001/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newAssignCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Manage assignment periods (affectations)",
	}

	cmd.AddCommand(
		newAssignSaveCmd(app),
		newAssignRemoveCmd(app),
	)

	return cmd
}

func newAssignSaveCmd(app *App) *cobra.Command {
	var id, project, site, resource, skill, from, to, load string
	var forced bool

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create or update an assignment period",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDateFlag("from", from)
			if err != nil {
				return err
			}
			end, err := parseDateFlag("to", to)
			if err != nil {
				return err
			}
			loadVal := domain.DefaultLoad
			if load != "" {
				if loadVal, err = decimal.NewFromString(load); err != nil {
					return fmt.Errorf("invalid load %q: %w", load, err)
				}
			}

			a := &domain.AssignmentPeriod{
				ID:         id,
				ProjectID:  project,
				Site:       site,
				ResourceID: resource,
				Skill:      skill,
				DateStart:  start,
				DateEnd:    end,
				Load:       loadVal,
				Forced:     forced,
			}
			if err := app.Assignments.Save(context.Background(), a); err != nil {
				var conflict *domain.ConflictError
				if errors.As(err, &conflict) {
					return fmt.Errorf("%w (use --forced to override)", err)
				}
				return err
			}

			fmt.Printf("Assigned %s to %s/%s/%s (%s..%s)\n",
				a.ResourceID, a.ProjectID, a.Site, a.Skill,
				domain.Day(a.DateStart).Format(dateLayout),
				domain.Day(a.DateEnd).Format(dateLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Assignment ID (omit to create)")
	cmd.Flags().StringVar(&project, "project", "", "Project (affaire) ID")
	cmd.Flags().StringVar(&site, "site", "", "Site code")
	cmd.Flags().StringVar(&resource, "resource", "", "Resource ID")
	cmd.Flags().StringVar(&skill, "skill", "", "Skill")
	cmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&load, "load", "", "Load (default 1)")
	cmd.Flags().BoolVar(&forced, "forced", false, "Override conflict checks and skip consolidation")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("site")
	_ = cmd.MarkFlagRequired("resource")
	_ = cmd.MarkFlagRequired("skill")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newAssignRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <assignment-id>",
		Short: "Delete an assignment period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Assignments.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted assignment %s\n", args[0])
			return nil
		},
	}
	return cmd
}
