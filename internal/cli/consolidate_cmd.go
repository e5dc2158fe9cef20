package cli

import (
	"context"
	"fmt"

	"github.com/Fred49680/PDC-sub001/internal/domain"
	"github.com/spf13/cobra"
)

func newConsolidateCmd(app *App) *cobra.Command {
	var project, site, skill, resource string
	var demands, assignments bool

	cmd := &cobra.Command{
		Use:   "consolidate",
		Short: "Compact stored periods into minimal maximal runs",
		Long: `Consolidate rewrites the stored demand and assignment periods as the
minimal set of maximal same-value runs. Forced records are preserved verbatim.
Without --project the whole store is consolidated; the pass is idempotent and
safe to re-run after an interruption.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if !demands && !assignments {
				demands, assignments = true, true
			}
			if resource != "" {
				// A resource-scoped key only exists for assignment groups.
				demands = false
				assignments = true
			}

			var key *domain.GroupKey
			if project != "" {
				if site == "" || skill == "" {
					return fmt.Errorf("--site and --skill are required with --project")
				}
				key = &domain.GroupKey{ProjectID: project, Site: site, Skill: skill, ResourceID: resource}
			}

			if demands {
				stats, err := app.Demands.Consolidate(ctx, key)
				if err != nil {
					return err
				}
				fmt.Printf("Demands: %d group(s), %d deleted, %d inserted\n",
					stats.Groups, stats.Deleted, stats.Inserted)
			}
			if assignments {
				stats, err := app.Assignments.Consolidate(ctx, key)
				if err != nil {
					return err
				}
				fmt.Printf("Assignments: %d group(s), %d deleted, %d inserted\n",
					stats.Groups, stats.Deleted, stats.Inserted)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Limit to one project")
	cmd.Flags().StringVar(&site, "site", "", "Site code (with --project)")
	cmd.Flags().StringVar(&skill, "skill", "", "Skill (with --project)")
	cmd.Flags().StringVar(&resource, "resource", "", "Resource ID (assignment groups only)")
	cmd.Flags().BoolVar(&demands, "demands", false, "Consolidate demand periods only")
	cmd.Flags().BoolVar(&assignments, "assignments", false, "Consolidate assignment periods only")

	return cmd
}
