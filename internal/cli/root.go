package cli

import (
	"github.com/Fred49680/PDC-sub001/internal/repository"
	"github.com/Fred49680/PDC-sub001/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Demands     service.DemandService
	Assignments service.AssignmentService
	Transfers   service.TransferService
	Alerts      repository.AlertRepo
}

// NewRootCmd creates the top-level "pdc" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "pdc",
		Short: "Workforce capacity planning: demand periods, assignments and coverage",
	}

	root.AddCommand(
		newDemandCmd(app),
		newAssignCmd(app),
		newCoverageCmd(app),
		newCandidatesCmd(app),
		newConsolidateCmd(app),
		newTransferCmd(app),
		newAlertsCmd(app),
	)

	return root
}
