package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/denifrahman/deni-crm/internal/audit"
	"github.com/denifrahman/deni-crm/internal/config"
	"github.com/denifrahman/deni-crm/internal/flush"
	"github.com/denifrahman/deni-crm/internal/service"
)

// flushShutdownTimeout bounds how long exit waits on pending stage writes.
const flushShutdownTimeout = 5 * time.Second

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Transactions service.TransactionService
	Deals        service.DealService
	Products     service.ProductService
	Exports      service.ExportService

	// Queue persists kanban moves in the background; Outcomes carries
	// every completed write back to the TUI for toast and rollback.
	Queue    *flush.Queue
	Outcomes chan flush.Outcome

	Audit *audit.Store
	Cfg   config.Config

	// IsInteractive reports whether stdin is a terminal; the TUI refuses
	// to start on a pipe.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "crm" command and registers all
// subcommands against the provided App. Running it bare starts the TUI.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:          "crm",
		Short:        "Terminal client for the sales back office",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(app)
		},
	}

	root.AddCommand(
		newTransactionsCmd(app),
		newDealsCmd(app),
		newProductsCmd(app),
		newExportCmd(app),
		newGatewayCmd(app),
		newLoginCmd(app),
		newAuditCmd(app),
	)

	return root
}

func runTUI(app *App) error {
	if app.IsInteractive != nil && !app.IsInteractive() {
		return fmt.Errorf("interactive mode needs a terminal; use the list subcommands instead")
	}

	p := tea.NewProgram(newAppModel(app), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	// Let in-flight stage writes land before the process exits.
	if app.Queue != nil {
		ctx, cancel := context.WithTimeout(context.Background(), flushShutdownTimeout)
		defer cancel()
		return app.Queue.Close(ctx)
	}
	return nil
}
