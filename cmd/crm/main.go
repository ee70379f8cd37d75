package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/denifrahman/deni-crm/internal/api"
	"github.com/denifrahman/deni-crm/internal/audit"
	"github.com/denifrahman/deni-crm/internal/cli"
	"github.com/denifrahman/deni-crm/internal/config"
	"github.com/denifrahman/deni-crm/internal/db"
	"github.com/denifrahman/deni-crm/internal/domain"
	"github.com/denifrahman/deni-crm/internal/flush"
	"github.com/denifrahman/deni-crm/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	var observer api.Observer = api.NoopObserver{}
	if cfg.LogCalls {
		observer = api.NewLogObserver(os.Stderr)
	}
	client := api.NewClient(cfg, observer)

	dealSvc := service.NewDealService(client)

	app := &cli.App{
		Transactions: service.NewTransactionService(client),
		Deals:        dealSvc,
		Products:     service.NewProductService(client),
		Exports:      service.NewExportService(client),
		Cfg:          cfg,
	}

	// Open the local audit database for background write outcomes.
	database, err := db.OpenDB(cfg.AuditDB)
	if err != nil {
		return fmt.Errorf("opening audit database: %w", err)
	}
	defer database.Close()
	auditStore := audit.NewStore(database)
	app.Audit = auditStore

	// Background stage writes: every outcome is audited and handed to the
	// TUI so it can toast the result and roll back a failed move.
	outcomes := make(chan flush.Outcome, 16)
	app.Outcomes = outcomes
	app.Queue = flush.New(dealSvc, flush.DefaultDelay, 4, func(o flush.Outcome) {
		entry := audit.Entry{
			Op:         "stage_move",
			RecordKind: domain.KindDeal,
			RecordID:   o.Deal.ID,
			Stage:      string(o.Deal.Stage),
			PriorStage: string(o.Prior),
			Success:    o.Err == nil,
		}
		if o.Err != nil {
			entry.Error = o.Err.Error()
		}
		if err := auditStore.Record(context.Background(), entry); err != nil {
			fmt.Fprintf(os.Stderr, "audit: %v\n", err)
		}

		select {
		case outcomes <- o:
		default:
			// A full channel means no TUI is draining; the audit row
			// above is the durable record.
		}
	})

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
