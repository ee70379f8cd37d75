package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/denifrahman/deni-crm/internal/domain"
)

func newExportCmd(app *App) *cobra.Command {
	var filter domain.Filter
	var dir string

	cmd := &cobra.Command{
		Use:   "export <transactions|deals|products>",
		Short: "Download a filtered spreadsheet export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var kind domain.RecordKind
			switch args[0] {
			case string(domain.KindTransaction):
				kind = domain.KindTransaction
			case string(domain.KindDeal):
				kind = domain.KindDeal
			case string(domain.KindProduct):
				kind = domain.KindProduct
			default:
				return fmt.Errorf("unknown record kind %q", args[0])
			}

			f := normalizeFilter(app, filter)
			path, err := app.Exports.Download(context.Background(), kind, f, dir)
			if err != nil {
				return fmt.Errorf("exporting %s: %w", kind, err)
			}
			fmt.Printf("Saved %s\n", path)
			return nil
		},
	}

	listFlags(cmd.Flags(), &filter)
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to write the file into")
	return cmd
}
