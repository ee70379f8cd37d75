package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/denifrahman/deni-crm/internal/cli/formatter"
)

func newAuditCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent background write outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Audit == nil {
				return fmt.Errorf("audit log is not configured")
			}
			entries, err := app.Audit.ListRecent(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println(formatter.Dim("No recorded writes."))
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				result := formatter.StyleGreen.Render("ok")
				if !e.Success {
					result = formatter.StyleRed.Render(e.Error)
				}
				rows = append(rows, []string{
					e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					e.Op,
					string(e.RecordKind),
					strconv.FormatInt(e.RecordID, 10),
					e.PriorStage + " → " + e.Stage,
					result,
				})
			}
			fmt.Println(formatter.RenderTable(
				[]string{"When", "Op", "Kind", "ID", "Move", "Result"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of entries to show")
	return cmd
}
