package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/denifrahman/deni-crm/internal/api"
	"github.com/denifrahman/deni-crm/internal/cli/formatter"
	"github.com/denifrahman/deni-crm/internal/domain"
	"github.com/denifrahman/deni-crm/internal/money"
)

// listFlags binds the shared listing query flags onto a flag set.
func listFlags(fs *pflag.FlagSet, f *domain.Filter) {
	fs.IntVar(&f.Page, "page", 1, "Page number")
	fs.IntVar(&f.Size, "size", 0, "Page length (0 = configured default)")
	fs.StringVar(&f.Search, "search", "", "Free-text search term")
	fs.StringVar(&f.StartDate, "start", "", "Start date (YYYY-MM-DD)")
	fs.StringVar(&f.EndDate, "end", "", "End date (YYYY-MM-DD)")
}

func normalizeFilter(app *App, f domain.Filter) domain.Filter {
	out := domain.NewFilter(app.Cfg.PageSize)
	if f.Size > 0 {
		out = out.WithSize(f.Size)
	}
	out = out.WithSearch(f.Search).WithDateRange(f.StartDate, f.EndDate).WithPage(f.Page)
	return out
}

func printPageFooter(f domain.Filter, count int) {
	fmt.Printf("\n%s of %d records\n",
		formatter.RenderPagination(f.Page, domain.TotalPages(count, f.Size)), count)
}

func newTransactionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Manage order transactions",
	}

	var filter domain.Filter
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := normalizeFilter(app, filter)
			res, err := app.Transactions.List(context.Background(), f)
			if err != nil {
				return fmt.Errorf("listing transactions: %w", err)
			}

			rows := make([][]string, 0, len(res.Records))
			for _, tx := range res.Records {
				rows = append(rows, []string{
					strconv.FormatInt(tx.ID, 10),
					tx.CustomerName,
					money.Format(tx.Total),
					tx.Date,
				})
			}
			fmt.Println(formatter.RenderTable([]string{"ID", "Customer", "Total", "Date"}, rows))
			printPageFooter(f, res.Count)
			return nil
		},
	}
	listFlags(listCmd.Flags(), &filter)

	cmd.AddCommand(listCmd)
	return cmd
}

func newDealsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deals",
		Short: "Manage pipeline deals",
	}

	var filter domain.Filter
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List deals",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := normalizeFilter(app, filter)
			res, err := app.Deals.List(context.Background(), f)
			if err != nil {
				return fmt.Errorf("listing deals: %w", err)
			}

			rows := make([][]string, 0, len(res.Records))
			for _, d := range res.Records {
				rows = append(rows, []string{
					strconv.FormatInt(d.ID, 10),
					d.Name,
					d.Company,
					formatter.StageLabel(d.Stage),
					money.Format(domain.Total(d.Items)),
					d.Date,
				})
			}
			fmt.Println(formatter.RenderTable([]string{"ID", "Name", "Company", "Stage", "Total", "Date"}, rows))
			printPageFooter(f, res.Count)
			return nil
		},
	}
	listFlags(listCmd.Flags(), &filter)

	moveCmd := &cobra.Command{
		Use:   "move <deal-id> <stage>",
		Short: "Move a deal to another pipeline stage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid deal id %q", args[0])
			}
			stage, ok := domain.ParseStage(args[1])
			if !ok {
				return fmt.Errorf("unknown stage %q (one of %s)", args[1], stageNames())
			}

			ctx := context.Background()
			res, err := app.Deals.List(ctx, domain.NewFilter(app.Cfg.PageSize).WithSize(100))
			if err != nil {
				return fmt.Errorf("loading deals: %w", err)
			}
			var deal *domain.Deal
			for i := range res.Records {
				if res.Records[i].ID == id {
					deal = &res.Records[i]
					break
				}
			}
			if deal == nil {
				return fmt.Errorf("deal %d not found in the first 100 records", id)
			}

			prior := deal.Stage
			deal.Stage = stage
			if app.Queue == nil {
				if err := app.Deals.PersistStage(ctx, *deal); err != nil {
					return fmt.Errorf("moving deal: %s", api.UpstreamMessage(err))
				}
				fmt.Printf("Moved %s to %s\n", deal.Name, formatter.StageLabel(stage))
				return nil
			}

			// Same write path as the board, so the move is audited too.
			app.Queue.Enqueue(*deal, prior)
			flushCtx, cancel := context.WithTimeout(ctx, flushShutdownTimeout)
			defer cancel()
			if err := app.Queue.Flush(flushCtx); err != nil {
				return fmt.Errorf("moving deal: %w", err)
			}
			select {
			case o := <-app.Outcomes:
				if o.Err != nil {
					return fmt.Errorf("moving deal: %s", api.UpstreamMessage(o.Err))
				}
			default:
			}
			fmt.Printf("Moved %s to %s\n", deal.Name, formatter.StageLabel(stage))
			return nil
		},
	}

	cmd.AddCommand(listCmd, moveCmd)
	return cmd
}

func stageNames() string {
	out := ""
	for i, s := range domain.Stages {
		if i > 0 {
			out += ", "
		}
		out += string(s)
	}
	return out
}

func newProductsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage the product catalog",
	}

	var filter domain.Filter
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := normalizeFilter(app, filter)
			res, err := app.Products.List(context.Background(), f)
			if err != nil {
				return fmt.Errorf("listing products: %w", err)
			}

			rows := make([][]string, 0, len(res.Records))
			for _, p := range res.Records {
				rows = append(rows, []string{
					strconv.FormatInt(p.ID, 10),
					p.Name,
					strconv.Itoa(p.Duration),
					p.Speed,
					money.Format(p.HPP),
					money.Format(p.Price),
					p.Status,
				})
			}
			fmt.Println(formatter.RenderTable([]string{"ID", "Name", "Duration", "Speed", "HPP", "Price", "Status"}, rows))
			printPageFooter(f, res.Count)
			return nil
		},
	}
	listFlags(listCmd.Flags(), &filter)

	cmd.AddCommand(listCmd)
	return cmd
}
