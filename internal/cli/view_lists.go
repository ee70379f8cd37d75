package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/denifrahman/deni-crm/internal/cli/formatter"
	"github.com/denifrahman/deni-crm/internal/domain"
	"github.com/denifrahman/deni-crm/internal/money"
)

func newTransactionListView(state *SharedState) View {
	cfg := listConfig[domain.Transaction]{
		id:      ViewTransactionList,
		kind:    domain.KindTransaction,
		title:   "Transactions",
		headers: []string{"ID", "Customer", "Total", "Date"},
		row: func(tx domain.Transaction) []string {
			return []string{
				fmt.Sprintf("%d", tx.ID),
				tx.CustomerName,
				money.Format(tx.Total),
				tx.Date,
			}
		},
		fetch:    state.App.Transactions.List,
		editView: func(s *SharedState, tx domain.Transaction) View { return newTransactionFormView(s, tx) },
		newView:  func(s *SharedState) View { return newTransactionFormView(s, domain.Transaction{}) },
		submit: func(ctx context.Context, app *App, payload, _ any) (string, error) {
			tx, ok := payload.(domain.Transaction)
			if !ok {
				return "", fmt.Errorf("unexpected payload %T", payload)
			}
			return app.Transactions.Save(ctx, tx)
		},
	}
	return newRecordListView(state, cfg, nil)
}

func newDealListView(state *SharedState) View {
	cfg := listConfig[domain.Deal]{
		id:      ViewDealList,
		kind:    domain.KindDeal,
		title:   "Deals",
		headers: []string{"ID", "Name", "Company", "Stage", "Total", "Date"},
		row: func(d domain.Deal) []string {
			return []string{
				fmt.Sprintf("%d", d.ID),
				d.Name,
				d.Company,
				formatter.StageColor(d.Stage).Render(formatter.StageLabel(d.Stage)),
				money.Format(domain.Total(d.Items)),
				d.Date,
			}
		},
		fetch:    state.App.Deals.List,
		editView: func(s *SharedState, d domain.Deal) View { return newDealFormView(s, d) },
		newView:  func(s *SharedState) View { return newDealFormView(s, domain.Deal{}) },
		submit: func(ctx context.Context, app *App, payload, intent any) (string, error) {
			d, ok := payload.(domain.Deal)
			if !ok {
				return "", fmt.Errorf("unexpected payload %T", payload)
			}
			fi, _ := intent.(domain.FormIntent)
			if fi == nil {
				fi = domain.SaveRecord{}
			}
			return app.Deals.Dispatch(ctx, d, fi)
		},
		extraKey: func(v *recordListView[domain.Deal], msg tea.KeyMsg) (tea.Cmd, bool) {
			switch msg.String() {
			case "b":
				return pushView(newBoardView(v.state)), true
			case "v":
				records := v.ctrl.Records()
				if v.cursor < len(records) {
					return pushView(newDealDetailView(v.state, records[v.cursor])), true
				}
				return nil, true
			}
			return nil, false
		},
		extraHelp: []key.Binding{
			key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "board")),
			key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "detail")),
		},
	}
	// The board shares this controller, so a move made there shows here.
	return newRecordListView(state, cfg, state.DealCtrl)
}

func newProductListView(state *SharedState) View {
	cfg := listConfig[domain.Product]{
		id:      ViewProductList,
		kind:    domain.KindProduct,
		title:   "Products",
		headers: []string{"ID", "Name", "Duration", "Speed", "HPP", "Price", "Status"},
		row: func(p domain.Product) []string {
			return []string{
				fmt.Sprintf("%d", p.ID),
				p.Name,
				fmt.Sprintf("%d", p.Duration),
				p.Speed,
				money.Format(p.HPP),
				money.Format(p.Price),
				p.Status,
			}
		},
		fetch:    state.App.Products.List,
		editView: func(s *SharedState, p domain.Product) View { return newProductFormView(s, p) },
		newView:  func(s *SharedState) View { return newProductFormView(s, domain.Product{}) },
		submit: func(ctx context.Context, app *App, payload, _ any) (string, error) {
			p, ok := payload.(domain.Product)
			if !ok {
				return "", fmt.Errorf("unexpected payload %T", payload)
			}
			return app.Products.Save(ctx, p)
		},
	}
	return newRecordListView(state, cfg, nil)
}
