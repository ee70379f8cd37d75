package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/denifrahman/deni-crm/internal/cli/formatter"
	"github.com/denifrahman/deni-crm/internal/domain"
	"github.com/denifrahman/deni-crm/internal/money"
)

// dealDetailView is a read-only projection of one deal.
type dealDetailView struct {
	state *SharedState
	deal  domain.Deal
}

func newDealDetailView(state *SharedState, deal domain.Deal) *dealDetailView {
	return &dealDetailView{state: state, deal: deal}
}

func (v *dealDetailView) ID() ViewID    { return ViewDealDetail }
func (v *dealDetailView) Title() string { return v.deal.Name }

func (v *dealDetailView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

func (v *dealDetailView) Init() tea.Cmd { return nil }

func (v *dealDetailView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "e" {
		return v, replaceView(newDealFormView(v.state, v.deal))
	}
	return v, nil
}

func (v *dealDetailView) View() string {
	d := v.deal
	var b strings.Builder
	b.WriteString("\n")

	field := func(label, value string) {
		if value == "" {
			value = formatter.Dim("—")
		}
		b.WriteString("  " + formatter.Dim(padLabel(label)) + " " + value + "\n")
	}

	field("Name", formatter.Bold(d.Name))
	field("Company", d.Company)
	field("Email", d.Email)
	field("Phone", d.Phone)
	field("Address", d.Address)
	field("Needs", d.Needs)
	field("Date", d.Date)
	field("Stage", formatter.StageColor(d.Stage).Render(formatter.StageLabel(d.Stage)))

	b.WriteString("\n  " + formatter.StyleHeader.Render("Items") + "\n")
	for _, li := range d.Items {
		flags := ""
		if li.Approval {
			if li.Approved {
				flags = " " + formatter.StyleGreen.Render("approved")
			} else {
				flags = " " + formatter.StyleYellow.Render("needs approval")
			}
		}
		b.WriteString(fmt.Sprintf("  %s ×%d  %s%s\n",
			li.ProductName, li.Qty, money.Format(li.Subtotal()), flags))
	}
	b.WriteString("  " + formatter.Dim("Total: ") + formatter.Bold(money.Format(domain.Total(d.Items))) + "\n")

	return b.String()
}
