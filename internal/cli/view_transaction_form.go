package cli

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/denifrahman/deni-crm/internal/cli/formatter"
	"github.com/denifrahman/deni-crm/internal/domain"
)

// Head-field slots of the transaction form, before the item rows.
const (
	txFieldCustomer = iota
	txFieldDate
	txHeadFields
)

// txFormView edits one transaction: customer fields plus line-item rows.
// Prices round-trip through the rupiah codec on every keystroke and the
// total tracks the rows live, same as the deal form.
type txFormView struct {
	state *SharedState
	tx    domain.Transaction

	head  []textinput.Model
	items *itemsEditor
	focus int

	errText string
}

func newTransactionFormView(state *SharedState, tx domain.Transaction) *txFormView {
	head := make([]textinput.Model, txHeadFields)
	labels := []struct {
		placeholder string
		value       string
	}{
		{"customer name", tx.CustomerName},
		{"YYYY-MM-DD", tx.Date},
	}
	for i, l := range labels {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = l.placeholder
		in.SetValue(l.value)
		head[i] = in
	}

	return &txFormView{
		state: state,
		tx:    tx,
		head:  head,
		items: newItemsEditor(tx.Details),
	}
}

func (v *txFormView) ID() ViewID { return ViewTransactionForm }

func (v *txFormView) Title() string {
	if v.tx.ID == 0 {
		return "New Transaction"
	}
	return "Edit Transaction"
}

func (v *txFormView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "add item")),
		key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "remove item")),
	}
}

func (v *txFormView) Init() tea.Cmd {
	return v.setFocus(0)
}

func (v *txFormView) fieldCount() int {
	return txHeadFields + v.items.FieldCount()
}

func (v *txFormView) setFocus(field int) tea.Cmd {
	total := v.fieldCount()
	if field < 0 {
		field = total - 1
	}
	if field >= total {
		field = 0
	}
	v.focus = field

	for i := range v.head {
		v.head[i].Blur()
	}
	if field < txHeadFields {
		v.items.Blur()
		return v.head[field].Focus()
	}
	return v.items.Focus(field - txHeadFields)
}

func (v *txFormView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, v.forward(msg)
	}

	switch keyMsg.String() {
	case "esc":
		return v, popView()
	case "tab", "down", "enter":
		return v, v.setFocus(v.focus + 1)
	case "shift+tab", "up":
		return v, v.setFocus(v.focus - 1)
	case "ctrl+s":
		return v, v.submitSave()
	case "ctrl+n":
		field := v.items.Add()
		return v, v.setFocus(txHeadFields + field)
	case "ctrl+d":
		return v, v.removeItem()
	}

	return v, v.forward(msg)
}

func (v *txFormView) forward(msg tea.Msg) tea.Cmd {
	if v.focus < txHeadFields {
		var cmd tea.Cmd
		v.head[v.focus], cmd = v.head[v.focus].Update(msg)
		return cmd
	}
	return v.items.Update(v.focus-txHeadFields, msg)
}

func (v *txFormView) removeItem() tea.Cmd {
	if v.focus < txHeadFields {
		return nil
	}
	if !v.items.Remove(v.focus - txHeadFields) {
		v.errText = "a transaction needs at least one item"
		return nil
	}
	v.errText = ""
	return v.setFocus(txHeadFields)
}

// build reads the form into a transaction value. The stored total is the
// sum the user saw live over the rows.
func (v *txFormView) build() domain.Transaction {
	tx := v.tx
	tx.CustomerName = v.head[txFieldCustomer].Value()
	tx.Date = v.head[txFieldDate].Value()
	tx.Details = v.items.Lines()
	tx.Total = v.items.Total()
	return tx
}

func (v *txFormView) submitSave() tea.Cmd {
	tx := v.build()
	if tx.CustomerName == "" {
		v.errText = "customer name is required"
		return nil
	}
	v.errText = ""
	return func() tea.Msg {
		return formSubmittedMsg{payload: tx, intent: nil}
	}
}

func (v *txFormView) View() string {
	var b strings.Builder
	b.WriteString("\n")

	labels := []string{"Customer", "Date"}
	for i, in := range v.head {
		style := formatter.StyleDim
		if i == v.focus {
			style = formatter.StyleHeader
		}
		b.WriteString("  " + style.Render(padLabel(labels[i])) + " " + in.View() + "\n")
	}

	b.WriteString("\n")
	focusRow := -1
	if v.focus >= txHeadFields {
		focusRow = v.items.RowOf(v.focus - txHeadFields)
	}
	b.WriteString(v.items.View(focusRow))

	if v.errText != "" {
		b.WriteString("\n  " + formatter.StyleRed.Render(v.errText) + "\n")
	}

	return b.String()
}
