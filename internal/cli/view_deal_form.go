package cli

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/denifrahman/deni-crm/internal/cli/formatter"
	"github.com/denifrahman/deni-crm/internal/domain"
)

// Head-field slots of the deal form, in focus order before the item rows.
const (
	dealFieldName = iota
	dealFieldEmail
	dealFieldPhone
	dealFieldCompany
	dealFieldAddress
	dealFieldNeeds
	dealFieldDate
	dealFieldLocation
	dealHeadFields
)

// dealFormView edits one deal: contact fields plus the line-item rows.
// Submission is intent-tagged: a plain save, a line approval, or an
// order hand-off each produce a different submission for the deal list
// to dispatch. The form itself never talks to the network.
type dealFormView struct {
	state *SharedState
	deal  domain.Deal

	head  []textinput.Model
	items *itemsEditor
	focus int

	errText string
}

func newDealFormView(state *SharedState, deal domain.Deal) *dealFormView {
	if deal.ID == 0 && deal.Stage == "" {
		deal.Stage = domain.StageQualified
	}

	head := make([]textinput.Model, dealHeadFields)
	labels := []struct {
		placeholder string
		value       string
	}{
		{"customer name", deal.Name},
		{"email", deal.Email},
		{"phone", deal.Phone},
		{"company", deal.Company},
		{"address", deal.Address},
		{"needs", deal.Needs},
		{"YYYY-MM-DD", deal.Date},
		{"order location", ""},
	}
	for i, l := range labels {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = l.placeholder
		in.SetValue(l.value)
		head[i] = in
	}

	v := &dealFormView{
		state: state,
		deal:  deal,
		head:  head,
		items: newItemsEditor(deal.Items),
	}
	return v
}

func (v *dealFormView) ID() ViewID { return ViewDealForm }

func (v *dealFormView) Title() string {
	if v.deal.ID == 0 {
		return "New Deal"
	}
	return "Edit Deal"
}

func (v *dealFormView) ShortHelp() []key.Binding {
	bindings := []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "add item")),
		key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "remove item")),
	}
	if v.canApprove() {
		bindings = append(bindings, key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "approve line")))
	}
	if v.canProcessOrder() {
		bindings = append(bindings, key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "process order")))
	}
	return bindings
}

func (v *dealFormView) Init() tea.Cmd {
	return v.setFocus(0)
}

func (v *dealFormView) fieldCount() int {
	return dealHeadFields + v.items.FieldCount()
}

// setFocus moves focus to the given slot, blurring everything else.
func (v *dealFormView) setFocus(field int) tea.Cmd {
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
	if field < dealHeadFields {
		v.items.Blur()
		return v.head[field].Focus()
	}
	return v.items.Focus(field - dealHeadFields)
}

func (v *dealFormView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		return v, v.setFocus(dealHeadFields + field)
	case "ctrl+d":
		return v, v.removeItem()
	case "ctrl+g":
		return v, v.submitApprove()
	case "ctrl+o":
		return v, v.submitOrder()
	}

	return v, v.forward(msg)
}

// forward routes a message to whichever input currently has focus.
func (v *dealFormView) forward(msg tea.Msg) tea.Cmd {
	if v.focus < dealHeadFields {
		var cmd tea.Cmd
		v.head[v.focus], cmd = v.head[v.focus].Update(msg)
		return cmd
	}
	return v.items.Update(v.focus-dealHeadFields, msg)
}

// removeItem deletes the focused item row; removing the last row is
// refused so the deal always keeps one line.
func (v *dealFormView) removeItem() tea.Cmd {
	if v.focus < dealHeadFields {
		return nil
	}
	if !v.items.Remove(v.focus - dealHeadFields) {
		v.errText = "a deal needs at least one item"
		return nil
	}
	v.errText = ""
	return v.setFocus(dealHeadFields)
}

// build reads the form into a deal value.
func (v *dealFormView) build() domain.Deal {
	d := v.deal
	d.Name = v.head[dealFieldName].Value()
	d.Email = v.head[dealFieldEmail].Value()
	d.Phone = v.head[dealFieldPhone].Value()
	d.Company = v.head[dealFieldCompany].Value()
	d.Address = v.head[dealFieldAddress].Value()
	d.Needs = v.head[dealFieldNeeds].Value()
	d.Date = v.head[dealFieldDate].Value()
	d.Items = v.items.Lines()
	return d
}

func (v *dealFormView) submitSave() tea.Cmd {
	d := v.build()
	if d.Name == "" {
		v.errText = "name is required"
		return nil
	}
	v.errText = ""
	return func() tea.Msg {
		return formSubmittedMsg{payload: d, intent: domain.SaveRecord{}}
	}
}

// canApprove reports whether the focused item row is an unapproved line
// that the backend flagged for approval.
func (v *dealFormView) canApprove() bool {
	if v.focus < dealHeadFields {
		return false
	}
	line, ok := v.items.Line(v.focus - dealHeadFields)
	return ok && line.ID != 0 && line.Approval && !line.Approved
}

// submitApprove grants the focused line's approval gate. The line id is
// captured here, so the write targets exactly this line even if rows are
// edited afterwards.
func (v *dealFormView) submitApprove() tea.Cmd {
	if !v.canApprove() {
		return nil
	}
	line, _ := v.items.Line(v.focus - dealHeadFields)
	v.items.MarkApproved(v.focus - dealHeadFields)
	d := v.build()
	return func() tea.Msg {
		return formSubmittedMsg{
			payload: d,
			intent:  domain.ApproveLine{DealItemID: line.ID, Approved: true},
		}
	}
}

// canProcessOrder: only a persisted deal in negotiation with at least one
// approved line can be handed to fulfillment.
func (v *dealFormView) canProcessOrder() bool {
	if v.deal.ID == 0 || v.deal.Stage != domain.StageNegotiation {
		return false
	}
	for _, li := range v.items.Lines() {
		if li.Approved {
			return true
		}
	}
	return false
}

func (v *dealFormView) submitOrder() tea.Cmd {
	if !v.canProcessOrder() {
		return nil
	}
	location := v.head[dealFieldLocation].Value()
	if location == "" {
		v.errText = "location is required to process the order"
		return nil
	}
	v.errText = ""
	d := v.build()
	return func() tea.Msg {
		return formSubmittedMsg{
			payload: d,
			intent:  domain.AdvanceToFulfillment{DealID: d.ID, Location: location},
		}
	}
}

func (v *dealFormView) View() string {
	var b strings.Builder
	b.WriteString("\n")

	labels := []string{"Name", "Email", "Phone", "Company", "Address", "Needs", "Date", "Location"}
	for i, in := range v.head {
		label := labels[i]
		style := formatter.StyleDim
		if i == v.focus {
			style = formatter.StyleHeader
		}
		b.WriteString("  " + style.Render(padLabel(label)) + " " + in.View() + "\n")
	}

	b.WriteString("\n")
	focusRow := -1
	if v.focus >= dealHeadFields {
		focusRow = v.items.RowOf(v.focus - dealHeadFields)
	}
	b.WriteString(v.items.View(focusRow))

	b.WriteString("\n  " + formatter.Dim("stage: ") +
		formatter.StageColor(v.deal.Stage).Render(formatter.StageLabel(v.deal.Stage)) + "\n")

	if v.errText != "" {
		b.WriteString("\n  " + formatter.StyleRed.Render(v.errText) + "\n")
	}

	return b.String()
}

// padLabel right-pads a field label to a fixed width.
func padLabel(s string) string {
	const width = 9
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
