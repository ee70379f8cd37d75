package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/denifrahman/deni-crm/internal/cli/formatter"
	"github.com/denifrahman/deni-crm/internal/domain"
	"github.com/denifrahman/deni-crm/internal/money"
)

// fieldsPerItem is the number of focusable inputs in one item row.
const fieldsPerItem = 3

// itemRow pairs one line item's identity and approval flags with the
// inputs editing its mutable fields. The price input holds the formatted
// rupiah string and is renormalized on every keystroke.
type itemRow struct {
	line  domain.LineItem
	name  textinput.Model
	qty   textinput.Model
	price textinput.Model
}

func newItemRow(line domain.LineItem) itemRow {
	name := textinput.New()
	name.Prompt = ""
	name.Placeholder = "product"
	name.SetValue(line.ProductName)

	qty := textinput.New()
	qty.Prompt = ""
	qty.Placeholder = "1"
	qty.CharLimit = 6
	if line.Qty > 0 {
		qty.SetValue(strconv.Itoa(line.Qty))
	}

	price := textinput.New()
	price.Prompt = ""
	price.Placeholder = money.Format(0)
	price.SetValue(money.Format(line.UnitPrice))

	return itemRow{line: line, name: name, qty: qty, price: price}
}

// input returns the row's input at slot f (0 = name, 1 = qty, 2 = price).
func (r *itemRow) input(f int) *textinput.Model {
	switch f {
	case 0:
		return &r.name
	case 1:
		return &r.qty
	default:
		return &r.price
	}
}

// itemsEditor manages the editable line-item rows of a deal form: focus
// movement across rows, row add/remove, and per-keystroke currency
// normalization of the price column.
type itemsEditor struct {
	rows []itemRow
}

// newItemsEditor builds an editor over the given lines. An empty deal
// starts with one blank row so the form is never item-less.
func newItemsEditor(lines []domain.LineItem) *itemsEditor {
	if len(lines) == 0 {
		lines = []domain.LineItem{{}}
	}
	rows := make([]itemRow, 0, len(lines))
	for _, li := range lines {
		rows = append(rows, newItemRow(li))
	}
	return &itemsEditor{rows: rows}
}

// FieldCount returns the number of focusable inputs across all rows.
func (e *itemsEditor) FieldCount() int { return len(e.rows) * fieldsPerItem }

// RowOf maps a field index to its row.
func (e *itemsEditor) RowOf(field int) int { return field / fieldsPerItem }

// Focus focuses exactly the input at field, blurring the rest.
func (e *itemsEditor) Focus(field int) tea.Cmd {
	var cmd tea.Cmd
	for i := range e.rows {
		for f := 0; f < fieldsPerItem; f++ {
			in := e.rows[i].input(f)
			if i*fieldsPerItem+f == field {
				cmd = in.Focus()
			} else {
				in.Blur()
			}
		}
	}
	return cmd
}

// Blur removes focus from every input.
func (e *itemsEditor) Blur() {
	for i := range e.rows {
		for f := 0; f < fieldsPerItem; f++ {
			e.rows[i].input(f).Blur()
		}
	}
}

// Update forwards a message to the focused input. A price keystroke is
// immediately reparsed and reformatted, so the field always shows a
// canonical rupiah string no matter what was typed.
func (e *itemsEditor) Update(field int, msg tea.Msg) tea.Cmd {
	row := e.RowOf(field)
	if row >= len(e.rows) {
		return nil
	}
	slot := field % fieldsPerItem
	in := e.rows[row].input(slot)

	var cmd tea.Cmd
	*in, cmd = in.Update(msg)

	if slot == 2 {
		normalized := money.Format(money.Parse(in.Value()))
		if in.Value() != normalized {
			in.SetValue(normalized)
			in.CursorEnd()
		}
	}
	return cmd
}

// Add appends a blank row and returns the field index of its first input.
func (e *itemsEditor) Add() int {
	e.rows = append(e.rows, newItemRow(domain.LineItem{}))
	return (len(e.rows) - 1) * fieldsPerItem
}

// Remove deletes the row containing field. The last remaining row cannot
// be removed; every deal keeps at least one line.
func (e *itemsEditor) Remove(field int) bool {
	if len(e.rows) <= 1 {
		return false
	}
	row := e.RowOf(field)
	if row >= len(e.rows) {
		return false
	}
	e.rows = append(e.rows[:row], e.rows[row+1:]...)
	return true
}

// Line reads the current state of the row containing field.
func (e *itemsEditor) Line(field int) (domain.LineItem, bool) {
	row := e.RowOf(field)
	if row >= len(e.rows) {
		return domain.LineItem{}, false
	}
	return e.lineAt(row), true
}

// MarkApproved flips the approved flag on the row containing field.
func (e *itemsEditor) MarkApproved(field int) {
	row := e.RowOf(field)
	if row < len(e.rows) {
		e.rows[row].line.Approved = true
	}
}

func (e *itemsEditor) lineAt(row int) domain.LineItem {
	r := e.rows[row]
	li := r.line
	li.ProductName = r.name.Value()
	li.Qty = parsePositiveInt(r.qty.Value(), 0)
	li.UnitPrice = money.Parse(r.price.Value())
	return li
}

// Lines reads every row back into line items.
func (e *itemsEditor) Lines() []domain.LineItem {
	lines := make([]domain.LineItem, 0, len(e.rows))
	for i := range e.rows {
		lines = append(lines, e.lineAt(i))
	}
	return lines
}

// Total sums qty × price over the rows as currently typed.
func (e *itemsEditor) Total() int64 {
	return domain.Total(e.Lines())
}

// View renders the item rows; focusRow highlights the active one.
func (e *itemsEditor) View(focusRow int) string {
	var b strings.Builder
	b.WriteString("  " + formatter.StyleHeader.Render("Items") + "\n")

	for i, r := range e.rows {
		marker := "  "
		if i == focusRow {
			marker = formatter.StyleGreen.Render("▸ ")
		}
		flags := ""
		if r.line.Approval {
			if r.line.Approved {
				flags = " " + formatter.StyleGreen.Render("approved")
			} else {
				flags = " " + formatter.StyleYellow.Render("needs approval")
			}
		}
		b.WriteString(fmt.Sprintf("%s%s  ×%s  %s%s\n",
			marker, r.name.View(), r.qty.View(), r.price.View(), flags))
	}

	b.WriteString("  " + formatter.Dim("Total: ") + formatter.Bold(money.Format(e.Total())) + "\n")
	return b.String()
}
