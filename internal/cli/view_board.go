package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/denifrahman/deni-crm/internal/board"
	"github.com/denifrahman/deni-crm/internal/cli/formatter"
	"github.com/denifrahman/deni-crm/internal/domain"
	"github.com/denifrahman/deni-crm/internal/money"
)

// boardView renders the deal pipeline as kanban columns, one per stage.
// It shares the deal list's controller, so moves made here are visible in
// the table and rollbacks delivered to the root model land in both.
type boardView struct {
	state   *SharedState
	loading bool
	err     error

	col  int   // selected column
	row  int   // selected card within column
	grab int64 // id of the grabbed deal, 0 when none
}

func newBoardView(state *SharedState) *boardView {
	return &boardView{state: state, loading: len(state.DealCtrl.Records()) == 0}
}

func (v *boardView) ID() ViewID    { return ViewBoard }
func (v *boardView) Title() string { return "Board" }

// While a card is grabbed the board claims every key, so escape cancels
// the grab instead of popping the view.
func (v *boardView) capturingInput() bool { return v.grab != 0 }

func (v *boardView) ShortHelp() []key.Binding {
	if v.grab != 0 {
		return []key.Binding{
			key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "target stage")),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "column")),
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "card")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "grab")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (v *boardView) Init() tea.Cmd {
	if v.loading {
		return v.load()
	}
	return nil
}

func (v *boardView) load() tea.Cmd {
	v.loading = true
	seq := v.state.DealCtrl.BeginFetch()
	filter := v.state.DealCtrl.Filter()
	app := v.state.App
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(app.Cfg.TimeoutMs)*time.Millisecond)
		defer cancel()
		res, err := app.Deals.List(ctx, filter)
		return recordsLoadedMsg[domain.Deal]{seq: seq, records: res.Records, count: res.Count, err: err}
	}
}

func (v *boardView) columns() []board.Column {
	return board.Group(v.state.DealCtrl.Records())
}

func (v *boardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordsLoadedMsg[domain.Deal]:
		if msg.err != nil {
			if v.state.DealCtrl.IsLatest(msg.seq) {
				v.loading = false
				v.err = msg.err
			}
			return v, nil
		}
		v.loading = false
		v.err = nil
		v.state.DealCtrl.Apply(msg.seq, msg.records, msg.count)
		v.clampCursor()
		return v, nil

	case tea.KeyMsg:
		if v.grab != 0 {
			return v.updateGrabbed(msg)
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

func (v *boardView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := v.columns()

	switch msg.String() {
	case "left", "h":
		if v.col > 0 {
			v.col--
			v.clampCursor()
		}
	case "right", "l":
		if v.col < len(cols)-1 {
			v.col++
			v.clampCursor()
		}
	case "up", "k":
		if v.row > 0 {
			v.row--
		}
	case "down", "j":
		if v.col < len(cols) && v.row < len(cols[v.col].Deals)-1 {
			v.row++
		}
	case "enter", " ":
		if v.col < len(cols) && v.row < len(cols[v.col].Deals) {
			v.grab = cols[v.col].Deals[v.row].ID
		}
	case "r":
		return v, v.load()
	}
	return v, nil
}

// updateGrabbed moves the grabbed card. The stage change is applied to
// local state immediately; the write is queued and any failure rolls the
// card back via the outcome channel.
func (v *boardView) updateGrabbed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := v.columns()

	switch msg.String() {
	case "left", "h":
		if v.col > 0 {
			v.col--
		}
	case "right", "l":
		if v.col < len(cols)-1 {
			v.col++
		}
	case "esc":
		v.grab = 0
	case "enter", " ":
		id := v.grab
		v.grab = 0
		if v.col >= len(cols) {
			return v, nil
		}
		return v, v.drop(id, cols[v.col].Stage)
	}
	return v, nil
}

// drop applies the optimistic move and queues the persistence write.
// Dropping on the card's own column is a no-op.
func (v *boardView) drop(id int64, target domain.Stage) tea.Cmd {
	var prior domain.Stage
	var moved bool
	v.state.DealCtrl.Mutate(func(deals []domain.Deal) []domain.Deal {
		prior, moved = board.Move(deals, id, target)
		return deals
	})
	if !moved || prior == target {
		return nil
	}

	v.clampCursor()

	var dropped domain.Deal
	for _, d := range v.state.DealCtrl.Records() {
		if d.ID == id {
			dropped = d
			break
		}
	}
	if v.state.App.Queue != nil {
		v.state.App.Queue.Enqueue(dropped, prior)
	}
	return toast(fmt.Sprintf("%s → %s", dropped.Name, formatter.StageLabel(target)), false)
}

func (v *boardView) clampCursor() {
	cols := v.columns()
	if v.col >= len(cols) {
		v.col = 0
	}
	if len(cols) == 0 {
		v.row = 0
		return
	}
	if n := len(cols[v.col].Deals); v.row >= n {
		if n == 0 {
			v.row = 0
		} else {
			v.row = n - 1
		}
	}
}

func (v *boardView) View() string {
	if v.loading && len(v.state.DealCtrl.Records()) == 0 {
		return "\n  " + formatter.Dim("Loading board...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+v.err.Error())
	}

	cols := v.columns()
	colWidth := 22
	if v.state.Width > 0 {
		if w := v.state.Width/len(cols) - 2; w > 12 && w < colWidth {
			colWidth = w
		}
	}

	rendered := make([]string, 0, len(cols))
	for ci, c := range cols {
		rendered = append(rendered, v.renderColumn(ci, c, colWidth))
	}
	return "\n" + lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (v *boardView) renderColumn(ci int, c board.Column, width int) string {
	var b strings.Builder

	label := formatter.StageLabel(c.Stage)
	header := formatter.StageColor(c.Stage).Bold(true).Render(label) +
		formatter.Dim(fmt.Sprintf(" %d", len(c.Deals)))
	b.WriteString(" " + header + "\n")
	b.WriteString(" " + formatter.Dim(strings.Repeat("─", width)) + "\n")

	for ri, d := range c.Deals {
		marker := "  "
		nameStyle := formatter.StyleFg
		if ci == v.col && ri == v.row && v.grab == 0 {
			marker = formatter.StyleGreen.Render("▸ ")
			nameStyle = formatter.StyleBold
		}
		if d.ID == v.grab {
			marker = formatter.StyleYellow.Render("◆ ")
			nameStyle = formatter.StyleYellow
		}
		b.WriteString(marker + nameStyle.Render(clip(d.Name, width-2)) + "\n")
		b.WriteString("   " + formatter.Dim(clip(money.Format(domain.Total(d.Items)), width-3)) + "\n")
	}
	if len(c.Deals) == 0 {
		b.WriteString("  " + formatter.Dim("empty") + "\n")
	}

	if ci == v.col && v.grab != 0 {
		b.WriteString(" " + formatter.StyleYellow.Render("▲ drop here") + "\n")
	}

	return lipgloss.NewStyle().Width(width + 2).Render(b.String())
}

// clip truncates a string to width, appending an ellipsis.
func clip(s string, width int) string {
	if width <= 1 || len(s) <= width {
		return s
	}
	return s[:width-1] + "…"
}
