package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/denifrahman/deni-crm/internal/api"
	"github.com/denifrahman/deni-crm/internal/cli/formatter"
	"github.com/denifrahman/deni-crm/internal/domain"
	"github.com/denifrahman/deni-crm/internal/flush"
)

// flushOutcomeMsg delivers one completed background stage write to the
// TUI so it can toast the result and roll back the board on failure.
type flushOutcomeMsg struct {
	outcome flush.Outcome
}

// appModel is the root bubbletea Model for the TUI.
// It manages a view stack and a transient toast line.
type appModel struct {
	state     *SharedState
	viewStack []View
	quitting  bool

	toastText string
	toastErr  bool
}

func newAppModel(app *App) appModel {
	state := NewSharedState(app)

	m := appModel{state: state}

	// Start on the transaction list as the home view.
	m.viewStack = []View{newTransactionListView(state)}

	return m
}

// activeView returns the top view on the stack, or nil.
func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

// setActiveView replaces the top of the view stack.
// If the stack is empty, this is a no-op.
func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

// waitForOutcome blocks on the flush outcome channel and converts the
// next completed write into a message. Rearmed after every delivery.
func (m *appModel) waitForOutcome() tea.Cmd {
	ch := m.state.App.Outcomes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		o, ok := <-ch
		if !ok {
			return nil
		}
		return flushOutcomeMsg{outcome: o}
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	if v := m.activeView(); v != nil {
		cmds = append(cmds, v.Init())
	}
	if c := m.waitForOutcome(); c != nil {
		cmds = append(cmds, c)
	}
	return tea.Batch(cmds...)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		if v := m.activeView(); v != nil {
			updated, cmd := v.Update(msg)
			m.setActiveView(updated.(View))
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	// Navigation messages from views
	case pushViewMsg:
		m.clearToast()
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil

	case replaceViewMsg:
		m.clearToast()
		if len(m.viewStack) > 0 {
			m.viewStack[len(m.viewStack)-1] = msg.view
		} else {
			m.viewStack = append(m.viewStack, msg.view)
		}
		return m, msg.view.Init()

	case formSubmittedMsg:
		// Pop the form and redeliver the submission to the view that
		// pushed it, so the owner performs the write and refetches.
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		if v := m.activeView(); v != nil {
			updated, cmd := v.Update(msg)
			m.setActiveView(updated.(View))
			return m, cmd
		}
		return m, nil

	case toastMsg:
		m.toastText = msg.text
		m.toastErr = msg.isErr
		return m, nil

	case flushOutcomeMsg:
		return m.handleOutcome(msg.outcome)
	}

	// Forward everything else to the active view
	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	return m, nil
}

// handleOutcome toasts a completed background write and, on failure,
// restores the deal's prior stage wherever it is currently loaded.
func (m appModel) handleOutcome(o flush.Outcome) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.waitForOutcome()}

	if o.Err != nil {
		id := o.Deal.ID
		prior := o.Prior
		m.state.DealCtrl.Mutate(func(deals []domain.Deal) []domain.Deal {
			for i := range deals {
				if deals[i].ID == id {
					deals[i].Stage = prior
				}
			}
			return deals
		})
		cmds = append(cmds, toast(fmt.Sprintf("move failed, %s returned to %s: %s",
			o.Deal.Name, formatter.StageLabel(prior), api.UpstreamMessage(o.Err)), true))
	} else {
		cmds = append(cmds, toast(fmt.Sprintf("%s moved to %s",
			o.Deal.Name, formatter.StageLabel(o.Deal.Stage)), false))
	}

	return m, tea.Batch(cmds...)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// Views with their own text input receive all keys, including 'q'.
	if v := m.activeView(); v != nil && viewCapturesInput(v) {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "1":
		return m.switchHome(newTransactionListView(m.state))
	case "2":
		return m.switchHome(newDealListView(m.state))
	case "3":
		return m.switchHome(newProductListView(m.state))
	}

	if msg.Type == tea.KeyEsc {
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
			m.clearToast()
			return m, nil
		}
		return m, nil
	}

	// Forward to active view
	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	return m, nil
}

// switchHome resets the stack to a single top-level list view.
func (m appModel) switchHome(v View) (tea.Model, tea.Cmd) {
	if top := m.activeView(); top != nil && top.ID() == v.ID() {
		return m, nil
	}
	m.clearToast()
	m.viewStack = []View{v}
	return m, v.Init()
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}

	sections = append(sections, m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}

	return result
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	title := formatter.StylePurple.Render("deni-crm")

	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	breadcrumb := ""
	if len(crumbs) > 0 {
		breadcrumb = " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}

	header := title + breadcrumb

	if m.toastText != "" {
		style := formatter.StyleGreen
		if m.toastErr {
			style = formatter.StyleRed
		}
		header += "  " + style.Render(m.toastText)
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	var hints []string

	if v := m.activeView(); v != nil {
		for _, b := range v.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
	}
	if len(m.viewStack) > 1 {
		hints = append(hints, formatter.Dim("esc: back"))
	} else {
		hints = append(hints, formatter.Dim("1/2/3: transactions/deals/products"))
	}
	hints = append(hints, formatter.Dim("q: quit"))

	bar := strings.Join(hints, "  ")
	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + bar
}

// clearToast dismisses the transient notification line.
func (m *appModel) clearToast() {
	m.toastText = ""
	m.toastErr = false
}

// inputCapturer lets a view claim all key events temporarily, e.g. while
// its search box is focused.
type inputCapturer interface {
	capturingInput() bool
}

// viewCapturesInput returns true if the active view has its own text input
// and should receive all key events (bypassing global keybindings like q).
func viewCapturesInput(v View) bool {
	if v == nil {
		return false
	}
	switch v.ID() {
	case ViewDealForm, ViewTransactionForm, ViewProductForm, ViewDateFilter:
		return true
	}
	if c, ok := v.(inputCapturer); ok {
		return c.capturingInput()
	}
	return false
}
