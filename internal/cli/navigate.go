package cli

import tea "github.com/charmbracelet/bubbletea"

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// popViewMsg pops the current view off the navigation stack,
// returning to the previous view.
type popViewMsg struct{}

// replaceViewMsg replaces the current top view with a new one.
type replaceViewMsg struct {
	view View
}

// toastMsg shows a transient notification line. Error toasts carry the
// upstream-provided failure message.
type toastMsg struct {
	text  string
	isErr bool
}

// formSubmittedMsg carries a completed form back to the owning view:
// the edited record plus the intent tag chosen by the submit action.
// The appModel pops the form view, then redelivers this to the new top.
type formSubmittedMsg struct {
	payload any // domain.Transaction, domain.Deal, or domain.Product
	intent  any // domain.FormIntent for deals; nil for plain saves
}

// pushView returns a tea.Cmd that pushes a view onto the stack.
func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

// popView returns a tea.Cmd that pops the current view.
func popView() tea.Cmd {
	return func() tea.Msg { return popViewMsg{} }
}

// replaceView returns a tea.Cmd that replaces the top view.
func replaceView(v View) tea.Cmd {
	return func() tea.Msg { return replaceViewMsg{view: v} }
}

// toast returns a tea.Cmd that shows a transient notification.
func toast(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return toastMsg{text: text, isErr: isErr} }
}
