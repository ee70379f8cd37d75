package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/denifrahman/deni-crm/internal/cli/formatter"
	"github.com/denifrahman/deni-crm/internal/domain"
)

// crmHuhTheme returns a custom huh theme using the existing Gruvbox palette.
func crmHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// validateRequired rejects an empty value.
func validateRequired(label string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

// validateOptionalDate accepts empty or a YYYY-MM-DD date string.
func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

// validatePositiveInt accepts empty or a positive integer.
func validatePositiveInt(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

// validateNonNegativeInt accepts empty or a non-negative integer.
func validateNonNegativeInt(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}

// parsePositiveInt parses s as a positive integer, returning fallback if s
// is empty, non-numeric, or non-positive. Used after huh validation has
// already ensured the string is valid, so this is a safe conversion.
func parsePositiveInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// formView wraps a huh.Form as a View on the navigation stack. When the
// form completes it emits a formSubmittedMsg built by the bind callback;
// the root model pops the form and redelivers the submission to the view
// underneath. Escape cancels without submitting.
type formView struct {
	id       ViewID
	titleStr string
	form     *huh.Form

	// bind reads the form's bound values into a submission payload.
	bind func() (payload, intent any)
}

func newFormView(id ViewID, title string, form *huh.Form, bind func() (payload, intent any)) *formView {
	return &formView{id: id, titleStr: title, form: form, bind: bind}
}

func (v *formView) ID() ViewID    { return v.id }
func (v *formView) Title() string { return v.titleStr }

func (v *formView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (v *formView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *formView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return v, popView()
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}

	if v.form.State == huh.StateCompleted {
		payload, intent := v.bind()
		return v, tea.Batch(cmd, func() tea.Msg {
			return formSubmittedMsg{payload: payload, intent: intent}
		})
	}

	return v, cmd
}

func (v *formView) View() string {
	return v.form.View()
}

// newDateFilterView builds a small form that submits a date-range filter
// back to the list view that pushed it.
func newDateFilterView(state *SharedState, current domain.Filter) View {
	start := current.StartDate
	end := current.EndDate

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Start Date (YYYY-MM-DD, blank to clear)").
				Placeholder("2025-01-01").
				Value(&start).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("End Date (YYYY-MM-DD, blank to clear)").
				Placeholder("2025-12-31").
				Value(&end).
				Validate(validateOptionalDate),
		),
	).WithTheme(crmHuhTheme()).WithShowHelp(false)

	return newFormView(ViewDateFilter, "Date Filter", form, func() (any, any) {
		return dateRangeFilter{start: start, end: end}, nil
	})
}
