package cli

import (
	"github.com/denifrahman/deni-crm/internal/domain"
	"github.com/denifrahman/deni-crm/internal/list"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Deal listing state is shared between the deal table and the
	// kanban board: the board's columns partition the table's page.
	DealCtrl *list.Controller[domain.Deal]

	// Terminal dimensions
	Width  int
	Height int
}

// ContentHeight returns the rows available to the active view after the
// chrome lines (title, toast, help bar).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 0 {
		return 0
	}
	return h
}

// NewSharedState wires fresh view state for one TUI session.
func NewSharedState(app *App) *SharedState {
	return &SharedState{
		App:      app,
		DealCtrl: list.New[domain.Deal](app.Cfg.PageSize),
	}
}
