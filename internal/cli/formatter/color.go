package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/denifrahman/deni-crm/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// Dim renders text in the dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold foreground.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// StageColor returns the lipgloss style for a pipeline stage.
func StageColor(stage domain.Stage) lipgloss.Style {
	switch stage {
	case domain.StageWon, domain.StageDone:
		return StyleGreen
	case domain.StageNegotiation:
		return StyleYellow
	case domain.StageLost:
		return StyleRed
	case domain.StageProposalSend:
		return StyleBlue
	case domain.StageQualified:
		return StylePurple
	default:
		return StyleDim
	}
}

// StageLabel renders a stage name for column headers: underscores out,
// title case in ("proposal_send" → "Proposal Send").
func StageLabel(stage domain.Stage) string {
	words := strings.Split(string(stage), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
