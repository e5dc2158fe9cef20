package formatter

import (
	"github.com/Fred49680/PDC-sub001/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
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
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// CoverageIndicator returns a colored status string such as "● BALANCED".
func CoverageIndicator(status domain.CoverageStatus) string {
	switch status {
	case domain.CoverageBalanced:
		return StyleGreen.Render("● BALANCED")
	case domain.CoverageUnderCovered:
		return StyleRed.Render("● UNDER-COVERED")
	case domain.CoverageOverCovered:
		return StyleYellow.Render("● OVER-COVERED")
	default:
		return StyleDim.Render("● UNKNOWN")
	}
}

// TransferBadge renders a transfer status.
func TransferBadge(status domain.TransferStatus) string {
	switch status {
	case domain.TransferApplied:
		return StyleGreen.Render("applied")
	case domain.TransferPlanned:
		return StyleBlue.Render("planned")
	default:
		return StyleDim.Render(string(status))
	}
}

// YesNo renders a boolean as a colored marker.
func YesNo(b bool) string {
	if b {
		return StyleGreen.Render("yes")
	}
	return StyleDim.Render("no")
}
