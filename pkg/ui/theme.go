package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stderr, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme carries every color and pre-computed style the picker renders with.
type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Duration tiers and exit status
	Warning lipgloss.AdaptiveColor // slow command (warning tier)
	Alert   lipgloss.AdaptiveColor // very slow command (alert tier)
	Success lipgloss.AdaptiveColor // exit status 0
	Failure lipgloss.AdaptiveColor // non-zero / unknown exit status

	// UI elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Pre-computed styles, created once at startup instead of per-frame
	Base          lipgloss.Style
	Header        lipgloss.Style
	PromptStyle   lipgloss.Style
	MutedText     lipgloss.Style
	SecondaryText lipgloss.Style
	PrimaryBold   lipgloss.Style
	WarnText      lipgloss.Style
	AlertText     lipgloss.Style
	SuccessText   lipgloss.Style
	FailureText   lipgloss.Style
	SelectedRow   lipgloss.Style
	PreviewBorder lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive).
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}, // Dim

		Warning: lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#F1FA8C"}, // Yellow
		Alert:   lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}, // Red
		Success: lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}, // Green
		Failure: lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}, // Red

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Header = r.NewStyle().Foreground(t.Subtext)

	t.PromptStyle = r.NewStyle().Foreground(t.Primary).Bold(true)

	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.SecondaryText = r.NewStyle().Foreground(t.Secondary)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.WarnText = r.NewStyle().Foreground(t.Warning)
	t.AlertText = r.NewStyle().Foreground(t.Alert)
	t.SuccessText = r.NewStyle().Foreground(t.Success)
	t.FailureText = r.NewStyle().Foreground(t.Failure)

	t.SelectedRow = r.NewStyle().
		Background(t.Highlight).
		Bold(true)

	t.PreviewBorder = r.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(t.Border).
		PaddingLeft(1)

	return t
}

// PlainTheme returns a theme that renders no color or emphasis, for
// no-color mode and deterministic test output.
func PlainTheme(r *lipgloss.Renderer) Theme {
	t := Theme{Renderer: r}
	plain := r.NewStyle()
	t.Base = plain
	t.Header = plain
	t.PromptStyle = plain
	t.MutedText = plain
	t.SecondaryText = plain
	t.PrimaryBold = plain
	t.WarnText = plain
	t.AlertText = plain
	t.SuccessText = plain
	t.FailureText = plain
	t.SelectedRow = plain
	t.PreviewBorder = plain
	return t
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return PlainTheme(lipgloss.NewRenderer(os.Stdout))
}
