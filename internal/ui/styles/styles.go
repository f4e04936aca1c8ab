// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#CCCCCC"} // Entry names, primary text
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#BBBBBB"} // Unpinned entries
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"} // Placeholders, hints, footers

	// Semantic color names - Border
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}

	// Semantic color names - Status
	StatusActiveColor  = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"} // Active entry marker
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Badge colors
	BadgeTextColor = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	BadgeBgColor   = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#3498DB"}

	// Entry styles
	EntryStyle = lipgloss.NewStyle().
			Foreground(TextPrimaryColor).
			Padding(0, 1)

	EntryActiveStyle = lipgloss.NewStyle().
				Foreground(StatusActiveColor).
				Bold(true).
				Padding(0, 1)

	EntryUnpinnedStyle = lipgloss.NewStyle().
				Foreground(TextSecondaryColor).
				Padding(0, 1)

	EntryPlaceholderStyle = lipgloss.NewStyle().
				Foreground(TextMutedColor).
				Padding(0, 1)

	BadgeStyle = lipgloss.NewStyle().
			Foreground(BadgeTextColor).
			Background(BadgeBgColor).
			Bold(true)

	GlobalSectionStyle = lipgloss.NewStyle().
				Foreground(TextMutedColor).
				BorderStyle(lipgloss.NormalBorder()).
				BorderTop(true).
				BorderForeground(BorderDefaultColor)

	BarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(BorderDefaultColor)
)
