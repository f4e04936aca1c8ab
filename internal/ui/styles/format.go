// Package styles contains Lip Gloss style definitions.
package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TruncateString truncates a string to fit within maxWidth, adding ellipsis if needed.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}

	if lipgloss.Width(s) <= maxWidth {
		return s
	}

	// Need to truncate - leave room for ellipsis
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}

	// Truncate rune by rune
	result := ""
	for _, r := range s {
		test := result + string(r)
		if lipgloss.Width(test) > maxWidth-3 {
			break
		}
		result = test
	}

	return result + "..."
}

// FormatBadge renders badge content as a compact counter cell. Counts above
// 99 collapse to "99+" so the bar column width stays stable.
func FormatBadge(content string) string {
	if content == "" {
		return ""
	}
	if len(content) > 3 {
		if _, err := fmt.Sscanf(content, "%d", new(int)); err == nil {
			return "99+"
		}
		return TruncateString(content, 3)
	}
	return content
}
