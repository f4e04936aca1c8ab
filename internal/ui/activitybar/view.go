package activitybar

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/rcalder/wharf/internal/cachemanager"
	"github.com/rcalder/wharf/internal/composite"
	"github.com/rcalder/wharf/internal/ui/styles"
)

const defaultWidth = 22

var contextBG = context.Background()

// GlobalBadgeReader exposes the fixed global activity section for rendering.
// Satisfied by *bar.Overlay.
type GlobalBadgeReader interface {
	GlobalActivityIDs() []string
	GlobalBadge(id string) (composite.Badge, bool)
}

// View renders the bar: composite entries on top, the fixed global section at
// the bottom. globals may be nil, which omits the section.
func (m *Model) View(globals GlobalBadgeReader, globalNames map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tornDown {
		return ""
	}

	var b strings.Builder
	for i, e := range m.entries {
		cell := m.renderEntryLocked(e, i == m.cursor)
		b.WriteString(zone.Mark(EntryZoneID(e.desc.ID), cell))
		b.WriteString("\n")
	}

	body := strings.TrimRight(b.String(), "\n")
	if globals != nil {
		section := m.renderGlobalsLocked(globals, globalNames)
		if section != "" {
			body = lipgloss.JoinVertical(lipgloss.Left, body, styles.GlobalSectionStyle.Width(m.width).Render(section))
		}
	}

	return styles.BarStyle.Width(m.width).Render(body)
}

// renderEntryLocked renders one cell, memoized on the full visual state.
func (m *Model) renderEntryLocked(e *entry, cursor bool) string {
	key := m.cellCacheKeyLocked(e, cursor)
	if cached, ok := m.cache.Get(contextBG, key); ok {
		return cached
	}

	cell := renderCell(e, m.badges[e.desc.ID], m.active == e.desc.ID, cursor, m.width)
	m.cache.Set(contextBG, key, cell, cachemanager.DefaultExpiration)
	return cell
}

func (m *Model) cellCacheKeyLocked(e *entry, cursor bool) string {
	badge := ""
	if b, ok := m.badges[e.desc.ID]; ok {
		badge = fmt.Sprintf("%s/%s/%d", b.Content, b.ClassName, b.Priority)
	}
	return fmt.Sprintf("%s|%s|%s|%t|%t|%t|%t|%s|%d",
		e.desc.ID, e.desc.Name, e.desc.Icon,
		e.pinned, m.active == e.desc.ID, cursor, e.desc.Enabled,
		badge, m.width)
}

// invalidateLocked drops every cached cell for an id. Cursor state doubles
// the key space, so both variants are removed.
func (m *Model) invalidateLocked(id string) {
	if id == "" {
		return
	}
	// Keys embed volatile state; flushing per id is not possible without a
	// scan, so drop the whole cache. Repaints are cheap at bar scale.
	_ = m.cache.Flush(contextBG)
}

func renderCell(e *entry, badge composite.Badge, active, cursor bool, width int) string {
	marker := " "
	if cursor {
		marker = ">"
	}

	pin := " "
	if e.pinned {
		pin = "•"
	}

	icon := string(e.desc.Icon)
	if icon == "" {
		icon = "·"
	}

	badgeCell := ""
	if badge.Content != "" {
		badgeCell = " " + styles.BadgeStyle.Render(styles.FormatBadge(badge.Content))
	}

	nameWidth := width - lipgloss.Width(marker) - lipgloss.Width(pin) - lipgloss.Width(icon) - lipgloss.Width(badgeCell) - 5
	name := styles.TruncateString(e.desc.Name, nameWidth)

	line := fmt.Sprintf("%s%s %s %s%s", marker, pin, icon, name, badgeCell)

	style := styles.EntryStyle
	switch {
	case active:
		style = styles.EntryActiveStyle
	case !e.pinned:
		style = styles.EntryUnpinnedStyle
	}
	if !e.desc.Enabled {
		style = styles.EntryPlaceholderStyle
	}
	return style.Render(line)
}

func (m *Model) renderGlobalsLocked(globals GlobalBadgeReader, names map[string]string) string {
	var lines []string
	for _, id := range globals.GlobalActivityIDs() {
		name := names[id]
		if name == "" {
			name = id
		}
		line := "  " + styles.TruncateString(name, m.width-8)
		if b, ok := globals.GlobalBadge(id); ok && b.Content != "" {
			line += " " + styles.BadgeStyle.Render(styles.FormatBadge(b.Content))
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n")
}
