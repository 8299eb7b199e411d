package statusbar

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/structdo/internal/types"
	"github.com/riordanpawley/structdo/internal/ui/styles"
)

// Info is the board state shown on the right of the status bar
type Info struct {
	Structure string // focused column
	Tasks     int    // tasks in the focused column
	SortField string
	Dirty     bool // unsaved changes
}

// StatusBar represents the status bar at the bottom of the TUI
type StatusBar struct {
	mode   types.Mode
	width  int
	styles *styles.Styles
	info   *Info
}

// New creates a new StatusBar with the given mode, width, and styles
func New(mode types.Mode, width int, styles *styles.Styles) StatusBar {
	return StatusBar{
		mode:   mode,
		width:  width,
		styles: styles,
	}
}

// WithInfo returns a copy of the status bar that also shows board state
func (sb StatusBar) WithInfo(info Info) StatusBar {
	sb.info = &info
	return sb
}

// Render renders the status bar as a string
func (sb StatusBar) Render() string {
	modeBadge := sb.styles.StatusMode.Render(" " + sb.mode.String() + " ")
	separator := sb.styles.StatusHint.Render(" │ ")

	parts := []string{modeBadge}
	if hints := GetHints(sb.mode); hints != "" {
		parts = append(parts, separator, sb.styles.StatusHint.Render(hints))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Left, parts...)

	if sb.info == nil {
		return sb.styles.StatusBar.Width(sb.width).Render(left)
	}

	right := sb.renderInfo()
	// Status bar padding takes one column on each side
	gap := sb.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		// Not enough room; board state wins over hints
		left = modeBadge
		gap = max(1, sb.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	}
	content := left + lipgloss.NewStyle().Width(gap).Render("") + right
	return sb.styles.StatusBar.Width(sb.width).Render(content)
}

func (sb StatusBar) renderInfo() string {
	info := sb.info
	out := sb.styles.StatusInfo.Render(info.Structure+" ") +
		sb.styles.StatusCount.Render(fmt.Sprintf("%d", info.Tasks)) +
		sb.styles.StatusHint.Render(" │ sort: ") +
		sb.styles.StatusSort.Render(info.SortField)
	if info.Dirty {
		out += sb.styles.StatusDirty.Render(" ●")
	}
	return out
}
