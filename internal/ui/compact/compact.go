// Package compact renders one structure as a full-width table, an
// alternative to the four-column board.
package compact

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/structdo/internal/domain"
)

// Column widths outside the title
const (
	numberWidth   = 5
	priorityWidth = 5
	dueWidth      = 12
	addedWidth    = 12
)

// CompactView is a table of one structure's tasks
type CompactView struct {
	heading string
	kind    domain.Kind
	tasks   []domain.Task
	cursor  int
	styles  *Styles
	width   int
	height  int
	now     func() time.Time

	scrollOffset int
}

// NewCompactView creates a view for kind's tasks in display order
func NewCompactView(heading string, kind domain.Kind, tasks []domain.Task, styles *Styles) *CompactView {
	return &CompactView{
		heading: heading,
		kind:    kind,
		tasks:   tasks,
		styles:  styles,
		width:   80,
		height:  20,
		now:     time.Now,
	}
}

// SetCursor sets the cursor position
func (cv *CompactView) SetCursor(index int) {
	cv.cursor = max(0, min(index, len(cv.tasks)-1))
	cv.ensureCursorVisible()
}

// SetDimensions sets the available size
func (cv *CompactView) SetDimensions(width, height int) {
	cv.width = width
	cv.height = height
	cv.ensureCursorVisible()
}

// Render renders the table
func (cv *CompactView) Render() string {
	var b strings.Builder
	b.WriteString(cv.styles.Heading.Render(fmt.Sprintf("%s (%d)", cv.heading, len(cv.tasks))))
	b.WriteString("\n")

	if len(cv.tasks) == 0 {
		b.WriteString(cv.styles.Empty.Render("No tasks. Press 'a' to add one."))
		return b.String()
	}

	b.WriteString(cv.renderHeader())
	b.WriteString("\n")
	b.WriteString(cv.styles.Separator.Render(strings.Repeat("─", cv.width)))

	start := cv.scrollOffset
	end := min(start+cv.visibleRows(), len(cv.tasks))
	for i := start; i < end; i++ {
		b.WriteString("\n")
		b.WriteString(cv.renderRow(i, cv.tasks[i]))
	}

	if end < len(cv.tasks) {
		b.WriteString("\n")
		b.WriteString(cv.styles.Separator.Render(fmt.Sprintf(" ↓ %d more tasks ↓ ", len(cv.tasks)-end)))
	}
	return b.String()
}

func (cv *CompactView) titleWidth() int {
	return max(20, cv.width-numberWidth-priorityWidth-dueWidth-addedWidth)
}

func (cv *CompactView) renderHeader() string {
	h := cv.styles.HeaderCell
	return lipgloss.JoinHorizontal(lipgloss.Top,
		h.Width(numberWidth).Render("#"),
		h.Width(cv.titleWidth()).Render("Title"),
		h.Width(priorityWidth).Render("Pri"),
		h.Width(dueWidth).Render("Due"),
		h.Width(addedWidth).Render("Added"),
	)
}

func (cv *CompactView) renderRow(index int, task domain.Task) string {
	isActive := index == cv.cursor
	rowStyle := cv.styles.Row
	if isActive {
		rowStyle = cv.styles.RowActive
	}

	number := fmt.Sprintf("%d ", index)
	if isActive {
		number = cv.styles.Cursor.Render("▶") + number
	}

	title := task.Title
	if cv.kind == domain.KindTree {
		title = task.Label()
	}
	if task.Description != "" {
		title += " " + cv.styles.Description.Render(task.Description)
	}
	title = ansi.Truncate(title, cv.titleWidth()-1, "…")

	due := cv.styles.Due
	if task.Due != nil && task.Due.Before(cv.now().Truncate(24*time.Hour)) {
		due = cv.styles.Overdue
	}
	added := ""
	if !task.CreatedAt.IsZero() {
		added = task.CreatedAt.Local().Format(domain.DateLayout)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		cv.styles.Number.Width(numberWidth).Render(number),
		rowStyle.Width(cv.titleWidth()).Render(title),
		cv.styles.Priority(task.Priority).Width(priorityWidth).Render(fmt.Sprintf("P%d", task.Priority)),
		due.Width(dueWidth).Render(task.DueString()),
		cv.styles.Due.Width(addedWidth).Render(added),
	)
}

// visibleRows is the table height without heading, header and separator
func (cv *CompactView) visibleRows() int {
	return max(cv.height-4, 1)
}

// ensureCursorVisible adjusts scroll offset to keep cursor visible
func (cv *CompactView) ensureCursorVisible() {
	visible := cv.visibleRows()
	if cv.cursor < cv.scrollOffset {
		cv.scrollOffset = cv.cursor
	}
	if cv.cursor >= cv.scrollOffset+visible {
		cv.scrollOffset = cv.cursor - visible + 1
	}
	cv.scrollOffset = max(0, min(cv.scrollOffset, len(cv.tasks)-visible))
}
