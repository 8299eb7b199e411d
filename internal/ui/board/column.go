package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/structdo/internal/ui/styles"
)

// renderColumn renders a structure column with header and task cards.
// Columns taller than height scroll to keep the cursor visible.
func renderColumn(col Column, cursorTask int, isActive bool, width, height int, s *styles.Styles) string {
	headerStyle := s.ColumnHeader
	if isActive {
		headerStyle = s.ColumnHeaderActive
	}

	// Header with title and count (e.g., "─ Queue (3) ─────")
	headerText := ansi.Truncate(fmt.Sprintf("─ %s (%d) ", col.Title, len(col.Tasks)), max(width-2, 1), "…")
	if remaining := width - lipgloss.Width(headerText) - 2; remaining > 0 {
		headerText += strings.Repeat("─", remaining)
	}
	header := headerStyle.Render(headerText)

	// Header takes two lines; the column border two more
	bodyHeight := max(height-4, 1)
	start, end := visibleRange(len(col.Tasks), cursorTask, max(bodyHeight/cardHeight, 1))

	var lines []string
	if start > 0 {
		lines = append(lines, s.EmptyColumn.Render(fmt.Sprintf("↑ %d more", start)))
	}
	// Column border and padding take two columns each side; the card's
	// own border takes one more each side
	cardWidth := width - 6
	for i := start; i < end; i++ {
		isCursor := isActive && i == cursorTask
		lines = append(lines, renderCard(col.Tasks[i], col.Kind, i, isCursor, cardWidth, s))
	}
	if end < len(col.Tasks) {
		lines = append(lines, s.EmptyColumn.Render(fmt.Sprintf("↓ %d more", len(col.Tasks)-end)))
	}
	if len(col.Tasks) == 0 {
		lines = append(lines, s.EmptyColumn.Render("(empty)"))
	}

	columnContent := s.Column.Width(width - 2).Height(bodyHeight).Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, header, columnContent)
}

// visibleRange returns the window of n cards that fits and shows cursor
func visibleRange(n, cursor, fits int) (start, end int) {
	if n <= fits {
		return 0, n
	}
	// Leave a line each for the scroll markers
	fits = max(fits-1, 1)
	start = max(0, cursor-fits+1)
	end = min(n, start+fits)
	return start, end
}
