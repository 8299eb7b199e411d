// Package board renders the four structure columns.
package board

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/structdo/internal/ui/styles"
)

// Render renders the board, one column per structure
func Render(columns []Column, cursor Cursor, s *styles.Styles, width, height int) string {
	if len(columns) == 0 {
		return ""
	}
	cursor = cursor.Clamp(columns)

	columnWidth := width / len(columns)

	columnStrings := make([]string, 0, len(columns))
	for i, col := range columns {
		isActive := i == cursor.Column
		cursorTask := 0
		if isActive {
			cursorTask = cursor.Task
		}

		columnStr := renderColumn(col, cursorTask, isActive, columnWidth, height, s)

		// Force consistent width using lipgloss Width
		sized := lipgloss.NewStyle().Width(columnWidth).Height(height).Render(columnStr)
		columnStrings = append(columnStrings, sized)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, columnStrings...)
}
