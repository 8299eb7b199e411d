package board

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/structdo/internal/domain"
	"github.com/riordanpawley/structdo/internal/ui/styles"
)

// cardHeight is the rendered height of one card including its margin
const cardHeight = 5

// renderCard renders a task card. The tree column shows the "P<n>: title"
// label it is stored under; the linked list shows positions.
func renderCard(task domain.Task, kind domain.Kind, index int, isCursor bool, width int, s *styles.Styles) string {
	cardStyle := s.Card
	if isCursor {
		cardStyle = s.CardActive
	}
	cardStyle = cardStyle.Width(width)

	title := task.Title
	if kind == domain.KindTree {
		title = task.Label()
	}

	prefix := ""
	if isCursor {
		prefix = "▶"
	}
	if kind == domain.KindList {
		prefix += s.TaskID.Render(fmt.Sprintf("%d ", index))
	}

	// Card width includes one column of padding on each side
	inner := width - 2
	maxTitleLen := inner - 2 - lipgloss.Width(prefix)
	titleLine := prefix + s.TaskTitle.Render(ansi.Truncate(title, max(maxTitleLen, 1), "…"))

	badgeLine := s.PriorityBadge(task.Priority).Render(fmt.Sprintf("P%d", task.Priority))
	if due := task.DueString(); due != "" {
		// Narrow cards drop the due date rather than wrap
		if withDue := badgeLine + " " + s.DueBadge.Render(due); lipgloss.Width(withDue) <= inner {
			badgeLine = withDue
		}
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, titleLine, badgeLine))
}

// RenderCard is the exported version for testing
func RenderCard(task domain.Task, kind domain.Kind, index int, isCursor bool, width int, s *styles.Styles) string {
	return renderCard(task, kind, index, isCursor, width, s)
}
