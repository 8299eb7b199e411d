package compact

import (
	"fmt"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/structdo/internal/domain"
	"github.com/stretchr/testify/assert"
)

func tasks(n int) []domain.Task {
	out := make([]domain.Task, n)
	for i := range out {
		out[i] = domain.NewTask(fmt.Sprintf("task-%02d", i), i%10+1)
	}
	return out
}

func render(cv *CompactView) string {
	return ansi.Strip(cv.Render())
}

func TestCompactView_Render(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	items := tasks(2)
	items[1].Due = &due
	items[1].Description = "by friday"

	cv := NewCompactView("Queue", domain.KindQueue, items, NewStyles(1, 10))
	cv.SetDimensions(100, 20)

	got := render(cv)
	for _, want := range []string{"Queue (2)", "Title", "Pri", "Due", "task-00", "task-01", "by friday", "P2", "2026-03-01", "▶0"} {
		assert.Contains(t, got, want)
	}
}

func TestCompactView_TreeShowsLabels(t *testing.T) {
	cv := NewCompactView("BST", domain.KindTree, tasks(1), NewStyles(1, 10))
	cv.SetDimensions(100, 20)
	assert.Contains(t, render(cv), "P1: task-00")
}

func TestCompactView_Empty(t *testing.T) {
	cv := NewCompactView("Stack", domain.KindStack, nil, NewStyles(1, 10))
	got := render(cv)
	assert.Contains(t, got, "Stack (0)")
	assert.Contains(t, got, "No tasks")
}

func TestCompactView_ScrollsToCursor(t *testing.T) {
	cv := NewCompactView("Linked List", domain.KindList, tasks(30), NewStyles(1, 10))
	cv.SetDimensions(100, 10)

	got := render(cv)
	assert.Contains(t, got, "task-00")
	assert.Contains(t, got, "24 more tasks")

	cv.SetCursor(29)
	got = render(cv)
	assert.Contains(t, got, "task-29")
	assert.NotContains(t, got, "task-00")
	assert.Equal(t, 24, cv.scrollOffset)

	cv.SetCursor(-5)
	assert.Equal(t, 0, cv.cursor)
	assert.Equal(t, 0, cv.scrollOffset)
}

func TestCompactView_Overdue(t *testing.T) {
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	items := tasks(1)
	items[0].Due = &past

	cv := NewCompactView("Queue", domain.KindQueue, items, NewStyles(1, 10))
	cv.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	assert.Contains(t, render(cv), "2020-01-01")
}
