package board

import "github.com/riordanpawley/structdo/internal/domain"

// Column is one structure's tasks in display order
type Column struct {
	Title string
	Kind  domain.Kind
	Tasks []domain.Task
}

// Cursor represents the current cursor position
type Cursor struct {
	Column int // Column index (0-3)
	Task   int // Task index within column
}

// Clamp keeps the cursor inside columns. An empty column leaves Task at 0.
func (c Cursor) Clamp(columns []Column) Cursor {
	if len(columns) == 0 {
		return Cursor{}
	}
	c.Column = max(0, min(c.Column, len(columns)-1))
	n := len(columns[c.Column].Tasks)
	c.Task = max(0, min(c.Task, n-1))
	return c
}

// MoveVertical moves up or down within the current column
func (c Cursor) MoveVertical(columns []Column, delta int) Cursor {
	c = c.Clamp(columns)
	c.Task += delta
	return c.Clamp(columns)
}

// MoveHorizontal moves to an adjacent column, keeping the row when the
// target column is long enough
func (c Cursor) MoveHorizontal(columns []Column, delta int) Cursor {
	c = c.Clamp(columns)
	c.Column += delta
	return c.Clamp(columns)
}

// Selected returns the task under the cursor
func (c Cursor) Selected(columns []Column) (domain.Task, bool) {
	c = c.Clamp(columns)
	if len(columns) == 0 || len(columns[c.Column].Tasks) == 0 {
		return domain.Task{}, false
	}
	return columns[c.Column].Tasks[c.Task], true
}
