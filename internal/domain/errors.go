package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrEmpty           = errors.New("no tasks to complete")
	ErrInvalidPosition = errors.New("invalid position")
	ErrNothingToUndo   = errors.New("nothing to undo")
	ErrNotFound        = errors.New("task not found")
	ErrEmptyTitle      = errors.New("task text cannot be empty")
	ErrInvalidPriority = errors.New("invalid priority")
)

// StoreError represents a failure reading or writing persisted tasks
type StoreError struct {
	Op   string // Operation: "load", "save", "validate", ...
	Path string // File involved
	Err  error  // Underlying error
}

func (e *StoreError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("store %s [%s]: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// PositionError reports an index outside the valid range of a list
type PositionError struct {
	Pos  int
	Size int
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("invalid position %d (list has %d tasks)", e.Pos, e.Size)
}

func (e *PositionError) Unwrap() error {
	return ErrInvalidPosition
}
