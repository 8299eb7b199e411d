// Package domain contains the core task types shared by every structure.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar date format used for due dates
const DateLayout = "2006-01-02"

// Task is one to-do item. ID is the identity; Title is what the user typed.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    int        `json:"priority"`
	Due         *time.Time `json:"due,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewTask creates a task with a fresh identifier
func NewTask(title string, priority int) Task {
	return Task{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(title),
		Priority:  priority,
		CreatedAt: time.Now().UTC(),
	}
}

// Label renders the tree form of a task, e.g. "P3: Buy milk"
func (t Task) Label() string {
	return FormatLabel(t.Priority, t.Title)
}

// DueString returns the due date as YYYY-MM-DD, or "" when unset
func (t Task) DueString() string {
	if t.Due == nil {
		return ""
	}
	return t.Due.Format(DateLayout)
}

// IsZero returns true if the task has no identity
func (t Task) IsZero() bool {
	return t.ID == ""
}

// FormatLabel builds the "P<priority>: <title>" string
func FormatLabel(priority int, title string) string {
	return fmt.Sprintf("P%d: %s", priority, title)
}

// ParseDue parses a YYYY-MM-DD date. An empty string yields nil.
func ParseDue(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q (use YYYY-MM-DD): %w", s, err)
	}
	return &d, nil
}

// Kind identifies one of the four task structures
type Kind int

const (
	KindQueue Kind = iota
	KindStack
	KindList
	KindTree
)

// Kinds lists every structure in board order
var Kinds = []Kind{KindQueue, KindStack, KindList, KindTree}

// String returns the display name
func (k Kind) String() string {
	switch k {
	case KindQueue:
		return "Queue"
	case KindStack:
		return "Stack"
	case KindList:
		return "Linked List"
	case KindTree:
		return "BST"
	default:
		return "Unknown"
	}
}

// Tag returns the name used in snapshot files
func (k Kind) Tag() string {
	switch k {
	case KindQueue:
		return "Queue"
	case KindStack:
		return "Stack"
	case KindList:
		return "LinkedList"
	case KindTree:
		return "BST"
	default:
		return ""
	}
}

// CompleteVerb describes what completion does in this structure
func (k Kind) CompleteVerb() string {
	switch k {
	case KindQueue:
		return "Complete Next Task"
	case KindStack:
		return "Complete Last Task"
	case KindList:
		return "Complete Selected Task"
	case KindTree:
		return "Complete Highest Priority"
	default:
		return "Complete"
	}
}

// ParseKind accepts tags, display names and short aliases
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "")) {
	case "queue", "q":
		return KindQueue, nil
	case "stack", "s":
		return KindStack, nil
	case "linkedlist", "list", "l", "ll":
		return KindList, nil
	case "bst", "tree", "t":
		return KindTree, nil
	}
	return 0, fmt.Errorf("unknown structure %q (want queue, stack, list or bst)", s)
}
