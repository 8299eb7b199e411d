package domain

import (
	"cmp"
	"fmt"
	"strings"
	"time"
)

// SortField represents the field the task tree is keyed by
type SortField string

const (
	SortByPriority SortField = "priority"
	SortByTitle    SortField = "title"
	SortByDue      SortField = "due"
)

// SortFields lists the fields in cycle order
var SortFields = []SortField{SortByPriority, SortByTitle, SortByDue}

// Next returns the field after s, wrapping around
func (s SortField) Next() SortField {
	for i, f := range SortFields {
		if f == s {
			return SortFields[(i+1)%len(SortFields)]
		}
	}
	return SortByPriority
}

// CompletesMax reports whether completion takes the largest key.
// Priority completes the highest number; title and due complete the
// alphabetically first and earliest-due task.
func (s SortField) CompletesMax() bool {
	return s == SortByPriority || s == ""
}

// ParseSortField validates a sort field name
func ParseSortField(s string) (SortField, error) {
	switch SortField(strings.ToLower(strings.TrimSpace(s))) {
	case SortByPriority, "":
		return SortByPriority, nil
	case SortByTitle:
		return SortByTitle, nil
	case SortByDue, "due_date":
		return SortByDue, nil
	}
	return "", fmt.Errorf("unknown sort field %q (want priority, title or due)", s)
}

// Key is the sortable value a task is filed under in the tree
type Key struct {
	Field    SortField
	Priority int
	Title    string // lowercased
	Due      *time.Time
}

// KeyFor builds the tree key for a task
func KeyFor(field SortField, t Task) Key {
	switch field {
	case SortByTitle:
		return Key{Field: field, Title: strings.ToLower(t.Title)}
	case SortByDue:
		return Key{Field: field, Due: t.Due}
	default:
		return Key{Field: SortByPriority, Priority: t.Priority}
	}
}

// CompareKeys orders two keys of the same field.
// Tasks without a due date sort after every dated task.
func CompareKeys(a, b Key) int {
	switch a.Field {
	case SortByTitle:
		return strings.Compare(a.Title, b.Title)
	case SortByDue:
		switch {
		case a.Due == nil && b.Due == nil:
			return 0
		case a.Due == nil:
			return 1
		case b.Due == nil:
			return -1
		}
		return a.Due.Compare(*b.Due)
	default:
		return cmp.Compare(a.Priority, b.Priority)
	}
}
