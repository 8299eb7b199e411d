package structures

import (
	"fmt"

	"github.com/riordanpawley/structdo/internal/domain"
)

// task builds a task whose ID is derived from its title so tests can compare
// by either
func task(title string) domain.Task {
	return domain.Task{ID: "id-" + title, Title: title}
}

func tasks(titles ...string) []domain.Task {
	out := make([]domain.Task, len(titles))
	for i, t := range titles {
		out[i] = task(t)
	}
	return out
}

func titles(ts []domain.Task) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Title
	}
	return out
}

func numbered(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("t%d", i)
	}
	return out
}
