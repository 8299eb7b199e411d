package structures

import "github.com/riordanpawley/structdo/internal/domain"

// Queue is a FIFO task container. Completion always takes the oldest task.
type Queue struct {
	items []domain.Task
	head  int
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Add appends a task at the tail
func (q *Queue) Add(task domain.Task) {
	q.items = append(q.items, task)
}

// Complete removes and returns the head task.
// Returns false if the queue is empty.
func (q *Queue) Complete() (domain.Task, bool) {
	if q.Len() == 0 {
		return domain.Task{}, false
	}

	task := q.items[q.head]
	q.items[q.head] = domain.Task{}
	q.head++

	// Compact once the dead prefix dominates
	if q.head > len(q.items)/2 {
		q.items = append([]domain.Task(nil), q.items[q.head:]...)
		q.head = 0
	}
	return task, true
}

// Peek returns the head task without removing it
func (q *Queue) Peek() (domain.Task, bool) {
	if q.Len() == 0 {
		return domain.Task{}, false
	}
	return q.items[q.head], true
}

// List returns the tasks head to tail
func (q *Queue) List() []domain.Task {
	out := make([]domain.Task, q.Len())
	copy(out, q.items[q.head:])
	return out
}

// Remove deletes the first task with the given ID
func (q *Queue) Remove(id string) bool {
	for i := q.head; i < len(q.items); i++ {
		if q.items[i].ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of queued tasks
func (q *Queue) Len() int {
	return len(q.items) - q.head
}

// Clear empties the queue
func (q *Queue) Clear() {
	q.items = nil
	q.head = 0
}
