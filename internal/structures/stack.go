package structures

import "github.com/riordanpawley/structdo/internal/domain"

// Stack is a LIFO task container that remembers what it completed.
// The top of the stack is the end of the tasks slice.
type Stack struct {
	tasks   []domain.Task
	history []domain.Task
}

// NewStack creates an empty stack
func NewStack() *Stack {
	return &Stack{}
}

// Add pushes a task onto the top
func (s *Stack) Add(task domain.Task) {
	s.tasks = append(s.tasks, task)
}

// Complete pops the top task and records it in the history.
// Returns false if the stack is empty.
func (s *Stack) Complete() (domain.Task, bool) {
	if len(s.tasks) == 0 {
		return domain.Task{}, false
	}
	top := s.tasks[len(s.tasks)-1]
	s.tasks = s.tasks[:len(s.tasks)-1]
	s.history = append(s.history, top)
	return top, true
}

// Undo reverses the most recent completion, pushing the task back on top.
// Returns false if there is nothing to undo.
func (s *Stack) Undo() (domain.Task, bool) {
	if len(s.history) == 0 {
		return domain.Task{}, false
	}
	last := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.tasks = append(s.tasks, last)
	return last, true
}

// Top returns the task Complete would take next
func (s *Stack) Top() (domain.Task, bool) {
	if len(s.tasks) == 0 {
		return domain.Task{}, false
	}
	return s.tasks[len(s.tasks)-1], true
}

// List returns the tasks bottom to top, i.e. in insertion order.
// Replaying the result through Add rebuilds the same stack.
func (s *Stack) List() []domain.Task {
	out := make([]domain.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// History returns completed tasks oldest first
func (s *Stack) History() []domain.Task {
	out := make([]domain.Task, len(s.history))
	copy(out, s.history)
	return out
}

// RestoreHistory replaces the completion history, oldest first
func (s *Stack) RestoreHistory(tasks []domain.Task) {
	s.history = append([]domain.Task(nil), tasks...)
}

// Remove deletes the task with the given ID from the pending tasks.
// History is left alone.
func (s *Stack) Remove(id string) bool {
	for i := len(s.tasks) - 1; i >= 0; i-- {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of pending tasks
func (s *Stack) Len() int {
	return len(s.tasks)
}

// Clear empties both the stack and its history
func (s *Stack) Clear() {
	s.tasks = nil
	s.history = nil
}
