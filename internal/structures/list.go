package structures

import "github.com/riordanpawley/structdo/internal/domain"

// nilHandle marks an absent link
const nilHandle = -1

type listNode struct {
	task domain.Task
	prev int
	next int
}

// List is a doubly linked task list addressed by zero-based position.
type List struct {
	nodes []listNode
	free  []int
	head  int
	tail  int
	size  int
}

// NewList creates an empty list
func NewList() *List {
	return &List{head: nilHandle, tail: nilHandle}
}

// Len returns the number of live nodes
func (l *List) Len() int {
	return l.size
}

// Add appends a task at the tail
func (l *List) Add(task domain.Task) {
	l.linkAfter(l.tail, l.alloc(task))
}

// Insert places a task at pos. Position 0 is the head; any position at or
// past the end appends. Negative positions are rejected.
func (l *List) Insert(pos int, task domain.Task) error {
	if pos < 0 {
		return &domain.PositionError{Pos: pos, Size: l.size}
	}
	h := l.alloc(task)
	if pos >= l.size {
		l.linkAfter(l.tail, h)
		return nil
	}
	// Insert before the node currently at pos
	l.linkAfter(l.nodes[l.handleAt(pos)].prev, h)
	return nil
}

// RemoveAt unlinks the node at pos and returns its task
func (l *List) RemoveAt(pos int) (domain.Task, error) {
	if pos < 0 || pos >= l.size {
		return domain.Task{}, &domain.PositionError{Pos: pos, Size: l.size}
	}
	h := l.handleAt(pos)
	task := l.nodes[h].task
	l.unlink(h)
	return task, nil
}

// Move removes the task at from and re-inserts it at to.
// Moving a task onto its own position is a no-op.
func (l *List) Move(from, to int) error {
	if from < 0 || from >= l.size {
		return &domain.PositionError{Pos: from, Size: l.size}
	}
	if to < 0 {
		return &domain.PositionError{Pos: to, Size: l.size}
	}
	if from == to {
		return nil
	}
	task, err := l.RemoveAt(from)
	if err != nil {
		return err
	}
	return l.Insert(to, task)
}

// At returns the task at pos
func (l *List) At(pos int) (domain.Task, error) {
	if pos < 0 || pos >= l.size {
		return domain.Task{}, &domain.PositionError{Pos: pos, Size: l.size}
	}
	return l.nodes[l.handleAt(pos)].task, nil
}

// IndexOf returns the position of the task with the given ID, or -1
func (l *List) IndexOf(id string) int {
	i := 0
	for h := l.head; h != nilHandle; h = l.nodes[h].next {
		if l.nodes[h].task.ID == id {
			return i
		}
		i++
	}
	return -1
}

// Remove deletes the first node, scanning from the head, with the given ID
func (l *List) Remove(id string) bool {
	for h := l.head; h != nilHandle; h = l.nodes[h].next {
		if l.nodes[h].task.ID == id {
			l.unlink(h)
			return true
		}
	}
	return false
}

// List returns the tasks head to tail
func (l *List) List() []domain.Task {
	out := make([]domain.Task, 0, l.size)
	for h := l.head; h != nilHandle; h = l.nodes[h].next {
		out = append(out, l.nodes[h].task)
	}
	return out
}

// Clear empties the list and releases the arena
func (l *List) Clear() {
	l.nodes = nil
	l.free = nil
	l.head, l.tail = nilHandle, nilHandle
	l.size = 0
}

// alloc takes a free slot, or grows the arena, and fills it with task
func (l *List) alloc(task domain.Task) int {
	n := listNode{task: task, prev: nilHandle, next: nilHandle}
	if k := len(l.free); k > 0 {
		h := l.free[k-1]
		l.free = l.free[:k-1]
		l.nodes[h] = n
		return h
	}
	l.nodes = append(l.nodes, n)
	return len(l.nodes) - 1
}

// linkAfter splices h in after prev; prev == nilHandle links at the head
func (l *List) linkAfter(prev, h int) {
	var next int
	if prev == nilHandle {
		next = l.head
		l.head = h
	} else {
		next = l.nodes[prev].next
		l.nodes[prev].next = h
	}
	l.nodes[h].prev = prev
	l.nodes[h].next = next
	if next == nilHandle {
		l.tail = h
	} else {
		l.nodes[next].prev = h
	}
	l.size++
}

// unlink detaches h from its neighbours and frees the slot
func (l *List) unlink(h int) {
	n := l.nodes[h]
	if n.prev == nilHandle {
		l.head = n.next
	} else {
		l.nodes[n.prev].next = n.next
	}
	if n.next == nilHandle {
		l.tail = n.prev
	} else {
		l.nodes[n.next].prev = n.prev
	}
	l.nodes[h] = listNode{prev: nilHandle, next: nilHandle}
	l.free = append(l.free, h)
	l.size--
}

// handleAt walks from the nearer end to the node at pos.
// pos must already be validated.
func (l *List) handleAt(pos int) int {
	if pos < l.size/2 {
		h := l.head
		for i := 0; i < pos; i++ {
			h = l.nodes[h].next
		}
		return h
	}
	h := l.tail
	for i := l.size - 1; i > pos; i-- {
		h = l.nodes[h].prev
	}
	return h
}
