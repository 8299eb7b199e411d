package structures

import (
	"iter"
	"slices"

	"github.com/riordanpawley/structdo/internal/domain"
)

// Entry pairs a tree key with the task filed under it
type Entry[K any] struct {
	Key  K
	Task domain.Task
}

type treeNode[K any] struct {
	key    K
	task   domain.Task
	left   int
	right  int
	parent int
}

// Tree is a binary search tree of tasks. Keys smaller than a node go left;
// equal or larger keys go right, so ties accumulate in right subtrees and
// their relative order depends on the tree's shape.
type Tree[K any] struct {
	nodes []treeNode[K]
	free  []int
	root  int
	size  int
	cmp   func(a, b K) int
}

// NewTree creates an empty tree ordered by cmp
func NewTree[K any](cmp func(a, b K) int) *Tree[K] {
	return &Tree[K]{root: nilHandle, cmp: cmp}
}

// Len returns the number of tasks in the tree
func (t *Tree[K]) Len() int {
	return t.size
}

// Add files a task under key
func (t *Tree[K]) Add(key K, task domain.Task) {
	h := t.alloc(key, task)
	t.size++
	if t.root == nilHandle {
		t.root = h
		return
	}

	cur := t.root
	for {
		if t.cmp(key, t.nodes[cur].key) < 0 {
			if t.nodes[cur].left == nilHandle {
				t.nodes[cur].left = h
				break
			}
			cur = t.nodes[cur].left
		} else {
			if t.nodes[cur].right == nilHandle {
				t.nodes[cur].right = h
				break
			}
			cur = t.nodes[cur].right
		}
	}
	t.nodes[h].parent = cur
}

// Max returns the entry with the largest key without removing it
func (t *Tree[K]) Max() (K, domain.Task, bool) {
	if t.root == nilHandle {
		var zero K
		return zero, domain.Task{}, false
	}
	n := t.nodes[t.maxFrom(t.root)]
	return n.key, n.task, true
}

// Min returns the entry with the smallest key without removing it
func (t *Tree[K]) Min() (K, domain.Task, bool) {
	if t.root == nilHandle {
		var zero K
		return zero, domain.Task{}, false
	}
	n := t.nodes[t.minFrom(t.root)]
	return n.key, n.task, true
}

// CompleteMax removes and returns the entry with the largest key (the
// rightmost node). Among equal maxima it takes the deepest right one.
func (t *Tree[K]) CompleteMax() (K, domain.Task, bool) {
	if t.root == nilHandle {
		var zero K
		return zero, domain.Task{}, false
	}
	h := t.maxFrom(t.root)
	n := t.nodes[h]
	t.delete(h)
	return n.key, n.task, true
}

// CompleteMin removes and returns the entry with the smallest key
func (t *Tree[K]) CompleteMin() (K, domain.Task, bool) {
	if t.root == nilHandle {
		var zero K
		return zero, domain.Task{}, false
	}
	h := t.minFrom(t.root)
	n := t.nodes[h]
	t.delete(h)
	return n.key, n.task, true
}

// InOrder yields entries in ascending key order. The sequence is lazy and
// can be ranged over again; mutating the tree mid-iteration is not allowed.
func (t *Tree[K]) InOrder() iter.Seq2[K, domain.Task] {
	return func(yield func(K, domain.Task) bool) {
		var stack []int
		cur := t.root
		for cur != nilHandle || len(stack) > 0 {
			for cur != nilHandle {
				stack = append(stack, cur)
				cur = t.nodes[cur].left
			}
			cur = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(t.nodes[cur].key, t.nodes[cur].task) {
				return
			}
			cur = t.nodes[cur].right
		}
	}
}

// Descending yields entries from the largest key down
func (t *Tree[K]) Descending() iter.Seq2[K, domain.Task] {
	return func(yield func(K, domain.Task) bool) {
		var stack []int
		cur := t.root
		for cur != nilHandle || len(stack) > 0 {
			for cur != nilHandle {
				stack = append(stack, cur)
				cur = t.nodes[cur].right
			}
			cur = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(t.nodes[cur].key, t.nodes[cur].task) {
				return
			}
			cur = t.nodes[cur].left
		}
	}
}

// Entries returns every entry in ascending key order
func (t *Tree[K]) Entries() []Entry[K] {
	out := make([]Entry[K], 0, t.size)
	for k, task := range t.InOrder() {
		out = append(out, Entry[K]{Key: k, Task: task})
	}
	return out
}

// Remove deletes the first task, in key order, with the given ID. The tree is
// keyed by sort field rather than identity, so this scans every node and then
// rebuilds the tree from the survivors: O(n), not O(log n).
func (t *Tree[K]) Remove(id string) bool {
	entries := t.Entries()
	idx := slices.IndexFunc(entries, func(e Entry[K]) bool { return e.Task.ID == id })
	if idx < 0 {
		return false
	}
	t.Load(slices.Delete(entries, idx, idx+1))
	return true
}

// Load replaces the contents of the tree with entries. Entries are stably
// sorted and linked into a balanced shape; equal keys keep their relative
// order.
func (t *Tree[K]) Load(entries []Entry[K]) {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry[K]) int { return t.cmp(a.Key, b.Key) })

	t.Clear()
	t.root = t.build(sorted, nilHandle)
	t.size = len(sorted)
}

// Rebuild re-orders the tree under a new comparison and key mapping
func (t *Tree[K]) Rebuild(cmp func(a, b K) int, rekey func(domain.Task) K) {
	entries := t.Entries()
	for i := range entries {
		entries[i].Key = rekey(entries[i].Task)
	}
	t.cmp = cmp
	t.Load(entries)
}

// Clear empties the tree
func (t *Tree[K]) Clear() {
	t.nodes = nil
	t.free = nil
	t.root = nilHandle
	t.size = 0
}

// build links a sorted run into a subtree and returns its root. The root is
// the first of its run of equal keys so left subtrees stay strictly smaller.
func (t *Tree[K]) build(sorted []Entry[K], parent int) int {
	if len(sorted) == 0 {
		return nilHandle
	}
	mid := len(sorted) / 2
	for mid > 0 && t.cmp(sorted[mid-1].Key, sorted[mid].Key) == 0 {
		mid--
	}

	h := t.alloc(sorted[mid].Key, sorted[mid].Task)
	t.nodes[h].parent = parent
	left := t.build(sorted[:mid], h)
	right := t.build(sorted[mid+1:], h)
	t.nodes[h].left = left
	t.nodes[h].right = right
	return h
}

// delete removes node h. A node with two children takes over its in-order
// successor's key and task, and the successor is unlinked instead.
func (t *Tree[K]) delete(h int) {
	if t.nodes[h].left != nilHandle && t.nodes[h].right != nilHandle {
		s := t.minFrom(t.nodes[h].right)
		t.nodes[h].key = t.nodes[s].key
		t.nodes[h].task = t.nodes[s].task
		h = s
	}

	// h now has at most one child
	child := t.nodes[h].left
	if child == nilHandle {
		child = t.nodes[h].right
	}
	parent := t.nodes[h].parent
	if child != nilHandle {
		t.nodes[child].parent = parent
	}
	switch {
	case parent == nilHandle:
		t.root = child
	case t.nodes[parent].left == h:
		t.nodes[parent].left = child
	default:
		t.nodes[parent].right = child
	}

	var zero treeNode[K]
	t.nodes[h] = zero
	t.free = append(t.free, h)
	t.size--
}

func (t *Tree[K]) alloc(key K, task domain.Task) int {
	n := treeNode[K]{key: key, task: task, left: nilHandle, right: nilHandle, parent: nilHandle}
	if k := len(t.free); k > 0 {
		h := t.free[k-1]
		t.free = t.free[:k-1]
		t.nodes[h] = n
		return h
	}
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

func (t *Tree[K]) minFrom(h int) int {
	for t.nodes[h].left != nilHandle {
		h = t.nodes[h].left
	}
	return h
}

func (t *Tree[K]) maxFrom(h int) int {
	for t.nodes[h].right != nilHandle {
		h = t.nodes[h].right
	}
	return h
}
