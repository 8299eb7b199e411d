// Package registry mirrors tasks across the four structures and keeps one
// completion history spanning all of them.
package registry

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/riordanpawley/structdo/internal/domain"
	"github.com/riordanpawley/structdo/internal/structures"
)

// Mode selects how structures relate to each other
type Mode string

const (
	// ModeMirrored keeps every task in all four structures at once
	ModeMirrored Mode = "mirrored"
	// ModeIndependent treats each structure as its own to-do list
	ModeIndependent Mode = "independent"
)

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeMirrored, "":
		return ModeMirrored, nil
	case ModeIndependent:
		return ModeIndependent, nil
	}
	return "", fmt.Errorf("unknown mode %q (want mirrored or independent)", s)
}

// Options configures a Registry
type Options struct {
	Mode            Mode
	SortField       domain.SortField
	MinPriority     int
	MaxPriority     int
	DefaultPriority int
}

// DefaultOptions returns mirrored mode keyed by priority 1..10
func DefaultOptions() Options {
	return Options{
		Mode:            ModeMirrored,
		SortField:       domain.SortByPriority,
		MinPriority:     1,
		MaxPriority:     10,
		DefaultPriority: 1,
	}
}

// HistoryEntry records one completion and the structure it went through
type HistoryEntry struct {
	Kind domain.Kind
	Task domain.Task
}

// Registry owns one of each structure
type Registry struct {
	opts    Options
	queue   *structures.Queue
	stack   *structures.Stack
	list    *structures.List
	tree    *structures.Tree[domain.Key]
	history []HistoryEntry
	logger  *slog.Logger
}

// New creates an empty registry
func New(opts Options, logger *slog.Logger) *Registry {
	if opts.Mode == "" {
		opts.Mode = ModeMirrored
	}
	if opts.SortField == "" {
		opts.SortField = domain.SortByPriority
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		opts:   opts,
		queue:  structures.NewQueue(),
		stack:  structures.NewStack(),
		list:   structures.NewList(),
		tree:   structures.NewTree(domain.CompareKeys),
		logger: logger,
	}
}

// Options returns the registry's configuration
func (r *Registry) Options() Options {
	return r.opts
}

// Mirrored reports whether tasks are shared across structures
func (r *Registry) Mirrored() bool {
	return r.opts.Mode != ModeIndependent
}

// AddTask adds a task with the given text and priority to every structure
func (r *Registry) AddTask(title string, priority int) (domain.Task, error) {
	return r.Add(domain.Task{Title: title, Priority: priority})
}

// AddTaskAt is AddTask with a positional insert into the linked list.
// The other structures append as usual.
func (r *Registry) AddTaskAt(title string, priority, pos int) (domain.Task, error) {
	return r.AddAt(domain.Task{Title: title, Priority: priority}, pos)
}

// AddAt is Add with a positional insert into the linked list. Independent
// registries file the task in the list only.
func (r *Registry) AddAt(task domain.Task, pos int) (domain.Task, error) {
	if pos < 0 {
		return domain.Task{}, &domain.PositionError{Pos: pos, Size: r.list.Len()}
	}
	task, err := r.prepare(task)
	if err != nil {
		return domain.Task{}, err
	}

	if err := r.list.Insert(pos, task); err != nil {
		return domain.Task{}, err
	}
	if r.Mirrored() {
		r.queue.Add(task)
		r.stack.Add(task)
		r.addToTree(task)
	}
	r.logger.Debug("task added", "id", task.ID, "title", task.Title, "list_pos", pos)
	return task, nil
}

// Add validates task, assigns an identity if it has none, and files it in
// every structure
func (r *Registry) Add(task domain.Task) (domain.Task, error) {
	task, err := r.prepare(task)
	if err != nil {
		return domain.Task{}, err
	}
	for _, k := range domain.Kinds {
		r.insert(k, task)
	}
	r.logger.Debug("task added", "id", task.ID, "title", task.Title, "priority", task.Priority)
	return task, nil
}

// AddTo files task in a single structure. In mirrored mode it is Add.
func (r *Registry) AddTo(kind domain.Kind, task domain.Task) (domain.Task, error) {
	if r.Mirrored() {
		return r.Add(task)
	}
	task, err := r.prepare(task)
	if err != nil {
		return domain.Task{}, err
	}
	r.insert(kind, task)
	r.logger.Debug("task added", "id", task.ID, "title", task.Title, "kind", kind)
	return task, nil
}

// CompleteVia completes a task using kind's own rule: the queue's head, the
// stack's top, the linked list's task at selected, or the tree's extremal
// key. In mirrored mode the same task then leaves the other structures.
// ErrEmpty and ErrInvalidPosition leave everything untouched.
func (r *Registry) CompleteVia(kind domain.Kind, selected int) (domain.Task, error) {
	var (
		task domain.Task
		ok   bool
	)

	switch kind {
	case domain.KindQueue:
		task, ok = r.queue.Complete()
	case domain.KindStack:
		task, ok = r.stack.Complete()
	case domain.KindList:
		if r.list.Len() == 0 {
			return domain.Task{}, domain.ErrEmpty
		}
		var err error
		task, err = r.list.RemoveAt(selected)
		if err != nil {
			return domain.Task{}, err
		}
		ok = true
	case domain.KindTree:
		if r.opts.SortField.CompletesMax() {
			_, task, ok = r.tree.CompleteMax()
		} else {
			_, task, ok = r.tree.CompleteMin()
		}
	default:
		return domain.Task{}, fmt.Errorf("complete: unknown structure %d", kind)
	}
	if !ok {
		return domain.Task{}, domain.ErrEmpty
	}

	if r.Mirrored() {
		for _, other := range domain.Kinds {
			if other != kind && !r.removeFrom(other, task.ID) {
				r.logger.Warn("mirrored task missing", "id", task.ID, "kind", other)
			}
		}
	}

	r.history = append(r.history, HistoryEntry{Kind: kind, Task: task})
	r.logger.Info("task completed", "id", task.ID, "title", task.Title, "via", kind)
	return task, nil
}

// Undo reverses the most recent completion. The task comes back with the
// priority it had when it was completed.
func (r *Registry) Undo() (HistoryEntry, error) {
	if len(r.history) == 0 {
		return HistoryEntry{}, domain.ErrNothingToUndo
	}
	last := r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]

	if r.Mirrored() {
		for _, k := range domain.Kinds {
			r.restore(k, last)
		}
	} else {
		r.restore(last.Kind, last)
	}

	r.logger.Info("completion undone", "id", last.Task.ID, "title", last.Task.Title, "via", last.Kind)
	return last, nil
}

// MoveInList moves a linked list task from one position to another
func (r *Registry) MoveInList(from, to int) error {
	if err := r.list.Move(from, to); err != nil {
		return err
	}
	r.logger.Debug("list task moved", "from", from, "to", to)
	return nil
}

// Remove deletes a task from every structure holding it, without recording
// a completion
func (r *Registry) Remove(id string) error {
	found := false
	for _, k := range domain.Kinds {
		if r.removeFrom(k, id) {
			found = true
		}
	}
	if !found {
		return domain.ErrNotFound
	}
	r.logger.Debug("task removed", "id", id)
	return nil
}

// TaskAt returns the task shown at index in kind's listing (see Tasks)
func (r *Registry) TaskAt(kind domain.Kind, index int) (domain.Task, error) {
	tasks := r.Tasks(kind)
	if index < 0 || index >= len(tasks) {
		return domain.Task{}, &domain.PositionError{Pos: index, Size: len(tasks)}
	}
	return tasks[index], nil
}

// ClearAll empties every structure and the history
func (r *Registry) ClearAll() {
	r.queue.Clear()
	r.stack.Clear()
	r.list.Clear()
	r.tree.Clear()
	r.history = nil
	r.logger.Info("all tasks cleared")
}

// Clear empties one structure. Mirrored registries clear everything.
func (r *Registry) Clear(kind domain.Kind) {
	if r.Mirrored() {
		r.ClearAll()
		return
	}
	switch kind {
	case domain.KindQueue:
		r.queue.Clear()
	case domain.KindStack:
		r.stack.Clear()
	case domain.KindList:
		r.list.Clear()
	case domain.KindTree:
		r.tree.Clear()
	}
	r.logger.Info("structure cleared", "kind", kind)
}

// SetSortField re-keys the tree
func (r *Registry) SetSortField(field domain.SortField) {
	if field == r.opts.SortField {
		return
	}
	r.opts.SortField = field
	r.tree.Rebuild(domain.CompareKeys, func(t domain.Task) domain.Key {
		return domain.KeyFor(field, t)
	})
	r.logger.Debug("tree re-sorted", "field", field)
}

// SortField returns the field the tree is keyed by
func (r *Registry) SortField() domain.SortField {
	return r.opts.SortField
}

// Tasks returns a snapshot of kind's tasks: the queue head to tail, the
// stack bottom to top, the list head to tail, and the tree from its largest
// key down.
func (r *Registry) Tasks(kind domain.Kind) []domain.Task {
	switch kind {
	case domain.KindQueue:
		return r.queue.List()
	case domain.KindStack:
		return r.stack.List()
	case domain.KindList:
		return r.list.List()
	case domain.KindTree:
		out := make([]domain.Task, 0, r.tree.Len())
		for _, t := range r.tree.Descending() {
			out = append(out, t)
		}
		return out
	}
	return nil
}

// TreeLabels returns the tree's tasks as "P<n>: text", largest key first
func (r *Registry) TreeLabels() []string {
	out := make([]string, 0, r.tree.Len())
	for _, t := range r.tree.Descending() {
		out = append(out, t.Label())
	}
	return out
}

// StackHistory returns the stack's own completions, oldest first
func (r *Registry) StackHistory() []domain.Task {
	return r.stack.History()
}

// Len returns the number of tasks in kind
func (r *Registry) Len(kind domain.Kind) int {
	switch kind {
	case domain.KindQueue:
		return r.queue.Len()
	case domain.KindStack:
		return r.stack.Len()
	case domain.KindList:
		return r.list.Len()
	case domain.KindTree:
		return r.tree.Len()
	}
	return 0
}

// History returns every completion, oldest first
func (r *Registry) History() []HistoryEntry {
	return slices.Clone(r.history)
}

// RecentHistory returns every completion, most recent first
func (r *Registry) RecentHistory() []HistoryEntry {
	out := slices.Clone(r.history)
	slices.Reverse(out)
	return out
}

// Verify checks that, in mirrored mode, all four structures hold exactly
// the same tasks
func (r *Registry) Verify() error {
	if !r.Mirrored() {
		return nil
	}
	want := idCounts(r.Tasks(domain.KindQueue))
	for _, k := range domain.Kinds[1:] {
		got := idCounts(r.Tasks(k))
		if len(got) != len(want) {
			return fmt.Errorf("%s holds %d distinct tasks, %s holds %d", k, len(got), domain.KindQueue, len(want))
		}
		for id, n := range want {
			if got[id] != n {
				return fmt.Errorf("task %s appears %d times in %s but %d in %s", id, got[id], k, n, domain.KindQueue)
			}
		}
	}
	return nil
}

func idCounts(tasks []domain.Task) map[string]int {
	m := make(map[string]int, len(tasks))
	for _, t := range tasks {
		m[t.ID]++
	}
	return m
}

// prepare trims and validates task and fills in identity and timestamps
func (r *Registry) prepare(task domain.Task) (domain.Task, error) {
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return domain.Task{}, domain.ErrEmptyTitle
	}
	if r.opts.MaxPriority > r.opts.MinPriority &&
		(task.Priority < r.opts.MinPriority || task.Priority > r.opts.MaxPriority) {
		return domain.Task{}, fmt.Errorf("%w: %d (allowed %d-%d)",
			domain.ErrInvalidPriority, task.Priority, r.opts.MinPriority, r.opts.MaxPriority)
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	return task, nil
}

func (r *Registry) insert(kind domain.Kind, task domain.Task) {
	switch kind {
	case domain.KindQueue:
		r.queue.Add(task)
	case domain.KindStack:
		r.stack.Add(task)
	case domain.KindList:
		r.list.Add(task)
	case domain.KindTree:
		r.addToTree(task)
	}
}

func (r *Registry) addToTree(task domain.Task) {
	r.tree.Add(domain.KeyFor(r.opts.SortField, task), task)
}

// restore puts an undone task back into kind. The stack pops its own history
// when that history ends with the same task, so both histories stay in step.
func (r *Registry) restore(kind domain.Kind, e HistoryEntry) {
	if kind == domain.KindStack && e.Kind == domain.KindStack {
		if h := r.stack.History(); len(h) > 0 && h[len(h)-1].ID == e.Task.ID {
			r.stack.Undo()
			return
		}
	}
	r.insert(kind, e.Task)
}

func (r *Registry) removeFrom(kind domain.Kind, id string) bool {
	switch kind {
	case domain.KindQueue:
		return r.queue.Remove(id)
	case domain.KindStack:
		return r.stack.Remove(id)
	case domain.KindList:
		return r.list.Remove(id)
	case domain.KindTree:
		return r.tree.Remove(id)
	}
	return false
}
