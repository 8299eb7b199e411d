package registry

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/riordanpawley/structdo/internal/domain"
	"github.com/riordanpawley/structdo/internal/store"
	"github.com/riordanpawley/structdo/internal/structures"
)

// RestoreReport counts what a restore had to leave out
type RestoreReport struct {
	Tasks            int
	SkippedTree      int
	SkippedCompleted int
	SkippedHistory   int
	SkippedDetails   int
}

// Skipped returns the total number of dropped entries
func (r RestoreReport) Skipped() int {
	return r.SkippedTree + r.SkippedCompleted + r.SkippedHistory + r.SkippedDetails
}

// Snapshot captures every structure and the completion history by text
func (r *Registry) Snapshot() *store.Snapshot {
	snap := store.Empty()
	snap.Queue = titles(r.queue.List())
	snap.Stack.Tasks = titles(r.stack.List())
	snap.Stack.History = titles(r.stack.History())
	snap.LinkedList = titles(r.list.List())
	snap.BST = r.TreeLabels()

	for _, e := range r.history {
		if e.Kind == domain.KindTree {
			snap.BSTCompleted = append(snap.BSTCompleted, e.Task.Label())
		}
		snap.GlobalHistory = append(snap.GlobalHistory, [2]string{e.Kind.Tag(), e.Task.Title})
	}
	snap.Details = r.details()
	return snap
}

// details lists the pending tasks whose text form loses something: a due
// date, a description, or in independent mode a priority outside the tree.
// Mirrored tasks all live in the tree, so only its entries are written.
func (r *Registry) details() []store.TaskDetail {
	var out []store.TaskDetail
	for _, k := range domain.Kinds {
		if r.Mirrored() && k != domain.KindTree {
			continue
		}
		seen := make(map[string]int)
		for _, t := range r.Tasks(k) {
			n := seen[t.Title]
			seen[t.Title]++
			keepPriority := !r.Mirrored() && k != domain.KindTree && t.Priority != r.opts.DefaultPriority
			if t.Due == nil && t.Description == "" && !keepPriority {
				continue
			}
			out = append(out, store.TaskDetail{
				Structure:   k.Tag(),
				Title:       t.Title,
				Occurrence:  n,
				Priority:    t.Priority,
				Due:         t.DueString(),
				Description: t.Description,
			})
		}
	}
	return out
}

type detailKey struct {
	kind  domain.Kind
	title string
	n     int
}

// detailIndex parses snapshot details, counting the ones it cannot place
func detailIndex(details []store.TaskDetail) (map[detailKey]domain.Task, int) {
	index := make(map[detailKey]domain.Task, len(details))
	skipped := 0
	for _, d := range details {
		kind, err := domain.ParseKind(d.Structure)
		title := strings.TrimSpace(d.Title)
		if err != nil || title == "" {
			skipped++
			continue
		}
		due, err := domain.ParseDue(d.Due)
		if err != nil {
			skipped++
			continue
		}
		index[detailKey{kind, title, d.Occurrence}] = domain.Task{
			Priority:    d.Priority,
			Due:         due,
			Description: d.Description,
		}
	}
	return index, skipped
}

// FromSnapshot builds a registry holding snap's tasks
func FromSnapshot(snap *store.Snapshot, opts Options, logger *slog.Logger) (*Registry, RestoreReport) {
	r := New(opts, logger)
	report := r.Restore(snap)
	return r, report
}

// Restore replaces the registry's contents with snap. Snapshots hold text
// only, so tasks get fresh identities: in mirrored mode the n-th occurrence
// of a title in each structure becomes the same task. Priorities come from
// the tree's "P<n>: text" entries, then from completed tree entries, and
// default otherwise. Due dates, descriptions and independent priorities come
// from the detail section. Malformed entries are skipped and counted.
func (r *Registry) Restore(snap *store.Snapshot) RestoreReport {
	r.ClearAll()
	var report RestoreReport

	treeEntries, skipped := snap.TreeEntries()
	report.SkippedTree = skipped
	completed, skipped := snap.CompletedEntries()
	report.SkippedCompleted = skipped
	details, skipped := detailIndex(snap.Details)
	report.SkippedDetails = skipped

	// withDetail fills t from the detail recorded for its position, if any
	withDetail := func(kind domain.Kind, n int, t domain.Task, keepPriority bool) domain.Task {
		d, ok := details[detailKey{kind, t.Title, n}]
		if !ok {
			return t
		}
		if !keepPriority {
			t.Priority = d.Priority
		}
		t.Due = d.Due
		t.Description = d.Description
		return t
	}

	completedPriority := make(map[string]int, len(completed))
	for _, e := range completed {
		if _, ok := completedPriority[e.Title]; !ok {
			completedPriority[e.Title] = e.Priority
		}
	}

	shared := newCatalog()

	// Tree first so shared tasks pick up its priorities. The snapshot lists
	// the tree largest first; loading it reversed keeps ties in place.
	treeSeen := make(map[string]int)
	treeOccurrence := make([]int, len(treeEntries))
	for i, e := range treeEntries {
		if strings.TrimSpace(e.Title) == "" {
			continue
		}
		treeOccurrence[i] = treeSeen[e.Title]
		treeSeen[e.Title]++
	}
	treeTasks := make([]structures.Entry[domain.Key], 0, len(treeEntries))
	for i, e := range slices.Backward(treeEntries) {
		if strings.TrimSpace(e.Title) == "" {
			report.SkippedTree++
			continue
		}
		t := withDetail(domain.KindTree, treeOccurrence[i], domain.NewTask(e.Title, e.Priority), true)
		treeTasks = append(treeTasks, structures.Entry[domain.Key]{Key: domain.KeyFor(r.opts.SortField, t), Task: t})
	}
	r.tree.Load(treeTasks)
	if r.Mirrored() {
		// Shared occurrences follow the tree's display order
		for _, t := range r.Tasks(domain.KindTree) {
			shared.put(t)
		}
	}

	resolve := func(kind domain.Kind, lines []string) []domain.Task {
		out := make([]domain.Task, 0, len(lines))
		seen := newCatalog()
		for _, title := range lines {
			title = strings.TrimSpace(title)
			if title == "" {
				continue
			}
			n := seen.count(title)
			seen.put(domain.Task{Title: title})
			if r.Mirrored() {
				if t, ok := shared.nth(title, n); ok {
					out = append(out, t)
					continue
				}
			}
			t := withDetail(kind, n, domain.NewTask(title, r.opts.DefaultPriority), false)
			if r.Mirrored() {
				shared.put(t)
			}
			out = append(out, t)
		}
		return out
	}

	for _, t := range resolve(domain.KindQueue, snap.Queue) {
		r.queue.Add(t)
	}
	for _, t := range resolve(domain.KindStack, snap.Stack.Tasks) {
		r.stack.Add(t)
	}
	for _, t := range resolve(domain.KindList, snap.LinkedList) {
		r.list.Add(t)
	}

	// A mirrored task listed in only some structures joins the rest at the tail
	if r.Mirrored() {
		for _, k := range domain.Kinds {
			present := idCounts(r.Tasks(k))
			for _, t := range shared.all() {
				if present[t.ID] == 0 {
					r.insert(k, t)
				}
			}
		}
	}

	stackDone := newCatalog()
	var stackHistory []domain.Task
	for _, title := range snap.Stack.History {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		t := domain.NewTask(title, priorityOr(completedPriority, title, r.opts.DefaultPriority))
		stackDone.put(t)
		stackHistory = append(stackHistory, t)
	}
	r.stack.RestoreHistory(stackHistory)

	stackUsed := make(map[string]int)
	for _, pair := range snap.GlobalHistory {
		kind, err := domain.ParseKind(pair[0])
		title := strings.TrimSpace(pair[1])
		if err != nil || title == "" {
			report.SkippedHistory++
			continue
		}
		var t domain.Task
		if kind == domain.KindStack {
			if st, ok := stackDone.nth(title, stackUsed[title]); ok {
				stackUsed[title]++
				t = st
			}
		}
		if t.ID == "" {
			t = domain.NewTask(title, priorityOr(completedPriority, title, r.opts.DefaultPriority))
		}
		r.history = append(r.history, HistoryEntry{Kind: kind, Task: t})
	}

	report.Tasks = r.Len(domain.KindQueue) + r.Len(domain.KindStack) + r.Len(domain.KindList) + r.Len(domain.KindTree)
	if err := r.Verify(); err != nil {
		r.logger.Warn("restored structures differ", "error", err)
	}
	if report.Skipped() > 0 {
		r.logger.Warn("skipped malformed snapshot entries",
			"tree", report.SkippedTree, "completed", report.SkippedCompleted,
			"history", report.SkippedHistory, "details", report.SkippedDetails)
	}
	r.logger.Debug("registry restored", "tasks", report.Tasks, "history", len(r.history))
	return report
}

func titles(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func priorityOr(m map[string]int, title string, def int) int {
	if p, ok := m[title]; ok {
		return p
	}
	return def
}

// catalog indexes tasks by title in insertion order
type catalog struct {
	byTitle map[string][]domain.Task
	order   []domain.Task
}

func newCatalog() *catalog {
	return &catalog{byTitle: make(map[string][]domain.Task)}
}

func (c *catalog) put(t domain.Task) {
	c.byTitle[t.Title] = append(c.byTitle[t.Title], t)
	c.order = append(c.order, t)
}

func (c *catalog) nth(title string, n int) (domain.Task, bool) {
	ts := c.byTitle[title]
	if n < len(ts) {
		return ts[n], true
	}
	return domain.Task{}, false
}

func (c *catalog) count(title string) int {
	return len(c.byTitle[title])
}

func (c *catalog) all() []domain.Task {
	return c.order
}
