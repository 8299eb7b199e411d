package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/riordanpawley/structdo/internal/domain"
	"github.com/riordanpawley/structdo/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// harness runs commands against a private project directory
type harness struct {
	t   *testing.T
	dir string
}

func newHarness(t *testing.T) *harness {
	return &harness{t: t, dir: t.TempDir()}
}

func (h *harness) run(args ...string) (string, error) {
	return h.runWithInput("", args...)
}

func (h *harness) runWithInput(input string, args ...string) (string, error) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd(&stdout, &stderr, nil)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(append([]string{"--config", h.dir, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

func (h *harness) snapshot() *store.Snapshot {
	h.t.Helper()
	snap, err := store.Load(filepath.Join(h.dir, "todo_data.json"))
	require.NoError(h.t, err)
	return snap
}

func TestAdd_WritesEveryStructure(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("add", "Buy milk", "-p", "3")
	assert.Contains(t, out, "Added P3: Buy milk")

	snap := h.snapshot()
	assert.Equal(t, []string{"Buy milk"}, snap.Queue)
	assert.Equal(t, []string{"Buy milk"}, snap.Stack.Tasks)
	assert.Equal(t, []string{"Buy milk"}, snap.LinkedList)
	assert.Equal(t, []string{"P3: Buy milk"}, snap.BST)
}

func TestAdd_DefaultPriorityAndPosition(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "second")
	h.mustRun("add", "first", "--at", "0")

	snap := h.snapshot()
	assert.Equal(t, []string{"first", "second"}, snap.LinkedList)
	assert.Equal(t, []string{"second", "first"}, snap.Queue)
	assert.Contains(t, snap.BST, "P1: first")
}

func TestAdd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"blank title", []string{"add", "  "}, domain.ErrEmptyTitle},
		{"priority too high", []string{"add", "x", "-p", "42"}, domain.ErrInvalidPriority},
		{"negative position", []string{"add", "x", "--at=-1"}, domain.ErrInvalidPosition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.run(tt.args...)
			assert.ErrorIs(t, err, tt.want)

			_, statErr := os.Stat(filepath.Join(h.dir, "todo_data.json"))
			assert.True(t, os.IsNotExist(statErr), "failed command must not write")
		})
	}

	h := newHarness(t)
	_, err := h.run("add", "x", "--due", "tomorrow")
	assert.ErrorContains(t, err, "invalid due date")
}

func TestComplete_AndHistory(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "A", "-p", "1")
	h.mustRun("add", "B", "-p", "5")

	out := h.mustRun("complete", "bst")
	assert.Contains(t, out, "Completed via BST: B")

	snap := h.snapshot()
	assert.Equal(t, []string{"A"}, snap.Queue)
	assert.Equal(t, []string{"P1: A"}, snap.BST)
	assert.Equal(t, []string{"P5: B"}, snap.BSTCompleted)

	h.mustRun("complete", "queue")
	out = h.mustRun("history")
	assert.Equal(t, "1. [Queue] A\n2. [BST] B\n", out)
}

func TestComplete_EmptyIsAnError(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("complete", "stack")
	assert.ErrorIs(t, err, domain.ErrEmpty)

	_, err = h.run("complete", "heap")
	assert.ErrorContains(t, err, "unknown structure")
}

func TestUndo_RestoresPriority(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "Pay rent", "-p", "9")
	h.mustRun("complete", "queue")

	out := h.mustRun("undo")
	assert.Contains(t, out, "Restored P9: Pay rent")
	assert.Equal(t, []string{"P9: Pay rent"}, h.snapshot().BST)

	_, err := h.run("undo")
	assert.ErrorIs(t, err, domain.ErrNothingToUndo)
}

func TestList(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "bottom", "-p", "2")
	h.mustRun("add", "top", "-p", "7")

	out := h.mustRun("list", "stack")
	assert.True(t, strings.HasPrefix(out, "Stack (2):\n"))
	assert.Less(t, strings.Index(out, "top"), strings.Index(out, "bottom"))

	out = h.mustRun("list")
	for _, heading := range []string{"Queue (2):", "Stack (2):", "Linked List (2):", "BST (2):"} {
		assert.Contains(t, out, heading)
	}
	assert.Contains(t, out, "P7: top")
}

func TestMoveAndRemove(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "a")
	h.mustRun("add", "b")
	h.mustRun("add", "c")

	h.mustRun("move", "2", "0")
	assert.Equal(t, []string{"c", "a", "b"}, h.snapshot().LinkedList)

	out := h.mustRun("rm", "1")
	assert.Contains(t, out, "Removed a")
	snap := h.snapshot()
	assert.Equal(t, []string{"c", "b"}, snap.LinkedList)
	assert.Equal(t, []string{"b", "c"}, snap.Queue)
	assert.Empty(t, snap.GlobalHistory)

	_, err := h.run("rm", "9")
	assert.ErrorIs(t, err, domain.ErrInvalidPosition)

	_, err = h.run("move", "x", "0")
	assert.ErrorContains(t, err, "invalid position")
}

func TestClear(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "a")

	out, err := h.runWithInput("n\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted")
	assert.Equal(t, 4, h.snapshot().TaskCount())

	out, err = h.runWithInput("y\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared all tasks")
	assert.Zero(t, h.snapshot().TaskCount())

	h.mustRun("add", "b")
	h.mustRun("clear", "--yes")
	assert.Zero(t, h.snapshot().TaskCount())
}

func TestIndependentMode(t *testing.T) {
	h := newHarness(t)
	h.mustRun("--mode", "independent", "add", "errand", "--kind", "stack")
	h.mustRun("--mode", "independent", "add", "chore", "--kind", "list")

	snap := h.snapshot()
	assert.Empty(t, snap.Queue)
	assert.Equal(t, []string{"errand"}, snap.Stack.Tasks)
	assert.Equal(t, []string{"chore"}, snap.LinkedList)

	h.mustRun("--mode", "independent", "clear", "list", "--yes")
	snap = h.snapshot()
	assert.Empty(t, snap.LinkedList)
	assert.Equal(t, []string{"errand"}, snap.Stack.Tasks)

	_, err := h.run("--mode", "shared", "list")
	assert.ErrorContains(t, err, "unknown mode")
}

func TestExportImport(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "one")
	h.mustRun("add", "two")

	path := filepath.Join(h.dir, "queue.txt")
	h.mustRun("export", "queue", path)
	lines, err := store.LoadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, lines)

	other := newHarness(t)
	out := other.mustRun("import", "queue", path)
	assert.Contains(t, out, "Imported 2 tasks")
	snap := other.snapshot()
	assert.Equal(t, []string{"one", "two"}, snap.Queue)
	assert.Equal(t, []string{"P1: two", "P1: one"}, snap.BST)
}

func TestDoctor(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "a")
	out := h.mustRun("doctor")
	assert.Contains(t, out, "OK")

	// A hand-edited file where the structures disagree is repaired on load
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, "todo_data.json"),
		[]byte(`{"Queue": ["x"], "BST": ["P2: y", "oops"]}`), 0644))
	out = h.mustRun("doctor")
	assert.Contains(t, out, "skipped 1 malformed")
	assert.Contains(t, out, "OK")
}

func TestDataFlagAndBadFile(t *testing.T) {
	h := newHarness(t)
	custom := filepath.Join(h.dir, "sub", "mine.json")
	h.mustRun("--data", custom, "add", "elsewhere")

	_, err := os.Stat(custom)
	assert.NoError(t, err)

	require.NoError(t, os.WriteFile(custom, []byte(`{"Queue": "nope"}`), 0644))
	_, err = h.run("--data", custom, "list")
	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "validate", storeErr.Op)
}

func TestRoot_LaunchesBoard(t *testing.T) {
	dir := t.TempDir()
	var launched *Dependencies
	cmd := NewRootCmd(&bytes.Buffer{}, &bytes.Buffer{}, func(deps *Dependencies) error {
		launched = deps
		return nil
	})
	cmd.SetArgs([]string{"--config", dir, "--sort", "title"})
	require.NoError(t, cmd.Execute())

	require.NotNil(t, launched)
	assert.Equal(t, filepath.Join(dir, "todo_data.json"), launched.DataPath)
	assert.Equal(t, "title", launched.Config.Tree.SortField)
}

func TestAdd_DueAndDescriptionSurviveReload(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "pay rent", "--due", "2026-11-01", "--desc", "landlord", "-p", "2")
	h.mustRun("add", "file taxes", "--due", "2026-10-20", "-p", "1")
	h.mustRun("add", "undated", "-p", "9")

	out := h.mustRun("list", "queue")
	assert.Contains(t, out, "2026-11-01")
	assert.Contains(t, out, "2026-10-20")

	snap := h.snapshot()
	require.Len(t, snap.Details, 2, "only dated tasks carry details")
	assert.Equal(t, "pay rent", snap.Details[0].Title)
	assert.Equal(t, "landlord", snap.Details[0].Description)

	out = h.mustRun("--sort", "due", "complete", "bst")
	assert.Contains(t, out, "file taxes", "earliest due date completes first")
	out = h.mustRun("--sort", "due", "complete", "bst")
	assert.Contains(t, out, "pay rent")
}

func TestIndependentMode_PrioritySurvivesReload(t *testing.T) {
	h := newHarness(t)
	h.mustRun("--mode", "independent", "add", "errand", "--kind", "queue", "-p", "6")

	out := h.mustRun("--mode", "independent", "list", "queue")
	assert.Contains(t, out, "P6")
}

func TestList_TruncatesWideTitles(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", strings.Repeat("a", 56)+"日本語のタスク")

	out := h.mustRun("list", "queue")
	assert.True(t, utf8.ValidString(out), "output is valid UTF-8")
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, "タスク")
}

func TestOpen_SkippedEntriesStayOffStdout(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(h.dir, "todo_data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Queue": ["ok"], "BST": ["P1: ok", "broken"]}`), 0644))

	out := h.mustRun("list", "queue")
	assert.True(t, strings.HasPrefix(out, "Queue (1):\n"), out)
	assert.NotContains(t, out, "skipped")
}
