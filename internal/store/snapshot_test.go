package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/riordanpawley/structdo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	snap, err := Load(filepath.Join(t.TempDir(), "todo_data.json"))
	require.NoError(t, err)

	assert.Empty(t, snap.Queue)
	assert.NotNil(t, snap.Queue)
	assert.Equal(t, 0, snap.TaskCount())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "todo_data.json")
	original := &Snapshot{
		Queue:         []string{"a", "b"},
		Stack:         StackSnapshot{Tasks: []string{"c"}, History: []string{"d"}},
		LinkedList:    []string{"e"},
		BST:           []string{"P5: f", "P1: g"},
		BSTCompleted:  []string{"P9: h"},
		GlobalHistory: [][2]string{{"BST", "h"}, {"Queue", "i"}},
		Details: []TaskDetail{
			{Structure: "BST", Title: "f", Priority: 5, Due: "2026-11-01", Description: "by friday"},
			{Structure: "Queue", Title: "a", Occurrence: 1, Priority: 4},
		},
	}

	require.NoError(t, Save(path, original))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "}\n"), "trailing newline")
	assert.Contains(t, string(data), "\n  \"Queue\": [")
	assert.Contains(t, string(data), `"Global_History"`)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)

	entries, skipped := loaded.TreeEntries()
	assert.Equal(t, 0, skipped)
	assert.Equal(t, []TreeEntry{{Priority: 5, Title: "f"}, {Priority: 1, Title: "g"}}, entries)
}

func TestSave_NilSlicesWrittenAsArrays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo_data.json")
	require.NoError(t, Save(path, &Snapshot{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")
	assert.NotContains(t, string(data), "Global_History", "optional fields omitted when empty")
	assert.NotContains(t, string(data), "Details")

	_, err = Load(path)
	require.NoError(t, err)
}

func TestLoad_ToleratesPartialDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo_data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Queue": ["only"]}`), 0644))

	snap, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, snap.Queue)
	assert.Empty(t, snap.Stack.Tasks)
	assert.Empty(t, snap.BST)
}

func TestLoad_RejectsWrongShape(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: `{"Queue": [`},
		{name: "queue not array", doc: `{"Queue": "a"}`},
		{name: "queue holds numbers", doc: `{"Queue": [1, 2]}`},
		{name: "stack tasks wrong type", doc: `{"Stack": {"tasks": {}}}`},
		{name: "history pair too short", doc: `{"Global_History": [["Queue"]]}`},
		{name: "detail without title", doc: `{"Details": [{"structure": "Queue"}]}`},
		{name: "negative occurrence", doc: `{"Details": [{"structure": "Queue", "title": "a", "occurrence": -1}]}`},
		{name: "top level array", doc: `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "todo_data.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.doc), 0644))

			_, err := Load(path)
			require.Error(t, err)

			var storeErr *domain.StoreError
			assert.True(t, errors.As(err, &storeErr))
			assert.Equal(t, path, storeErr.Path)
		})
	}
}

func TestTreeEntries_SkipsMalformed(t *testing.T) {
	snap := &Snapshot{BST: []string{
		"P3: Buy milk",
		"garbage",
		"Px: not a number",
		"3: missing P",
		"P10: colons: kept",
		"P-2: negative is still an int",
	}}

	entries, skipped := snap.TreeEntries()
	assert.Equal(t, 3, skipped)
	assert.Equal(t, []TreeEntry{
		{Priority: 3, Title: "Buy milk"},
		{Priority: 10, Title: "colons: kept"},
		{Priority: -2, Title: "negative is still an int"},
	}, entries)
}

func TestParseTreeEntry(t *testing.T) {
	e, err := ParseTreeEntry("P7: Write report")
	require.NoError(t, err)
	assert.Equal(t, TreeEntry{Priority: 7, Title: "Write report"}, e)
	assert.Equal(t, "P7: Write report", domain.FormatLabel(e.Priority, e.Title))

	_, err = ParseTreeEntry("P7 Write report")
	assert.True(t, errors.Is(err, ErrMalformedEntry))
}

func TestSave_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo_data.json")
	require.NoError(t, Save(path, &Snapshot{Queue: []string{"old"}}))
	require.NoError(t, Save(path, &Snapshot{Queue: []string{"new"}}))

	snap, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, snap.Queue)

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".todo_data.json.*"))
	require.NoError(t, err)
	assert.Empty(t, matches, "no temp files left behind")
}

func TestSave_WaitsForLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo_data.json")
	held := flock.New(LockPath(path))
	require.NoError(t, held.Lock())

	done := make(chan error, 1)
	go func() {
		done <- Save(path, &Snapshot{Queue: []string{"later"}})
	}()

	select {
	case err := <-done:
		t.Fatalf("save finished while the lock was held: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, held.Unlock())
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("save did not finish after the lock was released")
	}

	snap, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"later"}, snap.Queue)
}
