package structures

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStack_LIFO(t *testing.T) {
	s := NewStack()
	in := numbered(6)
	for _, title := range in {
		s.Add(task(title))
	}

	var out []string
	for range in {
		got, ok := s.Complete()
		require.True(t, ok)
		out = append(out, got.Title)
	}

	want := slices.Clone(in)
	slices.Reverse(want)
	assert.Equal(t, want, out)

	_, ok := s.Complete()
	assert.False(t, ok)
	assert.Equal(t, want, titles(s.History()), "history is chronological")
}

func TestStack_UndoRoundTrip(t *testing.T) {
	s := NewStack()
	for _, tk := range tasks("a", "b", "c") {
		s.Add(tk)
	}
	before := s.List()

	done, ok := s.Complete()
	require.True(t, ok)
	assert.Equal(t, "c", done.Title)

	undone, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, done, undone)
	assert.Equal(t, before, s.List())
	assert.Empty(t, s.History())

	_, ok = s.Undo()
	assert.False(t, ok, "nothing left to undo")
}

func TestStack_ListOrder(t *testing.T) {
	s := NewStack()
	for _, tk := range tasks("bottom", "middle", "top") {
		s.Add(tk)
	}

	assert.Equal(t, []string{"bottom", "middle", "top"}, titles(s.List()))
	top, ok := s.Top()
	require.True(t, ok)
	assert.Equal(t, "top", top.Title)

	rebuilt := NewStack()
	for _, tk := range s.List() {
		rebuilt.Add(tk)
	}
	assert.Equal(t, s.List(), rebuilt.List())
}

func TestStack_RemoveLeavesHistory(t *testing.T) {
	s := NewStack()
	for _, tk := range tasks("a", "b", "c") {
		s.Add(tk)
	}
	s.Complete()

	assert.True(t, s.Remove("id-a"))
	assert.False(t, s.Remove("id-c"), "completed tasks are not pending")
	assert.Equal(t, []string{"b"}, titles(s.List()))
	assert.Equal(t, []string{"c"}, titles(s.History()))
}

func TestStack_RestoreHistoryAndClear(t *testing.T) {
	s := NewStack()
	s.RestoreHistory(tasks("x", "y"))
	assert.Equal(t, []string{"x", "y"}, titles(s.History()))

	got, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, "y", got.Title)

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.History())
}
