package structures

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFO(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5, 40} {
		q := NewQueue()
		in := numbered(n)
		for _, title := range in {
			q.Add(task(title))
		}

		var out []string
		for range in {
			got, ok := q.Complete()
			require.True(t, ok)
			out = append(out, got.Title)
		}
		assert.Equal(t, in, append([]string{}, out...), "n=%d", n)

		_, ok := q.Complete()
		assert.False(t, ok, "completion n+1 must report empty")
		assert.Equal(t, 0, q.Len())
	}
}

func TestQueue_ListIsSnapshot(t *testing.T) {
	q := NewQueue()
	q.Add(task("a"))
	q.Add(task("b"))

	snap := q.List()
	q.Complete()
	q.Add(task("c"))

	assert.Equal(t, []string{"a", "b"}, titles(snap))
	assert.Equal(t, []string{"b", "c"}, titles(q.List()))
}

func TestQueue_Remove(t *testing.T) {
	q := NewQueue()
	for _, tk := range tasks("a", "b", "c") {
		q.Add(tk)
	}
	q.Complete() // move the head off index 0

	assert.True(t, q.Remove("id-c"))
	assert.False(t, q.Remove("id-a"), "already completed")
	assert.False(t, q.Remove("missing"))
	assert.Equal(t, []string{"b"}, titles(q.List()))

	head, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, "b", head.Title)
}

func TestQueue_Clear(t *testing.T) {
	q := NewQueue()
	q.Add(task("a"))
	q.Clear()

	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.List())
	_, ok := q.Peek()
	assert.False(t, ok)
}

func TestQueue_InterleavedCompaction(t *testing.T) {
	q := NewQueue()
	var want []string
	next := 0
	for round := 0; round < 50; round++ {
		for i := 0; i < 3; i++ {
			title := fmt.Sprintf("t%d", next)
			q.Add(task(title))
			want = append(want, title)
			next++
		}
		got, ok := q.Complete()
		require.True(t, ok)
		assert.Equal(t, want[0], got.Title)
		want = want[1:]
	}
	assert.Equal(t, want, titles(q.List()))
}
