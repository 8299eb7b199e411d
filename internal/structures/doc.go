// Package structures holds the four task containers behind the board:
// a FIFO queue, a LIFO stack with completion history, a doubly linked list
// and a binary search tree.
//
// Every container matches tasks by ID. None of them is safe for concurrent
// use; the registry and the board drive them from a single goroutine.
//
// The linked list and the tree keep their nodes in an arena slice and link
// them by integer handle instead of by pointer. Freed slots go on a free list
// and are reused by later inserts.
package structures
