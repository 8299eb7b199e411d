// Package store persists task snapshots: a JSON document holding every
// structure, and a plain one-task-per-line text format.
package store

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"github.com/riordanpawley/structdo/internal/domain"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed snapshot.schema.json
var schemaJSON string

var snapshotSchema = jsonschema.MustCompileString("https://github.com/riordanpawley/structdo/snapshot.schema.json", schemaJSON)

// ErrMalformedEntry marks a tree line that is not "P<int>: text"
var ErrMalformedEntry = errors.New("malformed tree entry")

// Snapshot is the on-disk form of every structure. Tasks are stored by text
// only; tree entries carry their priority as "P<n>: text".
type Snapshot struct {
	Queue         []string      `json:"Queue"`
	Stack         StackSnapshot `json:"Stack"`
	LinkedList    []string      `json:"LinkedList"`
	BST           []string      `json:"BST"`
	BSTCompleted  []string      `json:"BST_Completed,omitempty"`
	GlobalHistory [][2]string   `json:"Global_History,omitempty"`
	Details       []TaskDetail  `json:"Details,omitempty"`
}

// TaskDetail carries the fields the text lists drop. It names a task by its
// structure tag, its title and which occurrence of that title it is, counted
// from zero in the order the structure is written.
type TaskDetail struct {
	Structure   string `json:"structure"`
	Title       string `json:"title"`
	Occurrence  int    `json:"occurrence,omitempty"`
	Priority    int    `json:"priority"`
	Due         string `json:"due,omitempty"`
	Description string `json:"description,omitempty"`
}

// StackSnapshot holds the stack bottom to top and its history oldest first
type StackSnapshot struct {
	Tasks   []string `json:"tasks"`
	History []string `json:"history"`
}

// TreeEntry is a parsed "P<n>: text" line
type TreeEntry struct {
	Priority int
	Title    string
}

// Empty returns a snapshot with no tasks
func Empty() *Snapshot {
	s := &Snapshot{}
	s.normalize()
	return s
}

// Load reads a snapshot from path. A missing file is not an error: it yields
// an empty snapshot. The document's shape is checked against the embedded
// schema before decoding.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Empty(), nil
		}
		return nil, &domain.StoreError{Op: "load", Path: path, Err: errors.Wrap(err, "read snapshot")}
	}
	return Decode(path, data)
}

// Decode validates and decodes snapshot JSON. path is only used for errors.
func Decode(path string, data []byte) (*Snapshot, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &domain.StoreError{Op: "load", Path: path, Err: errors.Wrap(err, "parse snapshot")}
	}
	if err := snapshotSchema.Validate(doc); err != nil {
		return nil, &domain.StoreError{Op: "validate", Path: path, Err: errors.Wrap(err, "snapshot shape")}
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &domain.StoreError{Op: "load", Path: path, Err: errors.Wrap(err, "decode snapshot")}
	}
	snap.normalize()
	return &snap, nil
}

// Save writes the snapshot with 2-space indentation and a trailing newline.
// The data goes to a temporary sibling first and is renamed over path.
func Save(path string, snap *Snapshot) error {
	out := *snap
	out.normalize()

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return &domain.StoreError{Op: "save", Path: path, Err: errors.Wrap(err, "marshal snapshot")}
	}
	data = append(data, '\n')

	return writeReplace(path, data)
}

// TreeEntries parses the BST lines, skipping malformed ones individually
func (s *Snapshot) TreeEntries() (entries []TreeEntry, skipped int) {
	return parseEntries(s.BST)
}

// CompletedEntries parses the BST_Completed lines
func (s *Snapshot) CompletedEntries() (entries []TreeEntry, skipped int) {
	return parseEntries(s.BSTCompleted)
}

// TaskCount returns the number of pending tasks across all structures
func (s *Snapshot) TaskCount() int {
	return len(s.Queue) + len(s.Stack.Tasks) + len(s.LinkedList) + len(s.BST)
}

// ParseTreeEntry parses "P<priority>: <text>"
func ParseTreeEntry(line string) (TreeEntry, error) {
	head, title, ok := strings.Cut(line, ": ")
	if !ok || !strings.HasPrefix(head, "P") {
		return TreeEntry{}, errors.Wrapf(ErrMalformedEntry, "%q", line)
	}
	priority, err := strconv.Atoi(head[1:])
	if err != nil {
		return TreeEntry{}, errors.Wrapf(ErrMalformedEntry, "%q: bad priority", line)
	}
	return TreeEntry{Priority: priority, Title: title}, nil
}

func parseEntries(lines []string) ([]TreeEntry, int) {
	entries := make([]TreeEntry, 0, len(lines))
	skipped := 0
	for _, line := range lines {
		e, err := ParseTreeEntry(line)
		if err != nil {
			skipped++
			continue
		}
		entries = append(entries, e)
	}
	return entries, skipped
}

// normalize replaces nil slices so the file always lists every structure
func (s *Snapshot) normalize() {
	if s.Queue == nil {
		s.Queue = []string{}
	}
	if s.Stack.Tasks == nil {
		s.Stack.Tasks = []string{}
	}
	if s.Stack.History == nil {
		s.Stack.History = []string{}
	}
	if s.LinkedList == nil {
		s.LinkedList = []string{}
	}
	if s.BST == nil {
		s.BST = []string{}
	}
}

// LockPath returns the sibling file writers lock while replacing path
func LockPath(path string) string {
	return path + ".lock"
}

// writeReplace writes data beside path and renames it into place. A crash
// mid-write leaves the previous file intact, but nothing is fsynced.
// Writers from other processes, such as the CLI next to an open board,
// wait on a lock file so renames do not interleave.
func writeReplace(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &domain.StoreError{Op: "save", Path: path, Err: errors.Wrap(err, "create directory")}
	}

	lock := flock.New(LockPath(path))
	if err := lock.Lock(); err != nil {
		return &domain.StoreError{Op: "save", Path: path, Err: errors.Wrap(err, "lock")}
	}
	defer lock.Unlock()

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return &domain.StoreError{Op: "save", Path: path, Err: errors.Wrap(err, "create temp file")}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &domain.StoreError{Op: "save", Path: path, Err: errors.Wrap(err, "write")}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &domain.StoreError{Op: "save", Path: path, Err: errors.Wrap(err, "close")}
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return &domain.StoreError{Op: "save", Path: path, Err: errors.Wrap(err, "chmod")}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &domain.StoreError{Op: "save", Path: path, Err: errors.Wrap(err, "rename")}
	}
	return nil
}
