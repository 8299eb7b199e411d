package store

import (
	"bufio"
	"bytes"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/riordanpawley/structdo/internal/domain"
)

// LoadLines reads one task per line. Blank lines are skipped and a missing
// file yields no tasks.
func LoadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, &domain.StoreError{Op: "load", Path: path, Err: errors.Wrap(err, "read task list")}
	}

	lines := []string{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, &domain.StoreError{Op: "load", Path: path, Err: errors.Wrap(err, "scan task list")}
	}
	return lines, nil
}

// SaveLines writes one task per line, replacing the file
func SaveLines(path string, lines []string) error {
	var b bytes.Buffer
	for _, line := range lines {
		// A newline inside a task would split it on reload
		b.WriteString(strings.ReplaceAll(line, "\n", " "))
		b.WriteByte('\n')
	}
	return writeReplace(path, b.Bytes())
}
