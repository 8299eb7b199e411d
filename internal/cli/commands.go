package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/structdo/internal/config"
	"github.com/riordanpawley/structdo/internal/domain"
	"github.com/riordanpawley/structdo/internal/registry"
	"github.com/riordanpawley/structdo/internal/store"
)

// Dependencies holds everything the commands need
type Dependencies struct {
	Config   *config.Config
	DataPath string
	Logger   *slog.Logger
	Out      io.Writer
	In       io.Reader
}

// NewDependencies creates a Dependencies instance for a project directory
func NewDependencies(cfg *config.Config, projectPath string, logger *slog.Logger, out io.Writer) *Dependencies {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dependencies{
		Config:   cfg,
		DataPath: cfg.DataPath(projectPath),
		Logger:   logger,
		Out:      out,
		In:       os.Stdin,
	}
}

// Open loads the data file into a registry
func (d *Dependencies) Open() (*registry.Registry, error) {
	snap, err := store.Load(d.DataPath)
	if err != nil {
		return nil, err
	}
	reg, report := registry.FromSnapshot(snap, d.Config.RegistryOptions(), d.Logger)
	if report.Skipped() > 0 {
		d.Logger.Warn("skipped malformed entries", "count", report.Skipped(), "path", d.DataPath)
	}
	return reg, nil
}

// Persist writes the registry back to the data file
func (d *Dependencies) Persist(reg *registry.Registry) error {
	if err := store.Save(d.DataPath, reg.Snapshot()); err != nil {
		return err
	}
	d.Logger.Debug("saved", "path", d.DataPath)
	return nil
}

// mutate loads, applies fn and saves. Nothing is written when fn fails.
func (d *Dependencies) mutate(fn func(reg *registry.Registry) error) error {
	reg, err := d.Open()
	if err != nil {
		return err
	}
	if err := fn(reg); err != nil {
		return err
	}
	return d.Persist(reg)
}

// AddOptions describes a task to add
type AddOptions struct {
	Title       string
	Priority    *int // nil means the configured default
	At          *int // linked list position; nil appends
	Due         string
	Description string
	Kind        string // independent mode only; defaults to the queue
}

// AddCommand adds a task
func AddCommand(deps *Dependencies, opts AddOptions) error {
	due, err := domain.ParseDue(opts.Due)
	if err != nil {
		return err
	}
	priority := deps.Config.Priority.Default
	if opts.Priority != nil {
		priority = *opts.Priority
	}
	task := domain.Task{
		Title:       opts.Title,
		Description: strings.TrimSpace(opts.Description),
		Priority:    priority,
		Due:         due,
	}

	kind := domain.KindQueue
	if opts.Kind != "" {
		if kind, err = domain.ParseKind(opts.Kind); err != nil {
			return err
		}
	}

	return deps.mutate(func(reg *registry.Registry) error {
		var added domain.Task
		var err error
		switch {
		case opts.At != nil:
			added, err = reg.AddAt(task, *opts.At)
		case reg.Mirrored():
			added, err = reg.Add(task)
		default:
			added, err = reg.AddTo(kind, task)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(deps.Out, "Added %s\n", added.Label())
		return nil
	})
}

// CompleteCommand completes a task through one structure
func CompleteCommand(deps *Dependencies, kindName string, index int) error {
	kind, err := domain.ParseKind(kindName)
	if err != nil {
		return err
	}
	return deps.mutate(func(reg *registry.Registry) error {
		task, err := reg.CompleteVia(kind, index)
		if err != nil {
			return err
		}
		fmt.Fprintf(deps.Out, "Completed via %s: %s\n", kind, task.Title)
		return nil
	})
}

// UndoCommand reverses the most recent completion
func UndoCommand(deps *Dependencies) error {
	return deps.mutate(func(reg *registry.Registry) error {
		entry, err := reg.Undo()
		if err != nil {
			return err
		}
		fmt.Fprintf(deps.Out, "Restored %s (completed via %s)\n", entry.Task.Label(), entry.Kind)
		return nil
	})
}

// ListCommand prints one structure, or all four when kindName is empty
func ListCommand(deps *Dependencies, kindName string) error {
	kinds := domain.Kinds
	if kindName != "" {
		kind, err := domain.ParseKind(kindName)
		if err != nil {
			return err
		}
		kinds = []domain.Kind{kind}
	}

	reg, err := deps.Open()
	if err != nil {
		return err
	}

	for i, kind := range kinds {
		if i > 0 {
			fmt.Fprintln(deps.Out)
		}
		printTasks(deps.Out, kind, reg.Tasks(kind))
	}
	return nil
}

func printTasks(out io.Writer, kind domain.Kind, tasks []domain.Task) {
	fmt.Fprintf(out, "%s (%d):\n", kind, len(tasks))
	if len(tasks) == 0 {
		fmt.Fprintln(out, "  (empty)")
		return
	}

	// The stack reads top first, like the board
	if kind == domain.KindStack {
		reversed := make([]domain.Task, len(tasks))
		for i, t := range tasks {
			reversed[len(tasks)-1-i] = t
		}
		tasks = reversed
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, t := range tasks {
		title := t.Title
		if kind == domain.KindTree {
			title = t.Label()
		}
		title = ansi.Truncate(title, 60, "...")
		fmt.Fprintf(w, "  %d\t%s\tP%d\t%s\n", i, title, t.Priority, t.DueString())
	}
	w.Flush()
}

// HistoryCommand prints every completion, most recent first
func HistoryCommand(deps *Dependencies) error {
	reg, err := deps.Open()
	if err != nil {
		return err
	}
	history := reg.RecentHistory()
	if len(history) == 0 {
		fmt.Fprintln(deps.Out, "No completed tasks")
		return nil
	}
	for i, e := range history {
		fmt.Fprintf(deps.Out, "%d. [%s] %s\n", i+1, e.Kind.Tag(), e.Task.Title)
	}
	return nil
}

// MoveCommand moves a linked list task
func MoveCommand(deps *Dependencies, from, to int) error {
	return deps.mutate(func(reg *registry.Registry) error {
		if err := reg.MoveInList(from, to); err != nil {
			return err
		}
		fmt.Fprintf(deps.Out, "Moved list task %d to %d\n", from, to)
		return nil
	})
}

// RemoveCommand deletes the task at a linked list position from every
// structure without completing it
func RemoveCommand(deps *Dependencies, index int) error {
	return deps.mutate(func(reg *registry.Registry) error {
		task, err := reg.TaskAt(domain.KindList, index)
		if err != nil {
			return err
		}
		if err := reg.Remove(task.ID); err != nil {
			return err
		}
		fmt.Fprintf(deps.Out, "Removed %s\n", task.Title)
		return nil
	})
}

// ClearCommand empties the registry, or one structure in independent mode.
// Without yes it asks for confirmation when the config says to.
func ClearCommand(deps *Dependencies, kindName string, yes bool) error {
	if !yes && deps.Config.UI.ConfirmClear && !confirm(deps, "Clear all tasks and history?") {
		fmt.Fprintln(deps.Out, "Aborted")
		return nil
	}
	return deps.mutate(func(reg *registry.Registry) error {
		if kindName == "" {
			reg.ClearAll()
			fmt.Fprintln(deps.Out, "Cleared all tasks")
			return nil
		}
		kind, err := domain.ParseKind(kindName)
		if err != nil {
			return err
		}
		reg.Clear(kind)
		fmt.Fprintf(deps.Out, "Cleared %s\n", kind)
		return nil
	})
}

func confirm(deps *Dependencies, question string) bool {
	fmt.Fprintf(deps.Out, "%s [y/N] ", question)
	line, _ := bufio.NewReader(deps.In).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// ExportCommand writes one structure's task texts to a plain text file
func ExportCommand(deps *Dependencies, kindName, path string) error {
	kind, err := domain.ParseKind(kindName)
	if err != nil {
		return err
	}
	reg, err := deps.Open()
	if err != nil {
		return err
	}
	tasks := reg.Tasks(kind)
	lines := make([]string, len(tasks))
	for i, t := range tasks {
		lines[i] = t.Title
	}
	if err := store.SaveLines(path, lines); err != nil {
		return err
	}
	fmt.Fprintf(deps.Out, "Exported %d tasks from %s to %s\n", len(lines), kind, path)
	return nil
}

// ImportCommand adds every line of a plain text file as a task at the
// default priority
func ImportCommand(deps *Dependencies, kindName, path string) error {
	kind, err := domain.ParseKind(kindName)
	if err != nil {
		return err
	}
	lines, err := store.LoadLines(path)
	if err != nil {
		return err
	}
	return deps.mutate(func(reg *registry.Registry) error {
		for _, line := range lines {
			task := domain.Task{Title: line, Priority: deps.Config.Priority.Default}
			if _, err := reg.AddTo(kind, task); err != nil {
				return fmt.Errorf("import %q: %w", line, err)
			}
		}
		fmt.Fprintf(deps.Out, "Imported %d tasks into %s\n", len(lines), kind)
		return nil
	})
}

// DoctorCommand checks the data file for consistency
func DoctorCommand(deps *Dependencies) error {
	reg, err := deps.Open()
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Out, "Data file: %s\n", deps.DataPath)
	fmt.Fprintf(deps.Out, "Mode:      %s\n", reg.Options().Mode)
	for _, kind := range domain.Kinds {
		fmt.Fprintf(deps.Out, "  %-12s %d\n", kind.String()+":", reg.Len(kind))
	}
	fmt.Fprintf(deps.Out, "History:   %d\n", len(reg.History()))

	if err := reg.Verify(); err != nil {
		return fmt.Errorf("structures out of sync: %w", err)
	}
	fmt.Fprintln(deps.Out, "OK")
	return nil
}
