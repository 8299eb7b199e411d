package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/riordanpawley/structdo/internal/config"
	"github.com/riordanpawley/structdo/internal/domain"
	"github.com/riordanpawley/structdo/internal/logging"
	"github.com/riordanpawley/structdo/internal/registry"
	"github.com/spf13/cobra"
)

// Launcher starts the interactive board
type Launcher func(deps *Dependencies) error

// globalFlags are shared by every command
type globalFlags struct {
	configDir string
	dataFile  string
	mode      string
	sort      string
	logLevel  string
}

// NewRootCmd builds the command tree. launch runs when no subcommand is
// given; nil disables the board.
func NewRootCmd(stdout, stderr io.Writer, launch Launcher) *cobra.Command {
	var (
		flags globalFlags
		deps  *Dependencies
	)

	cmd := &cobra.Command{
		Use:   "structdo",
		Short: "A to-do list kept in four data structures",
		Long: "structdo files every task in a queue, a stack, a doubly linked list and a\n" +
			"binary search tree, and completes tasks by each structure's own rule.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDependencies(flags, stdout, stderr)
			if err != nil {
				return err
			}
			d.In = cmd.InOrStdin()
			deps = d
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if launch == nil {
				return cmd.Help()
			}
			return launch(deps)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configDir, "config", "", "project directory holding .structdo.json or structdo.toml (default: current directory)")
	pf.StringVar(&flags.dataFile, "data", "", "data file (default: todo_data.json)")
	pf.StringVar(&flags.mode, "mode", "", "mirrored or independent")
	pf.StringVar(&flags.sort, "sort", "", "tree sort field: priority, title or due")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error")

	get := func() *Dependencies { return deps }
	cmd.AddCommand(
		newAddCmd(get),
		newCompleteCmd(get),
		newUndoCmd(get),
		newListCmd(get),
		newHistoryCmd(get),
		newMoveCmd(get),
		newRemoveCmd(get),
		newClearCmd(get),
		newExportCmd(get),
		newImportCmd(get),
		newDoctorCmd(get),
	)
	return cmd
}

// buildDependencies layers flags over the loaded config
func buildDependencies(flags globalFlags, stdout, stderr io.Writer) (*Dependencies, error) {
	dir := flags.configDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		dir = cwd
	}

	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	if flags.dataFile != "" {
		cfg.DataFile = flags.dataFile
	}
	if flags.mode != "" {
		mode, err := registry.ParseMode(flags.mode)
		if err != nil {
			return nil, err
		}
		cfg.Mode = string(mode)
	}
	if flags.sort != "" {
		field, err := domain.ParseSortField(flags.sort)
		if err != nil {
			return nil, err
		}
		cfg.Tree.SortField = string(field)
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.New(cfg.Log, stderr)
	return NewDependencies(cfg, dir, logger, stdout), nil
}

func newAddCmd(deps func() *Dependencies) *cobra.Command {
	var opts AddOptions
	var priority, at int

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Long:  "Add a task to every structure (mirrored mode) or to one structure (independent mode).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Title = args[0]
			if cmd.Flags().Changed("priority") {
				opts.Priority = &priority
			}
			if cmd.Flags().Changed("at") {
				opts.At = &at
			}
			return AddCommand(deps(), opts)
		},
	}
	cmd.Flags().IntVarP(&priority, "priority", "p", 0, "priority (default from config)")
	cmd.Flags().IntVar(&at, "at", 0, "linked list position to insert at")
	cmd.Flags().StringVar(&opts.Due, "due", "", "due date, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.Description, "desc", "", "description")
	cmd.Flags().StringVarP(&opts.Kind, "kind", "k", "", "structure to add to in independent mode")
	return cmd
}

func newCompleteCmd(deps func() *Dependencies) *cobra.Command {
	var index int
	cmd := &cobra.Command{
		Use:   "complete <queue|stack|list|bst>",
		Short: "Complete a task through one structure",
		Long: "Complete the queue's oldest task, the stack's newest, the linked list's\n" +
			"task at --index, or the tree's highest priority task.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return CompleteCommand(deps(), args[0], index)
		},
	}
	cmd.Flags().IntVarP(&index, "index", "i", 0, "linked list position")
	return cmd
}

func newUndoCmd(deps func() *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the most recent completion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return UndoCommand(deps())
		},
	}
}

func newListCmd(deps func() *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:     "list [queue|stack|list|bst]",
		Aliases: []string{"ls"},
		Short:   "Show tasks",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := ""
			if len(args) == 1 {
				kind = args[0]
			}
			return ListCommand(deps(), kind)
		},
	}
}

func newHistoryCmd(deps func() *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show completed tasks, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return HistoryCommand(deps())
		},
	}
}

func newMoveCmd(deps func() *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move a linked list task to another position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			to, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			return MoveCommand(deps(), from, to)
		},
	}
}

func newRemoveCmd(deps func() *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <index>",
		Aliases: []string{"remove"},
		Short:   "Delete the task at a linked list position without completing it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return RemoveCommand(deps(), index)
		},
	}
}

func newClearCmd(deps func() *Dependencies) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear [queue|stack|list|bst]",
		Short: "Remove every task and the history",
		Long:  "Remove every task and the history. In independent mode a structure can be cleared on its own.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := ""
			if len(args) == 1 {
				kind = args[0]
			}
			return ClearCommand(deps(), kind, yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func newExportCmd(deps func() *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "export <queue|stack|list|bst> <file>",
		Short: "Write one structure's tasks to a text file, one per line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ExportCommand(deps(), args[0], args[1])
		},
	}
}

func newImportCmd(deps func() *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "import <queue|stack|list|bst> <file>",
		Short: "Add every line of a text file as a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ImportCommand(deps(), args[0], args[1])
		},
	}
}

func newDoctorCmd(deps func() *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the structures agree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return DoctorCommand(deps())
		},
	}
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: %w", s, err)
	}
	return n, nil
}
