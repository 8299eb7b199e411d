// Package main provides the entry point for structdo.
//
// structdo keeps one to-do list in a queue, a stack, a doubly linked list
// and a binary search tree. Run without a command it opens the board;
// subcommands work on the data file directly.
//
// Usage:
//
//	structdo [command] [flags]
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/structdo/internal/app"
	"github.com/riordanpawley/structdo/internal/cli"
	"github.com/riordanpawley/structdo/internal/logging"
	"github.com/unixpickle/essentials"
)

func main() {
	root := cli.NewRootCmd(os.Stdout, os.Stderr, runBoard)
	if err := root.Execute(); err != nil {
		essentials.Die(err)
	}
}

// runBoard opens the interactive board. Logs go to a file so they do not
// tear the alternate screen.
func runBoard(deps *cli.Dependencies) error {
	logger, closer, err := logging.NewFile(deps.Config.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	logger.Info("starting board", "data", deps.DataPath, "mode", deps.Config.Mode)
	model := app.New(deps.Config, deps.DataPath, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
