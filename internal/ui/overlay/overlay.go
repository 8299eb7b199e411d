// Package overlay holds the modal dialogs drawn over the board.
package overlay

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/structdo/internal/types"
)

// Overlay represents a modal overlay component
type Overlay interface {
	tea.Model
	Title() string
	Size() (width, height int)
	// Mode is shown in the status bar while the overlay is on top
	Mode() types.Mode
}

// CloseOverlayMsg signals that the overlay should be closed
type CloseOverlayMsg struct{}

// SelectionMsg is sent when a dialog finishes with a result
type SelectionMsg struct {
	Key   string
	Value any
}

func closeOverlay() tea.Msg {
	return CloseOverlayMsg{}
}
