// Package types contains shared types used across the application.
package types

// Mode represents what the board is currently accepting input for
type Mode int

const (
	ModeNormal Mode = iota
	ModeInput
	ModeConfirm
	ModeHistory
	ModeHelp
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeInput:
		return "INPUT"
	case ModeConfirm:
		return "CONFIRM"
	case ModeHistory:
		return "HISTORY"
	case ModeHelp:
		return "HELP"
	default:
		return "UNKNOWN"
	}
}
