package statusbar

import "github.com/riordanpawley/structdo/internal/types"

// GetHints returns the keybinding hints for the given mode
func GetHints(mode types.Mode) string {
	switch mode {
	case types.ModeNormal:
		return "h/l: columns  j/k: tasks  a: add  Space: complete  u: undo  ?: help  q: quit"
	case types.ModeInput:
		return "Enter: add  +/-: priority  Tab: field  Esc: cancel"
	case types.ModeConfirm:
		return "y: yes  n: no  Esc: cancel"
	case types.ModeHistory:
		return "j/k: scroll  Esc: close"
	case types.ModeHelp:
		return "j/k: scroll  g/G: jump  Esc: close"
	default:
		return ""
	}
}
