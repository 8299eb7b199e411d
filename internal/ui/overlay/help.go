package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/structdo/internal/types"
	"github.com/riordanpawley/structdo/internal/ui/styles"
)

// KeyBinding represents a single keybinding entry
type KeyBinding struct {
	Key         string
	Description string
}

// KeyCategory represents a category of keybindings
type KeyCategory struct {
	Name     string
	Bindings []KeyBinding
}

// Keymap is the board's key reference, shown by the help overlay
var Keymap = []KeyCategory{
	{
		Name: "Navigation",
		Bindings: []KeyBinding{
			{Key: "h/l", Description: "Switch structure"},
			{Key: "j/k", Description: "Move up/down in column"},
			{Key: "g/G", Description: "First/last task"},
		},
	},
	{
		Name: "Tasks",
		Bindings: []KeyBinding{
			{Key: "a", Description: "Add a task"},
			{Key: "Space", Description: "Complete via this structure"},
			{Key: "u", Description: "Undo last completion"},
			{Key: "x", Description: "Delete selected task everywhere"},
			{Key: "J/K", Description: "Move list task down/up"},
		},
	},
	{
		Name: "Board",
		Bindings: []KeyBinding{
			{Key: "r", Description: "Cycle BST sort field"},
			{Key: "H", Description: "Completion history"},
			{Key: "s", Description: "Save"},
			{Key: "C", Description: "Clear all tasks"},
			{Key: "Tab", Description: "Board / table view"},
		},
	},
	{
		Name: "Other",
		Bindings: []KeyBinding{
			{Key: "?", Description: "Help (this screen)"},
			{Key: "q", Description: "Quit"},
		},
	},
}

// HelpOverlay displays keybinding reference
type HelpOverlay struct {
	styles     *Styles
	scroll     int
	maxScroll  int
	viewHeight int
}

// NewHelpOverlay creates a new help overlay
func NewHelpOverlay() *HelpOverlay {
	return &HelpOverlay{
		styles:     New(),
		viewHeight: 20,
	}
}

// Init initializes the overlay
func (h *HelpOverlay) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (h *HelpOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, nil
	}

	switch key.String() {
	case "esc", "q", "?":
		return h, closeOverlay
	case "j", "down":
		h.scroll = min(h.scroll+1, h.maxScroll)
	case "k", "up":
		h.scroll = max(h.scroll-1, 0)
	case "g":
		h.scroll = 0
	case "G":
		h.scroll = h.maxScroll
	}
	return h, nil
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	lines := h.lines()
	h.maxScroll = max(0, len(lines)-h.viewHeight)
	h.scroll = min(h.scroll, h.maxScroll)

	end := min(h.scroll+h.viewHeight, len(lines))
	result := strings.Join(lines[h.scroll:end], "\n")

	if h.maxScroll > 0 {
		result += "\n\n" + h.styles.Footer.Render("[j/k to scroll, g/G to jump]")
	}
	return result
}

func (h *HelpOverlay) lines() []string {
	var lines []string
	for i, cat := range Keymap {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, h.styles.MenuHeader.Foreground(styles.Blue).Render(cat.Name+":"))
		for _, b := range cat.Bindings {
			key := h.styles.MenuKey.Width(6).Render(b.Key)
			lines = append(lines, "  "+key+"  "+h.styles.MenuItem.Render(b.Description))
		}
	}
	return lines
}

// Title returns the overlay title
func (h *HelpOverlay) Title() string {
	return "Help"
}

// Size returns the overlay dimensions
func (h *HelpOverlay) Size() (width, height int) {
	return 50, h.viewHeight + 4
}

// Mode returns the status bar mode
func (h *HelpOverlay) Mode() types.Mode {
	return types.ModeHelp
}
