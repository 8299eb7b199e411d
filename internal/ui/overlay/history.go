package overlay

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/structdo/internal/registry"
	"github.com/riordanpawley/structdo/internal/types"
	"github.com/riordanpawley/structdo/internal/ui/styles"
)

// HistoryOverlay lists completed tasks, most recent first
type HistoryOverlay struct {
	entries    []registry.HistoryEntry
	styles     *Styles
	kindStyle  func(kind int) lipgloss.Style
	scroll     int
	viewHeight int
}

// NewHistoryOverlay creates the overlay. entries must already be most
// recent first.
func NewHistoryOverlay(entries []registry.HistoryEntry) *HistoryOverlay {
	return &HistoryOverlay{
		entries:    entries,
		styles:     New(),
		kindStyle:  styles.New().HistoryKind,
		viewHeight: 15,
	}
}

// Init initializes the overlay
func (h *HistoryOverlay) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (h *HistoryOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, nil
	}

	switch key.String() {
	case "esc", "q", "H":
		return h, closeOverlay
	case "j", "down":
		h.scroll = min(h.scroll+1, h.maxScroll())
	case "k", "up":
		h.scroll = max(h.scroll-1, 0)
	}
	return h, nil
}

func (h *HistoryOverlay) maxScroll() int {
	return max(0, len(h.entries)-h.viewHeight)
}

// View renders the history list
func (h *HistoryOverlay) View() string {
	if len(h.entries) == 0 {
		return h.styles.MenuItemDisabled.Render("No completed tasks")
	}

	end := min(h.scroll+h.viewHeight, len(h.entries))
	lines := make([]string, 0, end-h.scroll+2)
	for i := h.scroll; i < end; i++ {
		e := h.entries[i]
		num := h.styles.MenuItemDisabled.Render(fmt.Sprintf("%3d.", i+1))
		tag := h.kindStyle(int(e.Kind)).Width(12).Render("[" + e.Kind.Tag() + "]")
		lines = append(lines, num+" "+tag+" "+h.styles.MenuItem.Render(e.Task.Label()))
	}

	if h.maxScroll() > 0 {
		lines = append(lines, "", h.styles.Footer.Render(
			fmt.Sprintf("%d-%d of %d • j/k to scroll", h.scroll+1, end, len(h.entries))))
	}
	return strings.Join(lines, "\n")
}

// Title returns the overlay title
func (h *HistoryOverlay) Title() string {
	return fmt.Sprintf("History (%d)", len(h.entries))
}

// Size returns the overlay dimensions
func (h *HistoryOverlay) Size() (width, height int) {
	return 60, min(len(h.entries), h.viewHeight) + 6
}

// Mode returns the status bar mode
func (h *HistoryOverlay) Mode() types.Mode {
	return types.ModeHistory
}
