package overlay

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/structdo/internal/domain"
	"github.com/riordanpawley/structdo/internal/types"
)

// TaskSubmittedMsg is emitted when the add form is submitted with valid input
type TaskSubmittedMsg struct {
	Title    string
	Priority int
	Due      *time.Time
}

const (
	focusTitle = iota
	focusDue
	focusPriority
	focusCount
)

// AddTaskOverlay is the form for a new task
type AddTaskOverlay struct {
	title      string
	titleInput textinput.Model
	dueInput   textinput.Model
	priority   int
	minP, maxP int
	focus      int
	err        string
	styles     *Styles
}

// NewAddTaskOverlay creates the add form. Priority starts at def and stays
// within [minP, maxP].
func NewAddTaskOverlay(title string, minP, maxP, def int) *AddTaskOverlay {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 200
	ti.Width = 44
	ti.Focus()

	di := textinput.New()
	di.Placeholder = "YYYY-MM-DD (optional)"
	di.CharLimit = len(domain.DateLayout)
	di.Width = 44

	return &AddTaskOverlay{
		title:      title,
		titleInput: ti,
		dueInput:   di,
		priority:   max(minP, min(def, maxP)),
		minP:       minP,
		maxP:       maxP,
		styles:     New(),
	}
}

// Init initializes the overlay
func (a *AddTaskOverlay) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (a *AddTaskOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return a, closeOverlay
		case "enter":
			return a, a.submit()
		case "tab", "down":
			a.setFocus((a.focus + 1) % focusCount)
			return a, nil
		case "shift+tab", "up":
			a.setFocus((a.focus + focusCount - 1) % focusCount)
			return a, nil
		}

		if a.focus == focusPriority {
			a.handlePriorityKey(key.String())
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.focus {
	case focusTitle:
		a.titleInput, cmd = a.titleInput.Update(msg)
	case focusDue:
		a.dueInput, cmd = a.dueInput.Update(msg)
	}
	return a, cmd
}

func (a *AddTaskOverlay) handlePriorityKey(key string) {
	switch key {
	case "+", "=", "l", "right":
		a.priority = min(a.priority+1, a.maxP)
	case "-", "_", "h", "left":
		a.priority = max(a.priority-1, a.minP)
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= a.minP && n <= a.maxP {
			a.priority = n
		}
	}
}

func (a *AddTaskOverlay) setFocus(focus int) {
	a.focus = focus
	a.titleInput.Blur()
	a.dueInput.Blur()
	switch focus {
	case focusTitle:
		a.titleInput.Focus()
	case focusDue:
		a.dueInput.Focus()
	}
}

// submit validates the form. Invalid input stays open with an error line.
func (a *AddTaskOverlay) submit() tea.Cmd {
	title := strings.TrimSpace(a.titleInput.Value())
	if title == "" {
		a.err = "Title cannot be empty"
		a.setFocus(focusTitle)
		return nil
	}
	due, err := domain.ParseDue(a.dueInput.Value())
	if err != nil {
		a.err = "Due date must be YYYY-MM-DD"
		a.setFocus(focusDue)
		return nil
	}
	a.err = ""

	submitted := TaskSubmittedMsg{Title: title, Priority: a.priority, Due: due}
	return func() tea.Msg { return submitted }
}

// View renders the form
func (a *AddTaskOverlay) View() string {
	field := func(label string, focus int, body string) string {
		style := a.styles.Input
		if a.focus == focus {
			style = a.styles.InputFocused
		}
		return a.styles.MenuHeader.Render(label) + "\n" + style.Render(body)
	}

	badge := a.styles.MenuCount.Render(fmt.Sprintf("P%d", a.priority))
	scale := a.styles.MenuItemDisabled.Render(fmt.Sprintf("  (%d-%d, +/- to change)", a.minP, a.maxP))

	parts := []string{
		field("Title", focusTitle, a.titleInput.View()),
		field("Due", focusDue, a.dueInput.View()),
		field("Priority", focusPriority, badge+scale),
	}
	if a.err != "" {
		parts = append(parts, a.styles.Error.Render(a.err))
	}
	parts = append(parts, a.styles.Footer.Render("Tab: Next field • Enter: Add • Esc: Cancel"))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Title returns the overlay title
func (a *AddTaskOverlay) Title() string {
	return a.title
}

// Size returns the overlay dimensions
func (a *AddTaskOverlay) Size() (width, height int) {
	return 56, 16
}

// Mode returns the status bar mode
func (a *AddTaskOverlay) Mode() types.Mode {
	return types.ModeInput
}

// Priority returns the currently chosen priority
func (a *AddTaskOverlay) Priority() int {
	return a.priority
}
