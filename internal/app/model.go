// Package app contains the main application model and TEA implementation.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/structdo/internal/config"
	"github.com/riordanpawley/structdo/internal/domain"
	"github.com/riordanpawley/structdo/internal/registry"
	"github.com/riordanpawley/structdo/internal/store"
	"github.com/riordanpawley/structdo/internal/types"
	"github.com/riordanpawley/structdo/internal/ui/board"
	"github.com/riordanpawley/structdo/internal/ui/compact"
	"github.com/riordanpawley/structdo/internal/ui/overlay"
	"github.com/riordanpawley/structdo/internal/ui/statusbar"
	"github.com/riordanpawley/structdo/internal/ui/styles"
	"github.com/riordanpawley/structdo/internal/ui/toast"
)

// Re-export Mode type and constants for convenience
type Mode = types.Mode

const (
	ModeNormal  = types.ModeNormal
	ModeInput   = types.ModeInput
	ModeConfirm = types.ModeConfirm
	ModeHistory = types.ModeHistory
	ModeHelp    = types.ModeHelp
)

// Re-export Toast type and constants for convenience
type Toast = types.Toast
type ToastLevel = types.ToastLevel

const (
	ToastInfo    = types.ToastInfo
	ToastSuccess = types.ToastSuccess
	ToastWarning = types.ToastWarning
	ToastError   = types.ToastError
)

// ViewMode represents the current view mode
type ViewMode int

const (
	ViewModeBoard ViewMode = iota
	ViewModeCompact
)

// Dialog actions carried in overlay.SelectionMsg.Key
const (
	actionClear = "clear"
	actionQuit  = "quit"
)

// Model is the main application state
type Model struct {
	// Core data
	reg      *registry.Registry
	dataPath string

	// Navigation
	cursor board.Cursor

	// UI state
	overlayStack *overlay.Stack
	viewMode     ViewMode

	// Toasts
	toasts []Toast

	// Terminal size
	width  int
	height int

	// Styles
	styles        *styles.Styles
	compactStyles *compact.Styles

	// Configuration
	config *config.Config

	// Loading state
	loading    bool
	loadFailed bool
	spinner    spinner.Model

	// revision counts mutations; saved is the revision last written.
	// One save runs at a time; requests made meanwhile set resave.
	revision     int
	saved        int
	saving       bool
	resave       bool
	resaveManual bool

	logger *slog.Logger
}

// New creates the board for the data file at dataPath
func New(cfg *config.Config, dataPath string, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	p := cfg.Priority
	return Model{
		reg:           registry.New(cfg.RegistryOptions(), logger),
		dataPath:      dataPath,
		overlayStack:  overlay.NewStack(),
		viewMode:      ViewModeBoard,
		styles:        styles.NewForRange(p.Min, p.Max),
		compactStyles: compact.NewStyles(p.Min, p.Max),
		config:        cfg,
		loading:       true,
		spinner:       s,
		logger:        logger,
	}
}

// Init returns the initial command for the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadCmd(),
		tickEvery(time.Second),
	)
}

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.loading {
			return m, nil
		}
		// If overlay is open, route to overlay stack
		if !m.overlayStack.IsEmpty() {
			return m.handleOverlayKey(msg)
		}
		return m.handleKey(msg)

	case overlay.CloseOverlayMsg:
		m.overlayStack.Pop()
		return m, nil

	case overlay.SelectionMsg:
		return m.handleSelection(msg)

	case overlay.TaskSubmittedMsg:
		m.overlayStack.Pop()
		return m.addTask(msg)

	case dataLoadedMsg:
		m.loading = false
		report := m.reg.Restore(msg.snap)
		m.cursor = m.cursor.Clamp(m.buildColumns())
		m.logger.Info("tasks loaded", "path", m.dataPath, "tasks", report.Tasks, "skipped", report.Skipped())
		// A mirrored task sits in all four structures but counts once
		loaded := report.Tasks
		if m.reg.Mirrored() {
			loaded = m.reg.Len(domain.KindQueue)
		}
		if report.Skipped() > 0 {
			m.addToast(ToastWarning, fmt.Sprintf("Skipped %d malformed entries", report.Skipped()))
		} else if loaded > 0 {
			m.addToast(ToastInfo, fmt.Sprintf("Loaded %d tasks", loaded))
		}
		return m, nil

	case dataErrorMsg:
		m.loading = false
		m.loadFailed = true
		m.logger.Error("load failed", "path", m.dataPath, "error", msg.err)
		m.addToast(ToastError, "Could not load tasks: "+msg.err.Error())
		return m, nil

	case savedMsg:
		m.saving = false
		m.saved = max(m.saved, msg.revision)
		m.logger.Debug("saved", "path", m.dataPath, "revision", msg.revision)
		if msg.manual {
			m.addToast(ToastSuccess, "Tasks saved")
		}
		return m.saveQueued()

	case saveErrorMsg:
		m.saving = false
		m.logger.Error("save failed", "path", m.dataPath, "error", msg.err)
		m.addToast(ToastError, "Failed to save tasks: "+msg.err.Error())
		return m.saveQueued()

	case tickMsg:
		m.expireToasts()
		return m, tickEvery(time.Second)
	}

	// Cursor blinks and the like belong to the open overlay
	if !m.overlayStack.IsEmpty() {
		return m, m.overlayStack.Update(msg)
	}
	return m, nil
}

// View renders the current state as a string
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.loading {
		return m.renderLoading()
	}

	toastView := toast.New(m.styles).Render(m.toasts, m.width)
	mainHeight := m.height - 1
	if toastView != "" {
		mainHeight -= lipgloss.Height(toastView)
	}
	mainHeight = max(mainHeight, 1)

	var mainView string
	switch {
	case !m.overlayStack.IsEmpty():
		mainView = m.renderOverlay(mainHeight)
	case m.viewMode == ViewModeCompact:
		mainView = m.renderCompactView(mainHeight)
	default:
		mainView = m.renderBoardView(mainHeight)
	}

	parts := []string{mainView}
	if toastView != "" {
		parts = append(parts, lipgloss.PlaceHorizontal(m.width, lipgloss.Right, toastView))
	}
	parts = append(parts, m.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Mode returns the mode shown in the status bar
func (m Model) Mode() Mode {
	if current := m.overlayStack.Current(); current != nil {
		return current.Mode()
	}
	return ModeNormal
}

// Dirty reports whether there are changes not yet written
func (m Model) Dirty() bool {
	return m.revision != m.saved
}

// buildColumns lays out the four structures in board order. The stack
// reads top first and the tree highest key first.
func (m Model) buildColumns() []board.Column {
	columns := make([]board.Column, 0, len(domain.Kinds))
	for _, kind := range domain.Kinds {
		tasks := m.reg.Tasks(kind)
		if kind == domain.KindStack {
			slices.Reverse(tasks)
		}
		columns = append(columns, board.Column{Title: kind.String(), Kind: kind, Tasks: tasks})
	}
	return columns
}

func (m Model) currentKind() domain.Kind {
	return domain.Kinds[m.cursor.Clamp(m.buildColumns()).Column]
}

// handleKey processes keyboard input on the board
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	columns := m.buildColumns()

	switch msg.String() {
	case "q":
		if m.Dirty() {
			return m, m.overlayStack.Push(overlay.NewConfirmDialog(actionQuit, "Quit",
				"There are unsaved changes. Quit without saving?"))
		}
		return m, tea.Quit

	case "ctrl+l":
		return m, tea.ClearScreen

	// Navigation
	case "h", "left":
		m.cursor = m.cursor.MoveHorizontal(columns, -1)
	case "l", "right":
		m.cursor = m.cursor.MoveHorizontal(columns, 1)
	case "j", "down":
		m.cursor = m.cursor.MoveVertical(columns, 1)
	case "k", "up":
		m.cursor = m.cursor.MoveVertical(columns, -1)
	case "g":
		m.cursor.Task = 0
	case "G":
		m.cursor = m.cursor.MoveVertical(columns, len(columns[m.cursor.Clamp(columns).Column].Tasks))

	case "tab":
		if m.viewMode == ViewModeBoard {
			m.viewMode = ViewModeCompact
		} else {
			m.viewMode = ViewModeBoard
		}

	// Tasks
	case "a":
		title := "Add Task"
		if !m.reg.Mirrored() {
			title = "Add to " + m.currentKind().String()
		}
		p := m.config.Priority
		return m, m.overlayStack.Push(overlay.NewAddTaskOverlay(title, p.Min, p.Max, p.Default))

	case " ", "enter":
		return m.completeCurrent()

	case "u":
		return m.undo()

	case "x", "delete":
		return m.deleteSelected()

	case "J":
		return m.moveInList(1)
	case "K":
		return m.moveInList(-1)

	// Board
	case "r":
		field := m.reg.SortField().Next()
		m.reg.SetSortField(field)
		m.logger.Info("tree sort changed", "field", field)
		m.addToast(ToastInfo, fmt.Sprintf("BST sorted by %s", field))
		return m, nil

	case "H":
		return m, m.overlayStack.Push(overlay.NewHistoryOverlay(m.reg.RecentHistory()))

	case "s":
		return m.requestSave(true)

	case "C":
		if m.config.UI.ConfirmClear {
			return m, m.overlayStack.Push(overlay.NewConfirmDialog(actionClear, "Clear All",
				"Remove every task and the completion history?"))
		}
		return m.clearAll()

	case "?":
		return m, m.overlayStack.Push(overlay.NewHelpOverlay())
	}

	return m, nil
}

func (m Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd := m.overlayStack.Update(msg)
	return m, cmd
}

// handleSelection acts on a finished confirm dialog
func (m Model) handleSelection(msg overlay.SelectionMsg) (tea.Model, tea.Cmd) {
	m.overlayStack.Pop()

	result, ok := msg.Value.(overlay.ConfirmResult)
	if !ok || !result.Confirmed {
		return m, nil
	}

	switch msg.Key {
	case actionClear:
		return m.clearAll()
	case actionQuit:
		return m, tea.Quit
	}
	return m, nil
}

// Actions

func (m Model) addTask(msg overlay.TaskSubmittedMsg) (tea.Model, tea.Cmd) {
	task := domain.Task{Title: msg.Title, Priority: msg.Priority, Due: msg.Due}

	var (
		added domain.Task
		err   error
	)
	if m.reg.Mirrored() {
		added, err = m.reg.Add(task)
	} else {
		added, err = m.reg.AddTo(m.currentKind(), task)
	}
	if err != nil {
		return m.fail("add", err)
	}

	m.logger.Info("task added", "title", added.Title, "priority", added.Priority)
	m.addToast(ToastSuccess, "Added "+added.Label())
	return m.changed()
}

// completeCurrent completes through the focused column. The linked list
// completes the task under the cursor; the others follow their own rule.
func (m Model) completeCurrent() (tea.Model, tea.Cmd) {
	columns := m.buildColumns()
	cursor := m.cursor.Clamp(columns)
	kind := columns[cursor.Column].Kind

	index := 0
	if kind == domain.KindList {
		index = cursor.Task
	}

	task, err := m.reg.CompleteVia(kind, index)
	if err != nil {
		return m.fail("complete", err)
	}

	m.addToast(ToastSuccess, fmt.Sprintf("Completed via %s: %s", kind, task.Title))
	return m.changed()
}

func (m Model) undo() (tea.Model, tea.Cmd) {
	entry, err := m.reg.Undo()
	if err != nil {
		return m.fail("undo", err)
	}

	m.addToast(ToastSuccess, "Restored "+entry.Task.Label())
	return m.changed()
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	task, ok := m.cursor.Selected(m.buildColumns())
	if !ok {
		return m.fail("delete", domain.ErrEmpty)
	}
	if err := m.reg.Remove(task.ID); err != nil {
		return m.fail("delete", err)
	}

	m.logger.Info("task deleted", "title", task.Title)
	m.addToast(ToastInfo, "Deleted "+task.Title)
	return m.changed()
}

// moveInList shifts the selected linked list task by delta places
func (m Model) moveInList(delta int) (tea.Model, tea.Cmd) {
	if m.currentKind() != domain.KindList {
		m.addToast(ToastInfo, "Reordering works in the Linked List")
		return m, nil
	}

	from := m.cursor.Clamp(m.buildColumns()).Task
	to := from + delta
	if to < 0 || to >= m.reg.Len(domain.KindList) {
		return m, nil
	}
	if err := m.reg.MoveInList(from, to); err != nil {
		return m.fail("move", err)
	}
	m.cursor.Task = to
	return m.changed()
}

func (m Model) clearAll() (tea.Model, tea.Cmd) {
	m.reg.ClearAll()
	m.cursor = board.Cursor{Column: m.cursor.Column}
	m.addToast(ToastInfo, "Cleared all tasks")
	return m.changed()
}

// changed records a mutation and saves when auto-save is on
func (m Model) changed() (tea.Model, tea.Cmd) {
	m.revision++
	m.cursor = m.cursor.Clamp(m.buildColumns())
	if m.config.AutoSave && !m.loadFailed {
		return m.requestSave(false)
	}
	return m, nil
}

// requestSave starts a save, or queues one behind the save in flight so
// writes reach the file in revision order
func (m Model) requestSave(manual bool) (tea.Model, tea.Cmd) {
	if m.saving {
		m.resave = true
		m.resaveManual = m.resaveManual || manual
		return m, nil
	}
	m.saving = true
	return m, m.saveCmd(manual)
}

// saveQueued starts the save requested while the last one ran
func (m Model) saveQueued() (tea.Model, tea.Cmd) {
	if !m.resave {
		return m, nil
	}
	manual := m.resaveManual
	m.resave, m.resaveManual = false, false
	return m.requestSave(manual)
}

// fail reports an operation error as a toast. Empty structures and bad
// positions are expected outcomes, not failures.
func (m Model) fail(op string, err error) (tea.Model, tea.Cmd) {
	var posErr *domain.PositionError
	switch {
	case errors.Is(err, domain.ErrEmpty):
		m.addToast(ToastWarning, m.currentKind().String()+" is empty")
	case errors.Is(err, domain.ErrNothingToUndo):
		m.addToast(ToastWarning, "Nothing to undo")
	case errors.As(err, &posErr):
		m.addToast(ToastWarning, "Invalid position")
	default:
		m.addToast(ToastError, err.Error())
	}
	m.logger.Debug("operation rejected", "op", op, "error", err)
	return m, nil
}

// Message types for async operations

type dataLoadedMsg struct {
	snap *store.Snapshot
}

type dataErrorMsg struct {
	err error
}

type savedMsg struct {
	revision int
	manual   bool
}

type saveErrorMsg struct {
	err error
}

type tickMsg time.Time

// Commands

// loadCmd reads the data file off the update loop
func (m Model) loadCmd() tea.Cmd {
	path := m.dataPath
	return func() tea.Msg {
		snap, err := store.Load(path)
		if err != nil {
			return dataErrorMsg{err: err}
		}
		return dataLoadedMsg{snap: snap}
	}
}

// saveCmd writes a snapshot taken now; the write happens off the update loop
func (m Model) saveCmd(manual bool) tea.Cmd {
	path, snap, revision := m.dataPath, m.reg.Snapshot(), m.revision
	return func() tea.Msg {
		if err := store.Save(path, snap); err != nil {
			return saveErrorMsg{err: err}
		}
		return savedMsg{revision: revision, manual: manual}
	}
}

func tickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Rendering

func (m Model) renderLoading() string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.spinner.View(),
		"Loading tasks...",
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderBoardView(height int) string {
	return board.Render(m.buildColumns(), m.cursor, m.styles, m.width, height)
}

func (m Model) renderCompactView(height int) string {
	columns := m.buildColumns()
	cursor := m.cursor.Clamp(columns)
	col := columns[cursor.Column]

	cv := compact.NewCompactView(col.Title, col.Kind, col.Tasks, m.compactStyles)
	cv.SetDimensions(m.width, height)
	cv.SetCursor(cursor.Task)
	return lipgloss.NewStyle().MaxHeight(height).Render(cv.Render())
}

// renderOverlay centers the top overlay in the main area
func (m Model) renderOverlay(height int) string {
	current := m.overlayStack.Current()
	content := current.View()
	if title := current.Title(); title != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, m.styles.OverlayTitle.Render(title), content)
	}

	w, h := current.Size()
	box := m.styles.Overlay.
		Width(min(w, m.width-2)).
		Height(min(h, height-2)).
		MaxHeight(height).
		Render(content)

	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderStatusBar() string {
	columns := m.buildColumns()
	cursor := m.cursor.Clamp(columns)
	col := columns[cursor.Column]

	return statusbar.New(m.Mode(), m.width, m.styles).WithInfo(statusbar.Info{
		Structure: col.Title,
		Tasks:     len(col.Tasks),
		SortField: string(m.reg.SortField()),
		Dirty:     m.Dirty(),
	}).Render()
}

// Toasts

// addToast shows a message for the configured time. Zero disables toasts.
func (m *Model) addToast(level ToastLevel, message string) {
	seconds := m.config.UI.ToastSeconds
	if seconds <= 0 {
		return
	}
	ttl := time.Duration(seconds) * time.Second
	if level == ToastError {
		ttl *= 2
	}
	m.toasts = append(m.toasts, types.NewToast(level, message, ttl))
}

// expireToasts removes expired toasts from the list
func (m *Model) expireToasts() {
	now := time.Now()
	m.toasts = slices.DeleteFunc(m.toasts, func(t Toast) bool {
		return t.Expired(now)
	})
}
