package statusbar

import (
	"strings"
	"testing"

	"github.com/riordanpawley/structdo/internal/types"
	"github.com/riordanpawley/structdo/internal/ui/styles"
)

func TestStatusBar_RenderNormalMode(t *testing.T) {
	sb := New(types.ModeNormal, 120, styles.New())

	result := sb.Render()

	if !strings.Contains(result, "NORMAL") {
		t.Errorf("Expected status bar to contain 'NORMAL', got: %s", result)
	}
	if !strings.Contains(result, "h/l: columns") {
		t.Errorf("Expected status bar to contain navigation hints, got: %s", result)
	}
	if !strings.Contains(result, "Space: complete") {
		t.Errorf("Expected status bar to contain complete hint, got: %s", result)
	}
}

func TestStatusBar_RenderModes(t *testing.T) {
	tests := []struct {
		mode types.Mode
		want []string
	}{
		{types.ModeInput, []string{"INPUT", "+/-: priority"}},
		{types.ModeConfirm, []string{"CONFIRM", "y: yes"}},
		{types.ModeHistory, []string{"HISTORY", "Esc: close"}},
		{types.ModeHelp, []string{"HELP", "g/G: jump"}},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			result := New(tt.mode, 100, styles.New()).Render()
			for _, want := range tt.want {
				if !strings.Contains(result, want) {
					t.Errorf("Expected status bar to contain %q, got: %s", want, result)
				}
			}
		})
	}
}

func TestStatusBar_RenderInfo(t *testing.T) {
	sb := New(types.ModeNormal, 160, styles.New()).WithInfo(Info{
		Structure: "Linked List",
		Tasks:     4,
		SortField: "title",
		Dirty:     true,
	})

	result := sb.Render()

	for _, want := range []string{"Linked List", "4", "sort: ", "title", "●"} {
		if !strings.Contains(result, want) {
			t.Errorf("Expected status bar to contain %q, got: %s", want, result)
		}
	}
}

func TestStatusBar_NarrowDropsHints(t *testing.T) {
	sb := New(types.ModeNormal, 50, styles.New()).WithInfo(Info{
		Structure: "Queue",
		Tasks:     1,
		SortField: "priority",
	})

	result := sb.Render()

	if strings.Contains(result, "h/l: columns") {
		t.Errorf("Expected hints to be dropped on a narrow bar, got: %s", result)
	}
	if !strings.Contains(result, "Queue") {
		t.Errorf("Expected board state to survive, got: %s", result)
	}
}

func TestGetHints_AllModes(t *testing.T) {
	tests := []struct {
		mode     types.Mode
		expected string
	}{
		{types.ModeNormal, "h/l: columns  j/k: tasks  a: add  Space: complete  u: undo  ?: help  q: quit"},
		{types.ModeInput, "Enter: add  +/-: priority  Tab: field  Esc: cancel"},
		{types.ModeConfirm, "y: yes  n: no  Esc: cancel"},
		{types.ModeHistory, "j/k: scroll  Esc: close"},
		{types.ModeHelp, "j/k: scroll  g/G: jump  Esc: close"},
		{types.Mode(42), ""},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			result := GetHints(tt.mode)
			if result != tt.expected {
				t.Errorf("GetHints(%v) = %q, want %q", tt.mode, result, tt.expected)
			}
		})
	}
}
