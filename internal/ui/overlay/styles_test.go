package overlay

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestNewStyles(t *testing.T) {
	styles := New()
	if styles == nil {
		t.Fatal("New() returned nil")
	}

	tests := []struct {
		name  string
		style lipgloss.Style
	}{
		{"MenuItem", styles.MenuItem},
		{"MenuItemActive", styles.MenuItemActive},
		{"MenuKey", styles.MenuKey},
		{"Footer", styles.Footer},
		{"Input", styles.Input},
		{"InputFocused", styles.InputFocused},
		{"Error", styles.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rendered := tt.style.Render("test"); rendered == "" {
				t.Errorf("%s style rendered empty string", tt.name)
			}
		})
	}
}

func TestInputStylesHaveBorders(t *testing.T) {
	styles := New()
	for name, style := range map[string]lipgloss.Style{"Input": styles.Input, "InputFocused": styles.InputFocused} {
		if lipgloss.Height(style.Render("x")) != 3 {
			t.Errorf("%s should draw a border above and below its content", name)
		}
	}
}
