package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestNew(t *testing.T) {
	s := New()
	if s == nil {
		t.Fatal("New() returned nil")
	}
}

func TestPriorityBadge(t *testing.T) {
	s := New()

	tests := []struct {
		priority int
		name     string
	}{
		{1, "lowest"},
		{5, "middle"},
		{10, "highest"},
		{0, "below range clamps"},
		{42, "above range clamps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rendered := s.PriorityBadge(tt.priority).Render("P1")
			if len(rendered) == 0 {
				t.Error("PriorityBadge rendered empty string")
			}
		})
	}
}

func TestPriorityColor(t *testing.T) {
	tests := []struct {
		name             string
		priority, lo, hi int
		want             lipgloss.Color
	}{
		{"lowest", 1, 1, 10, Overlay0},
		{"highest", 10, 1, 10, Red},
		{"clamped low", -5, 1, 10, Overlay0},
		{"clamped high", 99, 1, 10, Red},
		{"narrow scale top", 3, 1, 3, Red},
		{"narrow scale bottom", 1, 1, 3, Overlay0},
		{"single value", 4, 4, 4, Red},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PriorityColor(tt.priority, tt.lo, tt.hi); got != tt.want {
				t.Errorf("PriorityColor(%d, %d, %d) = %s, want %s", tt.priority, tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

func TestPriorityColor_Monotonic(t *testing.T) {
	index := func(c lipgloss.Color) int {
		for i, pc := range PriorityColors {
			if pc == c {
				return i
			}
		}
		return -1
	}

	prev := -1
	for p := 1; p <= 10; p++ {
		idx := index(PriorityColor(p, 1, 10))
		if idx < prev {
			t.Errorf("priority %d got a less urgent color than %d", p, p-1)
		}
		prev = idx
	}
}

func TestThemeColors(t *testing.T) {
	// Verify colors are defined
	colors := []struct {
		name  string
		color string
	}{
		{"Base", string(Base)},
		{"Blue", string(Blue)},
		{"Red", string(Red)},
		{"Green", string(Green)},
		{"Yellow", string(Yellow)},
	}

	for _, c := range colors {
		t.Run(c.name, func(t *testing.T) {
			if c.color == "" {
				t.Errorf("%s color is empty", c.name)
			}
			// Catppuccin colors start with #
			if c.color[0] != '#' {
				t.Errorf("%s color doesn't start with #: %s", c.name, c.color)
			}
		})
	}

	if len(ColumnColors) != 4 {
		t.Errorf("expected one column color per structure, got %d", len(ColumnColors))
	}
}
