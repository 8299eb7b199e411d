package compact

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/structdo/internal/ui/styles"
)

// Styles holds the styling for the compact table view
type Styles struct {
	// Table structure
	Heading    lipgloss.Style
	HeaderCell lipgloss.Style
	Separator  lipgloss.Style

	// Row styles
	Row       lipgloss.Style
	RowActive lipgloss.Style

	// Cells
	Number      lipgloss.Style
	Due         lipgloss.Style
	Overdue     lipgloss.Style
	Description lipgloss.Style
	Empty       lipgloss.Style

	// Indicators
	Cursor lipgloss.Style

	priority func(int) lipgloss.Style
}

// NewStyles creates compact styles that color priorities on [lo, hi]
func NewStyles(lo, hi int) *Styles {
	return &Styles{
		Heading: lipgloss.NewStyle().
			Foreground(styles.Blue).
			Bold(true).
			MarginBottom(1),

		HeaderCell: lipgloss.NewStyle().
			Foreground(styles.Text).
			Bold(true),

		Separator: lipgloss.NewStyle().
			Foreground(styles.Surface1),

		Row: lipgloss.NewStyle().
			Foreground(styles.Text),

		RowActive: lipgloss.NewStyle().
			Foreground(styles.Text).
			Background(styles.Surface0),

		Number: lipgloss.NewStyle().
			Foreground(styles.Overlay1).
			Align(lipgloss.Right),

		Due: lipgloss.NewStyle().
			Foreground(styles.Subtext0),

		Overdue: lipgloss.NewStyle().
			Foreground(styles.Red).
			Bold(true),

		Description: lipgloss.NewStyle().
			Foreground(styles.Overlay1).
			Italic(true),

		Empty: lipgloss.NewStyle().
			Foreground(styles.Overlay0).
			Italic(true),

		Cursor: lipgloss.NewStyle().
			Foreground(styles.Blue).
			Bold(true),

		priority: func(p int) lipgloss.Style {
			return lipgloss.NewStyle().
				Foreground(styles.PriorityColor(p, lo, hi)).
				Bold(true)
		},
	}
}

// Priority returns the style for a priority value
func (s *Styles) Priority(p int) lipgloss.Style {
	return s.priority(p)
}
