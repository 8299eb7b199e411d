package toast

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/riordanpawley/structdo/internal/types"
	"github.com/riordanpawley/structdo/internal/ui/styles"
	"github.com/stretchr/testify/assert"
)

func TestToastRenderer_Render_Empty(t *testing.T) {
	renderer := New(styles.New())

	assert.Equal(t, "", renderer.Render(nil, 80), "Empty toast list should return empty string")
}

func TestToastRenderer_Render_Levels(t *testing.T) {
	renderer := New(styles.New())

	tests := []struct {
		name    string
		level   types.ToastLevel
		message string
	}{
		{"Info", types.ToastInfo, "Saved 3 tasks"},
		{"Success", types.ToastSuccess, "Completed via Queue"},
		{"Warning", types.ToastWarning, "Stack is empty"},
		{"Error", types.ToastError, "invalid position"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toasts := []types.Toast{types.NewToast(tt.level, tt.message, 5*time.Second)}

			result := renderer.Render(toasts, 80)
			assert.Contains(t, result, tt.message)
		})
	}
}

func TestToastRenderer_Render_Stacks(t *testing.T) {
	renderer := New(styles.New())

	toasts := []types.Toast{
		types.NewToast(types.ToastInfo, "First toast", time.Second),
		types.NewToast(types.ToastSuccess, "Second toast", time.Second),
	}

	result := renderer.Render(toasts, 80)
	assert.Contains(t, result, "First toast")
	assert.Contains(t, result, "Second toast")
	assert.Less(t, strings.Index(result, "First toast"), strings.Index(result, "Second toast"))
}

func TestToastRenderer_Render_ShowsNewestOnly(t *testing.T) {
	renderer := New(styles.New())

	var toasts []types.Toast
	for i := range MaxVisible + 2 {
		toasts = append(toasts, types.NewToast(types.ToastInfo, fmt.Sprintf("toast-%d", i), time.Second))
	}

	result := renderer.Render(toasts, 120)
	assert.NotContains(t, result, "toast-0")
	assert.NotContains(t, result, "toast-1")
	assert.Contains(t, result, fmt.Sprintf("toast-%d", MaxVisible+1))
}
