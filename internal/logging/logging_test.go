package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/riordanpawley/structdo/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{" error ", log.ErrorLevel},
		{"", log.InfoLevel},
		{"loud", log.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestParseFormatter(t *testing.T) {
	assert.Equal(t, log.JSONFormatter, ParseFormatter("json"))
	assert.Equal(t, log.LogfmtFormatter, ParseFormatter("logfmt"))
	assert.Equal(t, log.TextFormatter, ParseFormatter("text"))
	assert.Equal(t, log.TextFormatter, ParseFormatter("xml"))
}

func TestNew_JSONRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "info", Format: "json"}, &buf)

	logger.Debug("hidden", "n", 1)
	logger.Info("task completed", "title", "Buy milk", "via", "Queue")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "task completed", rec["msg"])
	assert.Equal(t, "Buy milk", rec["title"])
	assert.Equal(t, "Queue", rec["via"])
}

func TestNew_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "debug", Format: "logfmt"}, &buf)

	logger.Debug("task added", "priority", 3)
	assert.Contains(t, buf.String(), "task added")
	assert.Contains(t, buf.String(), "priority=3")
}

func TestNewFile_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "structdo.log")
	logger, closer, err := NewFile(config.LogConfig{Level: "info", Format: "text", File: path})
	require.NoError(t, err)

	logger.Warn("restored structures differ")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "restored structures differ")
}

func TestNewFile_EmptyPathDiscards(t *testing.T) {
	logger, closer, err := NewFile(config.LogConfig{})
	require.NoError(t, err)
	logger.Info("nowhere")
	assert.NoError(t, closer.Close())
}
