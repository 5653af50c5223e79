package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, InfoLevel, cfg.Level)
	assert.Equal(t, os.Stderr, cfg.Output)
	assert.False(t, cfg.Pretty)
	assert.Equal(t, time.RFC3339, cfg.TimeFormat)
	assert.False(t, cfg.LogToFile)
	assert.Equal(t, "/tmp", cfg.LogDir)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"  debug  ", DebugLevel},
		{"info", InfoLevel},
		{"WARNING", WarnLevel},
		{"warn", WarnLevel},
		{"error", ErrorLevel},
		{"FATAL", FatalLevel},
		{"", InfoLevel},
		{"verbose", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: WarnLevel, Output: &buf})

	Debug().Msg("debug message")
	Info().Msg("info message")
	Warn().Msg("warn message")
	Error().Str("uri", "file:///a.ts").Msg("error message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, `"uri":"file:///a.ts"`)
}

func TestPrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: InfoLevel, Output: &buf, Pretty: true})

	Info().Msg("pretty test")

	assert.Contains(t, buf.String(), "pretty test")
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: InfoLevel, Output: &buf})

	child := With().Str("component", "watcher").Logger()
	child.Info().Msg("with context")

	assert.Contains(t, buf.String(), `"component":"watcher"`)
}

func TestLogToFile(t *testing.T) {
	dir := t.TempDir()
	Init(Config{Level: InfoLevel, Output: &bytes.Buffer{}, LogToFile: true, LogDir: dir})
	defer Close()

	Info().Msg("file log test")

	logPath := GetLogFilePath()
	require.NotEmpty(t, logPath)
	assert.Equal(t, dir, filepath.Dir(logPath))

	name := filepath.Base(logPath)
	assert.True(t, strings.HasPrefix(name, "cspell-settings-"), name)
	assert.True(t, strings.HasSuffix(name, ".log"), name)

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "file log test")
}

func TestCloseClearsLogFile(t *testing.T) {
	Init(Config{Level: InfoLevel, Output: &bytes.Buffer{}, LogToFile: true, LogDir: t.TempDir()})
	require.NotEmpty(t, GetLogFilePath())

	Close()
	assert.Empty(t, GetLogFilePath())

	Init(Config{Level: InfoLevel, Output: &bytes.Buffer{}})
	assert.Empty(t, GetLogFilePath())
}

func TestInitWithNilOutput(t *testing.T) {
	assert.NotPanics(t, func() {
		Init(Config{Level: InfoLevel})
	})
}
