package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"nonsense", log.InfoLevel},
		{"", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestConfigure(t *testing.T) {
	t.Run("flag wins over environment", func(t *testing.T) {
		t.Setenv("YAMORI_LOG_LEVEL", "error")
		require.NoError(t, Configure("debug", "", false))
		assert.Equal(t, log.DebugLevel, Logger.GetLevel())
	})

	t.Run("environment used when flag empty", func(t *testing.T) {
		t.Setenv("YAMORI_LOG_LEVEL", "warn")
		require.NoError(t, Configure("", "", false))
		assert.Equal(t, log.WarnLevel, Logger.GetLevel())
	})

	t.Run("log file receives output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "yamori.log")
		require.NoError(t, Configure("info", path, true))

		Info("hello from test", "test", "sample")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "hello from test")
	})

	t.Run("component logger inherits level", func(t *testing.T) {
		require.NoError(t, Configure("error", "", true))
		l := NewStyledLogger("engine")
		assert.Equal(t, log.ErrorLevel, l.GetLevel())
	})

	t.Cleanup(func() {
		_ = Configure("info", "", false)
	})
}
