package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleLoggerLevels(t *testing.T) {
	tests := []struct {
		name       string
		level      string
		wantLogged []string
		wantHidden []string
	}{
		{
			name:       "info hides debug and trace",
			level:      "info",
			wantLogged: []string{"[INFO]", "[WARN]", "[ERROR]"},
			wantHidden: []string{"[DEBUG]", "[TRACE]"},
		},
		{
			name:       "debug shows debug",
			level:      "debug",
			wantLogged: []string{"[DEBUG]", "[INFO]", "[WARN]", "[ERROR]"},
			wantHidden: []string{"[TRACE]"},
		},
		{
			name:       "error hides everything below",
			level:      "error",
			wantLogged: []string{"[ERROR]"},
			wantHidden: []string{"[TRACE]", "[DEBUG]", "[INFO]", "[WARN]"},
		},
		{
			name:       "trace shows everything",
			level:      "trace",
			wantLogged: []string{"[TRACE]", "[DEBUG]", "[INFO]", "[WARN]", "[ERROR]"},
		},
		{
			name:       "invalid level defaults to info",
			level:      "loud",
			wantLogged: []string{"[INFO]"},
			wantHidden: []string{"[DEBUG]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			cl := NewConsoleLogger(&buf, tt.level)

			cl.LogTrace("trace msg")
			cl.LogDebug("debug msg")
			cl.LogInfo("info msg")
			cl.LogWarn("warn msg")
			cl.LogError("error msg")

			out := buf.String()
			for _, want := range tt.wantLogged {
				assert.Contains(t, out, want)
			}
			for _, hidden := range tt.wantHidden {
				assert.NotContains(t, out, hidden)
			}
		})
	}
}

func TestConsoleLoggerNilWriterDiscards(t *testing.T) {
	cl := NewConsoleLogger(nil, "trace")
	// Must not panic.
	cl.LogInfo("to nowhere")
	cl.LogError("also to nowhere")
}

func TestConsoleLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "info")

	cl.LogInfo("scanning started")

	line := strings.TrimRight(buf.String(), "\n")
	// [HH:MM:SS] [INFO] scanning started
	assert.Regexp(t, `^\[\d{2}:\d{2}:\d{2}\] \[INFO\] scanning started$`, line)
}
