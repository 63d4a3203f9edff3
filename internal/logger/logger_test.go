package logger

import (
	"bytes"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigure(t *testing.T) {
	defer Configure(os.Stderr, slog.LevelInfo, false)

	var buf bytes.Buffer
	Configure(&buf, slog.LevelWarn, false)
	Info("hidden")
	Warn("shown", "gaps", 3)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "gaps=3")

	buf.Reset()
	Configure(&buf, slog.LevelDebug, true)
	Debug("json line", "zone", "PUN")
	assert.Contains(t, buf.String(), `"zone":"PUN"`)
}
