package log

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetVerboseTogglesDebug(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, slog.LevelInfo)
	defer SetOutput(os.Stderr, slog.LevelInfo)

	Debug("hidden")
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Debug("shown", "turn", 7)
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "turn=7")

	buf.Reset()
	SetVerbose(false)
	Debug("hidden again")
	Warn("kept")
	assert.NotContains(t, buf.String(), "hidden again")
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestSetFileOutputKeepsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vgapview.log")
	SetOutput(os.Stderr, slog.LevelDebug)
	defer SetOutput(os.Stderr, slog.LevelInfo)

	require.NoError(t, SetFileOutput(path))
	Debug("to file", "turn", 3)
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=\"to file\"")
	assert.Contains(t, string(data), "turn=3")
}
