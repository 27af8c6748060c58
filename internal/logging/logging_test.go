package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/screenwell/internal/config"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sw.log")
	log, err := New(config.LogConfig{Level: "info", File: path}, false)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("result saved", zap.String("instrument", "phq9"))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1, "debug entry should be filtered at info level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "result saved", entry["msg"])
	assert.Equal(t, "phq9", entry["instrument"])
	assert.Contains(t, entry, "ts")
}

func TestNew_VerboseEnablesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sw.log")
	log, err := New(config.LogConfig{Level: "error", File: path}, true)
	require.NoError(t, err)

	log.Debug("visible")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "chatty", File: filepath.Join(t.TempDir(), "x.log")}, false)
	assert.Error(t, err)
}

func TestPath_DefaultsToDataDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	p, err := Path(config.LogConfig{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "screenwell", FileName), p)
}
