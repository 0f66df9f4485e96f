package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "var", "log", "install.log")
	logger, sink, err := New(Options{Path: path, RunID: "run-1"})
	require.NoError(t, err)

	logger.Info("state entered", "state", "PRECHECK")
	logger.Debug("dropped at info level")
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "state entered", record["msg"])
	assert.Equal(t, "PRECHECK", record["state"])
	assert.Equal(t, "run-1", record["run_id"])
}

func TestNewVerboseWritesTextToStderr(t *testing.T) {
	var stderr bytes.Buffer
	logger, sink, err := New(Options{Verbose: true, Stderr: &stderr, Hold: true})
	require.NoError(t, err)
	defer func() { _ = sink.Close() }()

	logger.Debug("schema installed", "module", "Mage_Core")
	out := stderr.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "module=Mage_Core")
	assert.Contains(t, out, "run_id=")
}

func TestNewWithoutSinkDiscards(t *testing.T) {
	logger, sink, err := New(Options{})
	require.NoError(t, err)
	logger.Info("nothing")
	sink.Release()
	assert.NoError(t, sink.Close())
}

func TestHeldRecordsNeverReleasedLeaveNoFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "var")
	logger, sink, err := New(Options{Path: filepath.Join(dir, "log", "install.log"), Hold: true})
	require.NoError(t, err)

	logger.Info("state entered", "state", "PRECHECK")
	logger.Error("install aborted", "kind", "AlreadyInstalledError")
	require.NoError(t, sink.Close())

	assert.NoDirExists(t, dir)
}

func TestReleaseFlushesHeldRecordsInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "var", "log", "install.log")
	logger, sink, err := New(Options{Path: path, Hold: true, RunID: "run-2"})
	require.NoError(t, err)

	logger.Info("state entered", "state", "PRECHECK")
	assert.NoFileExists(t, path)
	sink.Release()
	sink.Release()
	logger.Info("state entered", "state", "PREPARE_DATA")
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"state":"PRECHECK"`)
	assert.Contains(t, lines[1], `"state":"PREPARE_DATA"`)
}
