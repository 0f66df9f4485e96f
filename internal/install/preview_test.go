package install

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/mage-console/internal/config"
	"github.com/conn-castle/mage-console/internal/testutil"
)

func TestPreviewNewConfigWritesNothing(t *testing.T) {
	root := t.TempDir()
	sys := &testutil.System{}

	preview, err := Preview(Options{Root: root, System: sys, Args: scenarioArgs()}, 0)
	require.NoError(t, err)

	assert.Equal(t, "app/etc/env.php", preview.Path)
	assert.False(t, preview.Exists)
	assert.Contains(t, preview.UnifiedDiff, "--- /dev/null")
	assert.Contains(t, preview.UnifiedDiff, "+++ app/etc/env.php (planned)")
	assert.Empty(t, sys.Writes())
	assert.NoFileExists(t, filepath.Join(root, "app", "etc", "env.php"))
}

func TestPreviewTruncatesLongDiffs(t *testing.T) {
	preview, err := Preview(Options{Root: t.TempDir(), System: &testutil.System{}, Args: scenarioArgs()}, 5)
	require.NoError(t, err)

	assert.True(t, preview.Truncated)
	lines := strings.Split(strings.TrimRight(preview.UnifiedDiff, "\n"), "\n")
	assert.Len(t, lines, 6)
	assert.Contains(t, lines[5], "--diff-lines")
}

func TestPreviewAgainstExistingConfig(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "app/etc/env.json", "{}\n")

	preview, err := Preview(Options{Root: root, System: &testutil.System{}, Args: scenarioArgs(), Format: config.FormatJSON}, 1000)
	require.NoError(t, err)
	assert.True(t, preview.Exists)
	assert.False(t, preview.Truncated)
	assert.Contains(t, preview.UnifiedDiff, "--- app/etc/env.json (current)")
	assert.Contains(t, preview.UnifiedDiff, "-{}")
	assert.Contains(t, preview.UnifiedDiff, config.EncryptionKeyPlaceholder)
}

func TestPreviewRejectsInvalidArguments(t *testing.T) {
	args := scenarioArgs()
	delete(args, "db_name")
	_, err := Preview(Options{Root: t.TempDir(), System: &testutil.System{}, Args: args}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db_name")
}

func TestRenderTruncatedUnifiedDiffIdentical(t *testing.T) {
	diff, truncated := renderTruncatedUnifiedDiff("a", "b", "same\n", "same\n", 10)
	assert.Empty(t, diff)
	assert.False(t, truncated)
}
