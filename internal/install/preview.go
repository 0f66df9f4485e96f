package install

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/conn-castle/mage-console/internal/config"
	"github.com/conn-castle/mage-console/internal/messages"
	"github.com/conn-castle/mage-console/internal/options"
)

const (
	// DefaultDiffMaxLines is the default maximum number of diff lines shown.
	DefaultDiffMaxLines = 40
	// diffLineCapFlagName is the CLI flag name used to raise the diff line cap.
	diffLineCapFlagName = "--diff-lines"
)

// DiffPreview is the config file a run would write, as a diff against disk.
type DiffPreview struct {
	Path        string
	Exists      bool
	UnifiedDiff string
	Truncated   bool
}

// Preview renders the runtime config for opts without writing anything.
// Argument problems are returned joined into one error.
func Preview(opts Options, maxLines int) (DiffPreview, error) {
	if opts.Root == "" {
		return DiffPreview{}, errors.New(messages.InstallRootRequired)
	}
	if opts.System == nil {
		return DiffPreview{}, errors.New(messages.InstallSystemRequired)
	}
	format := opts.Format
	if format == "" {
		format = config.FormatPHP
	}
	prepared, errs := options.Prepare(opts.Args)
	if len(errs) > 0 {
		return DiffPreview{}, fmt.Errorf(messages.InstallPreviewInvalidFmt, errors.Join(errs...))
	}
	paths := config.ResolvePaths(opts.System, opts.Root, format)
	rendered, err := config.NewEmitter(opts.System, paths.ConfigPath, format).Render(prepared)
	if err != nil {
		return DiffPreview{}, err
	}

	exists := true
	current, err := opts.System.ReadFile(paths.ConfigPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return DiffPreview{}, err
		}
		exists = false
	}

	relPath := paths.ConfigPath
	if rel, err := filepath.Rel(opts.Root, paths.ConfigPath); err == nil {
		relPath = filepath.ToSlash(rel)
	}
	fromName := relPath + " (current)"
	if !exists {
		fromName = "/dev/null"
	}
	diff, truncated := renderTruncatedUnifiedDiff(fromName, relPath+" (planned)", string(current), string(rendered), maxLines)
	return DiffPreview{Path: relPath, Exists: exists, UnifiedDiff: diff, Truncated: truncated}, nil
}

func normalizeDiffMaxLines(value int) int {
	if value <= 0 {
		return DefaultDiffMaxLines
	}
	return value
}

func renderTruncatedUnifiedDiff(fromName string, toName string, fromContent string, toContent string, maxLines int) (string, bool) {
	limit := normalizeDiffMaxLines(maxLines)
	diff := udiff.Unified(fromName, toName, fromContent, toContent)
	lines := splitDiffLines(diff)
	if len(lines) <= limit {
		return ensureTrailingNewline(strings.Join(lines, "\n")), false
	}
	truncated := lines[:limit]
	truncated = append(truncated, fmt.Sprintf(messages.InstallDiffTruncatedFmt, limit, diffLineCapFlagName))
	return ensureTrailingNewline(strings.Join(truncated, "\n")), true
}

func splitDiffLines(content string) []string {
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "\n")
}

func ensureTrailingNewline(content string) string {
	if content == "" {
		return ""
	}
	if strings.HasSuffix(content, "\n") {
		return content
	}
	return content + "\n"
}
