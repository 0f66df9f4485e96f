package main

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestMainVersion(t *testing.T) {
	var out bytes.Buffer
	if err := execute([]string{"mage-console", "--version"}, &out, &out); err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if !strings.Contains(out.String(), Version) {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

func TestMainUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	if err := execute([]string{"mage-console", "unknown"}, &out, &out); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRunMainError(t *testing.T) {
	var out bytes.Buffer
	code := 0
	runMain([]string{"mage-console", "unknown"}, &out, &out, func(exitCode int) {
		code = exitCode
	})
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(out.String(), "unknown command") {
		t.Fatalf("expected error output, got %q", out.String())
	}
}

func TestRunMainSilentExit(t *testing.T) {
	orig := executeFunc
	t.Cleanup(func() { executeFunc = orig })
	executeFunc = func([]string, io.Writer, io.Writer) error {
		return &SilentExitError{Code: 3}
	}

	var out bytes.Buffer
	code := 0
	runMain([]string{"mage-console"}, &out, &out, func(exitCode int) { code = exitCode })
	if code != 3 {
		t.Fatalf("expected exit code 3, got %d", code)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestRunMainSuccess(t *testing.T) {
	orig := executeFunc
	t.Cleanup(func() { executeFunc = orig })
	executeFunc = func([]string, io.Writer, io.Writer) error { return nil }

	called := false
	runMain([]string{"mage-console"}, io.Discard, io.Discard, func(int) { called = true })
	if called {
		t.Fatalf("unexpected exit")
	}
}

func TestVersionString(t *testing.T) {
	origVersion, origCommit, origBuild := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = origVersion, origCommit, origBuild })

	Version, Commit, BuildDate = "v1.2.3", "unknown", "unknown"
	if got := versionString(); got != "v1.2.3" {
		t.Fatalf("unexpected version %q", got)
	}
	Commit, BuildDate = "abc123", "2026-01-01"
	if got := versionString(); got != "v1.2.3 (commit abc123, built 2026-01-01)" {
		t.Fatalf("unexpected version %q", got)
	}
}

func TestResolveRootUsesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	orig := getwd
	t.Cleanup(func() { getwd = orig })
	getwd = func() (string, error) { return dir, nil }

	got, err := resolveRoot("")
	if err != nil {
		t.Fatalf("resolveRoot error: %v", err)
	}
	if got != dir {
		t.Fatalf("expected %s, got %s", dir, got)
	}

	getwd = func() (string, error) { return "", errors.New("getwd failed") }
	if _, err := resolveRoot(""); err == nil {
		t.Fatalf("expected getwd error")
	}
}
