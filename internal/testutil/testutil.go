// Package testutil holds helpers shared by package tests: a recording
// filesystem, scenario arguments, and working directory helpers.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ScenarioArgs returns the baseline arguments of a fresh SQLite-backed install.
// Callers may mutate the returned map.
func ScenarioArgs() map[string]string {
	return map[string]string{
		"license_agreement_accepted": "yes",
		"db_type":                    "pdo_sqlite",
		"db_host":                    "localhost",
		"db_name":                    "var/store.db",
		"db_user":                    "root",
		"admin_email":                "a@b.c",
		"admin_username":             "admin",
		"admin_password":             "Secret123",
	}
}

// WriteFile writes content under root, creating parent directories.
// t is the active test; rel is a slash separated path relative to root.
func WriteFile(t *testing.T, root string, rel string, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WithWorkingDir runs fn with dir as the current working directory and restores the previous directory.
// t is the active test; dir is the temporary working directory for fn.
func WithWorkingDir(t *testing.T, dir string, fn func()) {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() {
		if err := os.Chdir(cwd); err != nil {
			t.Fatalf("restore chdir: %v", err)
		}
	}()
	fn()
}
