package config

import "path/filepath"

// Paths holds resolved paths for the runtime config file and the var/ directories.
type Paths struct {
	Root       string
	ConfigPath string
	VarDir     string
	CacheDir   string
	SessionDir string
	LogPath    string
	LockPath   string
}

// testingEnv is the APP_ENV value that selects the test config file.
const testingEnv = "testing"

// DefaultPaths returns the default paths for an application root.
// appEnv "testing" selects env.test.<ext> instead of env.<ext>.
func DefaultPaths(root string, format Format, appEnv string) Paths {
	name := "env"
	if appEnv == testingEnv {
		name = "env.test"
	}
	varDir := filepath.Join(root, "var")
	return Paths{
		Root:       root,
		ConfigPath: filepath.Join(root, "app", "etc", name+format.Extension()),
		VarDir:     varDir,
		CacheDir:   filepath.Join(varDir, "cache"),
		SessionDir: filepath.Join(varDir, "session"),
		LogPath:    filepath.Join(varDir, "log", "install.log"),
		LockPath:   filepath.Join(varDir, "locks", "install.lock"),
	}
}

// ResolvePaths returns DefaultPaths using APP_ENV from sys.
func ResolvePaths(sys System, root string, format Format) Paths {
	appEnv, _ := sys.LookupEnv("APP_ENV")
	return DefaultPaths(root, format, appEnv)
}

// DetectPaths returns the paths of the first runtime config found under root,
// trying formats in Formats order. found is false when no config exists; the
// php paths are returned then.
func DetectPaths(sys System, root string) (Paths, bool) {
	for _, format := range Formats() {
		paths := ResolvePaths(sys, root, format)
		if _, err := sys.Stat(paths.ConfigPath); err == nil {
			return paths, true
		}
	}
	return ResolvePaths(sys, root, FormatPHP), false
}
