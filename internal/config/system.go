package config

import (
	"os"
)

// System abstracts the filesystem operations the config package needs.
// Callers pass their own System; install.RealSystem satisfies it.
type System interface {
	Stat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	LookupEnv(key string) (string, bool)
	MkdirAll(path string, perm os.FileMode) error
	WriteFileAtomic(filename string, data []byte, perm os.FileMode) error
}
