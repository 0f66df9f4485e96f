package testutil

import (
	"os"
	"sync"

	"github.com/conn-castle/mage-console/internal/fsutil"
)

// System is an OS-backed filesystem that records every mutating call and can
// inject failures. The environment comes from Env only, never the process.
type System struct {
	Env map[string]string

	// WriteErr, when set, is returned for writes to matching paths.
	WriteErr func(path string) error
	// ChmodErr, when set, is returned for chmod of matching paths.
	ChmodErr func(path string) error
	// ReadErr, when set, is returned for reads of matching paths.
	ReadErr func(path string) error

	mu     sync.Mutex
	writes []string
}

// Writes returns the paths touched by mutating calls, in call order.
func (s *System) Writes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.writes...)
}

func (s *System) record(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, path)
}

// Stat returns a FileInfo describing the named file.
func (s *System) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// ReadFile reads the named file.
func (s *System) ReadFile(name string) ([]byte, error) {
	if s.ReadErr != nil {
		if err := s.ReadErr(name); err != nil {
			return nil, err
		}
	}
	return os.ReadFile(name)
}

// LookupEnv reads from Env.
func (s *System) LookupEnv(key string) (string, bool) {
	value, ok := s.Env[key]
	return value, ok
}

// MkdirAll creates path and records it.
func (s *System) MkdirAll(path string, perm os.FileMode) error {
	s.record(path)
	return os.MkdirAll(path, perm)
}

// RemoveAll removes path and records it.
func (s *System) RemoveAll(path string) error {
	s.record(path)
	return os.RemoveAll(path)
}

// Chmod changes the mode of name and records it.
func (s *System) Chmod(name string, mode os.FileMode) error {
	s.record(name)
	if s.ChmodErr != nil {
		if err := s.ChmodErr(name); err != nil {
			return err
		}
	}
	return os.Chmod(name, mode)
}

// WriteFileAtomic writes filename atomically and records it.
func (s *System) WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	s.record(filename)
	if s.WriteErr != nil {
		if err := s.WriteErr(filename); err != nil {
			return err
		}
	}
	return fsutil.WriteFileAtomic(filename, data, perm)
}

// FailOn returns a matcher that yields err for exactly target.
func FailOn(target string, err error) func(string) error {
	return func(path string) error {
		if path == target {
			return err
		}
		return nil
	}
}
