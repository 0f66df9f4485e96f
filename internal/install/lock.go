package install

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/conn-castle/mage-console/internal/messages"
)

// ErrInstallRunning is returned when another install holds the lock.
var ErrInstallRunning = errors.New("another install is running")

type fileLock struct {
	file *os.File
}

var flockFn = unix.Flock

// acquireFileLock opens or creates path and takes an exclusive lock without
// waiting; a second installer fails fast with ErrInstallRunning.
func acquireFileLock(sys System, path string) (*fileLock, error) {
	if err := sys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf(messages.InstallOpenLockFmt, path, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf(messages.InstallOpenLockFmt, path, err)
	}
	if err := flockFn(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = file.Close()
		if errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EAGAIN) {
			return nil, fmt.Errorf(messages.InstallLockFmt, path, ErrInstallRunning)
		}
		return nil, fmt.Errorf(messages.InstallLockFmt, path, err)
	}
	return &fileLock{file: file}, nil
}

// release unlocks and closes the file lock.
func (l *fileLock) release() error {
	if l == nil || l.file == nil {
		return nil
	}
	if err := flockFn(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		_ = l.file.Close()
		return err
	}
	return l.file.Close()
}
