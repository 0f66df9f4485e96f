// Package root locates the storefront root directory.
package root

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/conn-castle/mage-console/internal/messages"
)

// FindMageRoot walks up from start looking for a directory that contains
// app/etc. found is false when no parent has one.
func FindMageRoot(start string) (string, bool, error) {
	if start == "" {
		return "", false, errors.New(messages.RootStartRequired)
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, err
	}
	for {
		candidate := filepath.Join(dir, "app", "etc")
		info, err := os.Stat(candidate)
		switch {
		case err == nil && info.IsDir():
			return dir, true, nil
		case err == nil:
			return "", false, fmt.Errorf(messages.RootAppEtcNotDirFmt, candidate)
		case !errors.Is(err, os.ErrNotExist):
			return "", false, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// FindInstallRoot returns the storefront root above start, or start itself
// when there is none yet. A fresh checkout without app/etc installs in place.
func FindInstallRoot(start string) (string, error) {
	dir, found, err := FindMageRoot(start)
	if err != nil {
		return "", err
	}
	if found {
		return dir, nil
	}
	return filepath.Abs(start)
}
