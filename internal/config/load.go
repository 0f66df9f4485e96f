package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/conn-castle/mage-console/internal/messages"
)

// ErrConfigMissing is wrapped by Load when the config file does not exist.
var ErrConfigMissing = errors.New("runtime config file not found")

// Load reads and decodes the runtime config at path, inferring the format
// from its extension.
func Load(sys System, path string) (*RuntimeConfig, error) {
	data, err := sys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf(messages.ConfigMissingFileFmt, path, ErrConfigMissing)
		}
		return nil, fmt.Errorf(messages.ConfigReadFileFmt, path, err)
	}
	cfg, err := Decode(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidFileFmt, path, err)
	}
	return cfg, nil
}

// Probe answers whether the application is already installed.
type Probe struct {
	sys   System
	paths []string
}

// NewProbe returns a Probe reading the config files at paths.
func NewProbe(sys System, paths ...string) Probe {
	return Probe{sys: sys, paths: paths}
}

// NewRootProbe returns a Probe covering the runtime config of every format
// under root, so an instance installed in one format is seen from any other.
func NewRootProbe(sys System, root string) Probe {
	paths := make([]string, 0, len(Formats()))
	for _, format := range Formats() {
		paths = append(paths, ResolvePaths(sys, root, format).ConfigPath)
	}
	return NewProbe(sys, paths...)
}

// InstalledPath returns the first probed file that exists and carries a real
// install date, or "" when none does. A file that cannot be decoded counts as
// installed unless it still holds the date sentinel, so an unreadable config
// is never overwritten.
func (p Probe) InstalledPath() (string, error) {
	for _, path := range p.paths {
		data, err := p.sys.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf(messages.ConfigReadFileFmt, path, err)
		}
		cfg, err := Decode(data, FormatForPath(path))
		if err != nil {
			if !bytes.Contains(data, []byte(InstallDatePlaceholder)) {
				return path, nil
			}
			continue
		}
		if cfg.Installed() {
			return path, nil
		}
	}
	return "", nil
}

var installDateLayouts = []string{
	InstallDateLayout,
	time.RFC1123,
	time.RFC3339,
	time.DateTime,
}

func installDateValid(date string) bool {
	if date == "" || date == InstallDatePlaceholder {
		return false
	}
	for _, layout := range installDateLayouts {
		if _, err := time.Parse(layout, date); err == nil {
			return true
		}
	}
	return false
}
