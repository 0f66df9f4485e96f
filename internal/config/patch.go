package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/juju/clock"

	"github.com/conn-castle/mage-console/internal/messages"
)

// InstallDateLayout renders the install date: RFC 1123 with a numeric zone.
const InstallDateLayout = time.RFC1123Z

// KeyGenerator produces an encryption key when none is supplied.
type KeyGenerator interface {
	GenerateKey() (string, error)
}

// Patcher substitutes the sentinel tokens in an emitted config file.
// Substitution is literal text replacement on the raw bytes, so it works for
// every format and never re-serializes the rest of the file.
type Patcher struct {
	sys   System
	path  string
	clock clock.Clock
	keys  KeyGenerator
}

// NewPatcher returns a Patcher for path. keys may be nil when callers always
// supply a key.
func NewPatcher(sys System, path string, clk clock.Clock, keys KeyGenerator) *Patcher {
	if clk == nil {
		clk = clock.WallClock
	}
	return &Patcher{sys: sys, path: path, clock: clk, keys: keys}
}

// ReplaceInstallDate replaces the install date sentinel with at, or with the
// current time when at is zero. It returns the rendered date.
// A missing file is a no-op, as is a file that no longer holds the sentinel.
func (p *Patcher) ReplaceInstallDate(at time.Time) (string, error) {
	if at.IsZero() {
		at = p.clock.Now()
	}
	date := at.Format(InstallDateLayout)
	if err := p.replace(InstallDatePlaceholder, date); err != nil {
		return "", err
	}
	return date, nil
}

// ReplaceEncryptionKey replaces the encryption key sentinel with key, generating
// one when key is empty. It returns the key that was used.
func (p *Patcher) ReplaceEncryptionKey(key string) (string, error) {
	if key == "" {
		if p.keys == nil {
			return "", errors.New(messages.ConfigKeyGeneratorRequired)
		}
		generated, err := p.keys.GenerateKey()
		if err != nil {
			return "", err
		}
		key = generated
	}
	if err := p.replace(EncryptionKeyPlaceholder, key); err != nil {
		return "", err
	}
	return key, nil
}

func (p *Patcher) replace(token string, value string) error {
	data, err := p.sys.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf(messages.ConfigReadFileFmt, p.path, err)
	}
	if !bytes.Contains(data, []byte(token)) {
		return nil
	}
	patched := bytes.ReplaceAll(data, []byte(token), []byte(value))
	if err := p.sys.WriteFileAtomic(p.path, patched, configFileMode); err != nil {
		return fmt.Errorf(messages.ConfigWriteFileFmt, p.path, err)
	}
	return nil
}
