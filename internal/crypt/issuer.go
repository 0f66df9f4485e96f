package crypt

import (
	"errors"
	"fmt"

	"github.com/conn-castle/mage-console/internal/messages"
)

// ErrInvalidKey is wrapped by Issue when the key fails validation.
var ErrInvalidKey = errors.New("invalid encryption key")

// InstallError reports a key that was chosen but could not be written.
// Its text is the installer's error, unchanged.
type InstallError struct {
	Err error
}

func (e *InstallError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the installer's error.
func (e *InstallError) Unwrap() error {
	return e.Err
}

// KeyGenerator produces a fresh encryption key.
type KeyGenerator interface {
	GenerateKey() (string, error)
}

// KeyValidator rejects keys that cannot be installed.
type KeyValidator interface {
	EncryptionKey(key string) error
}

// KeyInstaller writes the key into the runtime config.
type KeyInstaller interface {
	ReplaceEncryptionKey(key string) (string, error)
}

// Issuer selects, validates, and installs the encryption key.
type Issuer struct {
	Generator KeyGenerator
	Validator KeyValidator
	Installer KeyInstaller
}

// choose returns supplied when non-empty, otherwise a generated key.
// The result is validated but not installed.
func (i Issuer) choose(supplied string) (string, error) {
	key := supplied
	if key == "" {
		generated, err := i.Generator.GenerateKey()
		if err != nil {
			return "", err
		}
		key = generated
	}
	if err := i.Validator.EncryptionKey(key); err != nil {
		return "", fmt.Errorf(messages.CryptInvalidKeyFmt, ErrInvalidKey, err)
	}
	return key, nil
}

// Issue chooses a key and installs it, returning the key in effect.
// Generator and validation failures are returned as is; a failed write is
// returned as an *InstallError.
func (i Issuer) Issue(supplied string) (string, error) {
	key, err := i.choose(supplied)
	if err != nil {
		return "", err
	}
	installed, err := i.Installer.ReplaceEncryptionKey(key)
	if err != nil {
		return "", &InstallError{Err: err}
	}
	return installed, nil
}
