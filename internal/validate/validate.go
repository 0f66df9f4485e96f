// Package validate checks administrator identities and encryption keys
// before they are written anywhere.
package validate

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/conn-castle/mage-console/internal/messages"
)

const (
	// MinPasswordLength is the shortest accepted administrator password.
	MinPasswordLength = 7
	// MaxUsernameLength matches the admin_user.username column.
	MaxUsernameLength = 40
	// MaxNameLength matches the admin_user firstname and lastname columns.
	MaxNameLength = 32
	// MaxKeyLength is the longest accepted encryption key.
	MaxKeyLength = 56
)

// Identity is the administrator account as supplied by the operator.
type Identity struct {
	Username  string
	Email     string
	Password  string
	Firstname string
	Lastname  string
}

// Validator checks operator supplied values.
type Validator interface {
	Administrator(id Identity) []error
	EncryptionKey(key string) error
}

// Default is the stock Validator.
type Default struct{}

// Administrator implements Validator.
func (Default) Administrator(id Identity) []error {
	return Administrator(id)
}

// EncryptionKey implements Validator.
func (Default) EncryptionKey(key string) error {
	return EncryptionKey(key)
}

// Administrator returns every problem with id, in field order.
func Administrator(id Identity) []error {
	var errs []error
	switch {
	case strings.TrimSpace(id.Username) == "":
		errs = append(errs, errors.New(messages.ValidateUsernameRequired))
	case utf8.RuneCountInString(id.Username) > MaxUsernameLength:
		errs = append(errs, fmt.Errorf(messages.ValidateUsernameTooLongFmt, MaxUsernameLength))
	case strings.ContainsFunc(id.Username, unicode.IsSpace):
		errs = append(errs, errors.New(messages.ValidateUsernameWhitespace))
	}

	if strings.TrimSpace(id.Email) == "" {
		errs = append(errs, errors.New(messages.ValidateEmailRequired))
	} else if addr, err := mail.ParseAddress(id.Email); err != nil || addr.Address != id.Email {
		errs = append(errs, fmt.Errorf(messages.ValidateEmailInvalidFmt, id.Email))
	}

	switch {
	case id.Password == "":
		errs = append(errs, errors.New(messages.ValidatePasswordRequired))
	case utf8.RuneCountInString(id.Password) < MinPasswordLength:
		errs = append(errs, fmt.Errorf(messages.ValidatePasswordTooShortFmt, MinPasswordLength))
	case !strings.ContainsFunc(id.Password, unicode.IsLetter) || !strings.ContainsFunc(id.Password, unicode.IsDigit):
		errs = append(errs, errors.New(messages.ValidatePasswordComplexity))
	}

	if utf8.RuneCountInString(id.Firstname) > MaxNameLength {
		errs = append(errs, fmt.Errorf(messages.ValidateNameTooLongFmt, "firstname", MaxNameLength))
	}
	if utf8.RuneCountInString(id.Lastname) > MaxNameLength {
		errs = append(errs, fmt.Errorf(messages.ValidateNameTooLongFmt, "lastname", MaxNameLength))
	}
	return errs
}

// EncryptionKey checks that key can be substituted verbatim into the quoted
// string every config format emits for it: single quotes in php and toml,
// double quotes in json and yaml.
func EncryptionKey(key string) error {
	switch {
	case key == "":
		return errors.New(messages.ValidateKeyRequired)
	case utf8.RuneCountInString(key) > MaxKeyLength:
		return fmt.Errorf(messages.ValidateKeyTooLongFmt, MaxKeyLength)
	case key == "k-k-k-k-k":
		return errors.New(messages.ValidateKeyPlaceholder)
	case strings.ContainsFunc(key, unicode.IsSpace):
		return errors.New(messages.ValidateKeyWhitespace)
	case strings.ContainsAny(key, `'"\`):
		return errors.New(messages.ValidateKeyQuotes)
	case !utf8.ValidString(key) || strings.ContainsFunc(key, notPrintable):
		return errors.New(messages.ValidateKeyControl)
	}
	return nil
}

func notPrintable(r rune) bool {
	return !unicode.IsPrint(r)
}
