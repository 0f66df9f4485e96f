// Package options models the flat operator-supplied install arguments.
package options

import (
	"fmt"
	"sort"
	"strings"

	"github.com/conn-castle/mage-console/internal/messages"
)

// Arguments is the flat key/value set supplied by the operator. Keys use the
// snake_case option names (db_host, admin_email, ...). Boolean values are kept
// as their textual form and read through Bool.
type Arguments map[string]string

// NormalizeKey converts a flag-style name (--db-host) to its argument key (db_host).
func NormalizeKey(name string) string {
	key := strings.TrimSpace(name)
	key = strings.TrimLeft(key, "-")
	key = strings.ToLower(key)
	return strings.ReplaceAll(key, "-", "_")
}

// FlagName converts an argument key (db_host) to its CLI flag name (db-host).
func FlagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// New builds Arguments from raw pairs, normalizing keys and trimming values.
func New(raw map[string]string) Arguments {
	args := make(Arguments, len(raw))
	for key, value := range raw {
		args.Set(key, value)
	}
	return args
}

// Set stores value under the normalized key.
func (a Arguments) Set(key string, value string) {
	a[NormalizeKey(key)] = strings.TrimSpace(value)
}

// Get returns the value for key, or "" when unset.
func (a Arguments) Get(key string) string {
	return a[NormalizeKey(key)]
}

// Has reports whether key was supplied, even with an empty value.
func (a Arguments) Has(key string) bool {
	_, ok := a[NormalizeKey(key)]
	return ok
}

// Bool reads key as a boolean. Missing keys are false.
func (a Arguments) Bool(key string) (bool, error) {
	value, ok := a[NormalizeKey(key)]
	if !ok {
		return false, nil
	}
	return ParseBool(value)
}

// Clone returns a shallow copy of the arguments.
func (a Arguments) Clone() Arguments {
	out := make(Arguments, len(a))
	for key, value := range a {
		out[key] = value
	}
	return out
}

// Merge returns a copy of a with every key of lower filled in where a has no value.
// Explicit values in a always win.
func (a Arguments) Merge(lower Arguments) Arguments {
	out := a.Clone()
	for key, value := range lower {
		if _, ok := out[key]; !ok {
			out[key] = value
		}
	}
	return out
}

// Keys returns the argument keys in sorted order.
func (a Arguments) Keys() []string {
	keys := make([]string, 0, len(a))
	for key := range a {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ParseBool accepts the yes/no spellings the storefront installer always took.
func ParseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "y", "yes", "true", "on":
		return true, nil
	case "", "0", "n", "no", "false", "off":
		return false, nil
	default:
		return false, fmt.Errorf(messages.OptionsInvalidBoolFmt, value)
	}
}
