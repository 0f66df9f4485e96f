// Package crypt picks, generates, and installs the storefront encryption key.
package crypt

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/conn-castle/mage-console/internal/messages"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultRandom is the process-wide cryptographic random source.
var DefaultRandom io.Reader = rand.Reader

// RandomString returns n characters drawn uniformly from [a-zA-Z0-9] using src.
func RandomString(src io.Reader, n int) (string, error) {
	// Largest multiple of len(alphanumeric) that fits in a byte; bytes above
	// it are rejected so every character is equally likely.
	limit := byte(256 - 256%len(alphanumeric))
	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := io.ReadFull(src, buf); err != nil {
			return "", fmt.Errorf(messages.CryptRandomReadFmt, err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, alphanumeric[int(b)%len(alphanumeric)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
