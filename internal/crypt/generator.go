package crypt

import (
	"encoding/hex"
	"io"

	"github.com/zeebo/blake3"
)

const (
	seedLength   = 10
	digestLength = 16
)

// Generator derives encryption keys from a random source.
type Generator struct {
	Random io.Reader
}

// NewGenerator returns a Generator reading from src, or DefaultRandom when src is nil.
func NewGenerator(src io.Reader) Generator {
	if src == nil {
		src = DefaultRandom
	}
	return Generator{Random: src}
}

// GenerateKey returns 32 lowercase hex characters: the 16-byte BLAKE3 digest
// of a 10 character random alphanumeric seed.
func (g Generator) GenerateKey() (string, error) {
	src := g.Random
	if src == nil {
		src = DefaultRandom
	}
	seed, err := RandomString(src, seedLength)
	if err != nil {
		return "", err
	}
	hasher := blake3.New()
	_, _ = hasher.Write([]byte(seed))
	var digest [digestLength]byte
	if _, err := hasher.Digest().Read(digest[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(digest[:]), nil
}
