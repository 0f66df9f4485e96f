package messages

// Crypt messages for encryption key generation.
const (
	CryptRandomReadFmt = "failed to read random bytes: %w"
	CryptInvalidKeyFmt = "%w: %w"
)
