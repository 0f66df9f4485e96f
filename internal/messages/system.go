package messages

// Argument file syntax errors.
const (
	EnvfileLineErrorFmt            = "line %d: %s"
	EnvfileExpectedKeyValue        = "expected KEY=VALUE"
	EnvfileInvalidKeyFmt           = "invalid key %q"
	EnvfileUnterminatedQuotedValue = "unterminated quoted value"
	EnvfileInvalidQuotedSuffix     = "unexpected text after closing quote"
)
