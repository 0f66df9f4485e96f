package messages

// Config messages for the runtime configuration file.
const (
	// ConfigUnsupportedFormatFmt formats an unknown config format.
	ConfigUnsupportedFormatFmt = "unsupported config format %q (supported: php, json, yaml, toml)"
	ConfigEncodeFmt            = "failed to encode %s config: %w"
	ConfigDecodeFmt            = "failed to decode %s config: %w"
	ConfigCreateDirFmt         = "failed to create config directory %s: %w"
	ConfigWriteFileFmt         = "failed to write config file %s: %w"
	ConfigReadFileFmt          = "failed to read config file %s: %w"
	ConfigMissingFileFmt       = "missing config file %s: %w"
	ConfigInvalidFileFmt       = "invalid config file %s: %w"
	ConfigKeyGeneratorRequired = "encryption key is empty and no key generator is configured"

	ConfigPHPOpenTagMissing     = "missing <?php open tag"
	ConfigPHPExpectedReturn     = "expected return statement"
	ConfigPHPSyntaxFmt          = "line %d: %s"
	ConfigPHPExpectedFmt        = "expected %q"
	ConfigPHPUnexpectedFmt      = "unexpected %q"
	ConfigPHPUnexpectedEOF      = "unexpected end of file"
	ConfigPHPUnterminatedString = "unterminated string"
	ConfigPHPBadNumberFmt       = "invalid number %q"
)
