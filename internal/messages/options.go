package messages

// Options messages for install argument parsing and validation.
const (
	// OptionsRequiredFmt formats a missing required argument.
	OptionsRequiredFmt           = "%s is required"
	OptionsInvalidValueFmt       = "invalid %s: %w"
	OptionsInvalidBoolFmt        = "%q is not a yes/no value"
	OptionsUnsupportedDBTypeFmt  = "unsupported db_type %q (supported: pdo_mysql, pdo_sqlite)"
	OptionsUnsupportedDBModelFmt = "unsupported db_model %q (supported: mysql4)"
	OptionsInvalidSessionSaveFmt = "invalid session_save %q (allowed: files, db)"
	OptionsInvalidTablePrefixFmt = "invalid db_prefix %q: must start with a letter and contain only lowercase letters, digits, and underscores"
	OptionsInvalidFrontNameFmt   = "invalid admin_frontname %q: only letters, digits, and underscores are allowed"
	OptionsURLSchemeFmt          = "url %s must use http or https"
	OptionsURLHostFmt            = "url %s has no host"

	OptionsReadArgsFileFmt      = "failed to read arguments file %s: %w"
	OptionsInvalidArgsFileFmt   = "invalid arguments file %s: %w"
	OptionsArgsFileNestedFmt    = "invalid arguments file %s: %s must be a string, number, or boolean"
	OptionsArgsFileDuplicateFmt = "invalid arguments file %s: line %d sets %s again (first set on line %d)"

	OptionsTemplateRequiredSuffix = " (required)"
)
