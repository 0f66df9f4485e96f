package messages

// Validate messages for administrator identities and encryption keys.
const (
	ValidateUsernameRequired    = "username is required"
	ValidateUsernameTooLongFmt  = "username must be at most %d characters"
	ValidateUsernameWhitespace  = "username must not contain whitespace"
	ValidateEmailRequired       = "email is required"
	ValidateEmailInvalidFmt     = "email %q is not a valid address"
	ValidatePasswordRequired    = "password is required"
	ValidatePasswordTooShortFmt = "password must be at least %d characters"
	ValidatePasswordComplexity  = "password must contain both letters and digits"
	ValidateNameTooLongFmt      = "%s must be at most %d characters"

	ValidateKeyRequired    = "encryption key is required"
	ValidateKeyTooLongFmt  = "encryption key must be at most %d characters"
	ValidateKeyPlaceholder = "encryption key must not be the placeholder value"
	ValidateKeyWhitespace  = "encryption key must not contain whitespace"
	ValidateKeyQuotes      = "encryption key must not contain quotes or backslashes"
	ValidateKeyControl     = "encryption key must contain only printable characters"
)
