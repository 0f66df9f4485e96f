package options

// Argument keys understood by the installer.
const (
	KeyLicenseAccepted   = "license_agreement_accepted"
	KeyLocale            = "locale"
	KeyTimezone          = "timezone"
	KeyDefaultCurrency   = "default_currency"
	KeyDBModel           = "db_model"
	KeyDBType            = "db_type"
	KeyDBHost            = "db_host"
	KeyDBName            = "db_name"
	KeyDBUser            = "db_user"
	KeyDBPass            = "db_pass"
	KeyDBPrefix          = "db_prefix"
	KeyURL               = "url"
	KeyUnsecureBaseURL   = "unsecure_base_url"
	KeySkipURLValidation = "skip_url_validation"
	KeyUseRewrites       = "use_rewrites"
	KeyUseSecure         = "use_secure"
	KeySecureBaseURL     = "secure_base_url"
	KeyUseSecureAdmin    = "use_secure_admin"
	KeyAdminLastname     = "admin_lastname"
	KeyAdminFirstname    = "admin_firstname"
	KeyAdminEmail        = "admin_email"
	KeyAdminUsername     = "admin_username"
	KeyAdminPassword     = "admin_password"
	KeyEncryptionKey     = "encryption_key"
	KeySessionSave       = "session_save"
	KeyAdminFrontname    = "admin_frontname"
	KeyEnableCharts      = "enable_charts"
)

// Kind describes how an option value is interpreted.
type Kind int

const (
	// KindString is free-form text.
	KindString Kind = iota
	// KindBool is a yes/no value.
	KindBool
	// KindSecret is text that must not be echoed back.
	KindSecret
)

// Option describes one install argument exposed on the command line.
type Option struct {
	Key         string
	Kind        Kind
	Required    bool
	Default     string
	Description string
}

// catalog is ordered the way options are listed to the operator.
var catalog = []Option{
	{Key: KeyLicenseAccepted, Kind: KindBool, Default: "yes", Description: "Accept license agreement (yes/no)"},
	{Key: KeyLocale, Default: "en_US", Description: "Locale (e.g., en_US)"},
	{Key: KeyTimezone, Default: "America/Los_Angeles", Description: "Time zone (e.g., America/Los_Angeles)"},
	{Key: KeyDefaultCurrency, Default: "USD", Description: "Default currency (e.g., USD)"},
	{Key: KeyDBModel, Description: "Database model (mysql4 by default)"},
	{Key: KeyDBType, Description: "Database connection type (pdo_mysql by default, pdo_sqlite for local instances)"},
	{Key: KeyDBHost, Required: true, Description: "Database host"},
	{Key: KeyDBName, Required: true, Description: "Database name"},
	{Key: KeyDBUser, Required: true, Description: "Database username"},
	{Key: KeyDBPass, Kind: KindSecret, Description: "Database password"},
	{Key: KeyDBPrefix, Description: "Database table prefix"},
	{Key: KeyURL, Description: "Store URL (alias of unsecure_base_url)"},
	{Key: KeyUnsecureBaseURL, Description: "Unsecure base URL"},
	{Key: KeySkipURLValidation, Kind: KindBool, Description: "Skip URL validation (yes/no)"},
	{Key: KeyUseRewrites, Kind: KindBool, Description: "Use web server rewrites (yes/no)"},
	{Key: KeyUseSecure, Kind: KindBool, Description: "Use secure URLs in the storefront (yes/no)"},
	{Key: KeySecureBaseURL, Description: "Secure base URL"},
	{Key: KeyUseSecureAdmin, Kind: KindBool, Description: "Use secure URLs in the admin (yes/no)"},
	{Key: KeyAdminLastname, Description: "Admin last name"},
	{Key: KeyAdminFirstname, Description: "Admin first name"},
	{Key: KeyAdminEmail, Required: true, Description: "Admin email"},
	{Key: KeyAdminUsername, Required: true, Description: "Admin username"},
	{Key: KeyAdminPassword, Kind: KindSecret, Required: true, Description: "Admin password"},
	{Key: KeyEncryptionKey, Kind: KindSecret, Description: "Encryption key (generated when not provided)"},
	{Key: KeySessionSave, Description: "Session save method (files/db)"},
	{Key: KeyAdminFrontname, Description: "Admin front name (admin by default)"},
	{Key: KeyEnableCharts, Kind: KindBool, Description: "Enable dashboard charts (yes/no)"},
}

// Catalog returns a copy of every supported option in display order.
func Catalog() []Option {
	out := make([]Option, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the option for key.
func Lookup(key string) (Option, bool) {
	key = NormalizeKey(key)
	for _, opt := range catalog {
		if opt.Key == key {
			return opt, true
		}
	}
	return Option{}, false
}

// Missing returns the required options that have no value in args, in catalog order.
func Missing(args Arguments) []Option {
	var out []Option
	for _, opt := range catalog {
		if opt.Required && args.Get(opt.Key) == "" {
			out = append(out, opt)
		}
	}
	return out
}
