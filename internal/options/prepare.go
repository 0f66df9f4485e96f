package options

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/conn-castle/mage-console/internal/messages"
)

// Supported connection types and models.
const (
	DBTypeMySQL  = "pdo_mysql"
	DBTypeSQLite = "pdo_sqlite"
	DBModelMySQL = "mysql4"
)

var (
	tablePrefixPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	frontNamePattern   = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

// prepareRequired lists the keys that must be present before anything is written.
// Administrator fields are validated later, once the schema exists.
var prepareRequired = []string{KeyDBHost, KeyDBName, KeyDBUser}

var boolKeys = []string{
	KeyLicenseAccepted,
	KeySkipURLValidation,
	KeyUseRewrites,
	KeyUseSecure,
	KeyUseSecureAdmin,
	KeyEnableCharts,
}

// Prepare validates the arguments needed before the first side effect and returns
// a copy with catalog defaults filled in and the url alias resolved.
// All problems are returned, in a stable order; a nil slice means the data is usable.
func Prepare(args Arguments) (Arguments, []error) {
	prepared := args.Clone()
	if prepared.Get(KeyUnsecureBaseURL) == "" && prepared.Get(KeyURL) != "" {
		prepared.Set(KeyUnsecureBaseURL, prepared.Get(KeyURL))
	}
	delete(prepared, KeyURL)
	for _, opt := range catalog {
		if opt.Default != "" && prepared.Get(opt.Key) == "" {
			prepared.Set(opt.Key, opt.Default)
		}
	}

	var errs []error
	for _, key := range prepareRequired {
		if prepared.Get(key) == "" {
			errs = append(errs, fmt.Errorf(messages.OptionsRequiredFmt, key))
		}
	}
	for _, key := range boolKeys {
		if _, err := prepared.Bool(key); err != nil {
			errs = append(errs, fmt.Errorf(messages.OptionsInvalidValueFmt, key, err))
		}
	}
	if value := prepared.Get(KeyDBType); value != "" && value != DBTypeMySQL && value != DBTypeSQLite {
		errs = append(errs, fmt.Errorf(messages.OptionsUnsupportedDBTypeFmt, value))
	}
	if value := prepared.Get(KeyDBModel); value != "" && value != DBModelMySQL {
		errs = append(errs, fmt.Errorf(messages.OptionsUnsupportedDBModelFmt, value))
	}
	if value := prepared.Get(KeySessionSave); value != "" && value != "files" && value != "db" {
		errs = append(errs, fmt.Errorf(messages.OptionsInvalidSessionSaveFmt, value))
	}
	if value := prepared.Get(KeyDBPrefix); value != "" && !tablePrefixPattern.MatchString(value) {
		errs = append(errs, fmt.Errorf(messages.OptionsInvalidTablePrefixFmt, value))
	}
	if value := prepared.Get(KeyAdminFrontname); value != "" && !frontNamePattern.MatchString(value) {
		errs = append(errs, fmt.Errorf(messages.OptionsInvalidFrontNameFmt, value))
	}
	for _, key := range []string{KeyUnsecureBaseURL, KeySecureBaseURL} {
		value := prepared.Get(key)
		if value == "" {
			continue
		}
		if err := checkBaseURL(NormalizeBaseURL(value, key == KeySecureBaseURL)); err != nil {
			errs = append(errs, fmt.Errorf(messages.OptionsInvalidValueFmt, key, err))
		}
	}
	return prepared, errs
}

// NormalizeBaseURL appends a trailing slash and prefixes a scheme when value has none.
// secure selects https:// over http:// for the prefix.
func NormalizeBaseURL(value string, secure bool) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if !strings.HasSuffix(value, "/") {
		value += "/"
	}
	if !strings.HasPrefix(value, "http") {
		if secure {
			value = "https://" + value
		} else {
			value = "http://" + value
		}
	}
	return value
}

func checkBaseURL(value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf(messages.OptionsURLSchemeFmt, value)
	}
	if parsed.Host == "" {
		return fmt.Errorf(messages.OptionsURLHostFmt, value)
	}
	return nil
}
