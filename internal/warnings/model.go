// Package warnings models the degraded outcomes of an install: problems that
// were logged and survived rather than aborting the run.
package warnings

import (
	"fmt"
	"strings"

	"github.com/conn-castle/mage-console/internal/messages"
)

// Warning codes.
const (
	CodeMigrationFailed       = "MIGRATION_FAILED"
	CodeRoleAssuranceFailed   = "ROLE_ASSURANCE_FAILED"
	CodePermissionsNotWidened = "PERMISSIONS_NOT_WIDENED"
)

// Source labels where a warning originates.
const (
	SourceInternal   = "internal"
	SourceDatabase   = "database"
	SourceFilesystem = "filesystem"
)

// Severity labels whether a warning should be considered critical.
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Warning represents a warning message.
type Warning struct {
	Code     string
	Subject  string
	Message  string
	Fix      string
	Details  []string
	Source   string
	Severity string
	// Err is the underlying failure, when there is one.
	Err error
	// NoiseSuppressible marks warnings hidden by --warnings reduce.
	NoiseSuppressible bool
}

func (w Warning) String() string {
	s := "WARNING " + w.Code + ": " + w.Message + "\n"
	s += fmt.Sprintf("  source: %s\n", w.sourceOrDefault())
	s += fmt.Sprintf("  severity: %s\n", w.severityOrDefault())
	s += "  subject: " + w.Subject + "\n"
	s += "  fix: " + w.Fix
	for _, d := range w.Details {
		s += "\n  details: " + d
	}
	return s
}

// Unwrap returns the underlying failure.
func (w Warning) Unwrap() error {
	return w.Err
}

func (w Warning) sourceOrDefault() string {
	if w.Source == "" {
		return SourceInternal
	}
	return w.Source
}

func (w Warning) severityOrDefault() string {
	if w.Severity == "" {
		return SeverityWarning
	}
	return w.Severity
}

// Migration reports a failed data migration and the modules skipped after it.
func Migration(module string, err error, skipped []string) Warning {
	w := Warning{
		Code:     CodeMigrationFailed,
		Subject:  module,
		Message:  fmt.Sprintf(messages.WarningsMigrationFailedFmt, module, err),
		Fix:      messages.WarningsMigrationFailedFix,
		Source:   SourceDatabase,
		Severity: SeverityCritical,
		Err:      err,
	}
	if len(skipped) > 0 {
		w.Details = []string{fmt.Sprintf(messages.WarningsMigrationSkippedFmt, strings.Join(skipped, ", "))}
	}
	return w
}

// RoleAssurance reports that the Administrators role could not be verified.
func RoleAssurance(err error) Warning {
	return Warning{
		Code:     CodeRoleAssuranceFailed,
		Subject:  "admin_role",
		Message:  fmt.Sprintf(messages.WarningsRoleAssuranceFailedFmt, err),
		Fix:      messages.WarningsRoleAssuranceFailedFix,
		Source:   SourceDatabase,
		Severity: SeverityWarning,
		Err:      err,
	}
}

// Permissions reports a directory whose mode could not be widened.
func Permissions(path string, err error) Warning {
	return Warning{
		Code:              CodePermissionsNotWidened,
		Subject:           path,
		Message:           fmt.Sprintf(messages.WarningsPermissionsFailedFmt, path, err),
		Fix:               fmt.Sprintf(messages.WarningsPermissionsFailedFixFmt, path),
		Source:            SourceFilesystem,
		Severity:          SeverityWarning,
		Err:               err,
		NoiseSuppressible: true,
	}
}
