package messages

// Warnings messages for degraded install outcomes.
const (
	WarningsMigrationFailedFmt      = "data migration %s failed: %v"
	WarningsMigrationFailedFix      = "inspect var/log/install.log, fix the data, and run the remaining migrations from the storefront setup"
	WarningsMigrationSkippedFmt     = "skipped modules: %s"
	WarningsRoleAssuranceFailedFmt  = "could not verify the Administrators role: %v"
	WarningsRoleAssuranceFailedFix  = "check the admin_role and admin_rule tables; the administrator binding depends on them"
	WarningsPermissionsFailedFmt    = "could not widen permissions of %s: %v"
	WarningsPermissionsFailedFixFmt = "run chmod 0777 %s as the directory owner"
	WarningsNoiseModeInvalidFmt     = "warning noise mode %q is invalid (allowed: %s, %s)"
)
