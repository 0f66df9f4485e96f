package messages

// CLI messages for user-facing commands.
const (
	// RootUse is the CLI command name.
	RootUse   = "mage-console"
	RootShort = "Install and inspect an OpenMage storefront from the command line"

	RootFlagRoot        = "Storefront root directory (defaults to the nearest parent containing app/etc)"
	RootFlagVerbose     = "Log to stderr at debug level instead of var/log/install.log"
	RootFlagWarnings    = "Warning noise mode: default or reduce"
	RootStartRequired   = "start path is required"
	RootAppEtcNotDirFmt = "%s exists but is not a directory"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	InstallUse   = "install"
	InstallShort = "Install a storefront and inspect the result"

	InstallRunUse   = "run"
	InstallRunShort = "Write the runtime config, provision the schema, and create the first administrator"
	InstallRunLong  = `Runs the installer once against the storefront root.

Arguments come from --<option> flags, then from --args-file, then from the
interactive wizard when --interactive is set. Flags always win.

A root that already has a completed app/etc/env.* in any format is left
untouched: nothing is written, not even var/log/install.log.`

	InstallFlagArgsFile         = "Read install arguments from a .env or .toml file"
	InstallFlagInteractive      = "Prompt for missing arguments"
	InstallFlagConfigFormat     = "Runtime config format: php, json, yaml, or toml"
	InstallFlagWidenPermissions = "chmod 0777 var/cache and var/session after installing"
	InstallFlagDryRun           = "Show the runtime config that would be written and exit"
	InstallFlagDiffLines        = "Maximum number of diff lines shown by --dry-run"

	InstallDryRunHeaderFmt    = "Planned runtime config: %s\n"
	InstallDryRunUnchanged    = "No changes."
	InstallSucceededFmt       = "Installed. Runtime config: %s\n"
	InstallEncryptionKeyFmt   = "Encryption key: %s\n"
	InstallKeyHint            = "Store the encryption key somewhere safe; it cannot be recovered."
	InstallAbortedHeader      = "Install aborted:"
	InstallErrorLineFmt       = "  %s: %s\n"
	InstallWarningsHeader     = "Completed with warnings:"
	InstallFailed             = "install failed"
	InstallWizardCancelled    = "Install cancelled; nothing was written."
	InstallWizardTerminalHint = "--interactive requires a terminal; pass the missing options as flags instead."
	InstallMissingRequiredFmt = "missing required options: %s (pass them as flags, in --args-file, or use --interactive)"
	InstallOpenLogFmt         = "failed to open install log: %w"

	InstallStatusUse     = "status"
	InstallStatusShort   = "Check the health of an installed storefront"
	InstallStatusFmt     = "Checking storefront in %s...\n"
	InstallStatusOK      = "All checks passed."
	InstallStatusFailed  = "Some checks failed."
	InstallStatusFailure = "status checks failed"

	InstallOptionsUse          = "options"
	InstallOptionsShort        = "List every install option"
	InstallOptionsFlagTemplate = "Print a .env template for --args-file instead of the table"
	InstallOptionsRequired     = "required"
	InstallOptionsHeaderFmt    = "%-30s %-9s %s\n"

	AdminUse   = "admin"
	AdminShort = "Manage administrators of an installed storefront"

	AdminEnsureRoleUse    = "ensure-role"
	AdminEnsureRoleShort  = "Create the Administrators role and its allow-all rule when missing"
	AdminRoleUnchangedFmt = "Administrators role %d already grants all resources.\n"
	AdminRoleRepairedFmt  = "Administrators role %d ensured (role created: %t, rule created: %t).\n"

	AdminCreateUse       = "create"
	AdminCreateShort     = "Create or update an administrator and bind it to the Administrators role"
	AdminCreatedFmt      = "Administrator %s saved (id %d).\n"
	AdminFlagUsername    = "Administrator username"
	AdminFlagEmail       = "Administrator email"
	AdminFlagPassword    = "Administrator password"
	AdminFlagFirstname   = "Administrator first name"
	AdminFlagLastname    = "Administrator last name"
	AdminNotInstalledFmt = "%s is not an installed storefront: %w"

	DoctorStatusOKLabel        = "[OK]  "
	DoctorStatusWarnLabel      = "[WARN]"
	DoctorStatusFailLabel      = "[FAIL]"
	DoctorResultLineFmt        = "%s %-14s %s\n"
	DoctorRecommendationPrefix = "       > "
	DoctorRecommendationIndent = "         "
)
