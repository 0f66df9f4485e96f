package messages

// Doctor messages for install status checks.
const (
	DoctorCheckNameConfig      = "Config"
	DoctorCheckNameInstallDate = "InstallDate"
	DoctorCheckNameKey         = "EncryptionKey"
	DoctorCheckNameVarDirs     = "VarDirs"
	DoctorCheckNameDatabase    = "Database"
	DoctorCheckNameSchema      = "Schema"
	DoctorCheckNameRole        = "AdminRole"
	DoctorCheckNameAdmin       = "Administrator"

	DoctorConfigMissingFmt       = "No runtime config at %s"
	DoctorConfigMissingRecommend = "Run `mage-console install run` to install this instance."
	DoctorConfigLoadFailedFmt    = "Failed to load runtime config: %v"
	DoctorConfigLoadRecommend    = "Fix or remove the config file, then rerun the installer."
	DoctorConfigLoadedFmt        = "Runtime config loaded from %s"

	DoctorInstallDateMissing          = "Install date was never stamped; the last install did not finish."
	DoctorInstallDateMissingRecommend = "Remove the config file and rerun the installer."
	DoctorInstallDateFmt              = "Installed on %s"

	DoctorKeyPlaceholder          = "Encryption key placeholder is still in the config."
	DoctorKeyPlaceholderRecommend = "Rerun the installer, or set global.crypt.key by hand."
	DoctorKeyInvalidFmt           = "Encryption key is not usable: %v"
	DoctorKeyInstalled            = "Encryption key installed"

	DoctorDirMissingFmt       = "Directory missing: %s"
	DoctorDirMissingRecommend = "Create it, or rerun the installer with --widen-permissions."
	DoctorDirNotWritableFmt   = "Directory not writable by everyone: %s (%s)"
	DoctorDirNotWritableHint  = "The web server user may not be able to write here. Use --widen-permissions if that is intended."
	DoctorDirOKFmt            = "Directory present: %s (%s)"

	DoctorDatabaseFailedFmt    = "Cannot connect: %v"
	DoctorDatabaseRecommend    = "Check the connection block of the runtime config."
	DoctorDatabaseConnectedFmt = "Connected (%s)"

	DoctorSchemaFailedFmt      = "Cannot read module versions: %v"
	DoctorSchemaMissingFmt     = "Module %s has no recorded schema version"
	DoctorSchemaNoDataFmt      = "Module %s data migration did not run"
	DoctorSchemaRecommend      = "Rerun the installer against an empty database."
	DoctorSchemaOKFmt          = "%d modules installed"
	DoctorRoleFailedFmt        = "Cannot read admin roles: %v"
	DoctorRoleMissing          = "The Administrators role does not exist."
	DoctorRoleRuleMissing      = "The Administrators role has no allow rule for all resources."
	DoctorRoleRecommend        = "Run `mage-console admin ensure-role`."
	DoctorRoleOKFmt            = "Administrators role %d grants all resources"
	DoctorAdminFailedFmt       = "Cannot read administrators: %v"
	DoctorAdminMissing         = "No administrator is bound to the Administrators role."
	DoctorAdminRecommend       = "Rerun the installer with the admin_* options."
	DoctorAdminOKFmt           = "Administrators: %s"
)
