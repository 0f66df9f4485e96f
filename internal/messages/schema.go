package messages

// Schema messages for table provisioning and data migrations.
const (
	SchemaUnknownModuleFmt = "unknown module %s"
	SchemaModuleDDLFmt     = "failed to install schema for %s: %w"
	SchemaModuleDataFmt    = "data migration %s failed: %w"
	SchemaRecordVersionFmt = "failed to record version of %s: %w"
	SchemaReadVersionsFmt  = "failed to read module versions: %w"
	SchemaSeedFmt          = "failed to seed %s: %w"
	SchemaSetConfigFmt     = "failed to set config %s: %w"
)
