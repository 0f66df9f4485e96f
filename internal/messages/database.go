package messages

// Database messages for connection handling and schema provisioning.
const (
	DatabaseUnsupportedTypeFmt = "unsupported connection type %q"
	DatabaseConnectFmt         = "failed to connect to %s: %w"
	DatabaseSQLitePathRequired = "pdo_sqlite connections need a database file in dbname"
	DatabaseInitStatementFmt   = "failed to run init statement %q: %w"
	DatabaseBeginFmt           = "failed to begin transaction: %w"
	DatabaseRollbackFmt        = "failed to roll back transaction: %w"
	DatabaseCommitFmt          = "failed to commit transaction: %w"
)
