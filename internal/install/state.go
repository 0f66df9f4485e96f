package install

// State is a step of the install pipeline.
type State string

// Pipeline states, in order. ABORTED is reachable after any state that is not best-effort.
const (
	StatePrecheck            State = "PRECHECK"
	StatePrepareData         State = "PREPARE_DATA"
	StateEmitConfig          State = "EMIT_CONFIG"
	StateRefreshRuntime      State = "REFRESH_RUNTIME"
	StateProvisionSchema     State = "PROVISION_SCHEMA"
	StateMigrateData         State = "MIGRATE_DATA"
	StateAssureRole          State = "ASSURE_ROLE"
	StateValidateAdmin       State = "VALIDATE_ADMIN"
	StateIssueKey            State = "ISSUE_KEY"
	StateCreateAdmin         State = "CREATE_ADMIN"
	StateBindAdminRole       State = "BIND_ADMIN_ROLE"
	StateStampInstallDate    State = "STAMP_INSTALL_DATE"
	StateFinalizePermissions State = "FINALIZE_PERMISSIONS"
	StateDone                State = "DONE"
	StateAborted             State = "ABORTED"
)
