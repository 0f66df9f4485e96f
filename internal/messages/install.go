package messages

// Install messages for the installation pipeline.
const (
	InstallRootRequired        = "install root is required"
	InstallSystemRequired      = "install system is required"
	InstallAlreadyInstalledFmt = "application is already installed (%s carries an install date)"
	InstallOpenLockFmt         = "failed to open install lock %s: %w"
	InstallLockFmt             = "failed to lock %s: %w"
	InstallClearCacheFmt       = "failed to clear cache directory %s: %w"
	InstallPreviewInvalidFmt   = "cannot preview config: %w"
	InstallDiffTruncatedFmt    = "... (truncated to %d lines; rerun with %s <n> to see more)"
)
