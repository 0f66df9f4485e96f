package messages

// Wizard prompt titles and errors.
const (
	WizardRequiresTerminal          = "the install wizard requires an interactive terminal"
	WizardValueRequiredFmt          = "%s is required"
	WizardUnknownOptionFmt          = "unknown install option %q"
	WizardDBTypeTitle               = "Database connection type"
	WizardOptionalTitle             = "Customize optional settings"
	WizardReviewTitle               = "Review install settings"
	WizardConfirmInstallPrompt      = "Run the installer with these settings?"
	WizardFirstStepEscapeExitPrompt = "Exit the install wizard?"
	WizardSummaryLineFmt            = "%-28s %s"
	WizardSecretMask                = "********"
	WizardNotSet                    = "(not set)"
	WizardGeneratedKey              = "(generated)"
)
