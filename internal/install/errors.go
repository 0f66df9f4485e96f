package install

// Kind classifies a fatal install error.
type Kind string

// Fatal error kinds, in the order the states that raise them run.
const (
	KindAlreadyInstalled Kind = "AlreadyInstalledError"
	KindPrecheck         Kind = "PrecheckError"
	KindValidation       Kind = "ValidationError"
	KindConfigWrite      Kind = "ConfigWriteError"
	KindRuntimeRefresh   Kind = "RuntimeRefreshError"
	KindSchemaProvision  Kind = "SchemaProvisionError"
	KindAdminValidation  Kind = "AdminValidationError"
	KindKeyValidation    Kind = "KeyValidationError"
	KindAdminCreate      Kind = "AdminCreateError"
	KindAdminRoleBind    Kind = "AdminRoleBindError"
)

// Error is one entry of the ErrorAccumulator. Message is the underlying
// error text, unmodified.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorAccumulator collects fatal errors in the order they were raised.
// A non-empty accumulator aborts the install after the current state.
type ErrorAccumulator struct {
	errs []*Error
}

// Add records err under kind.
func (a *ErrorAccumulator) Add(kind Kind, err error) {
	a.errs = append(a.errs, &Error{Kind: kind, Message: err.Error(), Err: err})
}

// Len returns the number of recorded errors.
func (a *ErrorAccumulator) Len() int {
	return len(a.errs)
}

// Errors returns the recorded errors in order.
func (a *ErrorAccumulator) Errors() []*Error {
	return append([]*Error(nil), a.errs...)
}
