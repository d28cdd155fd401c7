package cli

import "fmt"

// Exit codes for the threadctl binary.
const (
	ExitCodeSuccess  = 0
	ExitCodeFailure  = 1
	ExitCodeNotFound = 2
)

// ExitError carries an exit code alongside the underlying error so main can
// translate command failures into process exit codes.
type ExitError struct {
	Code int
	Err  error

	// Printed marks errors whose message was already written to the user.
	Printed bool
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Exitf builds an ExitError with a formatted message.
func Exitf(code int, format string, args ...any) error {
	return &ExitError{Code: code, Err: fmt.Errorf(format, args...)}
}
