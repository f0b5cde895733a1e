package cli

import "fmt"

const (
	ExitOK         = 0
	ExitConnection = 1
	ExitAnalysis   = 2
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func connectionFailure(format string, args ...interface{}) *ExitError {
	return &ExitError{Code: ExitConnection, Err: fmt.Errorf(format, args...)}
}

func analysisFailure(err error) *ExitError {
	return &ExitError{Code: ExitAnalysis, Err: err}
}
