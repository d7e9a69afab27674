package generate

import (
	"errors"
	"fmt"
)

// ExitError carries a process exit code through the normal error return
// path, so deferred cleanup runs before the process terminates.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps an error to a process exit code: nil is 0, an ExitError
// keeps its code, anything else is 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
