package cli

import (
	"errors"
	"fmt"
)

// Exit codes returned by the outlineflow binary.
const (
	ExitOK = 0

	// ExitFailure covers bad input, unreadable files and storage errors.
	ExitFailure = 1

	// ExitNotFound means the command ran but found nothing to act on: no
	// enclosing task, no similar workflow, no such workflow or record.
	ExitNotFound = 2
)

// ExitError represents a command execution failure with a specific exit code.
//
// Commands return it from RunE after printing their own message, so
// [RunWithConfig] can turn it into a process exit code without printing it
// again. Tests assert on the code without the process exiting.
type ExitError struct {
	// Code is the exit code to return to the shell.
	Code int
}

// Error implements the error interface in the os/exec "exit status N" form.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewExitError creates an [ExitError] with the given exit code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// IsExitError checks if an error is an [ExitError] and extracts its exit code.
//
// Returns (code, true) if err is or wraps an *ExitError, (0, false) otherwise.
func IsExitError(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}
