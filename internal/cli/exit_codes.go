package cli

import (
	"errors"
	"fmt"

	clierrors "github.com/ariel-frischer/changelog-gen/internal/errors"
)

// Exit codes for the changelog-gen CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitValidationFailed indicates the changelog does not parse or a
	// release conflicts with its content
	ExitValidationFailed = 1

	// ExitRuntimeError indicates an unexpected failure (I/O, network)
	ExitRuntimeError = 2

	// ExitInvalidArguments indicates invalid command arguments or configuration
	ExitInvalidArguments = 3

	// ExitMissingDependencies indicates a missing changelog file or git repository
	ExitMissingDependencies = 4
)

// ExitError carries an exit code for errors that were already reported.
type ExitError struct {
	Code int
}

// NewExitError creates an ExitError with the given code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch clierrors.FromError(err).Category {
	case clierrors.Validation:
		return ExitValidationFailed
	case clierrors.Argument, clierrors.Configuration:
		return ExitInvalidArguments
	case clierrors.Prerequisite:
		return ExitMissingDependencies
	default:
		return ExitRuntimeError
	}
}
