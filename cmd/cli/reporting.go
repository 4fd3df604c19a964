package cli

import (
	"errors"

	"github.com/temirov/forksync/internal/build"
	"github.com/temirov/forksync/internal/upstream"
)

// ReportedOnConsole reports whether the command that produced the error already printed its
// failure message to the operator, so the entry point only needs to set the exit status.
func ReportedOnConsole(executionError error) bool {
	if executionError == nil {
		return false
	}
	var stepFailedError build.StepFailedError
	if errors.As(executionError, &stepFailedError) {
		return true
	}
	var conflictError upstream.ConflictError
	return errors.As(executionError, &conflictError)
}
