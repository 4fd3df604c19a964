package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/forksync/internal/build"
	"github.com/temirov/forksync/internal/upstream"
)

func TestReportedOnConsole(testInstance *testing.T) {
	testCases := []struct {
		name           string
		executionError error
		expected       bool
	}{
		{name: "no_error", executionError: nil, expected: false},
		{name: "step_failure", executionError: build.StepFailedError{}, expected: true},
		{name: "wrapped_step_failure", executionError: fmt.Errorf("sync: %w", build.StepFailedError{}), expected: true},
		{name: "rebase_conflict", executionError: upstream.ConflictError{Target: "upstream/main"}, expected: true},
		{name: "configuration_failure", executionError: errors.New("unable to load configuration: invalid configuration"), expected: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, ReportedOnConsole(testCase.executionError))
		})
	}
}
