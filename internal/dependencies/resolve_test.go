package dependencies_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/forksync/internal/dependencies"
	"github.com/temirov/forksync/internal/execshell"
	"github.com/temirov/forksync/internal/gitrepo"
)

type stubCommandExecutor struct{}

func (stubCommandExecutor) ExecuteGit(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return execshell.ExecutionResult{}, nil
}

func (stubCommandExecutor) ExecutePackageManager(context.Context, string, execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return execshell.ExecutionResult{}, nil
}

func TestResolveCommandExecutorPrefersExisting(testInstance *testing.T) {
	existing := stubCommandExecutor{}
	resolved, resolveError := dependencies.ResolveCommandExecutor(existing, zap.NewNop(), &bytes.Buffer{}, false)
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, existing, resolved)
}

func TestResolveCommandExecutorBuildsShellExecutor(testInstance *testing.T) {
	resolved, resolveError := dependencies.ResolveCommandExecutor(nil, zap.NewNop(), &bytes.Buffer{}, true)
	require.NoError(testInstance, resolveError)
	require.IsType(testInstance, &execshell.ShellExecutor{}, resolved)
}

func TestResolveRepositoryInspector(testInstance *testing.T) {
	testCases := []struct {
		name          string
		kind          string
		expectedType  any
		expectedError bool
	}{
		{name: "default_is_cli", kind: "", expectedType: &gitrepo.CLIInspector{}},
		{name: "cli", kind: "cli", expectedType: &gitrepo.CLIInspector{}},
		{name: "library_case_insensitive", kind: " Library ", expectedType: &gitrepo.LibraryInspector{}},
		{name: "unknown", kind: "libgit2", expectedError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			inspector, resolveError := dependencies.ResolveRepositoryInspector(nil, testCase.kind, stubCommandExecutor{})
			if testCase.expectedError {
				require.Error(testInstance, resolveError)
				return
			}
			require.NoError(testInstance, resolveError)
			require.IsType(testInstance, testCase.expectedType, inspector)
		})
	}
}
