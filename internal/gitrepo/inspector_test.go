package gitrepo_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/forksync/internal/execshell"
	"github.com/temirov/forksync/internal/gitrepo"
)

const (
	inspectorRepositoryPathConstant = "/workspace/fork"
	rebaseStatusOutputConstant      = "interactive rebase in progress; onto 1a2b3c4\nLast command done (1 command done):\n"
	cleanStatusOutputConstant       = "On branch main\nnothing to commit, working tree clean\n"
)

type recordingGitExecutor struct {
	outputs          map[string]execshell.ExecutionResult
	failures         map[string]error
	recordedCommands []execshell.CommandDetails
}

func (executor *recordingGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)
	key := strings.Join(details.Arguments, " ")
	if failure, found := executor.failures[key]; found {
		return execshell.ExecutionResult{}, failure
	}
	return executor.outputs[key], nil
}

func TestNewCLIInspectorRequiresExecutor(testInstance *testing.T) {
	inspector, creationError := gitrepo.NewCLIInspector(nil)
	require.ErrorIs(testInstance, creationError, gitrepo.ErrGitExecutorNotConfigured)
	require.Nil(testInstance, inspector)
}

func TestCLIInspectorRebaseInProgress(testInstance *testing.T) {
	testCases := []struct {
		name           string
		statusOutput   string
		expectedResult bool
	}{
		{name: "rebase_marker_present", statusOutput: rebaseStatusOutputConstant, expectedResult: true},
		{name: "clean_tree", statusOutput: cleanStatusOutputConstant, expectedResult: false},
		{name: "empty_output", statusOutput: "", expectedResult: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &recordingGitExecutor{outputs: map[string]execshell.ExecutionResult{
				"status": {StandardOutput: testCase.statusOutput},
			}}
			inspector, creationError := gitrepo.NewCLIInspector(executor)
			require.NoError(testInstance, creationError)

			inProgress, inspectionError := inspector.RebaseInProgress(context.Background(), inspectorRepositoryPathConstant)
			require.NoError(testInstance, inspectionError)
			require.Equal(testInstance, testCase.expectedResult, inProgress)
			require.Len(testInstance, executor.recordedCommands, 1)
			require.Equal(testInstance, inspectorRepositoryPathConstant, executor.recordedCommands[0].WorkingDirectory)
		})
	}
}

func TestCLIInspectorUsesOutputOfFailedCommand(testInstance *testing.T) {
	failure := execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: []string{"status"}}},
		Result:  execshell.ExecutionResult{StandardOutput: rebaseStatusOutputConstant, ExitCode: 1},
	}
	executor := &recordingGitExecutor{failures: map[string]error{"status": failure}}
	inspector, creationError := gitrepo.NewCLIInspector(executor)
	require.NoError(testInstance, creationError)

	inProgress, inspectionError := inspector.RebaseInProgress(context.Background(), inspectorRepositoryPathConstant)
	require.Error(testInstance, inspectionError)
	require.True(testInstance, inProgress)
}

func TestCLIInspectorListRemotes(testInstance *testing.T) {
	executor := &recordingGitExecutor{outputs: map[string]execshell.ExecutionResult{
		"remote": {StandardOutput: "origin\n  upstream-mirror \n\n"},
	}}
	inspector, creationError := gitrepo.NewCLIInspector(executor)
	require.NoError(testInstance, creationError)

	remotes, listError := inspector.ListRemotes(context.Background(), inspectorRepositoryPathConstant)
	require.NoError(testInstance, listError)
	require.Equal(testInstance, []string{"origin", "upstream-mirror"}, remotes)
	require.False(testInstance, gitrepo.ContainsRemote(remotes, "upstream"))
	require.True(testInstance, gitrepo.ContainsRemote(remotes, "origin"))
}

func TestCLIInspectorPorcelainStatus(testInstance *testing.T) {
	executor := &recordingGitExecutor{outputs: map[string]execshell.ExecutionResult{
		"status --porcelain": {StandardOutput: "UU package-lock.json\nM  src/index.ts\n"},
	}}
	inspector, creationError := gitrepo.NewCLIInspector(executor)
	require.NoError(testInstance, creationError)

	status, statusError := inspector.PorcelainStatus(context.Background(), inspectorRepositoryPathConstant)
	require.NoError(testInstance, statusError)
	require.True(testInstance, status.HasConflictMarker("package-lock.json"))
	require.Equal(testInstance, []string{"package-lock.json"}, status.UnmergedPaths())
}

func TestCLIInspectorRejectsEmptyRepositoryPath(testInstance *testing.T) {
	executor := &recordingGitExecutor{}
	inspector, creationError := gitrepo.NewCLIInspector(executor)
	require.NoError(testInstance, creationError)

	_, inspectionError := inspector.ListRemotes(context.Background(), "  ")
	require.True(testInstance, errors.Is(inspectionError, gitrepo.ErrRepositoryPathRequired))
	require.Empty(testInstance, executor.recordedCommands)
}
