package gitrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/lo"

	"github.com/temirov/forksync/internal/execshell"
)

const (
	gitStatusSubcommandConstant           = "status"
	gitStatusPorcelainFlagConstant        = "--porcelain"
	gitRemoteSubcommandConstant           = "remote"
	rebaseInProgressMarkerConstant        = "rebase in progress"
	gitExecutorMissingMessageConstant     = "git executor not configured"
	repositoryPathRequiredMessageConstant = "repository path must be provided"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// ErrRepositoryPathRequired indicates an empty repository path.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// GitExecutor exposes the git invocation used by the CLI inspector.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryInspector answers read-only questions about a working copy.
type RepositoryInspector interface {
	RebaseInProgress(executionContext context.Context, repositoryPath string) (bool, error)
	ListRemotes(executionContext context.Context, repositoryPath string) ([]string, error)
	PorcelainStatus(executionContext context.Context, repositoryPath string) (PorcelainStatus, error)
}

// CLIInspector inspects repositories by matching git's textual output.
type CLIInspector struct {
	executor GitExecutor
}

// NewCLIInspector constructs a CLIInspector around the provided executor.
func NewCLIInspector(executor GitExecutor) (*CLIInspector, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &CLIInspector{executor: executor}, nil
}

// RebaseInProgress reports whether `git status` mentions a rebase in progress.
func (inspector *CLIInspector) RebaseInProgress(executionContext context.Context, repositoryPath string) (bool, error) {
	statusText, statusError := inspector.captureOutput(executionContext, repositoryPath, gitStatusSubcommandConstant)
	return strings.Contains(statusText, rebaseInProgressMarkerConstant), statusError
}

// ListRemotes returns the configured remote names in git's order.
func (inspector *CLIInspector) ListRemotes(executionContext context.Context, repositoryPath string) ([]string, error) {
	remoteOutput, remoteError := inspector.captureOutput(executionContext, repositoryPath, gitRemoteSubcommandConstant)
	return ParseRemoteNames(remoteOutput), remoteError
}

// PorcelainStatus returns the parsed `git status --porcelain` output.
func (inspector *CLIInspector) PorcelainStatus(executionContext context.Context, repositoryPath string) (PorcelainStatus, error) {
	statusText, statusError := inspector.captureOutput(executionContext, repositoryPath, gitStatusSubcommandConstant, gitStatusPorcelainFlagConstant)
	return NewPorcelainStatus(statusText), statusError
}

// captureOutput returns standard output even when git exits non-zero, alongside the error.
func (inspector *CLIInspector) captureOutput(executionContext context.Context, repositoryPath string, arguments ...string) (string, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return "", ErrRepositoryPathRequired
	}

	executionResult, executionError := inspector.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: trimmedRepositoryPath,
	})
	if executionError != nil {
		var failedError execshell.CommandFailedError
		if errors.As(executionError, &failedError) {
			return failedError.Result.StandardOutput, executionError
		}
		return "", executionError
	}
	return executionResult.StandardOutput, nil
}

// ParseRemoteNames splits `git remote` output into trimmed, non-empty names.
func ParseRemoteNames(output string) []string {
	return lo.FilterMap(strings.Split(output, "\n"), func(line string, _ int) (string, bool) {
		trimmed := strings.TrimSpace(line)
		return trimmed, len(trimmed) > 0
	})
}

// ContainsRemote reports an exact match of name among remotes.
func ContainsRemote(remotes []string, name string) bool {
	return lo.Contains(remotes, strings.TrimSpace(name))
}

var (
	_ RepositoryInspector = (*CLIInspector)(nil)
	_ RepositoryInspector = (*LibraryInspector)(nil)
)
