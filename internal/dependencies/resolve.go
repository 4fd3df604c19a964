// Package dependencies resolves default collaborators for commands when callers do not inject their own.
package dependencies

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/forksync/internal/execshell"
	"github.com/temirov/forksync/internal/gitrepo"
	"github.com/temirov/forksync/internal/ui"
)

// Supported repository inspector kinds.
const (
	InspectorKindCLI     = "cli"
	InspectorKindLibrary = "library"
)

const unsupportedInspectorKindTemplateConstant = "unsupported repository inspector: %s"

// CommandExecutor runs git and package manager commands.
type CommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecutePackageManager(executionContext context.Context, program string, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ResolveCommandExecutor returns the provided executor or constructs a shell-backed default that echoes every command to output.
func ResolveCommandExecutor(existing CommandExecutor, logger *zap.Logger, output io.Writer, humanReadableLogging bool) (CommandExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	observers := []execshell.CommandEventObserver{ui.NewCommandEcho(output)}
	if humanReadableLogging {
		observers = append(observers, ui.NewConsoleCommandEventLogger(logger))
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, observers...)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveRepositoryInspector returns the provided inspector or constructs the requested kind.
func ResolveRepositoryInspector(existing gitrepo.RepositoryInspector, inspectorKind string, executor gitrepo.GitExecutor) (gitrepo.RepositoryInspector, error) {
	if existing != nil {
		return existing, nil
	}

	switch strings.ToLower(strings.TrimSpace(inspectorKind)) {
	case "", InspectorKindCLI:
		return gitrepo.NewCLIInspector(executor)
	case InspectorKindLibrary:
		return gitrepo.NewLibraryInspector(), nil
	default:
		return nil, fmt.Errorf(unsupportedInspectorKindTemplateConstant, inspectorKind)
	}
}
