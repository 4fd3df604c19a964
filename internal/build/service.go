package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/forksync/internal/execshell"
)

const (
	rebuildingMessageConstant            = "Rebuilding the project..."
	lineTemplateConstant                 = "%s\n"
	executorMissingMessageConstant       = "package manager executor not configured"
	repositoryPathMissingMessageConstant = "repository path must be provided"
	stepStartedLogMessageConstant        = "build step started"
	stepFailedLogMessageConstant         = "build step failed"
	sequenceCompletedLogMessageConstant  = "build sequence completed"
	logFieldStepConstant                 = "step"
	logFieldPackageManagerConstant       = "package_manager"
	logFieldRepositoryPathConstant       = "repository_path"
)

// ErrExecutorNotConfigured indicates the package manager executor dependency was missing.
var ErrExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// ErrRepositoryPathRequired indicates an empty repository path.
var ErrRepositoryPathRequired = errors.New(repositoryPathMissingMessageConstant)

// PackageManagerExecutor runs package manager commands.
type PackageManagerExecutor interface {
	ExecutePackageManager(executionContext context.Context, program string, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// StepFailedError reports the build step that stopped the sequence.
type StepFailedError struct {
	Step  Step
	Cause error
}

// Error returns the step failure message.
func (stepError StepFailedError) Error() string {
	return stepError.Step.FailureMessage
}

// Unwrap exposes the underlying command error.
func (stepError StepFailedError) Unwrap() error {
	return stepError.Cause
}

// ServiceDependencies enumerates collaborators required by Service.
type ServiceDependencies struct {
	Executor PackageManagerExecutor
	Output   io.Writer
	Logger   *zap.Logger
}

// Options configures a single build run.
type Options struct {
	RepositoryPath string
	PackageManager string
}

// Result lists the steps that completed.
type Result struct {
	CompletedSteps []StepName
}

// Service executes the build sequence.
type Service struct {
	executor PackageManagerExecutor
	output   io.Writer
	logger   *zap.Logger
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Executor == nil {
		return nil, ErrExecutorNotConfigured
	}

	output := dependencies.Output
	if output == nil {
		output = io.Discard
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{executor: dependencies.Executor, output: output, logger: logger}, nil
}

// Run executes install, build, and bundle in order, stopping at the first failure.
func (service *Service) Run(executionContext context.Context, options Options) (Result, error) {
	repositoryPath := strings.TrimSpace(options.RepositoryPath)
	if len(repositoryPath) == 0 {
		return Result{}, ErrRepositoryPathRequired
	}

	packageManager := strings.TrimSpace(options.PackageManager)
	if len(packageManager) == 0 {
		packageManager = defaultPackageManagerConstant
	}

	service.printLine(rebuildingMessageConstant)

	result := Result{}
	steps := Steps()
	for stepIndex, step := range steps {
		service.printLine(step.Announcement(stepIndex+1, len(steps), packageManager))
		service.logger.Debug(
			stepStartedLogMessageConstant,
			zap.String(logFieldStepConstant, string(step.Name)),
			zap.String(logFieldPackageManagerConstant, packageManager),
			zap.String(logFieldRepositoryPathConstant, repositoryPath),
		)

		_, executionError := service.executor.ExecutePackageManager(executionContext, packageManager, execshell.CommandDetails{
			Arguments:        step.Arguments,
			WorkingDirectory: repositoryPath,
			StreamOutput:     true,
		})
		if executionError != nil {
			service.printLine(step.FailureMessage)
			service.logger.Warn(
				stepFailedLogMessageConstant,
				zap.String(logFieldStepConstant, string(step.Name)),
				zap.Error(executionError),
			)
			return result, StepFailedError{Step: step, Cause: executionError}
		}
		result.CompletedSteps = append(result.CompletedSteps, step.Name)
	}

	service.logger.Debug(sequenceCompletedLogMessageConstant, zap.String(logFieldRepositoryPathConstant, repositoryPath))
	return result, nil
}

func (service *Service) printLine(message string) {
	fmt.Fprintf(service.output, lineTemplateConstant, message)
}
