package build

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/forksync/internal/dependencies"
)

const (
	commandUseConstant                 = "build"
	commandShortDescriptionConstant    = "Install dependencies, build packages, and create the bundle"
	commandLongDescriptionConstant     = "build runs the package manager install, build, and bundle steps in order and stops at the first failure."
	unexpectedArgumentsMessageConstant = "build does not accept positional arguments"
	completedMessageConstant           = "Build completed successfully."
	packageManagerFlagNameConstant     = "package-manager"
	packageManagerFlagUsageConstant    = "Package manager program used for every build step"
	pauseFlagNameConstant              = "pause"
	pauseFlagUsageConstant             = "Delay before exiting after a successful build (0s disables)"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current build configuration.
type ConfigurationProvider func() Configuration

// RepositoryPathProvider returns the working copy the command operates on.
type RepositoryPathProvider func() string

// Sleeper pauses execution for the provided duration.
type Sleeper func(time.Duration)

// CommandBuilder assembles the build cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	RepositoryPathProvider       RepositoryPathProvider
	HumanReadableLoggingProvider func() bool
	Executor                     dependencies.CommandExecutor
	Sleeper                      Sleeper
}

// Build constructs the build command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(packageManagerFlagNameConstant, "", packageManagerFlagUsageConstant)
	command.Flags().Duration(pauseFlagNameConstant, 0, pauseFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	configuration := builder.resolveConfiguration(command)
	logger := builder.resolveLogger()

	executor, executorError := dependencies.ResolveCommandExecutor(builder.Executor, logger, command.OutOrStdout(), builder.humanReadableLoggingEnabled())
	if executorError != nil {
		return executorError
	}

	service, serviceError := NewService(ServiceDependencies{
		Executor: executor,
		Output:   command.OutOrStdout(),
		Logger:   logger,
	})
	if serviceError != nil {
		return serviceError
	}

	if _, runError := service.Run(command.Context(), Options{
		RepositoryPath: builder.resolveRepositoryPath(),
		PackageManager: configuration.PackageManager,
	}); runError != nil {
		return runError
	}

	fmt.Fprintln(command.OutOrStdout(), completedMessageConstant)
	if configuration.CompletionPause > 0 {
		builder.resolveSleeper()(configuration.CompletionPause)
	}
	return nil
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) Configuration {
	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	if command.Flags().Changed(packageManagerFlagNameConstant) {
		packageManager, _ := command.Flags().GetString(packageManagerFlagNameConstant)
		configuration.PackageManager = packageManager
	}
	if command.Flags().Changed(pauseFlagNameConstant) {
		pause, _ := command.Flags().GetDuration(pauseFlagNameConstant)
		configuration.CompletionPause = pause
	}

	return configuration.Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveRepositoryPath() string {
	if builder.RepositoryPathProvider == nil {
		return defaultRepositoryPathConstant
	}
	return builder.RepositoryPathProvider()
}

func (builder *CommandBuilder) resolveSleeper() Sleeper {
	if builder.Sleeper == nil {
		return time.Sleep
	}
	return builder.Sleeper
}

func (builder *CommandBuilder) humanReadableLoggingEnabled() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}
