package upstream

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/forksync/internal/build"
	"github.com/temirov/forksync/internal/dependencies"
	"github.com/temirov/forksync/internal/gitrepo"
)

const (
	commandUseConstant                 = "sync"
	commandShortDescriptionConstant    = "Rebase the fork onto its upstream branch and rebuild"
	commandLongDescriptionConstant     = "sync ensures the upstream remote exists, fetches it, rebases onto the upstream branch, resolves lockfile conflicts when possible, and rebuilds the project."
	unexpectedArgumentsMessageConstant = "sync does not accept positional arguments"
	defaultRepositoryPathConstant      = "."
	remoteFlagNameConstant             = "remote"
	remoteFlagUsageConstant            = "Name of the upstream remote"
	remoteURLFlagNameConstant          = "remote-url"
	remoteURLFlagUsageConstant         = "URL registered when the upstream remote is missing"
	branchFlagNameConstant             = "branch"
	branchFlagUsageConstant            = "Upstream branch to rebase onto"
	lockfileFlagNameConstant           = "lockfile"
	lockfileFlagUsageConstant          = "Lockfile resolved automatically when it is the conflicted file"
	inspectorFlagNameConstant          = "inspector"
	inspectorFlagUsageConstant         = "Repository inspector implementation (cli or library)"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current sync configuration.
type ConfigurationProvider func() Configuration

// BuildConfigurationProvider returns the build configuration used after synchronization.
type BuildConfigurationProvider func() build.Configuration

// RepositoryPathProvider returns the working copy the command operates on.
type RepositoryPathProvider func() string

// CommandBuilder assembles the sync cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	BuildConfigurationProvider   BuildConfigurationProvider
	RepositoryPathProvider       RepositoryPathProvider
	HumanReadableLoggingProvider func() bool
	Executor                     dependencies.CommandExecutor
	Inspector                    gitrepo.RepositoryInspector
	RunIdentifierGenerator       RunIdentifierGenerator
}

// Build constructs the sync command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(remoteFlagNameConstant, "", remoteFlagUsageConstant)
	command.Flags().String(remoteURLFlagNameConstant, "", remoteURLFlagUsageConstant)
	command.Flags().String(branchFlagNameConstant, "", branchFlagUsageConstant)
	command.Flags().String(lockfileFlagNameConstant, "", lockfileFlagUsageConstant)
	command.Flags().String(inspectorFlagNameConstant, "", inspectorFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	configuration := builder.resolveConfiguration(command)
	buildConfiguration := builder.resolveBuildConfiguration()
	logger := builder.resolveLogger()

	executor, executorError := dependencies.ResolveCommandExecutor(builder.Executor, logger, command.OutOrStdout(), builder.humanReadableLoggingEnabled())
	if executorError != nil {
		return executorError
	}

	inspector, inspectorError := dependencies.ResolveRepositoryInspector(builder.Inspector, configuration.Inspector, executor)
	if inspectorError != nil {
		return inspectorError
	}

	buildService, buildServiceError := build.NewService(build.ServiceDependencies{
		Executor: executor,
		Output:   command.OutOrStdout(),
		Logger:   logger,
	})
	if buildServiceError != nil {
		return buildServiceError
	}

	service, serviceError := NewService(ServiceDependencies{
		Executor:               executor,
		Inspector:              inspector,
		Builder:                buildService,
		Output:                 command.OutOrStdout(),
		Logger:                 logger,
		RunIdentifierGenerator: builder.RunIdentifierGenerator,
	})
	if serviceError != nil {
		return serviceError
	}

	_, runError := service.Run(command.Context(), Options{
		RepositoryPath: builder.resolveRepositoryPath(),
		RemoteName:     configuration.Remote,
		RemoteURL:      configuration.RemoteURL,
		Branch:         configuration.Branch,
		Lockfile:       configuration.Lockfile,
		PackageManager: buildConfiguration.PackageManager,
	})
	return runError
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) Configuration {
	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	overrides := []struct {
		flagName string
		target   *string
	}{
		{flagName: remoteFlagNameConstant, target: &configuration.Remote},
		{flagName: remoteURLFlagNameConstant, target: &configuration.RemoteURL},
		{flagName: branchFlagNameConstant, target: &configuration.Branch},
		{flagName: lockfileFlagNameConstant, target: &configuration.Lockfile},
		{flagName: inspectorFlagNameConstant, target: &configuration.Inspector},
	}
	for _, override := range overrides {
		if !command.Flags().Changed(override.flagName) {
			continue
		}
		flagValue, flagError := command.Flags().GetString(override.flagName)
		if flagError == nil {
			*override.target = flagValue
		}
	}

	return configuration.Sanitize()
}

func (builder *CommandBuilder) resolveBuildConfiguration() build.Configuration {
	if builder.BuildConfigurationProvider == nil {
		return build.DefaultConfiguration()
	}
	return builder.BuildConfigurationProvider().Sanitize()
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

func (builder *CommandBuilder) humanReadableLoggingEnabled() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}
