package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/forksync/internal/build"
	"github.com/temirov/forksync/internal/dependencies"
	"github.com/temirov/forksync/internal/upstream"
	"github.com/temirov/forksync/internal/utils"
	pathutils "github.com/temirov/forksync/internal/utils/path"
)

const (
	applicationNameConstant                 = "forksync"
	applicationShortDescriptionConstant     = "Keep a fork rebased on its upstream and rebuilt"
	applicationLongDescriptionConstant      = "forksync rebuilds a Node.js project and synchronizes a fork with its upstream remote by fetching, rebasing, and resolving lockfile conflicts."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	repositoryFlagNameConstant              = "repository"
	repositoryFlagUsageConstant             = "Path to the working copy (defaults to the current directory)."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	commonRepositoryConfigKeyConstant       = commonConfigurationKeyConstant + ".repository"
	toolsConfigurationKeyConstant           = "tools"
	buildConfigurationKeyConstant           = toolsConfigurationKeyConstant + ".build"
	syncConfigurationKeyConstant            = toolsConfigurationKeyConstant + ".sync"
	environmentPrefixConstant               = "FORKSYNC"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	defaultRepositoryPathConstant           = "."
	defaultConfigurationSearchPathConstant  = "."
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationRepositoryFieldConstant    = "repository"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	repositoryResolveErrorTemplateConstant  = "unable to resolve repository: %w"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common" yaml:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools" yaml:"tools"`
}

// ApplicationCommonConfiguration stores settings shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel   string `mapstructure:"log_level" yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogFormat  string `mapstructure:"log_format" yaml:"log_format" validate:"omitempty,oneof=structured json console"`
	Repository string `mapstructure:"repository" yaml:"repository"`
}

// ApplicationToolsConfiguration holds configuration for each subcommand.
type ApplicationToolsConfiguration struct {
	Build build.Configuration    `mapstructure:"build" yaml:"build"`
	Sync  upstream.Configuration `mapstructure:"sync" yaml:"sync"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	repositoryResolver     *pathutils.RepositoryPathResolver
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	repositoryFlagValue    string
	repositoryPath         string
	commandContextAccessor utils.CommandContextAccessor
	setupError             error
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	return newApplication(nil, nil)
}

func newApplication(commandExecutor dependencies.CommandExecutor, sleeper build.Sleeper) *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant, utils.UserConfigurationDirectory(applicationNameConstant)},
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())
	validationRegistrationError := errors.Join(
		configurationLoader.RegisterValidation(upstream.RemoteURLValidationTag, upstream.ValidateRemoteURL),
		configurationLoader.RegisterValidation(upstream.InspectorValidationTag, upstream.ValidateInspector),
	)

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		repositoryResolver:     pathutils.NewRepositoryPathResolver(nil),
		logger:                 zap.NewNop(),
		repositoryPath:         defaultRepositoryPathConstant,
		commandContextAccessor: utils.NewCommandContextAccessor(),
		setupError:             validationRegistrationError,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.SetOut(utils.NewFlushingWriter(os.Stdout))
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.repositoryFlagValue, repositoryFlagNameConstant, "", repositoryFlagUsageConstant)

	buildBuilder := build.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: func() build.Configuration {
			return application.configuration.Tools.Build
		},
		RepositoryPathProvider: func() string {
			return application.repositoryPath
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		Executor:                     commandExecutor,
		Sleeper:                      sleeper,
	}
	buildCommand, buildCommandError := buildBuilder.Build()
	if buildCommandError == nil {
		cobraCommand.AddCommand(buildCommand)
	}

	syncBuilder := upstream.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: func() upstream.Configuration {
			return application.configuration.Tools.Sync
		},
		BuildConfigurationProvider: func() build.Configuration {
			return application.configuration.Tools.Build
		},
		RepositoryPathProvider: func() string {
			return application.repositoryPath
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		Executor:                     commandExecutor,
	}
	syncCommand, syncCommandError := syncBuilder.Build()
	if syncCommandError == nil {
		cobraCommand.AddCommand(syncCommand)
	}

	configurationBuilder := ConfigurationCommandBuilder{
		ConfigurationProvider: func() ApplicationConfiguration {
			return application.configuration
		},
		ContextAccessor: application.commandContextAccessor,
	}
	configurationCommand, configurationCommandError := configurationBuilder.Build()
	if configurationCommandError == nil {
		cobraCommand.AddCommand(configurationCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := utils.SyncLogger(application.logger); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// ExecuteWithArguments runs the application as if invoked with the provided arguments.
func (application *Application) ExecuteWithArguments(arguments ...string) error {
	application.rootCommand.SetArgs(arguments)
	return application.Execute()
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

// ExecuteCommand builds a fresh application instance and runs a single subcommand with the provided flags.
func ExecuteCommand(commandName string, arguments ...string) error {
	return NewApplication().ExecuteWithArguments(append([]string{commandName}, arguments...)...)
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	if application.setupError != nil {
		return application.setupError
	}

	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:   string(utils.DefaultLogLevel),
		commonLogFormatConfigKeyConstant:  string(utils.DefaultLogFormat),
		commonRepositoryConfigKeyConstant: defaultRepositoryPathConstant,
	}
	for configurationKey, configurationValue := range build.DefaultConfigurationValues(buildConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	for configurationKey, configurationValue := range upstream.DefaultConfigurationValues(syncConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	if application.persistentFlagChanged(command, repositoryFlagNameConstant) {
		application.configuration.Common.Repository = application.repositoryFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	repositoryPath, repositoryError := application.repositoryResolver.Resolve(application.configuration.Common.Repository)
	if repositoryError != nil {
		return fmt.Errorf(repositoryResolveErrorTemplateConstant, repositoryError)
	}
	application.repositoryPath = repositoryPath

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.String(configurationRepositoryFieldConstant, application.repositoryPath),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithMetadata(command.Context(), utils.CommandMetadata{
			ConfigurationFilePath: application.configurationMetadata.ConfigFileUsed,
			RepositoryPath:        application.repositoryPath,
		})
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	return utils.IsConsoleFormat(utils.LogFormat(application.configuration.Common.LogFormat))
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
