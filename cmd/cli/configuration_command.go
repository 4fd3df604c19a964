package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/temirov/forksync/internal/utils"
)

const (
	configurationCommandUseConstant                = "config"
	configurationCommandShortDescriptionConstant   = "Print the effective configuration"
	configurationCommandLongDescriptionConstant    = "config prints the configuration after merging defaults, configuration files, environment variables, and flags."
	configurationUnexpectedArgumentsConstant       = "config does not accept positional arguments"
	configurationFileCommentTemplateConstant       = "# configuration file: %s\n"
	configurationRepositoryCommentTemplateConstant = "# repository: %s\n"
	configurationRenderErrorTemplateConstant       = "unable to render configuration: %w"
)

var errConfigurationUnexpectedArguments = errors.New(configurationUnexpectedArgumentsConstant)

// ConfigurationCommandBuilder assembles the config command.
type ConfigurationCommandBuilder struct {
	ConfigurationProvider func() ApplicationConfiguration
	ContextAccessor       utils.CommandContextAccessor
}

// Build constructs the config command.
func (builder *ConfigurationCommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:   configurationCommandUseConstant,
		Short: configurationCommandShortDescriptionConstant,
		Long:  configurationCommandLongDescriptionConstant,
		RunE:  builder.run,
	}, nil
}

func (builder *ConfigurationCommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errConfigurationUnexpectedArguments
	}

	configuration := ApplicationConfiguration{}
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	renderedConfiguration, renderError := yaml.Marshal(configuration)
	if renderError != nil {
		return fmt.Errorf(configurationRenderErrorTemplateConstant, renderError)
	}

	output := command.OutOrStdout()
	if metadata, available := builder.ContextAccessor.Metadata(command.Context()); available {
		if len(metadata.ConfigurationFilePath) > 0 {
			fmt.Fprintf(output, configurationFileCommentTemplateConstant, metadata.ConfigurationFilePath)
		}
		fmt.Fprintf(output, configurationRepositoryCommentTemplateConstant, metadata.RepositoryPath)
	}
	_, writeError := output.Write(renderedConfiguration)
	return writeError
}
