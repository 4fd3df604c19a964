package build

import (
	"strings"
	"time"
)

const (
	defaultPackageManagerConstant    = "npm"
	defaultCompletionPauseConstant   = 2 * time.Second
	defaultRepositoryPathConstant    = "."
	packageManagerConfigKeyConstant  = "package_manager"
	completionPauseConfigKeyConstant = "completion_pause"
)

// Configuration captures persistent settings for the build command.
type Configuration struct {
	PackageManager  string        `mapstructure:"package_manager" yaml:"package_manager" validate:"required"`
	CompletionPause time.Duration `mapstructure:"completion_pause" yaml:"completion_pause" validate:"gte=0"`
}

// DefaultConfiguration returns baseline configuration values for the build command.
func DefaultConfiguration() Configuration {
	return Configuration{
		PackageManager:  defaultPackageManagerConstant,
		CompletionPause: defaultCompletionPauseConstant,
	}
}

// DefaultConfigurationValues exposes defaults keyed for viper under the provided prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		prefix + "." + packageManagerConfigKeyConstant:  defaults.PackageManager,
		prefix + "." + completionPauseConfigKeyConstant: defaults.CompletionPause.String(),
	}
}

// Sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.PackageManager = strings.TrimSpace(configuration.PackageManager)
	if len(sanitized.PackageManager) == 0 {
		sanitized.PackageManager = defaultPackageManagerConstant
	}
	if sanitized.CompletionPause < 0 {
		sanitized.CompletionPause = 0
	}
	return sanitized
}

type renderedConfiguration struct {
	PackageManager  string `yaml:"package_manager"`
	CompletionPause string `yaml:"completion_pause"`
}

// MarshalYAML renders the completion pause as a duration string.
func (configuration Configuration) MarshalYAML() (any, error) {
	return renderedConfiguration{
		PackageManager:  configuration.PackageManager,
		CompletionPause: configuration.CompletionPause.String(),
	}, nil
}
