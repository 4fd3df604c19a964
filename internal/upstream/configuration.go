package upstream

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/temirov/forksync/internal/gitrepo"
)

const (
	defaultRemoteNameConstant         = "upstream"
	defaultRemoteURLConstant          = "https://github.com/google-gemini/gemini-cli"
	defaultBranchConstant             = "main"
	defaultLockfileConstant           = "package-lock.json"
	defaultInspectorConstant          = "cli"
	libraryInspectorConstant          = "library"
	remoteConfigKeyConstant           = "remote"
	remoteURLConfigKeyConstant        = "remote_url"
	branchConfigKeyConstant           = "branch"
	lockfileConfigKeyConstant         = "lockfile"
	inspectorConfigKeyConstant        = "inspector"
	configurationKeySeparatorConstant = "."
)

// RemoteURLValidationTag names the validation rule for upstream remote locations.
const RemoteURLValidationTag = "git_remote"

// ValidateRemoteURL reports whether the field holds a remote location git can add.
func ValidateRemoteURL(fieldLevel validator.FieldLevel) bool {
	_, parseError := gitrepo.ParseRemoteURL(fieldLevel.Field().String())
	return parseError == nil
}

// InspectorValidationTag names the validation rule for repository inspector kinds.
const InspectorValidationTag = "inspector_kind"

// ValidateInspector reports whether the field names a supported inspector. Case and surrounding
// whitespace are ignored to match Sanitize and the --inspector flag.
func ValidateInspector(fieldLevel validator.FieldLevel) bool {
	inspectorKind := strings.ToLower(strings.TrimSpace(fieldLevel.Field().String()))
	return lo.Contains([]string{defaultInspectorConstant, libraryInspectorConstant}, inspectorKind)
}

// Configuration captures persistent settings for the sync command.
type Configuration struct {
	Remote    string `mapstructure:"remote" yaml:"remote" validate:"required"`
	RemoteURL string `mapstructure:"remote_url" yaml:"remote_url" validate:"required,git_remote"`
	Branch    string `mapstructure:"branch" yaml:"branch" validate:"required"`
	Lockfile  string `mapstructure:"lockfile" yaml:"lockfile" validate:"required"`
	Inspector string `mapstructure:"inspector" yaml:"inspector" validate:"inspector_kind"`
}

// DefaultConfiguration returns baseline configuration values for the sync command.
func DefaultConfiguration() Configuration {
	return Configuration{
		Remote:    defaultRemoteNameConstant,
		RemoteURL: defaultRemoteURLConstant,
		Branch:    defaultBranchConstant,
		Lockfile:  defaultLockfileConstant,
		Inspector: defaultInspectorConstant,
	}
}

// DefaultConfigurationValues exposes defaults keyed for viper under the provided prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		prefix + configurationKeySeparatorConstant + remoteConfigKeyConstant:    defaults.Remote,
		prefix + configurationKeySeparatorConstant + remoteURLConfigKeyConstant: defaults.RemoteURL,
		prefix + configurationKeySeparatorConstant + branchConfigKeyConstant:    defaults.Branch,
		prefix + configurationKeySeparatorConstant + lockfileConfigKeyConstant:  defaults.Lockfile,
		prefix + configurationKeySeparatorConstant + inspectorConfigKeyConstant: defaults.Inspector,
	}
}

// Sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration Configuration) Sanitize() Configuration {
	defaults := DefaultConfiguration()
	return Configuration{
		Remote:    valueOrDefault(configuration.Remote, defaults.Remote),
		RemoteURL: valueOrDefault(configuration.RemoteURL, defaults.RemoteURL),
		Branch:    valueOrDefault(configuration.Branch, defaults.Branch),
		Lockfile:  valueOrDefault(configuration.Lockfile, defaults.Lockfile),
		Inspector: strings.ToLower(valueOrDefault(configuration.Inspector, defaults.Inspector)),
	}
}

func valueOrDefault(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallback
	}
	return trimmed
}
