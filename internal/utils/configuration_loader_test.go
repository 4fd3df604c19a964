package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/require"

	"github.com/temirov/forksync/internal/utils"
)

const (
	testEnvironmentPrefixConstant     = "TESTFORKSYNC"
	testConfigurationNameConstant     = "config"
	testConfigurationTypeConstant     = "yaml"
	testConfigFileNameConstant        = "config.yaml"
	testApplicationDirectoryConstant  = "forksync"
	testRemoteKeyConstant             = "tools.sync.remote"
	testRemoteURLKeyConstant          = "tools.sync.remote_url"
	testRemoteEnvironmentKeyConstant  = "TESTFORKSYNC_TOOLS_SYNC_REMOTE"
	testDefaultRemoteConstant         = "upstream"
	testDefaultRemoteURLConstant      = "https://github.com/google-gemini/gemini-cli"
	testEmbeddedConfigurationConstant = "tools:\n  sync:\n    remote: embedded\n"
)

type syncFixture struct {
	Remote    string `mapstructure:"remote" validate:"required"`
	RemoteURL string `mapstructure:"remote_url" validate:"required,url"`
}

type toolsFixture struct {
	Sync syncFixture `mapstructure:"sync"`
}

type configurationFixture struct {
	Tools toolsFixture `mapstructure:"tools"`
}

func fixtureDefaults() map[string]any {
	return map[string]any{
		testRemoteKeyConstant:    testDefaultRemoteConstant,
		testRemoteURLKeyConstant: testDefaultRemoteURLConstant,
	}
}

func writeConfigurationFile(testInstance *testing.T, directory string, content string) string {
	testInstance.Helper()
	require.NoError(testInstance, os.MkdirAll(directory, 0o755))
	configurationFilePath := filepath.Join(directory, testConfigFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(content), 0o600))
	return configurationFilePath
}

func TestConfigurationLoaderPrecedence(testInstance *testing.T) {
	testCases := []struct {
		name              string
		embedded          string
		fileContent       string
		environmentRemote string
		expectedRemote    string
	}{
		{name: "defaults_apply", expectedRemote: testDefaultRemoteConstant},
		{name: "embedded_overrides_defaults", embedded: testEmbeddedConfigurationConstant, expectedRemote: "embedded"},
		{name: "file_overrides_embedded", embedded: testEmbeddedConfigurationConstant, fileContent: "tools:\n  sync:\n    remote: from-file\n", expectedRemote: "from-file"},
		{name: "environment_overrides_file", fileContent: "tools:\n  sync:\n    remote: from-file\n", environmentRemote: "from-env", expectedRemote: "from-env"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			configurationDirectory := testInstance.TempDir()
			configurationFilePath := ""
			if len(testCase.fileContent) > 0 {
				configurationFilePath = writeConfigurationFile(testInstance, configurationDirectory, testCase.fileContent)
			}
			if len(testCase.environmentRemote) > 0 {
				testInstance.Setenv(testRemoteEnvironmentKeyConstant, testCase.environmentRemote)
			}

			loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{configurationDirectory})
			loader.SetEmbeddedConfiguration([]byte(testCase.embedded), testConfigurationTypeConstant)

			loadedConfiguration := configurationFixture{}
			metadata, loadError := loader.LoadConfiguration(configurationFilePath, fixtureDefaults(), &loadedConfiguration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedRemote, loadedConfiguration.Tools.Sync.Remote)
			require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
		})
	}
}

func TestConfigurationLoaderSearchesXDGDirectory(testInstance *testing.T) {
	configurationHome := testInstance.TempDir()
	testInstance.Setenv("XDG_CONFIG_HOME", configurationHome)
	xdg.Reload()
	testInstance.Cleanup(xdg.Reload)

	userConfigurationDirectory := utils.UserConfigurationDirectory(testApplicationDirectoryConstant)
	require.Equal(testInstance, filepath.Join(configurationHome, testApplicationDirectoryConstant), userConfigurationDirectory)

	configurationFilePath := writeConfigurationFile(testInstance, userConfigurationDirectory, "tools:\n  sync:\n    remote: from-xdg\n")

	loader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{testInstance.TempDir(), userConfigurationDirectory},
	)

	loadedConfiguration := configurationFixture{}
	metadata, loadError := loader.LoadConfiguration("", fixtureDefaults(), &loadedConfiguration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "from-xdg", loadedConfiguration.Tools.Sync.Remote)
	require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
}

func TestConfigurationLoaderRejectsInvalidConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name        string
		fileContent string
	}{
		{name: "empty_remote", fileContent: "tools:\n  sync:\n    remote: \"\"\n"},
		{name: "malformed_url", fileContent: "tools:\n  sync:\n    remote_url: not a url\n"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			configurationFilePath := writeConfigurationFile(testInstance, testInstance.TempDir(), testCase.fileContent)
			loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)

			loadedConfiguration := configurationFixture{}
			_, loadError := loader.LoadConfiguration(configurationFilePath, fixtureDefaults(), &loadedConfiguration)
			require.ErrorContains(testInstance, loadError, "invalid configuration")
		})
	}
}

func TestConfigurationLoaderReportsUnreadableFile(testInstance *testing.T) {
	configurationFilePath := writeConfigurationFile(testInstance, testInstance.TempDir(), "tools: [unterminated\n")
	loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)

	_, loadError := loader.LoadConfiguration(configurationFilePath, fixtureDefaults(), &configurationFixture{})
	require.ErrorContains(testInstance, loadError, "failed to read configuration")
}
