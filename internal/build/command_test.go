package build_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/forksync/internal/build"
	"github.com/temirov/forksync/internal/execshell"
)

type recordingCommandExecutor struct {
	recordingPackageManagerExecutor
}

func (executor *recordingCommandExecutor) ExecuteGit(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return execshell.ExecutionResult{}, nil
}

func TestBuildCommandRun(testInstance *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		configuration   build.Configuration
		failingCommand  string
		expectedOutput  string
		expectedError   string
		expectedPauses  []time.Duration
		expectedInvoked []string
	}{
		{
			name:            "success_pauses",
			configuration:   build.DefaultConfiguration(),
			expectedOutput:  "Rebuilding the project...\nStep 1/3: npm install\nStep 2/3: npm run build\nStep 3/3: npm run bundle\nBuild completed successfully.\n",
			expectedPauses:  []time.Duration{2 * time.Second},
			expectedInvoked: []string{"npm install", "npm run build", "npm run bundle"},
		},
		{
			name:            "pause_disabled_by_flag",
			arguments:       []string{"--pause", "0s"},
			configuration:   build.DefaultConfiguration(),
			expectedOutput:  "Rebuilding the project...\nStep 1/3: npm install\nStep 2/3: npm run build\nStep 3/3: npm run bundle\nBuild completed successfully.\n",
			expectedInvoked: []string{"npm install", "npm run build", "npm run bundle"},
		},
		{
			name:            "package_manager_flag_overrides_configuration",
			arguments:       []string{"--package-manager", "yarn", "--pause", "0s"},
			configuration:   build.DefaultConfiguration(),
			expectedOutput:  "Rebuilding the project...\nStep 1/3: yarn install\nStep 2/3: yarn run build\nStep 3/3: yarn run bundle\nBuild completed successfully.\n",
			expectedInvoked: []string{"yarn install", "yarn run build", "yarn run bundle"},
		},
		{
			name:            "install_failure_skips_pause",
			configuration:   build.DefaultConfiguration(),
			failingCommand:  "npm install",
			expectedOutput:  "Rebuilding the project...\nStep 1/3: npm install\nFailed to install dependencies.\n",
			expectedError:   "Failed to install dependencies.",
			expectedInvoked: []string{"npm install"},
		},
		{
			name:          "rejects_positional_arguments",
			arguments:     []string{"extra"},
			configuration: build.DefaultConfiguration(),
			expectedError: "build does not accept positional arguments",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &recordingCommandExecutor{}
			executor.failingCommand = testCase.failingCommand
			var recordedPauses []time.Duration

			builder := build.CommandBuilder{
				ConfigurationProvider:  func() build.Configuration { return testCase.configuration },
				RepositoryPathProvider: func() string { return buildRepositoryPathConstant },
				Executor:               executor,
				Sleeper:                func(duration time.Duration) { recordedPauses = append(recordedPauses, duration) },
			}
			command, buildError := builder.Build()
			require.NoError(testInstance, buildError)

			outputBuffer := &bytes.Buffer{}
			command.SetOut(outputBuffer)
			command.SetErr(&bytes.Buffer{})
			command.SetContext(context.Background())
			command.SetArgs(testCase.arguments)
			command.SilenceUsage = true
			command.SilenceErrors = true

			executionError := command.Execute()
			if len(testCase.expectedError) > 0 {
				require.EqualError(testInstance, executionError, testCase.expectedError)
			} else {
				require.NoError(testInstance, executionError)
			}
			require.Equal(testInstance, testCase.expectedOutput, outputBuffer.String())
			require.Equal(testInstance, testCase.expectedPauses, recordedPauses)
			require.Equal(testInstance, testCase.expectedInvoked, executor.recordedCommands)
		})
	}
}

func TestConfigurationSanitize(testInstance *testing.T) {
	sanitized := build.Configuration{PackageManager: "  ", CompletionPause: -time.Second}.Sanitize()
	require.Equal(testInstance, "npm", sanitized.PackageManager)
	require.Equal(testInstance, time.Duration(0), sanitized.CompletionPause)

	require.Equal(testInstance, map[string]any{
		"tools.build.package_manager":  "npm",
		"tools.build.completion_pause": "2s",
	}, build.DefaultConfigurationValues("tools.build"))
}

func TestConfigurationRendersPauseAsDuration(testInstance *testing.T) {
	rendered, renderError := yaml.Marshal(build.Configuration{PackageManager: "pnpm", CompletionPause: 1500 * time.Millisecond})
	require.NoError(testInstance, renderError)
	require.Equal(testInstance, "package_manager: pnpm\ncompletion_pause: 1.5s\n", string(rendered))
}
