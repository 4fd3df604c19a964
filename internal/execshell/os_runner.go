package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
)

const (
	environmentAssignmentSeparatorConstant = "="
	environmentAssignmentTemplateConstant  = "%s%s%s"
	windowsPlatformNameConstant            = "windows"
	windowsCommandShellConstant            = "cmd"
	windowsCommandShellRunFlagConstant     = "/C"
)

// StandardStreams groups the streams inherited by commands that stream their output.
type StandardStreams struct {
	Input  io.Reader
	Output io.Writer
	Error  io.Writer
}

// OSCommandRunner executes commands using the operating system facilities.
type OSCommandRunner struct {
	platformName string
	streams      StandardStreams
}

// NewOSCommandRunner constructs a runner backed by os/exec for the current platform and process streams.
func NewOSCommandRunner() *OSCommandRunner {
	return NewPlatformCommandRunner(runtime.GOOS, StandardStreams{Input: os.Stdin, Output: os.Stdout, Error: os.Stderr})
}

// NewPlatformCommandRunner constructs a runner for an explicit platform name and stream set.
func NewPlatformCommandRunner(platformName string, streams StandardStreams) *OSCommandRunner {
	return &OSCommandRunner{platformName: platformName, streams: streams}
}

// Run executes the supplied command using os/exec.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	programName, programArguments := resolveInvocation(runner.platformName, command)
	executable := exec.CommandContext(executionContext, programName, programArguments...)

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}

	if len(command.Details.EnvironmentVariables) > 0 {
		mergedEnvironment := append([]string{}, os.Environ()...)
		for environmentKey, environmentValue := range command.Details.EnvironmentVariables {
			mergedEnvironment = append(mergedEnvironment, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, environmentAssignmentSeparatorConstant, environmentValue))
		}
		executable.Env = mergedEnvironment
	}

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	if command.Details.StreamOutput {
		executable.Stdin = runner.streams.Input
		executable.Stdout = runner.streams.Output
		executable.Stderr = runner.streams.Error
	} else {
		executable.Stdout = &standardOutputBuffer
		executable.Stderr = &standardErrorBuffer
	}

	if len(command.Details.StandardInput) > 0 {
		executable.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	runError := executable.Run()
	if runError != nil {
		exitError := &exec.ExitError{}
		if errors.As(runError, &exitError) {
			return ExecutionResult{
				StandardOutput: standardOutputBuffer.String(),
				StandardError:  standardErrorBuffer.String(),
				ExitCode:       exitError.ExitCode(),
			}, nil
		}
		return ExecutionResult{}, runError
	}

	return ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
		ExitCode:       0,
	}, nil
}

// resolveInvocation routes commands through cmd /C on Windows so that wrapper
// scripts such as npm.cmd resolve the same way they do in an interactive shell.
func resolveInvocation(platformName string, command ShellCommand) (string, []string) {
	commandArguments := append([]string{}, command.Details.Arguments...)
	if platformName != windowsPlatformNameConstant {
		return string(command.Name), commandArguments
	}
	shellArguments := make([]string, 0, len(commandArguments)+2)
	shellArguments = append(shellArguments, windowsCommandShellRunFlagConstant, string(command.Name))
	shellArguments = append(shellArguments, commandArguments...)
	return windowsCommandShellConstant, shellArguments
}
