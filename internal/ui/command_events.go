package ui

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/forksync/internal/execshell"
)

const (
	commandEchoTemplateConstant = "Running: %s\n"
)

// CommandEcho implements execshell.CommandEventObserver by printing the command line of every
// streamed command before execution. Captured queries are not echoed.
type CommandEcho struct {
	writer io.Writer
}

// NewCommandEcho constructs an echo observer writing to the provided writer.
func NewCommandEcho(writer io.Writer) *CommandEcho {
	if writer == nil {
		writer = io.Discard
	}
	return &CommandEcho{writer: writer}
}

// CommandStarted prints the space-joined command line of streamed commands.
func (echo *CommandEcho) CommandStarted(command execshell.ShellCommand) {
	if echo == nil || !command.Details.StreamOutput {
		return
	}
	fmt.Fprintf(echo.writer, commandEchoTemplateConstant, command.CommandLine())
}

// CommandCompleted is a no-op; the wrapped tool reports its own outcome.
func (echo *CommandEcho) CommandCompleted(execshell.ShellCommand, execshell.ExecutionResult) {}

// CommandExecutionFailed is a no-op; failures surface through returned errors.
func (echo *CommandEcho) CommandExecutionFailed(execshell.ShellCommand, error) {}

// ConsoleCommandEventLogger narrates command lifecycle events through a human-readable zap logger.
// Streamed commands are reported at info level and captured repository queries at debug level.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger, formatter: execshell.CommandMessageFormatter{}}
}

// CommandStarted logs the start notification.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.write(progressLevel(command), eventLogger.formatter.BuildStartedMessage(command))
}

// CommandCompleted logs the outcome at the command's progress level. A non-zero exit stays below warn
// because callers either absorb it or report it through the returned error.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode != 0 {
		eventLogger.write(progressLevel(command), eventLogger.formatter.BuildFailureMessage(command, result))
		return
	}
	eventLogger.write(progressLevel(command), eventLogger.formatter.BuildSuccessMessage(command))
}

// CommandExecutionFailed logs a command that could not be started.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.write(zapcore.ErrorLevel, eventLogger.formatter.BuildExecutionFailureMessage(command, failure))
}

func (eventLogger *ConsoleCommandEventLogger) write(level zapcore.Level, message string) {
	if checkedEntry := eventLogger.logger.Check(level, message); checkedEntry != nil {
		checkedEntry.Write()
	}
}

func progressLevel(command execshell.ShellCommand) zapcore.Level {
	if command.Details.StreamOutput {
		return zapcore.InfoLevel
	}
	return zapcore.DebugLevel
}
