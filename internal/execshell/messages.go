package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
)

const (
	gitStatusSubcommandNameConstant    = "status"
	gitRemoteSubcommandNameConstant    = "remote"
	gitRemoteAddSubcommandNameConstant = "add"
	gitFetchSubcommandNameConstant     = "fetch"
	gitRebaseSubcommandNameConstant    = "rebase"
	gitCheckoutSubcommandNameConstant  = "checkout"
	gitTheirsFlagConstant              = "--theirs"
	gitAddSubcommandNameConstant       = "add"
	packageInstallSubcommandConstant   = "install"
	packageRunSubcommandConstant       = "run"
	packageLockOnlyFlagConstant        = "--package-lock-only"
)

type stageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

var (
	gitStatusTemplates = stageTemplates{
		start:            "Reviewing working tree status in %s",
		success:          "Collected working tree status for %s",
		failure:          "Failed to review working tree status in %s (exit code %d%s)",
		executionFailure: "Unable to review working tree status in %s: %s",
	}
	gitRemoteListTemplates = stageTemplates{
		start:            "Listing remotes in %s",
		success:          "Listed remotes in %s",
		failure:          "Failed to list remotes in %s (exit code %d%s)",
		executionFailure: "Unable to list remotes in %s: %s",
	}
	gitRemoteAddTemplates = stageTemplates{
		start:            "Adding remote %s in %s",
		success:          "Added remote %s in %s",
		failure:          "Failed to add remote %s in %s (exit code %d%s)",
		executionFailure: "Unable to add remote %s in %s: %s",
	}
	gitFetchTemplates = stageTemplates{
		start:            "Fetching from %s in %s",
		success:          "Fetched from %s in %s",
		failure:          "Failed to fetch from %s in %s (exit code %d%s)",
		executionFailure: "Unable to fetch from %s in %s: %s",
	}
	gitRebaseTemplates = stageTemplates{
		start:            "Rebasing onto %s in %s",
		success:          "Rebased onto %s in %s",
		failure:          "Rebase onto %s stopped in %s (exit code %d%s)",
		executionFailure: "Unable to rebase onto %s in %s: %s",
	}
	gitCheckoutTheirsTemplates = stageTemplates{
		start:            "Taking incoming version of %s in %s",
		success:          "Took incoming version of %s in %s",
		failure:          "Failed to take incoming version of %s in %s (exit code %d%s)",
		executionFailure: "Unable to take incoming version of %s in %s: %s",
	}
	gitAddTemplates = stageTemplates{
		start:            "Staging %s in %s",
		success:          "Staged %s in %s",
		failure:          "Failed to stage %s in %s (exit code %d%s)",
		executionFailure: "Unable to stage %s in %s: %s",
	}
	packageInstallTemplates = stageTemplates{
		start:            "Installing dependencies with %s in %s",
		success:          "Installed dependencies with %s in %s",
		failure:          "Dependency installation with %s failed in %s (exit code %d%s)",
		executionFailure: "Unable to install dependencies with %s in %s: %s",
	}
	packageLockRegenerationTemplates = stageTemplates{
		start:            "Regenerating lockfile with %s in %s",
		success:          "Regenerated lockfile with %s in %s",
		failure:          "Lockfile regeneration with %s failed in %s (exit code %d%s)",
		executionFailure: "Unable to regenerate lockfile with %s in %s: %s",
	}
	packageRunScriptTemplates = stageTemplates{
		start:            "Running script %s in %s",
		success:          "Script %s finished in %s",
		failure:          "Script %s failed in %s (exit code %d%s)",
		executionFailure: "Unable to run script %s in %s: %s",
	}
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
	if command.Name == CommandGit {
		return formatter.describeGitMessage(command, result, failure, stage)
	}
	return formatter.describePackageManagerMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	switch strings.TrimSpace(arguments[0]) {
	case gitStatusSubcommandNameConstant:
		return formatter.describeWithoutSubject(gitStatusTemplates, command, result, failure, stage)
	case gitRemoteSubcommandNameConstant:
		if strings.TrimSpace(formatter.argumentAtIndex(arguments, 1)) == gitRemoteAddSubcommandNameConstant {
			return formatter.describeWithSubject(gitRemoteAddTemplates, formatter.ensureValue(formatter.argumentAtIndex(arguments, 2)), command, result, failure, stage)
		}
		if len(arguments) == 1 {
			return formatter.describeWithoutSubject(gitRemoteListTemplates, command, result, failure, stage)
		}
	case gitFetchSubcommandNameConstant:
		return formatter.describeWithSubject(gitFetchTemplates, formatter.ensureValue(formatter.extractFirstNonFlagArgument(arguments[1:])), command, result, failure, stage)
	case gitRebaseSubcommandNameConstant:
		return formatter.describeWithSubject(gitRebaseTemplates, formatter.ensureValue(formatter.extractFirstNonFlagArgument(arguments[1:])), command, result, failure, stage)
	case gitCheckoutSubcommandNameConstant:
		if containsArgument(arguments, gitTheirsFlagConstant) {
			return formatter.describeWithSubject(gitCheckoutTheirsTemplates, formatter.ensureValue(formatter.extractFirstNonFlagArgument(arguments[1:])), command, result, failure, stage)
		}
	case gitAddSubcommandNameConstant:
		return formatter.describeWithSubject(gitAddTemplates, formatter.ensureValue(formatter.extractFirstNonFlagArgument(arguments[1:])), command, result, failure, stage)
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describePackageManagerMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	programName := string(command.Name)
	switch strings.TrimSpace(arguments[0]) {
	case packageInstallSubcommandConstant:
		if containsArgument(arguments, packageLockOnlyFlagConstant) {
			return formatter.describeWithSubject(packageLockRegenerationTemplates, programName, command, result, failure, stage)
		}
		return formatter.describeWithSubject(packageInstallTemplates, programName, command, result, failure, stage)
	case packageRunSubcommandConstant:
		scriptName := formatter.extractFirstNonFlagArgument(arguments[1:])
		if len(scriptName) > 0 {
			return formatter.describeWithSubject(packageRunScriptTemplates, scriptName, command, result, failure, stage)
		}
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeWithoutSubject(templates stageTemplates, command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeWithSubject(templates stageTemplates, subject string, command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, subject, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, subject, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, subject, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, subject, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return command.CommandLine()
	}
	return fmt.Sprintf(commandLabelTemplateConstant, command.CommandLine(), fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory))
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index < 0 || index >= len(arguments) {
		return emptyStringConstant
	}
	return arguments[index]
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) extractFirstNonFlagArgument(arguments []string) string {
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 {
			continue
		}
		if strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func containsArgument(arguments []string, candidate string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == candidate {
			return true
		}
	}
	return false
}
