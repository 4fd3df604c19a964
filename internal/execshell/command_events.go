package execshell

// CommandEventObserver receives lifecycle notifications for shell command execution.
type CommandEventObserver interface {
	// CommandStarted notifies observers that command execution is beginning.
	CommandStarted(command ShellCommand)
	// CommandCompleted notifies observers that command execution finished and supplies the result.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports unexpected failures prior to receiving an execution result.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// compositeCommandEventObserver fans events out to every non-nil observer in registration order.
type compositeCommandEventObserver struct {
	observers []CommandEventObserver
}

func newCompositeCommandEventObserver(observers []CommandEventObserver) compositeCommandEventObserver {
	registered := make([]CommandEventObserver, 0, len(observers))
	for _, observer := range observers {
		if observer == nil {
			continue
		}
		registered = append(registered, observer)
	}
	return compositeCommandEventObserver{observers: registered}
}

// CommandStarted forwards the start notification.
func (composite compositeCommandEventObserver) CommandStarted(command ShellCommand) {
	for _, observer := range composite.observers {
		observer.CommandStarted(command)
	}
}

// CommandCompleted forwards the completion notification.
func (composite compositeCommandEventObserver) CommandCompleted(command ShellCommand, result ExecutionResult) {
	for _, observer := range composite.observers {
		observer.CommandCompleted(command, result)
	}
}

// CommandExecutionFailed forwards the execution failure notification.
func (composite compositeCommandEventObserver) CommandExecutionFailed(command ShellCommand, failure error) {
	for _, observer := range composite.observers {
		observer.CommandExecutionFailed(command, failure)
	}
}
