package utils

import "context"

type commandContextKey string

const commandMetadataContextKeyConstant = commandContextKey("commandMetadata")

// CommandMetadata describes the resolved inputs shared by every command of one invocation.
type CommandMetadata struct {
	ConfigurationFilePath string
	RepositoryPath        string
}

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithMetadata attaches command metadata to the provided context.
func (accessor CommandContextAccessor) WithMetadata(parentContext context.Context, metadata CommandMetadata) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, commandMetadataContextKeyConstant, metadata)
}

// Metadata extracts command metadata from the provided context.
func (accessor CommandContextAccessor) Metadata(executionContext context.Context) (CommandMetadata, bool) {
	if executionContext == nil {
		return CommandMetadata{}, false
	}
	metadata, metadataAvailable := executionContext.Value(commandMetadataContextKeyConstant).(CommandMetadata)
	return metadata, metadataAvailable
}
