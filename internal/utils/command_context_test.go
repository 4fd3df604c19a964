package utils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/forksync/internal/utils"
)

func TestCommandContextAccessorRoundTrip(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	_, available := accessor.Metadata(context.Background())
	require.False(testInstance, available)

	metadata := utils.CommandMetadata{ConfigurationFilePath: "/etc/forksync/config.yaml", RepositoryPath: "/workspace/fork"}
	updatedContext := accessor.WithMetadata(context.Background(), metadata)

	extracted, available := accessor.Metadata(updatedContext)
	require.True(testInstance, available)
	require.Equal(testInstance, metadata, extracted)
}
