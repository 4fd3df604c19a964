package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/forksync/internal/gitrepo"
)

func TestPorcelainStatusConflictMarker(testInstance *testing.T) {
	testCases := []struct {
		name           string
		raw            string
		path           string
		expectedMarker bool
	}{
		{name: "both_modified", raw: "UU package-lock.json\n", path: "package-lock.json", expectedMarker: true},
		{name: "nested_path_is_not_marker", raw: "UU packages/cli/package-lock.json\n", path: "package-lock.json", expectedMarker: false},
		{name: "added_by_us_is_not_marker", raw: "AU package-lock.json\n", path: "package-lock.json", expectedMarker: false},
		{name: "other_file_conflicted", raw: "UU README.md\n", path: "package-lock.json", expectedMarker: false},
		{name: "empty_path", raw: "UU package-lock.json\n", path: "", expectedMarker: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			status := gitrepo.NewPorcelainStatus(testCase.raw)
			require.Equal(testInstance, testCase.expectedMarker, status.HasConflictMarker(testCase.path))
		})
	}
}

func TestPorcelainStatusUnmergedPaths(testInstance *testing.T) {
	raw := "UU package-lock.json\nAA docs/new.md\nDD old.txt\nAU added-by-us.txt\n M clean-change.go\nR  before.go -> after.go\n?? scratch.txt\n"
	status := gitrepo.NewPorcelainStatus(raw)

	require.Len(testInstance, status.Entries, 7)
	require.Equal(testInstance, []string{"package-lock.json", "docs/new.md", "old.txt", "added-by-us.txt"}, status.UnmergedPaths())
	require.Equal(testInstance, "after.go", status.Entries[5].Path)
	require.Equal(testInstance, raw, status.Raw)
}

func TestConflictMarker(testInstance *testing.T) {
	require.Equal(testInstance, "UU package-lock.json", gitrepo.ConflictMarker("package-lock.json"))
}
