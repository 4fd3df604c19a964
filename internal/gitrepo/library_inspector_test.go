package gitrepo_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/stretchr/testify/require"

	"github.com/temirov/forksync/internal/gitrepo"
)

func initializeRepository(testInstance *testing.T) (string, *git.Repository) {
	testInstance.Helper()
	repositoryPath := testInstance.TempDir()
	repository, initError := git.PlainInit(repositoryPath, false)
	require.NoError(testInstance, initError)
	return repositoryPath, repository
}

func TestLibraryInspectorRebaseInProgress(testInstance *testing.T) {
	testCases := []struct {
		name           string
		stateDirectory string
		expectedResult bool
	}{
		{name: "no_rebase", stateDirectory: "", expectedResult: false},
		{name: "merge_backend", stateDirectory: "rebase-merge", expectedResult: true},
		{name: "apply_backend", stateDirectory: "rebase-apply", expectedResult: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			repositoryPath, _ := initializeRepository(testInstance)
			if len(testCase.stateDirectory) > 0 {
				require.NoError(testInstance, os.MkdirAll(filepath.Join(repositoryPath, ".git", testCase.stateDirectory), 0o755))
			}

			inspector := gitrepo.NewLibraryInspector()
			inProgress, inspectionError := inspector.RebaseInProgress(context.Background(), repositoryPath)
			require.NoError(testInstance, inspectionError)
			require.Equal(testInstance, testCase.expectedResult, inProgress)
		})
	}
}

func TestLibraryInspectorListRemotes(testInstance *testing.T) {
	repositoryPath, repository := initializeRepository(testInstance)
	for _, remoteName := range []string{"upstream", "origin"} {
		_, remoteError := repository.CreateRemote(&config.RemoteConfig{
			Name: remoteName,
			URLs: []string{"https://github.com/example/" + remoteName},
		})
		require.NoError(testInstance, remoteError)
	}

	inspector := gitrepo.NewLibraryInspector()
	remotes, listError := inspector.ListRemotes(context.Background(), repositoryPath)
	require.NoError(testInstance, listError)
	require.Equal(testInstance, []string{"origin", "upstream"}, remotes)
}

func TestLibraryInspectorPorcelainStatus(testInstance *testing.T) {
	repositoryPath, _ := initializeRepository(testInstance)
	require.NoError(testInstance, os.WriteFile(filepath.Join(repositoryPath, "scratch.txt"), []byte("draft"), 0o644))

	inspector := gitrepo.NewLibraryInspector()
	status, statusError := inspector.PorcelainStatus(context.Background(), repositoryPath)
	require.NoError(testInstance, statusError)
	require.Equal(testInstance, "?? scratch.txt\n", status.Raw)
	require.Empty(testInstance, status.UnmergedPaths())
}

func storeBlob(testInstance *testing.T, repository *git.Repository, contents string) plumbing.Hash {
	testInstance.Helper()
	blobObject := repository.Storer.NewEncodedObject()
	blobObject.SetType(plumbing.BlobObject)
	blobWriter, writerError := blobObject.Writer()
	require.NoError(testInstance, writerError)
	_, writeError := blobWriter.Write([]byte(contents))
	require.NoError(testInstance, writeError)
	require.NoError(testInstance, blobWriter.Close())
	blobHash, storeError := repository.Storer.SetEncodedObject(blobObject)
	require.NoError(testInstance, storeError)
	return blobHash
}

func TestLibraryInspectorPorcelainStatusReportsUnmergedStages(testInstance *testing.T) {
	const conflictedPath = "package-lock.json"

	testCases := []struct {
		name         string
		stages       []index.Stage
		expectedCode string
	}{
		{name: "both_modified", stages: []index.Stage{index.AncestorMode, index.OurMode, index.TheirMode}, expectedCode: "UU"},
		{name: "both_added", stages: []index.Stage{index.OurMode, index.TheirMode}, expectedCode: "AA"},
		{name: "deleted_by_them", stages: []index.Stage{index.AncestorMode, index.OurMode}, expectedCode: "UD"},
		{name: "deleted_by_us", stages: []index.Stage{index.AncestorMode, index.TheirMode}, expectedCode: "DU"},
		{name: "added_by_us", stages: []index.Stage{index.OurMode}, expectedCode: "AU"},
		{name: "added_by_them", stages: []index.Stage{index.TheirMode}, expectedCode: "UA"},
		{name: "both_deleted", stages: []index.Stage{index.AncestorMode}, expectedCode: "DD"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			repositoryPath, repository := initializeRepository(testInstance)
			require.NoError(testInstance, os.WriteFile(filepath.Join(repositoryPath, conflictedPath), []byte("<<<<<<< ours\n=======\n>>>>>>> theirs\n"), 0o644))
			require.NoError(testInstance, os.WriteFile(filepath.Join(repositoryPath, "notes.txt"), []byte("draft"), 0o644))

			conflictedIndex := &index.Index{Version: 2}
			for _, stage := range testCase.stages {
				conflictedIndex.Entries = append(conflictedIndex.Entries, &index.Entry{
					Name:  conflictedPath,
					Hash:  storeBlob(testInstance, repository, fmt.Sprintf("{\"stage\": %d}\n", stage)),
					Mode:  filemode.Regular,
					Stage: stage,
				})
			}
			require.NoError(testInstance, repository.Storer.SetIndex(conflictedIndex))

			inspector := gitrepo.NewLibraryInspector()
			status, statusError := inspector.PorcelainStatus(context.Background(), repositoryPath)
			require.NoError(testInstance, statusError)
			require.Equal(testInstance, "?? notes.txt\n"+testCase.expectedCode+" "+conflictedPath+"\n", status.Raw)
			require.Equal(testInstance, []string{conflictedPath}, status.UnmergedPaths())
			require.Equal(testInstance, testCase.expectedCode == "UU", status.HasConflictMarker(conflictedPath))
		})
	}
}

func TestLibraryInspectorRejectsMissingRepository(testInstance *testing.T) {
	inspector := gitrepo.NewLibraryInspector()
	_, listError := inspector.ListRemotes(context.Background(), testInstance.TempDir())
	require.Error(testInstance, listError)

	_, emptyPathError := inspector.ListRemotes(context.Background(), "")
	require.ErrorIs(testInstance, emptyPathError, gitrepo.ErrRepositoryPathRequired)
}
