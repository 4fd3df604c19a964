package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/samber/lo"
)

const (
	rebaseMergeDirectoryConstant        = "rebase-merge"
	rebaseApplyDirectoryConstant        = "rebase-apply"
	openRepositoryErrorTemplateConstant = "unable to open repository %s: %w"
	listRemotesErrorTemplateConstant    = "unable to list remotes: %w"
	worktreeErrorTemplateConstant       = "unable to access worktree: %w"
	worktreeStatusErrorTemplateConstant = "unable to compute worktree status: %w"
	metadataStatErrorTemplateConstant   = "unable to inspect %s: %w"
	indexReadErrorTemplateConstant      = "unable to read index: %w"
	unsupportedStorageMessageConstant   = "repository storage does not expose a filesystem"
	porcelainLineTemplateConstant       = "%s %s\n"
	bothModifiedCodeConstant            = "UU"
	bothAddedCodeConstant               = "AA"
	bothDeletedCodeConstant             = "DD"
	addedByUsCodeConstant               = "AU"
	addedByThemCodeConstant             = "UA"
	deletedByUsCodeConstant             = "DU"
	deletedByThemCodeConstant           = "UD"
)

// Merged index entries decode with stage 0; index.Merged shares its value with index.AncestorMode.
const mergedStageConstant index.Stage = 0

// ErrUnsupportedRepositoryStorage indicates the repository storage is not filesystem backed.
var ErrUnsupportedRepositoryStorage = errors.New(unsupportedStorageMessageConstant)

// LibraryInspector inspects repositories through go-git without spawning git.
type LibraryInspector struct{}

// NewLibraryInspector constructs a LibraryInspector.
func NewLibraryInspector() *LibraryInspector {
	return &LibraryInspector{}
}

// RebaseInProgress checks the repository metadata for rebase state directories.
func (inspector *LibraryInspector) RebaseInProgress(executionContext context.Context, repositoryPath string) (bool, error) {
	repository, openError := openRepository(repositoryPath)
	if openError != nil {
		return false, openError
	}

	storage, isFilesystemStorage := repository.Storer.(*filesystem.Storage)
	if !isFilesystemStorage {
		return false, ErrUnsupportedRepositoryStorage
	}

	metadataFilesystem := storage.Filesystem()
	for _, directoryName := range []string{rebaseMergeDirectoryConstant, rebaseApplyDirectoryConstant} {
		present, statError := directoryExists(metadataFilesystem, directoryName)
		if statError != nil {
			return false, statError
		}
		if present {
			return true, nil
		}
	}
	return false, nil
}

// ListRemotes returns the configured remote names sorted alphabetically.
func (inspector *LibraryInspector) ListRemotes(executionContext context.Context, repositoryPath string) ([]string, error) {
	repository, openError := openRepository(repositoryPath)
	if openError != nil {
		return nil, openError
	}

	remotes, remotesError := repository.Remotes()
	if remotesError != nil {
		return nil, fmt.Errorf(listRemotesErrorTemplateConstant, remotesError)
	}

	remoteNames := make([]string, 0, len(remotes))
	for _, remote := range remotes {
		remoteNames = append(remoteNames, remote.Config().Name)
	}
	sort.Strings(remoteNames)
	return remoteNames, nil
}

// PorcelainStatus renders the go-git worktree status as porcelain v1 lines. Paths with unmerged index
// stages are reported with git's conflict codes (UU, AA, DD, AU, UA, DU, UD) in place of their
// worktree status.
func (inspector *LibraryInspector) PorcelainStatus(executionContext context.Context, repositoryPath string) (PorcelainStatus, error) {
	repository, openError := openRepository(repositoryPath)
	if openError != nil {
		return PorcelainStatus{}, openError
	}

	worktree, worktreeError := repository.Worktree()
	if worktreeError != nil {
		return PorcelainStatus{}, fmt.Errorf(worktreeErrorTemplateConstant, worktreeError)
	}

	worktreeStatus, statusError := worktree.Status()
	if statusError != nil {
		return PorcelainStatus{}, fmt.Errorf(worktreeStatusErrorTemplateConstant, statusError)
	}

	conflictCodes, conflictError := unmergedConflictCodes(repository)
	if conflictError != nil {
		return PorcelainStatus{}, conflictError
	}

	return NewPorcelainStatus(renderPorcelain(worktreeStatus, conflictCodes)), nil
}

func openRepository(repositoryPath string) (*git.Repository, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return nil, ErrRepositoryPathRequired
	}

	repository, openError := git.PlainOpenWithOptions(trimmedRepositoryPath, &git.PlainOpenOptions{DetectDotGit: true})
	if openError != nil {
		return nil, fmt.Errorf(openRepositoryErrorTemplateConstant, trimmedRepositoryPath, openError)
	}
	return repository, nil
}

func directoryExists(metadataFilesystem billy.Filesystem, name string) (bool, error) {
	fileInfo, statError := metadataFilesystem.Stat(name)
	if statError != nil {
		if errors.Is(statError, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf(metadataStatErrorTemplateConstant, name, statError)
	}
	return fileInfo.IsDir(), nil
}

func unmergedConflictCodes(repository *git.Repository) (map[string]string, error) {
	repositoryIndex, indexError := repository.Storer.Index()
	if indexError != nil {
		return nil, fmt.Errorf(indexReadErrorTemplateConstant, indexError)
	}

	stagesByPath := map[string][]index.Stage{}
	for _, entry := range repositoryIndex.Entries {
		if entry.Stage == mergedStageConstant {
			continue
		}
		stagesByPath[entry.Name] = append(stagesByPath[entry.Name], entry.Stage)
	}

	return lo.MapValues(stagesByPath, func(stages []index.Stage, _ string) string {
		return conflictCode(stages)
	}), nil
}

func conflictCode(stages []index.Stage) string {
	hasAncestor := lo.Contains(stages, index.AncestorMode)
	hasOurs := lo.Contains(stages, index.OurMode)
	hasTheirs := lo.Contains(stages, index.TheirMode)

	switch {
	case hasAncestor && hasOurs && hasTheirs:
		return bothModifiedCodeConstant
	case hasOurs && hasTheirs:
		return bothAddedCodeConstant
	case hasAncestor && hasOurs:
		return deletedByThemCodeConstant
	case hasAncestor && hasTheirs:
		return deletedByUsCodeConstant
	case hasOurs:
		return addedByUsCodeConstant
	case hasTheirs:
		return addedByThemCodeConstant
	default:
		return bothDeletedCodeConstant
	}
}

func renderPorcelain(worktreeStatus git.Status, conflictCodes map[string]string) string {
	statusCodes := make(map[string]string, len(worktreeStatus)+len(conflictCodes))
	for path, fileStatus := range worktreeStatus {
		if fileStatus.Staging == git.Unmodified && fileStatus.Worktree == git.Unmodified {
			continue
		}
		statusCodes[path] = string([]byte{byte(fileStatus.Staging), byte(fileStatus.Worktree)})
	}
	for path, code := range conflictCodes {
		statusCodes[path] = code
	}

	paths := lo.Keys(statusCodes)
	sort.Strings(paths)

	var builder strings.Builder
	for _, path := range paths {
		builder.WriteString(fmt.Sprintf(porcelainLineTemplateConstant, statusCodes[path], path))
	}
	return builder.String()
}
