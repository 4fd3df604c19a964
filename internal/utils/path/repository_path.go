// Package pathutils normalizes user-supplied filesystem paths.
package pathutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultRepositoryPathConstant         = "."
	absolutePathErrorTemplateConstant     = "unable to resolve repository path %s: %w"
	repositoryStatErrorTemplateConstant   = "unable to access repository path %s: %w"
	repositoryNotDirectoryMessageConstant = "repository path is not a directory"
)

// ErrRepositoryPathNotDirectory indicates the repository path names a regular file.
var ErrRepositoryPathNotDirectory = errors.New(repositoryNotDirectoryMessageConstant)

// RepositoryPathResolver turns a configured repository path into an absolute directory path.
type RepositoryPathResolver struct {
	homeExpander *HomeExpander
}

// NewRepositoryPathResolver constructs a resolver; a nil expander uses the operating system home directory.
func NewRepositoryPathResolver(homeExpander *HomeExpander) *RepositoryPathResolver {
	if homeExpander == nil {
		homeExpander = NewHomeExpander()
	}
	return &RepositoryPathResolver{homeExpander: homeExpander}
}

// Resolve trims, expands, and absolutizes the path, then verifies it is an existing directory.
// An empty path resolves to the working directory.
func (resolver *RepositoryPathResolver) Resolve(candidatePath string) (string, error) {
	trimmedPath := strings.TrimSpace(candidatePath)
	if len(trimmedPath) == 0 {
		trimmedPath = defaultRepositoryPathConstant
	}

	absolutePath, absoluteError := filepath.Abs(resolver.homeExpander.Expand(trimmedPath))
	if absoluteError != nil {
		return "", fmt.Errorf(absolutePathErrorTemplateConstant, trimmedPath, absoluteError)
	}

	fileInfo, statError := os.Stat(absolutePath)
	if statError != nil {
		return "", fmt.Errorf(repositoryStatErrorTemplateConstant, absolutePath, statError)
	}
	if !fileInfo.IsDir() {
		return "", fmt.Errorf(repositoryStatErrorTemplateConstant, absolutePath, ErrRepositoryPathNotDirectory)
	}

	return absolutePath, nil
}
