package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/temirov/forksync/internal/build"
	"github.com/temirov/forksync/internal/execshell"
	"github.com/temirov/forksync/internal/gitrepo"
)

const (
	rebaseInProgressMessageConstant      = "Rebase is currently in progress."
	resumeBuildMessageConstant           = "If you just finished the rebase, I'll proceed with rebuilding."
	checkingRemoteTemplateConstant       = "Checking for %s remote..."
	remoteExistsTemplateConstant         = "%s remote already exists."
	fetchingTemplateConstant             = "Fetching %s..."
	rebasingTemplateConstant             = "Rebasing onto %s..."
	conflictDetectedMessageConstant      = "Rebase conflict detected!"
	lockfileConflictTemplateConstant     = "Detected conflict in %s. Attempting automated resolution..."
	lockfileResolvedTemplateConstant     = "%s conflict resolved and staged."
	manualResolutionMessageConstant      = "Please resolve any remaining conflicts manually, then run 'git rebase --continue'."
	rerunMessageConstant                 = "Once the rebase is complete, run this script again to finish the build."
	synchronizedMessageConstant          = "Successfully synchronized with upstream, rebased, and rebuilt."
	lineTemplateConstant                 = "%s\n"
	remoteReferenceTemplateConstant      = "%s/%s"
	gitRemoteSubcommandConstant          = "remote"
	gitAddSubcommandConstant             = "add"
	gitFetchSubcommandConstant           = "fetch"
	gitRebaseSubcommandConstant          = "rebase"
	gitCheckoutSubcommandConstant        = "checkout"
	gitTheirsFlagConstant                = "--theirs"
	packageInstallSubcommandConstant     = "install"
	packageLockOnlyFlagConstant          = "--package-lock-only"
	packageIgnoreScriptsFlagConstant     = "--ignore-scripts"
	addRemoteErrorTemplateConstant       = "unable to add remote %s: %w"
	fetchErrorTemplateConstant           = "unable to fetch %s: %w"
	buildErrorTemplateConstant           = "rebuild after synchronization failed: %w"
	executorMissingMessageConstant       = "command executor not configured"
	inspectorMissingMessageConstant      = "repository inspector not configured"
	builderMissingMessageConstant        = "build runner not configured"
	repositoryPathMissingMessageConstant = "repository path must be provided"
	synchronizationStartedLogConstant    = "synchronization started"
	statusQueryFailedLogConstant         = "status query failed; treating marker as absent"
	rebaseResumedLogConstant             = "rebase in progress; resuming build"
	remoteAddedLogConstant               = "remote added"
	rebaseConflictLogConstant            = "rebase stopped on conflicts"
	lockfilePartialLogConstant           = "lockfile conflict resolution incomplete"
	lockfileStepFailedLogConstant        = "lockfile resolution step failed"
	synchronizationCompletedLogConstant  = "synchronization completed"
	logFieldRunIdentifierConstant        = "run_id"
	logFieldRepositoryPathConstant       = "repository_path"
	logFieldRemoteConstant               = "remote"
	logFieldRemoteHostConstant           = "remote_host"
	logFieldRemoteRepositoryConstant     = "remote_repository"
	logFieldTargetConstant               = "target"
	logFieldQueryConstant                = "query"
	logFieldLockfileConstant             = "lockfile"
	logFieldResolutionConstant           = "resolution"
	logFieldUnmergedPathsConstant        = "unmerged_paths"
	queryRebaseStateConstant             = "rebase_state"
	queryRemotesConstant                 = "remotes"
	queryPorcelainConstant               = "porcelain_status"
)

var (
	// ErrExecutorNotConfigured indicates the command executor dependency was missing.
	ErrExecutorNotConfigured = errors.New(executorMissingMessageConstant)
	// ErrInspectorNotConfigured indicates the repository inspector dependency was missing.
	ErrInspectorNotConfigured = errors.New(inspectorMissingMessageConstant)
	// ErrBuilderNotConfigured indicates the build runner dependency was missing.
	ErrBuilderNotConfigured = errors.New(builderMissingMessageConstant)
	// ErrRepositoryPathRequired indicates an empty repository path.
	ErrRepositoryPathRequired = errors.New(repositoryPathMissingMessageConstant)
)

// CommandExecutor runs git and package manager commands.
type CommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecutePackageManager(executionContext context.Context, program string, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// BuildRunner runs the rebuild sequence.
type BuildRunner interface {
	Run(executionContext context.Context, options build.Options) (build.Result, error)
}

// RunIdentifierGenerator produces correlation identifiers for a synchronization run.
type RunIdentifierGenerator func() string

// ServiceDependencies enumerates collaborators required by Service.
type ServiceDependencies struct {
	Executor               CommandExecutor
	Inspector              gitrepo.RepositoryInspector
	Builder                BuildRunner
	Output                 io.Writer
	Logger                 *zap.Logger
	RunIdentifierGenerator RunIdentifierGenerator
}

// Options configures a single synchronization run.
type Options struct {
	RepositoryPath string
	RemoteName     string
	RemoteURL      string
	Branch         string
	Lockfile       string
	PackageManager string
}

// Result summarizes a successful synchronization run.
type Result struct {
	RunIdentifier string
	RebaseResumed bool
	RemoteAdded   bool
	Build         build.Result
}

// Service orchestrates fetch, rebase, conflict handling, and rebuild.
type Service struct {
	executor               CommandExecutor
	inspector              gitrepo.RepositoryInspector
	builder                BuildRunner
	output                 io.Writer
	logger                 *zap.Logger
	runIdentifierGenerator RunIdentifierGenerator
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if dependencies.Inspector == nil {
		return nil, ErrInspectorNotConfigured
	}
	if dependencies.Builder == nil {
		return nil, ErrBuilderNotConfigured
	}

	output := dependencies.Output
	if output == nil {
		output = io.Discard
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	runIdentifierGenerator := dependencies.RunIdentifierGenerator
	if runIdentifierGenerator == nil {
		runIdentifierGenerator = uuid.NewString
	}

	return &Service{
		executor:               dependencies.Executor,
		inspector:              dependencies.Inspector,
		builder:                dependencies.Builder,
		output:                 output,
		logger:                 logger,
		runIdentifierGenerator: runIdentifierGenerator,
	}, nil
}

// Run synchronizes the repository with its upstream remote and rebuilds it.
func (service *Service) Run(executionContext context.Context, options Options) (Result, error) {
	sanitizedOptions, optionsError := sanitizeOptions(options)
	if optionsError != nil {
		return Result{}, optionsError
	}

	result := Result{RunIdentifier: service.runIdentifierGenerator()}
	runLogger := service.logger.With(
		zap.String(logFieldRunIdentifierConstant, result.RunIdentifier),
		zap.String(logFieldRepositoryPathConstant, sanitizedOptions.RepositoryPath),
	)
	runLogger.Info(synchronizationStartedLogConstant, zap.String(logFieldRemoteConstant, sanitizedOptions.RemoteName))

	rebaseInProgress, rebaseStateError := service.inspector.RebaseInProgress(executionContext, sanitizedOptions.RepositoryPath)
	if rebaseStateError != nil {
		runLogger.Warn(statusQueryFailedLogConstant, zap.String(logFieldQueryConstant, queryRebaseStateConstant), zap.Error(rebaseStateError))
	}

	if rebaseInProgress {
		service.printLine(rebaseInProgressMessageConstant)
		service.printLine(resumeBuildMessageConstant)
		runLogger.Info(rebaseResumedLogConstant)
		result.RebaseResumed = true
	} else {
		remoteAdded, synchronizationError := service.synchronize(executionContext, runLogger, sanitizedOptions)
		result.RemoteAdded = remoteAdded
		if synchronizationError != nil {
			return result, synchronizationError
		}
	}

	buildResult, buildError := service.builder.Run(executionContext, build.Options{
		RepositoryPath: sanitizedOptions.RepositoryPath,
		PackageManager: sanitizedOptions.PackageManager,
	})
	result.Build = buildResult
	if buildError != nil {
		return result, fmt.Errorf(buildErrorTemplateConstant, buildError)
	}

	service.printLine(synchronizedMessageConstant)
	runLogger.Info(synchronizationCompletedLogConstant)
	return result, nil
}

func (service *Service) synchronize(executionContext context.Context, runLogger *zap.Logger, options Options) (bool, error) {
	remoteAdded, remoteError := service.ensureRemote(executionContext, runLogger, options)
	if remoteError != nil {
		return remoteAdded, remoteError
	}

	service.printLine(fmt.Sprintf(fetchingTemplateConstant, options.RemoteName))
	if _, fetchError := service.executeGit(executionContext, options.RepositoryPath, gitFetchSubcommandConstant, options.RemoteName); fetchError != nil {
		return remoteAdded, fmt.Errorf(fetchErrorTemplateConstant, options.RemoteName, fetchError)
	}

	rebaseTarget := fmt.Sprintf(remoteReferenceTemplateConstant, options.RemoteName, options.Branch)
	service.printLine(fmt.Sprintf(rebasingTemplateConstant, rebaseTarget))
	if _, rebaseError := service.executeGit(executionContext, options.RepositoryPath, gitRebaseSubcommandConstant, rebaseTarget); rebaseError != nil {
		return remoteAdded, service.handleConflicts(executionContext, runLogger, options, rebaseTarget, rebaseError)
	}

	return remoteAdded, nil
}

func (service *Service) ensureRemote(executionContext context.Context, runLogger *zap.Logger, options Options) (bool, error) {
	service.printLine(fmt.Sprintf(checkingRemoteTemplateConstant, options.RemoteName))

	remotes, remotesError := service.inspector.ListRemotes(executionContext, options.RepositoryPath)
	if remotesError != nil {
		runLogger.Warn(statusQueryFailedLogConstant, zap.String(logFieldQueryConstant, queryRemotesConstant), zap.Error(remotesError))
	}

	if gitrepo.ContainsRemote(remotes, options.RemoteName) {
		service.printLine(fmt.Sprintf(remoteExistsTemplateConstant, capitalize(options.RemoteName)))
		return false, nil
	}

	remoteLocation, parseError := gitrepo.ParseRemoteURL(options.RemoteURL)
	if parseError != nil {
		return false, fmt.Errorf(addRemoteErrorTemplateConstant, options.RemoteName, parseError)
	}

	if _, addError := service.executeGit(executionContext, options.RepositoryPath, gitRemoteSubcommandConstant, gitAddSubcommandConstant, options.RemoteName, options.RemoteURL); addError != nil {
		return false, fmt.Errorf(addRemoteErrorTemplateConstant, options.RemoteName, addError)
	}
	runLogger.Info(remoteAddedLogConstant,
		zap.String(logFieldRemoteConstant, options.RemoteName),
		zap.String(logFieldRemoteHostConstant, remoteLocation.Host),
		zap.String(logFieldRemoteRepositoryConstant, remoteLocation.Slug()),
	)
	return true, nil
}

// handleConflicts always returns a ConflictError; resolution step failures are absorbed.
func (service *Service) handleConflicts(executionContext context.Context, runLogger *zap.Logger, options Options, rebaseTarget string, rebaseError error) error {
	service.printLine("")
	service.printLine(conflictDetectedMessageConstant)

	porcelainStatus, statusError := service.inspector.PorcelainStatus(executionContext, options.RepositoryPath)
	if statusError != nil {
		runLogger.Warn(statusQueryFailedLogConstant, zap.String(logFieldQueryConstant, queryPorcelainConstant), zap.Error(statusError))
	}

	resolution := LockfileNotAttempted
	if porcelainStatus.HasConflictMarker(options.Lockfile) {
		service.printLine(fmt.Sprintf(lockfileConflictTemplateConstant, options.Lockfile))
		resolution = service.resolveLockfile(executionContext, runLogger, options)
	}

	unmergedPaths := porcelainStatus.UnmergedPaths()
	if resolution == LockfileResolved {
		unmergedPaths = lo.Without(unmergedPaths, options.Lockfile)
	}

	service.printLine("")
	service.printLine(manualResolutionMessageConstant)
	service.printLine(rerunMessageConstant)

	if resolution.Partial() {
		runLogger.Warn(lockfilePartialLogConstant, zap.String(logFieldLockfileConstant, options.Lockfile), zap.String(logFieldResolutionConstant, string(resolution)))
	}
	runLogger.Info(
		rebaseConflictLogConstant,
		zap.String(logFieldTargetConstant, rebaseTarget),
		zap.String(logFieldResolutionConstant, string(resolution)),
		zap.Strings(logFieldUnmergedPathsConstant, unmergedPaths),
	)

	return ConflictError{
		Target:        rebaseTarget,
		Lockfile:      resolution,
		UnmergedPaths: unmergedPaths,
		Cause:         rebaseError,
	}
}

func (service *Service) resolveLockfile(executionContext context.Context, runLogger *zap.Logger, options Options) LockfileResolution {
	if _, checkoutError := service.executeGit(executionContext, options.RepositoryPath, gitCheckoutSubcommandConstant, gitTheirsFlagConstant, options.Lockfile); checkoutError != nil {
		runLogger.Debug(lockfileStepFailedLogConstant, zap.String(logFieldResolutionConstant, string(LockfileCheckoutFailed)), zap.Error(checkoutError))
		return LockfileCheckoutFailed
	}

	_, regenerationError := service.executor.ExecutePackageManager(executionContext, options.PackageManager, execshell.CommandDetails{
		Arguments:        []string{packageInstallSubcommandConstant, packageLockOnlyFlagConstant, packageIgnoreScriptsFlagConstant},
		WorkingDirectory: options.RepositoryPath,
		StreamOutput:     true,
	})
	if regenerationError != nil {
		runLogger.Debug(lockfileStepFailedLogConstant, zap.String(logFieldResolutionConstant, string(LockfileRegenerationFailed)), zap.Error(regenerationError))
		return LockfileRegenerationFailed
	}

	// The staged message is printed even when staging fails.
	_, stagingError := service.executeGit(executionContext, options.RepositoryPath, gitAddSubcommandConstant, options.Lockfile)
	service.printLine(fmt.Sprintf(lockfileResolvedTemplateConstant, options.Lockfile))
	if stagingError != nil {
		runLogger.Debug(lockfileStepFailedLogConstant, zap.String(logFieldResolutionConstant, string(LockfileStagingFailed)), zap.Error(stagingError))
		return LockfileStagingFailed
	}
	return LockfileResolved
}

func (service *Service) executeGit(executionContext context.Context, repositoryPath string, arguments ...string) (execshell.ExecutionResult, error) {
	return service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
		StreamOutput:     true,
	})
}

func (service *Service) printLine(message string) {
	fmt.Fprintf(service.output, lineTemplateConstant, message)
}

func sanitizeOptions(options Options) (Options, error) {
	repositoryPath := strings.TrimSpace(options.RepositoryPath)
	if len(repositoryPath) == 0 {
		return Options{}, ErrRepositoryPathRequired
	}

	defaults := DefaultConfiguration()
	return Options{
		RepositoryPath: repositoryPath,
		RemoteName:     valueOrDefault(options.RemoteName, defaults.Remote),
		RemoteURL:      valueOrDefault(options.RemoteURL, defaults.RemoteURL),
		Branch:         valueOrDefault(options.Branch, defaults.Branch),
		Lockfile:       valueOrDefault(options.Lockfile, defaults.Lockfile),
		PackageManager: valueOrDefault(options.PackageManager, build.DefaultConfiguration().PackageManager),
	}, nil
}

func capitalize(value string) string {
	firstRune, runeWidth := utf8.DecodeRuneInString(value)
	if firstRune == utf8.RuneError {
		return value
	}
	return string(unicode.ToUpper(firstRune)) + value[runeWidth:]
}
