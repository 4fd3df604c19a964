package upstream

import (
	"fmt"
	"strings"
)

const (
	conflictErrorTemplateConstant      = "rebase onto %s stopped on conflicts"
	conflictErrorPathsTemplateConstant = "rebase onto %s stopped on conflicts in %s"
	conflictPathSeparatorConstant      = ", "
)

// LockfileResolution records how far automatic lockfile conflict resolution progressed.
type LockfileResolution string

// Lockfile resolution outcomes.
const (
	LockfileNotAttempted       LockfileResolution = "not_attempted"
	LockfileResolved           LockfileResolution = "resolved"
	LockfileCheckoutFailed     LockfileResolution = "checkout_failed"
	LockfileRegenerationFailed LockfileResolution = "regeneration_failed"
	LockfileStagingFailed      LockfileResolution = "staging_failed"
)

// Partial reports whether resolution started but did not finish.
func (resolution LockfileResolution) Partial() bool {
	switch resolution {
	case LockfileCheckoutFailed, LockfileRegenerationFailed, LockfileStagingFailed:
		return true
	default:
		return false
	}
}

// ConflictError reports a rebase that stopped on conflicts and needs manual completion.
type ConflictError struct {
	Target        string
	Lockfile      LockfileResolution
	UnmergedPaths []string
	Cause         error
}

// Error describes the stopped rebase.
func (conflictError ConflictError) Error() string {
	if len(conflictError.UnmergedPaths) == 0 {
		return fmt.Sprintf(conflictErrorTemplateConstant, conflictError.Target)
	}
	return fmt.Sprintf(conflictErrorPathsTemplateConstant, conflictError.Target, strings.Join(conflictError.UnmergedPaths, conflictPathSeparatorConstant))
}

// Unwrap exposes the failed rebase command error.
func (conflictError ConflictError) Unwrap() error {
	return conflictError.Cause
}
