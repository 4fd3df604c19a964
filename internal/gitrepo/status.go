package gitrepo

import (
	"bufio"
	"strings"

	"github.com/samber/lo"
)

const (
	porcelainMinimumLineLengthConstant = 4
	porcelainPathOffsetConstant        = 3
	renameSeparatorConstant            = " -> "
	conflictMarkerPrefixConstant       = "UU "
	unmergedStatusCodeConstant         = 'U'
	addedStatusCodeConstant            = 'A'
	deletedStatusCodeConstant          = 'D'
	renamedStatusCodeConstant          = 'R'
)

// StatusEntry is one line of `git status --porcelain` output.
type StatusEntry struct {
	IndexStatus    byte
	WorktreeStatus byte
	Path           string
}

// Unmerged reports whether the entry is in a conflicted state.
func (entry StatusEntry) Unmerged() bool {
	if entry.IndexStatus == unmergedStatusCodeConstant || entry.WorktreeStatus == unmergedStatusCodeConstant {
		return true
	}
	// AA and DD are both-added and both-deleted conflicts.
	bothAdded := entry.IndexStatus == addedStatusCodeConstant && entry.WorktreeStatus == addedStatusCodeConstant
	bothDeleted := entry.IndexStatus == deletedStatusCodeConstant && entry.WorktreeStatus == deletedStatusCodeConstant
	return bothAdded || bothDeleted
}

// PorcelainStatus holds raw porcelain output together with its parsed entries.
type PorcelainStatus struct {
	Raw     string
	Entries []StatusEntry
}

// NewPorcelainStatus parses raw `git status --porcelain` output.
func NewPorcelainStatus(raw string) PorcelainStatus {
	return PorcelainStatus{Raw: raw, Entries: parsePorcelainEntries(raw)}
}

// ConflictMarker returns the literal porcelain line prefix for a path modified on both sides.
func ConflictMarker(path string) string {
	return conflictMarkerPrefixConstant + path
}

// HasConflictMarker performs a literal substring search for the both-modified marker of path.
func (status PorcelainStatus) HasConflictMarker(path string) bool {
	if len(strings.TrimSpace(path)) == 0 {
		return false
	}
	return strings.Contains(status.Raw, ConflictMarker(path))
}

// UnmergedPaths lists conflicted paths in output order.
func (status PorcelainStatus) UnmergedPaths() []string {
	return lo.FilterMap(status.Entries, func(entry StatusEntry, _ int) (string, bool) {
		return entry.Path, entry.Unmerged()
	})
}

func parsePorcelainEntries(raw string) []StatusEntry {
	var entries []StatusEntry
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(line) < porcelainMinimumLineLengthConstant {
			continue
		}

		entry := StatusEntry{
			IndexStatus:    line[0],
			WorktreeStatus: line[1],
			Path:           strings.TrimSpace(line[porcelainPathOffsetConstant:]),
		}
		if entry.IndexStatus == renamedStatusCodeConstant {
			if _, renamedPath, renamed := strings.Cut(entry.Path, renameSeparatorConstant); renamed {
				entry.Path = renamedPath
			}
		}
		entries = append(entries, entry)
	}
	return entries
}
