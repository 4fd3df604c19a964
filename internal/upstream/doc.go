// Package upstream synchronizes a fork with its upstream remote.
//
// A run checks for a rebase already in progress, ensures the upstream remote
// exists, fetches, and rebases the current branch onto the upstream branch.
// A failed rebase is terminal: the lockfile conflict is resolved automatically
// when it is the conflicted file, the user is told to finish the rebase, and
// the run fails. Every other path ends with the rebuild sequence.
package upstream
