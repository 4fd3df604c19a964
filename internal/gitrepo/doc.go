// Package gitrepo answers read-only questions about a Git working copy.
//
// CLIInspector shells out through execshell and matches the literal text
// git prints. LibraryInspector answers the same questions through go-git
// without parsing command output. Both satisfy RepositoryInspector.
package gitrepo
