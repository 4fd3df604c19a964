// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with logging and lifecycle observers,
// and OSCommandRunner runs git and package manager processes either with
// captured output or attached to the caller's terminal.
package execshell
