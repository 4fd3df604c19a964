// Package ui provides helpers for formatting human-readable console output.
//
// CommandEcho prints each streamed command line before it runs, the way an
// operator would see it typed into a shell. Captured queries stay silent.
// ConsoleCommandEventLogger routes the same lifecycle events through zap.
package ui
