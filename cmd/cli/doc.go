// Package cli constructs the forksync command-line interface, wiring the
// Cobra command hierarchy, configuration loader, and structured logging
// primitives. The build and sync entry points execute the same application
// with a fixed subcommand.
package cli
