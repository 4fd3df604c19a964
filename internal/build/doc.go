// Package build runs the project rebuild sequence: dependency install, package build, and bundle.
package build
