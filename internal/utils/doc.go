// Package utils exposes reusable helpers consumed by the forksync commands.
//
// ConfigurationLoader layers embedded defaults, configuration files, and
// FORKSYNC_* environment variables through Viper and validates the result.
// LoggerFactory builds zap loggers for the supported levels and encodings.
package utils
