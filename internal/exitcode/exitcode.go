// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, bad flags, bad input).
	UserError = 1

	// ConfigError indicates an auth or configuration error.
	ConfigError = 2

	// LoadError indicates the initial load or a backend call failed.
	LoadError = 3
)
