package cmd

// Exit codes for the httpspec CLI
const (
	// ExitSuccess indicates every file passed
	ExitSuccess = 0

	// ExitTestFailure indicates at least one failed or invalid file
	ExitTestFailure = 1

	// ExitInvalidPath indicates a path argument that is neither a test
	// file nor an existing directory
	ExitInvalidPath = 2

	// ExitConfigError is not used by any command; configuration errors
	// exit with ExitUsageError
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage or any other error a
	// command returns (config, history or parse errors)
	ExitUsageError = 64
)
