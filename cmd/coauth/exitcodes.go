package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (invalid config, no dataset configured)
	ExitDataError   = 3 // Data error (dataset unavailable, empty, or without usable rows)
	ExitNotFound    = 4 // Requested author not found
)
