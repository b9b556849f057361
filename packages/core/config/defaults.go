package config

import "time"

// DefaultTimeout is the per-request timeout when none is configured.
const DefaultTimeout = 30 * time.Second

// DefaultThreads is the worker count when neither HTTP_THREAD_COUNT
// nor the config file sets one.
const DefaultThreads = 1

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Threads: DefaultThreads,
		Timeout: "30s",
	}
}
