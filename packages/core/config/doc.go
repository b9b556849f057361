// Package config handles configuration loading for httpspec.
//
// It provides functionality for:
//   - Loading configuration from .httpspec.yaml files
//   - Default configuration values
//   - The HTTP_THREAD_COUNT environment variable
package config
