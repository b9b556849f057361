package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the httpspec.yaml configuration. CLI flags override it.
type Config struct {
	Threads int               `yaml:"threads,omitempty"`
	Timeout string            `yaml:"timeout,omitempty"` // Go duration string
	Rate    float64           `yaml:"rate,omitempty"`    // requests per second, 0 = unlimited
	NoColor bool              `yaml:"noColor,omitempty"`
	History string            `yaml:"history,omitempty"` // path to SQLite history database
	Headers map[string]string `yaml:"headers,omitempty"` // default headers for all requests
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".httpspec.yaml",
	".httpspec.yml",
	"httpspec.yaml",
}

// LoadConfig loads configuration from the specified path or searches
// the current directory.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory.
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}
	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// ThreadCountEnv is the environment variable that sets the worker count.
const ThreadCountEnv = "HTTP_THREAD_COUNT"

// ThreadCount resolves the worker pool size: HTTP_THREAD_COUNT wins
// over the config file; anything below 1 becomes 1.
func (c *Config) ThreadCount() int {
	n := c.Threads
	if val := os.Getenv(ThreadCountEnv); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			n = i
		}
	}
	if n < 1 {
		n = 1
	}
	return n
}

// GetTimeout parses the configured timeout, falling back to the default.
func (c *Config) GetTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout value %q: %w (use format like 30s, 1m, 500ms)", c.Timeout, err)
	}
	return d, nil
}
