package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/fenilsonani/dupescan/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Workers         int             `yaml:"workers"`       // 0 means one per CPU
	MinFileSize     string          `yaml:"min_file_size"` // e.g. "1KB"; files below are ignored
	ExcludePatterns []string        `yaml:"exclude_patterns"`
	Retention       RetentionConfig `yaml:"retention"`
	DryRun          bool            `yaml:"dry_run"`
	Verbose         bool            `yaml:"verbose"`
}

// RetentionConfig selects which member of a duplicate group survives
type RetentionConfig struct {
	Keep string `yaml:"keep"` // "first", "oldest" or "newest"
}

// Load loads configuration from a file, falling back to defaults when the
// file does not exist.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefault(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Save saves configuration to a file
func Save(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}

	if c.MinFileSize != "" {
		if _, err := utils.ParseSize(c.MinFileSize); err != nil {
			return fmt.Errorf("invalid min_file_size: %w", err)
		}
	}

	for _, pattern := range c.ExcludePatterns {
		if _, err := filepath.Match(pattern, "probe"); err != nil {
			return fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
	}

	switch c.Retention.Keep {
	case "", "first", "oldest", "newest":
	default:
		return fmt.Errorf("retention.keep must be one of first, oldest, newest (got %q)", c.Retention.Keep)
	}

	return nil
}

// EffectiveWorkers returns the hashing pool size to use
func (c *Config) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// MinFileSizeBytes returns the minimum file size in bytes. Validate must have
// been called first; malformed values count as zero.
func (c *Config) MinFileSizeBytes() int64 {
	if c.MinFileSize == "" {
		return 0
	}
	n, err := utils.ParseSize(c.MinFileSize)
	if err != nil {
		return 0
	}
	return n
}

// GetConfigPath returns the default config path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "dupescan", "config.yaml"), nil
}
