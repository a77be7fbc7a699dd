package config

// GetDefault returns the default configuration
func GetDefault() *Config {
	return &Config{
		Workers:     0,    // one hasher per CPU
		MinFileSize: "0B", // empty files are still comparable content
		ExcludePatterns: []string{
			// User can add glob patterns to exclude, e.g. "*.tmp"
		},
		Retention: RetentionConfig{
			Keep: "first", // keep the first-discovered copy
		},
		DryRun:  false,
		Verbose: false,
	}
}
