package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
)

// Config holds the runtime configuration for the fabulist binary.
type Config struct {
	// ServerAddr is the HTTP listen address. When empty, the binary runs
	// the interactive REPL instead of serving.
	ServerAddr        string `json:"server_addr"`
	LogLevel          string `json:"log_level"`
	CorpusPath        string `json:"corpus_path"`
	StatsDatabasePath string `json:"stats_database_path"`
	// DefaultTarget is the target output length, in characters, used when
	// a request does not specify one.
	DefaultTarget int `json:"default_target"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		ServerAddr:        "",
		LogLevel:          "info",
		CorpusPath:        "./corpus.txt",
		StatsDatabasePath: "./data/fabulist_stats.db?_journal_mode=WAL&_busy_timeout=5000",
		DefaultTarget:     20,
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		// If the file doesn't exist, create it with the default config.
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// Log a warning instead of failing, as the binary can still run with defaults.
				fmt.Printf("warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}
