package main

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"time"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath      string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	ShowVersion     bool
	Validate        bool
	PrintSchema     bool
}

func parseFlags(args []string) (*CLIConfig, error) {
	cfg := &CLIConfig{}
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)

	// Define flags with environment variable fallback
	fs.StringVar(&cfg.ConfigPath, "config",
		getEnv("STOREFRONT_CONFIG", ""),
		"Path to a JSON or YAML configuration file (env: STOREFRONT_CONFIG)")

	fs.StringVar(&cfg.ConfigPath, "c",
		getEnv("STOREFRONT_CONFIG", ""),
		"Path to a JSON or YAML configuration file (env: STOREFRONT_CONFIG)")

	fs.StringVar(&cfg.LogLevel, "log-level",
		getEnv("STOREFRONT_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: STOREFRONT_LOG_LEVEL)")

	fs.StringVar(&cfg.LogFormat, "log-format",
		getEnv("STOREFRONT_LOG_FORMAT", "json"),
		"Log format: json, text (env: STOREFRONT_LOG_FORMAT)")

	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout",
		getEnvDuration("STOREFRONT_SHUTDOWN_TIMEOUT", 15*time.Second),
		"Graceful shutdown timeout (env: STOREFRONT_SHUTDOWN_TIMEOUT)")

	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	fs.BoolVar(&cfg.Validate, "validate", false, "Validate configuration and exit")
	fs.BoolVar(&cfg.PrintSchema, "print-schema", false, "Verify and print the GraphQL schema, then exit")

	fs.Usage = func() {
		printDetailedHelp(fs)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.PrintSchema {
		return nil
	}

	if cfg.ConfigPath != "" {
		if _, err := os.Stat(cfg.ConfigPath); err != nil {
			return fmt.Errorf("config file not found: %s", cfg.ConfigPath)
		}
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	if !slices.Contains([]string{"json", "text"}, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout: %s", cfg.ShutdownTimeout)
	}
	return nil
}

func printDetailedHelp(fs *flag.FlagSet) {
	_, _ = fmt.Fprintf(os.Stderr, `%s - e-commerce GraphQL API

Usage: %s [options]

Options:
`, appName, os.Args[0])
	fs.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Environment:
  MONGODB_URI               MongoDB connection string (required in mongo mode)
  PORT                      HTTP port (default 4000)
  NATS_URL                  NATS server for change events (optional)
  STOREFRONT_STORAGE_MODE   mongo or memory

Examples:
  # Run against a local MongoDB
  MONGODB_URI=mongodb://localhost:27017/shop %s

  # Run with debug logging and no database
  STOREFRONT_STORAGE_MODE=memory %s --log-level=debug --log-format=text

  # Validate configuration only
  %s --config=configs/storefront.yaml --validate

Version: %s
Build: %s
`, os.Args[0], os.Args[0], os.Args[0], Version, BuildTime)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
