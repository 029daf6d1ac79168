package graphql

import (
	"fmt"
	"time"

	"github.com/ayush9goyal/graphql-k8s-demo/errors"
)

// Config holds configuration for the GraphQL HTTP server
type Config struct {
	// BindAddress is the HTTP bind address (default: ":4000")
	BindAddress string `json:"bind_address" yaml:"bind_address"`

	// Path is the GraphQL endpoint path (default: "/graphql")
	Path string `json:"path" yaml:"path"`

	// EnablePlayground serves GraphQL Playground at "/" (default: true)
	EnablePlayground bool `json:"enable_playground" yaml:"enable_playground"`

	// EnableCORS enables CORS headers (default: true)
	EnableCORS bool `json:"enable_cors" yaml:"enable_cors"`

	// CORSOrigins lists allowed CORS origins (default: ["*"])
	CORSOrigins []string `json:"cors_origins,omitempty" yaml:"cors_origins,omitempty"`

	// TimeoutStr bounds reading and writing one request (default: "30s")
	TimeoutStr string `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// MetricsPath serves Prometheus metrics when a metrics handler is given (default: "/metrics")
	MetricsPath string `json:"metrics_path,omitempty" yaml:"metrics_path,omitempty"`

	timeout time.Duration
}

// Validate fills defaults and checks the configuration
func (c *Config) Validate() error {
	if c.BindAddress == "" {
		c.BindAddress = ":4000"
	}

	if c.Path == "" {
		c.Path = "/graphql"
	}
	if c.Path[0] != '/' {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate", "path must start with /")
	}
	if c.Path == "/" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate", "path must not be /")
	}

	if c.MetricsPath == "" {
		c.MetricsPath = "/metrics"
	}
	if c.MetricsPath[0] != '/' || c.MetricsPath == c.Path {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"metrics_path must start with / and differ from path")
	}

	if c.TimeoutStr == "" {
		c.timeout = 30 * time.Second
	} else {
		timeout, err := time.ParseDuration(c.TimeoutStr)
		if err != nil {
			return errors.WrapInvalid(err, "Config", "Validate",
				fmt.Sprintf("invalid timeout format: %s", c.TimeoutStr))
		}
		if timeout < 100*time.Millisecond || timeout > 5*time.Minute {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
				"timeout must be between 100ms and 5m")
		}
		c.timeout = timeout
	}

	if c.EnableCORS && len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
	return nil
}

// Timeout returns the parsed timeout duration
func (c *Config) Timeout() time.Duration {
	if c.timeout == 0 {
		return 30 * time.Second
	}
	return c.timeout
}

// DefaultConfig returns the default server configuration
func DefaultConfig() Config {
	return Config{
		BindAddress:      ":4000",
		Path:             "/graphql",
		EnablePlayground: true,
		EnableCORS:       true,
		CORSOrigins:      []string{"*"},
		TimeoutStr:       "30s",
		MetricsPath:      "/metrics",
	}
}
