package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayush9goyal/graphql-k8s-demo/errors"
)

// Storage mode constants
const (
	StorageModeMongo  = "mongo"  // MongoDB, the production backend
	StorageModeMemory = "memory" // In-process documents, lost on exit
)

// Config represents the complete application configuration
type Config struct {
	HTTP    HTTPConfig    `json:"http" yaml:"http"`
	Storage StorageConfig `json:"storage" yaml:"storage"`
	NATS    NATSConfig    `json:"nats" yaml:"nats"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

// HTTPConfig defines the GraphQL listener
type HTTPConfig struct {
	Port        int      `json:"port" yaml:"port"`
	Path        string   `json:"path" yaml:"path"`
	Playground  bool     `json:"playground" yaml:"playground"`
	CORS        bool     `json:"cors" yaml:"cors"`
	CORSOrigins []string `json:"cors_origins,omitempty" yaml:"cors_origins,omitempty"`
	Timeout     Duration `json:"timeout" yaml:"timeout"`
}

// StorageConfig selects and configures the document store
type StorageConfig struct {
	Mode           string   `json:"mode" yaml:"mode"`
	URI            string   `json:"uri,omitempty" yaml:"uri,omitempty"`
	Database       string   `json:"database,omitempty" yaml:"database,omitempty"`
	ConnectTimeout Duration `json:"connect_timeout" yaml:"connect_timeout"`
}

// NATSConfig defines where change events are published. An empty URL
// disables publishing.
type NATSConfig struct {
	URL           string   `json:"url,omitempty" yaml:"url,omitempty"`
	SubjectPrefix string   `json:"subject_prefix" yaml:"subject_prefix"`
	MaxReconnects int      `json:"max_reconnects" yaml:"max_reconnects"`
	ReconnectWait Duration `json:"reconnect_wait" yaml:"reconnect_wait"`
	Username      string   `json:"username,omitempty" yaml:"username,omitempty"`
	Password      string   `json:"password,omitempty" yaml:"password,omitempty"`
	Token         string   `json:"token,omitempty" yaml:"token,omitempty"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path" yaml:"path"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Port:       4000,
			Path:       "/graphql",
			Playground: true,
			CORS:       true,
			Timeout:    Duration(30 * time.Second),
		},
		Storage: StorageConfig{
			Mode:           StorageModeMongo,
			ConnectTimeout: Duration(10 * time.Second),
		},
		NATS: NATSConfig{
			SubjectPrefix: "storefront",
			MaxReconnects: -1,
			ReconnectWait: Duration(2 * time.Second),
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks if the config is valid
func (c *Config) Validate() error {
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return invalid("http.port %d out of range", c.HTTP.Port)
	}
	if !strings.HasPrefix(c.HTTP.Path, "/") || c.HTTP.Path == "/" {
		return invalid("http.path %q must start with / and not be /", c.HTTP.Path)
	}
	if c.HTTP.Timeout.Duration() <= 0 {
		return invalid("http.timeout must be positive")
	}

	switch c.Storage.Mode {
	case StorageModeMongo:
		if c.Storage.URI == "" {
			return errors.WrapFatal(errors.ErrMissingConfig, "Config", "Validate",
				"storage.uri (MONGODB_URI) is required in mongo mode")
		}
		if c.Storage.ConnectTimeout.Duration() <= 0 {
			return invalid("storage.connect_timeout must be positive")
		}
	case StorageModeMemory:
	default:
		return invalid("storage.mode %q must be %s or %s", c.Storage.Mode, StorageModeMongo, StorageModeMemory)
	}

	if c.NATS.URL != "" && !isValidNATSSubjectPart(c.NATS.SubjectPrefix) {
		return invalid(
			"nats.subject_prefix %q is not valid for NATS subjects (must be alphanumeric with dots, dashes, underscores)",
			c.NATS.SubjectPrefix)
	}

	if c.Metrics.Enabled {
		if !strings.HasPrefix(c.Metrics.Path, "/") || c.Metrics.Path == c.HTTP.Path {
			return invalid("metrics.path %q must start with / and differ from http.path", c.Metrics.Path)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.WrapInvalid(fmt.Errorf("%w: "+format, append([]any{errors.ErrInvalidConfig}, args...)...),
		"Config", "Validate", "check configuration")
}

// isValidNATSSubjectPart checks if a string is valid for use in NATS subjects.
// Valid characters are alphanumeric, dots, dashes, and underscores.
func isValidNATSSubjectPart(s string) bool {
	if s == "" || strings.HasPrefix(s, ".") || strings.HasSuffix(s, ".") || strings.Contains(s, "..") {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// String renders the configuration as JSON with credentials masked
func (c *Config) String() string {
	redacted := *c
	redacted.Storage.URI = redactURI(c.Storage.URI)
	if redacted.NATS.URL != "" {
		redacted.NATS.URL = redactURI(c.NATS.URL)
	}
	if redacted.NATS.Password != "" {
		redacted.NATS.Password = "xxxxx"
	}
	if redacted.NATS.Token != "" {
		redacted.NATS.Token = "xxxxx"
	}

	data, err := json.Marshal(redacted)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return string(data)
}

func redactURI(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}

// Duration is a time.Duration that reads and writes as a duration string
type Duration time.Duration

// Duration returns d as a time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// MarshalJSON writes d as a duration string
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts a duration string or a number of nanoseconds
func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return d.set(v)
}

// UnmarshalYAML accepts a duration string or a number of nanoseconds
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) set(v any) error {
	switch val := v.(type) {
	case string:
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", val, err)
		}
		*d = Duration(parsed)
	case float64:
		*d = Duration(int64(val))
	case int:
		*d = Duration(int64(val))
	default:
		return fmt.Errorf("invalid duration %v", v)
	}
	return nil
}
