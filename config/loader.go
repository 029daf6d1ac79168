package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ayush9goyal/graphql-k8s-demo/errors"
)

// Environment variables read by the loader
const (
	EnvMongoURI    = "MONGODB_URI"
	EnvPort        = "PORT"
	EnvNATSURL     = "NATS_URL"
	EnvStorageMode = "STOREFRONT_STORAGE_MODE"
	EnvDatabase    = "STOREFRONT_DATABASE"
	EnvHTTPPath    = "STOREFRONT_HTTP_PATH"
	EnvNATSToken   = "STOREFRONT_NATS_TOKEN"
)

// Loader handles configuration loading with layers and overrides
type Loader struct {
	layers     []string
	validation bool
	getenv     func(string) string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		layers: []string{},
		getenv: os.Getenv,
	}
}

// AddLayer adds a configuration file layer. Empty paths are ignored.
func (l *Loader) AddLayer(path string) {
	if path == "" {
		return
	}
	l.layers = append(l.layers, path)
}

// EnableValidation enables or disables configuration validation
func (l *Loader) EnableValidation(enable bool) {
	l.validation = enable
}

// Load loads and merges all configuration layers
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	for _, path := range l.layers {
		raw, err := l.loadRaw(path)
		if err != nil {
			return nil, errors.WrapInvalid(err, "Loader", "Load", "load "+path)
		}
		cfg, err = mergeFromMap(cfg, raw)
		if err != nil {
			return nil, errors.WrapInvalid(err, "Loader", "Load", "merge "+path)
		}
	}

	if err := l.applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if l.validation {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// loadRaw reads one layer into a generic map, choosing the decoder by extension
func (l *Loader) loadRaw(path string) (map[string]any, error) {
	data, err := safeReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
	default:
		if err := validateJSONDepth(data); err != nil {
			return nil, fmt.Errorf("invalid JSON structure: %w", err)
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
	}
	return raw, nil
}

// mergeFromMap merges configuration from a raw map, only overriding fields present in the map
func mergeFromMap(base *Config, override map[string]any) (*Config, error) {
	if len(override) == 0 {
		return base, nil
	}

	baseJSON, err := json.Marshal(base)
	if err != nil {
		return nil, err
	}
	var baseMap map[string]any
	if err := json.Unmarshal(baseJSON, &baseMap); err != nil {
		return nil, err
	}

	mergedJSON, err := json.Marshal(deepMergeMaps(baseMap, override))
	if err != nil {
		return nil, err
	}

	var merged Config
	if err := json.Unmarshal(mergedJSON, &merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// deepMergeMaps recursively merges two maps, with override taking precedence
func deepMergeMaps(base, override map[string]any) map[string]any {
	result := make(map[string]any, len(base))
	for k, v := range base {
		result[k] = v
	}

	for k, v := range override {
		if v == nil {
			continue
		}
		if baseMap, ok := base[k].(map[string]any); ok {
			if overrideMap, ok := v.(map[string]any); ok {
				result[k] = deepMergeMaps(baseMap, overrideMap)
				continue
			}
		}
		result[k] = v
	}
	return result
}

// applyEnvOverrides applies environment variable overrides
func (l *Loader) applyEnvOverrides(cfg *Config) error {
	lookup := func(key string) (string, error) {
		val := l.getenv(key)
		if err := validateEnvVar(key, val); err != nil {
			return "", errors.WrapInvalid(err, "Loader", "applyEnvOverrides", "read "+key)
		}
		return val, nil
	}

	overrides := []struct {
		key   string
		apply func(string) error
	}{
		{EnvMongoURI, func(v string) error { cfg.Storage.URI = v; return nil }},
		{EnvDatabase, func(v string) error { cfg.Storage.Database = v; return nil }},
		{EnvStorageMode, func(v string) error { cfg.Storage.Mode = strings.ToLower(v); return nil }},
		{EnvHTTPPath, func(v string) error { cfg.HTTP.Path = v; return nil }},
		{EnvNATSURL, func(v string) error { cfg.NATS.URL = v; return nil }},
		{EnvNATSToken, func(v string) error { cfg.NATS.Token = v; return nil }},
		{EnvPort, func(v string) error {
			port, err := strconv.Atoi(v)
			if err != nil {
				return errors.WrapInvalid(fmt.Errorf("%w: PORT %q is not a number", errors.ErrInvalidConfig, v),
					"Loader", "applyEnvOverrides", "parse PORT")
			}
			cfg.HTTP.Port = port
			return nil
		}},
	}

	for _, o := range overrides {
		val, err := lookup(o.key)
		if err != nil {
			return err
		}
		if val == "" {
			continue
		}
		if err := o.apply(val); err != nil {
			return err
		}
	}
	return nil
}
