package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush9goyal/graphql-k8s-demo/config"
	"github.com/ayush9goyal/graphql-k8s-demo/health"
)

func TestParseFlags(t *testing.T) {
	cfg, err := parseFlags([]string{"-log-level", "debug", "-log-format", "text", "-shutdown-timeout", "3s", "-validate"})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.Validate)
	assert.NoError(t, validateFlags(cfg))

	_, err = parseFlags([]string{"-h"})
	assert.ErrorIs(t, err, flag.ErrHelp)
}

func TestValidateFlags(t *testing.T) {
	base := func() *CLIConfig {
		return &CLIConfig{LogLevel: "info", LogFormat: "json", ShutdownTimeout: time.Second}
	}

	tests := []struct {
		name   string
		mutate func(*CLIConfig)
	}{
		{"log level", func(c *CLIConfig) { c.LogLevel = "trace" }},
		{"log format", func(c *CLIConfig) { c.LogFormat = "xml" }},
		{"shutdown timeout", func(c *CLIConfig) { c.ShutdownTimeout = 0 }},
		{"missing config file", func(c *CLIConfig) { c.ConfigPath = "does-not-exist.yaml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			assert.Error(t, validateFlags(cfg))
		})
	}
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-version"}, &out))
	assert.Equal(t, "storefront version "+Version+"\n", out.String())
}

func TestRun_PrintSchema(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-print-schema"}, &out))
	assert.Contains(t, out.String(), "type Query {")
	assert.Contains(t, out.String(), "createOrder(userId: ID!, items: [OrderItemInput!]!): Order")
}

func TestRun_ValidateMissingURI(t *testing.T) {
	t.Setenv(config.EnvMongoURI, "")
	t.Setenv(config.EnvStorageMode, "")

	err := run([]string{"-validate", "-log-level", "error"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGODB_URI")
}

func TestRun_ValidateMemory(t *testing.T) {
	t.Setenv(config.EnvStorageMode, "memory")

	assert.NoError(t, run([]string{"-validate", "-log-level", "error"}, &bytes.Buffer{}))
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogger(&buf, "warn", "json")

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, appName, entry["service"])
	assert.Equal(t, Version, entry["version"])
	assert.Equal(t, "value", entry["key"])
}

func TestGatewayConfig(t *testing.T) {
	cfg := config.Default()
	cfg.HTTP.Port = 8081
	cfg.HTTP.Path = "/api"
	cfg.HTTP.Playground = false

	gc := gatewayConfig(cfg)
	require.NoError(t, gc.Validate())
	assert.Equal(t, ":8081", gc.BindAddress)
	assert.Equal(t, "/api", gc.Path)
	assert.False(t, gc.EnablePlayground)
	assert.Equal(t, []string{"*"}, gc.CORSOrigins)
	assert.Equal(t, 30*time.Second, gc.Timeout())
	assert.Equal(t, "/metrics", gc.MetricsPath)
}

func TestOpenStore_Memory(t *testing.T) {
	store, err := openStore(context.Background(), config.StorageConfig{Mode: config.StorageModeMemory}, setupLogger(&bytes.Buffer{}, "error", "json"))
	require.NoError(t, err)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestSetupEvents_Disabled(t *testing.T) {
	checker := health.NewChecker(appName, time.Second)

	publisher, closeFn := setupEvents(context.Background(), config.NATSConfig{}, nil, checker, setupLogger(&bytes.Buffer{}, "error", "json"))
	defer closeFn()

	assert.NotNil(t, publisher)
	status := checker.Check(context.Background())
	assert.True(t, status.IsHealthy())
}
