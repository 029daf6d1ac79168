package graphql

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush9goyal/graphql-k8s-demo/errors"
)

func newTestServer(t *testing.T, config Config, opts ...ServerOption) http.Handler {
	t.Helper()

	f := newFixture(t)
	server, err := NewServer(config, f.handler, nil, opts...)
	require.NoError(t, err)
	require.NoError(t, server.Setup())
	return server.Handler()
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"default config", DefaultConfig(), false},
		{"relative path", Config{Path: "graphql"}, true},
		{"root path", Config{Path: "/"}, true},
		{"metrics clash", Config{Path: "/graphql", MetricsPath: "/graphql"}, true},
		{"bad timeout", Config{TimeoutStr: "soon"}, true},
		{"timeout too short", Config{TimeoutStr: "10ms"}, true},
		{"timeout too long", Config{TimeoutStr: "1h"}, true},
		{"custom timeout", Config{TimeoutStr: "5s"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsInvalid(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	config := Config{EnableCORS: true}
	require.NoError(t, config.Validate())

	assert.Equal(t, ":4000", config.BindAddress)
	assert.Equal(t, "/graphql", config.Path)
	assert.Equal(t, "/metrics", config.MetricsPath)
	assert.Equal(t, []string{"*"}, config.CORSOrigins)
	assert.Equal(t, 30*time.Second, config.Timeout())

	config = Config{TimeoutStr: "2s"}
	require.NoError(t, config.Validate())
	assert.Equal(t, 2*time.Second, config.Timeout())
}

func TestNewServer_RequiresHandler(t *testing.T) {
	_, err := NewServer(DefaultConfig(), nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))

	_, err = NewServer(Config{Path: "nope"}, &Handler{}, nil)
	assert.True(t, errors.IsInvalid(err))
}

func TestServer_Routes(t *testing.T) {
	health := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "healthy")
	})
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "# metrics")
	})
	handler := newTestServer(t, DefaultConfig(), WithHealthHandler(health), WithMetricsHandler(metrics))

	tests := []struct {
		name     string
		method   string
		path     string
		status   int
		contains string
	}{
		{"graphql", http.MethodGet, "/graphql?query=%7Busers%7Bid%7D%7D", http.StatusOK, `"users":[]`},
		{"sdl", http.MethodGet, "/schema.graphql", http.StatusOK, "input OrderItemInput"},
		{"health", http.MethodGet, "/health", http.StatusOK, "healthy"},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK, "# metrics"},
		{"playground", http.MethodGet, "/", http.StatusOK, "/graphql"},
		{"unknown", http.MethodGet, "/nope", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}

func TestServer_PlaygroundDisabled(t *testing.T) {
	config := DefaultConfig()
	config.EnablePlayground = false
	handler := newTestServer(t, config)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code, "health is only served when configured")
}

func TestServer_RequestID(t *testing.T) {
	handler := newTestServer(t, DefaultConfig())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/schema.graphql", nil))
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/schema.graphql", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/schema.graphql", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36, "oversized ids are replaced")
}

func TestServer_CORS(t *testing.T) {
	config := DefaultConfig()
	config.CORSOrigins = []string{"https://shop.example.com"}
	handler := newTestServer(t, config)

	req := httptest.NewRequest(http.MethodOptions, "/graphql", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shop.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")

	req = httptest.NewRequest(http.MethodOptions, "/graphql", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_StartStop(t *testing.T) {
	config := DefaultConfig()
	config.BindAddress = "127.0.0.1:0"

	server, err := NewServer(config, newFixture(t).handler, nil)
	require.NoError(t, err)

	ctx := context.Background()
	assert.Error(t, server.Start(ctx, nil), "start before setup fails")

	require.NoError(t, server.Setup())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- server.Start(ctx, ready) }()

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not become ready")
	}
	assert.True(t, server.IsRunning())

	require.NoError(t, server.Stop(time.Second))
	assert.False(t, server.IsRunning())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
}
