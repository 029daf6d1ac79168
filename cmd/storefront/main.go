// Package main runs the storefront GraphQL API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/ayush9goyal/graphql-k8s-demo/commerce"
	"github.com/ayush9goyal/graphql-k8s-demo/config"
	"github.com/ayush9goyal/graphql-k8s-demo/events"
	gql "github.com/ayush9goyal/graphql-k8s-demo/gateway/graphql"
	"github.com/ayush9goyal/graphql-k8s-demo/health"
	"github.com/ayush9goyal/graphql-k8s-demo/metric"
	"github.com/ayush9goyal/graphql-k8s-demo/natsclient"
	"github.com/ayush9goyal/graphql-k8s-demo/pkg/retry"
	"github.com/ayush9goyal/graphql-k8s-demo/storage"
	"github.com/ayush9goyal/graphql-k8s-demo/storage/memstore"
	"github.com/ayush9goyal/graphql-k8s-demo/storage/mongostore"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "storefront"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	cliCfg, err := parseFlags(args)
	if err != nil {
		return err
	}
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	switch {
	case cliCfg.ShowVersion:
		_, _ = fmt.Fprintf(stdout, "%s version %s\n", appName, Version)
		return nil
	case cliCfg.PrintSchema:
		return printSchema(stdout)
	}

	logger := setupLogger(os.Stderr, cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	cfg, err := loadConfig(cliCfg.ConfigPath)
	if err != nil {
		return err
	}
	logger.Info("Configuration loaded", "config_path", cliCfg.ConfigPath, "config", cfg.String())

	if cliCfg.Validate {
		logger.Info("Configuration is valid")
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return serve(ctx, cfg, cliCfg.ShutdownTimeout, logger)
}

// loadConfig layers the optional file and the environment over the defaults
func loadConfig(path string) (*config.Config, error) {
	loader := config.NewLoader()
	loader.AddLayer(path)
	loader.EnableValidation(true)

	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// printSchema verifies the executable schema against the embedded SDL and prints it
func printSchema(stdout io.Writer) error {
	schema, err := gql.NewSchema(commerce.NewService(memstore.New(), nil, nil))
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}
	if err := gql.VerifySDL(schema); err != nil {
		return err
	}
	_, err = io.WriteString(stdout, gql.SDL)
	return err
}

func serve(ctx context.Context, cfg *config.Config, shutdownTimeout time.Duration, logger *slog.Logger) error {
	metricsRegistry := metric.NewMetricsRegistry()
	metrics := metricsRegistry.CoreMetrics()
	checker := health.NewChecker(appName, 2*time.Second)

	store, err := openStore(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Warn("Failed to close storage", "error", err)
		}
	}()
	checker.Register("storage", func(ctx context.Context) health.Status {
		return health.FromError("storage", store.Ping(ctx), "storage reachable")
	})

	publisher, closeEvents := setupEvents(ctx, cfg.NATS, metrics, checker, logger)
	defer closeEvents()

	service := commerce.NewService(storage.NewMetered(store, metrics), publisher, logger)

	schema, err := gql.NewSchema(service)
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}
	if err := gql.VerifySDL(schema); err != nil {
		return err
	}

	opts := []gql.ServerOption{gql.WithHealthHandler(checker.Handler())}
	if cfg.Metrics.Enabled {
		opts = append(opts, gql.WithMetricsHandler(metricsRegistry.Handler()))
	}

	server, err := gql.NewServer(gatewayConfig(cfg), gql.NewHandler(schema, metrics, logger), logger, opts...)
	if err != nil {
		return err
	}
	if err := server.Setup(); err != nil {
		return err
	}

	ready := make(chan struct{})
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(ctx, ready)
	}()

	select {
	case <-ready:
		logger.Info("Storefront ready", "port", cfg.HTTP.Port, "path", cfg.HTTP.Path, "storage", cfg.Storage.Mode)
	case err := <-errChan:
		return err
	}

	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
		if err := server.Stop(shutdownTimeout); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	logger.Info("Storefront shutdown complete")
	return nil
}

// openStore connects the configured backend. MongoDB must be reachable
// within the connect timeout; transient failures are retried until then.
func openStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (storage.Store, error) {
	if cfg.Mode == config.StorageModeMemory {
		logger.Warn("Using in-memory storage, data is lost on exit")
		return memstore.New(), nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout.Duration())
	defer cancel()

	mongoCfg := mongostore.Config{
		URI:            cfg.URI,
		Database:       cfg.Database,
		ConnectTimeout: cfg.ConnectTimeout.Duration(),
	}
	store, err := retry.DoWithResult(connectCtx, retry.Startup(), func() (*mongostore.Store, error) {
		store, err := mongostore.Connect(connectCtx, mongoCfg, logger)
		if err != nil {
			logger.Debug("MongoDB connection attempt failed", "error", err)
		}
		return store, err
	})
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	if err := store.EnsureIndexes(connectCtx); err != nil {
		logger.Warn("Failed to ensure indexes", "error", err)
	}
	return store, nil
}

// setupEvents connects to NATS when configured. Change events are best
// effort: a broker that cannot be reached degrades health but does not stop
// the API.
func setupEvents(
	ctx context.Context,
	cfg config.NATSConfig,
	metrics *metric.Metrics,
	checker *health.Checker,
	logger *slog.Logger,
) (events.Publisher, func()) {
	noop := func() {}
	if cfg.URL == "" {
		checker.Set(health.NewHealthy("events", "change events disabled"))
		return events.Nop{}, noop
	}

	opts := []natsclient.ClientOption{
		natsclient.WithName(appName),
		natsclient.WithLogger(logger),
		natsclient.WithMaxReconnects(cfg.MaxReconnects),
		natsclient.WithReconnectWait(cfg.ReconnectWait.Duration()),
	}
	if cfg.Username != "" {
		opts = append(opts, natsclient.WithCredentials(cfg.Username, cfg.Password))
	}
	if cfg.Token != "" {
		opts = append(opts, natsclient.WithToken(cfg.Token))
	}

	client, err := natsclient.NewClient(cfg.URL, opts...)
	if err != nil {
		logger.Warn("Change events disabled", "error", err)
		checker.Set(health.NewDegraded("events", "NATS misconfigured"))
		return events.Nop{}, noop
	}

	client.OnHealthChange(func(ok bool) {
		if ok {
			checker.Set(health.NewHealthy("events", "NATS connected"))
		} else {
			checker.Set(health.NewDegraded("events", "NATS disconnected"))
		}
	})

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := retry.Do(connectCtx, retry.Startup(), func() error { return client.Connect(connectCtx) }); err != nil {
		logger.Warn("Change events disabled, NATS unreachable", "url", client.URL(), "error", err)
		checker.Set(health.NewDegraded("events", "NATS unreachable"))
		return events.Nop{}, noop
	}
	checker.Set(health.NewHealthy("events", "NATS connected"))
	logger.Info("Publishing change events", "url", client.URL(), "prefix", cfg.SubjectPrefix)

	closeFn := func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Close(closeCtx); err != nil {
			logger.Warn("Failed to close NATS connection", "error", err)
		}
	}
	return events.NewNATSPublisher(client, cfg.SubjectPrefix, metrics, logger), closeFn
}

// gatewayConfig maps the http section onto the GraphQL server configuration
func gatewayConfig(cfg *config.Config) gql.Config {
	gc := gql.DefaultConfig()
	gc.BindAddress = fmt.Sprintf(":%d", cfg.HTTP.Port)
	gc.Path = cfg.HTTP.Path
	gc.EnablePlayground = cfg.HTTP.Playground
	gc.EnableCORS = cfg.HTTP.CORS
	gc.CORSOrigins = cfg.HTTP.CORSOrigins
	gc.TimeoutStr = cfg.HTTP.Timeout.Duration().String()
	if cfg.Metrics.Path != "" {
		gc.MetricsPath = cfg.Metrics.Path
	}
	return gc
}
