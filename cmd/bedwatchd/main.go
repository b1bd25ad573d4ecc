// Command bedwatchd runs the facility-capacity feed as a standalone daemon:
// it polls the configured upstream, enriches against the directory shipped in
// configuration, and serves subscribers over HTTP/WebSocket.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/bedwatch"
	"github.com/arloliu/bedwatch/broadcast"
	"github.com/arloliu/bedwatch/collect"
	"github.com/arloliu/bedwatch/directory"
	"github.com/arloliu/bedwatch/internal/logging"
	"github.com/arloliu/bedwatch/internal/metrics"
	"github.com/arloliu/bedwatch/server"
	"github.com/arloliu/bedwatch/types"
)

// daemonConfig is the yaml file layout for bedwatchd.
type daemonConfig struct {
	// Listen is the HTTP listen address (default ":8080").
	Listen string `yaml:"listen"`

	// LogLevel is one of debug, info, warn, error (default "info").
	LogLevel string `yaml:"logLevel"`

	Upstream struct {
		URL        string        `yaml:"url"`
		ServiceKey string        `yaml:"serviceKey"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"upstream"`

	// NATS enables the snapshot relay when URL is set.
	NATS struct {
		URL     string `yaml:"url"`
		Subject string `yaml:"subject"`
	} `yaml:"nats"`

	// Directory holds the facility directory entries used for enrichment.
	Directory []types.DirectoryEntry `yaml:"directory"`

	Pipeline bedwatch.Config `yaml:"pipeline"`
}

func main() {
	configPath := flag.String("config", "bedwatchd.yaml", "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "bedwatchd: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger := logging.NewSlog(newSlogger(cfg.LogLevel))

	registry := prometheus.NewRegistry()
	collector := metrics.NewPrometheus(registry, "")

	fetcher := collect.NewHTTPSource(cfg.Upstream.URL, cfg.Upstream.ServiceKey, cfg.Upstream.Timeout)
	dir := directory.NewStatic(cfg.Directory)

	opts := []bedwatch.Option{
		bedwatch.WithLogger(logger),
		bedwatch.WithMetrics(collector),
	}

	var nc *nats.Conn
	if cfg.NATS.URL != "" {
		nc, err = nats.Connect(cfg.NATS.URL,
			nats.RetryOnFailedConnect(true),
			nats.MaxReconnects(-1),
		)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NATS.URL, err)
		}
		defer nc.Close()

		subject := cfg.NATS.Subject
		if subject == "" {
			subject = "bedwatch.snapshots"
		}
		opts = append(opts, bedwatch.WithRelay(broadcast.NewRelay(nc, subject)))
		logger.Info("snapshot relay enabled", "subject", subject)
	}

	pipeline, err := bedwatch.NewPipeline(&cfg.Pipeline, fetcher, dir, opts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.New(pipeline, logger, registry),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("bedwatchd listening", "addr", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	pipeline.ForceStop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func loadConfig(path string) (*daemonConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &daemonConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.Upstream.URL == "" {
		return nil, errors.New("upstream.url is required")
	}

	return cfg, nil
}

func newSlogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})

	return slog.New(handler)
}
