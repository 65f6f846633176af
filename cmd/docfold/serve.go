package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/docfold/docfold/infrastructure/api"
	apimiddleware "github.com/docfold/docfold/infrastructure/api/middleware"
	v1 "github.com/docfold/docfold/infrastructure/api/v1"
	"github.com/docfold/docfold/internal/config"
	"github.com/docfold/docfold/internal/log"
)

func serveCmd() *cobra.Command {
	var (
		envFile   string
		hostsFile string
		host      string
		port      int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                    Server host to bind to (default: 0.0.0.0)
  PORT                    Server port to listen on (default: 8080)
  LOG_LEVEL               Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT              Log format: pretty, json (default: pretty)
  HOSTS_FILE              Path to a YAML hosts file with wiki credentials
  WIKI_HOST               Single wiki host (paired with WIKI_TOKEN)
  WIKI_TOKEN              API token for WIKI_HOST
  ATTACHMENT_PARALLELISM  Concurrent attachment downloads per page (default: 4)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, hostsFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&hostsFile, "hosts-file", "", "Path to a YAML hosts file with wiki credentials")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(envFile, hostsFile, host string, port int) error {
	cfg, err := loadConfig(envFile, hostsFile)
	if err != nil {
		return err
	}
	cfg = applyServeOverrides(cfg, host, port)

	logger := log.NewLogger(cfg)
	slogger := logger.Slog()

	attrs := append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)
	slogger.LogAttrs(context.Background(), slog.LevelInfo, "starting docfold", attrs...)

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	server := api.NewServer(cfg.Addr(), slogger)
	router := server.Router()
	router.Use(apimiddleware.Logging(slogger))

	router.Get("/health", healthHandler)
	router.Get("/healthz", healthHandler)
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"name":"docfold","version":"%s"}`, version)
	})

	exports := v1.NewExports(client.Export, slogger)
	router.Route("/api/v1", func(r chi.Router) {
		exports.Mount(r)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		slogger.Info("shutting down server")
		cancel()
		if err := server.Shutdown(ctx); err != nil {
			slogger.Error("shutdown error", slog.Any("error", err))
		}
	}()

	if err := server.Start(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}

	return cfg.Apply(opts...)
}
