package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tierkv/tierkv/internal/api"
	"github.com/tierkv/tierkv/internal/server"
	"github.com/tierkv/tierkv/internal/shared"
	"github.com/tierkv/tierkv/internal/storage"
)

var (
	serveAddress    string
	flushThreshold  int
	memtableKind    string
	logLevel        string
	tracingEndpoint string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the key-value store server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddress, "address", "a", ":8080", "Address for the HTTP server to listen on")
	serveCmd.Flags().IntVarP(&flushThreshold, "flush-threshold", "t", storage.DefaultConfig().FlushThreshold, "Memtable entry count that triggers a flush")
	serveCmd.Flags().StringVarP(&memtableKind, "memtable", "m", storage.MemtableSkipList, "Memtable implementation (skiplist or rbtree)")
	serveCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&tracingEndpoint, "tracing-endpoint", "", "Jaeger collector endpoint; tracing is off when empty")
}

func runServe(cmd *cobra.Command, args []string) error {
	level, err := shared.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logger := shared.NewLogger(level)

	store, err := storage.NewStore(storage.Config{
		FlushThreshold: flushThreshold,
		Memtable:       memtableKind,
	})
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	metrics := api.NewMetrics(registry)

	var tracer *api.Tracer
	if tracingEndpoint != "" {
		tracer, err = api.NewTracer("tierkv", tracingEndpoint)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracer.Shutdown(ctx); err != nil {
				logger.Warn("tracer shutdown: %v", err)
			}
		}()
	}

	handler := api.NewHandler(store, metrics, logger.WithComponent("api"))
	router := api.NewRouter(handler, api.RouterConfig{
		Logger:   logger.WithComponent("api"),
		Metrics:  metrics,
		Tracer:   tracer,
		Gatherer: registry,
	})
	srv := server.New(serveAddress, router, logger.WithComponent("server"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("server error: %v", err)
			cancel()
		}
	}()

	select {
	case sig := <-sigChan:
		logger.Info("received signal %v, initiating shutdown", sig)
	case <-ctx.Done():
		logger.Info("shutting down due to error")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}
