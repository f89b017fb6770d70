/*
main.go - Application entry point

PURPOSE:
  Starts the wage tracker HTTP server. Handles configuration, dependency
  injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (defaults, YAML, env, flags)
  2. Build the logger
  3. Open the entry backend (JSON document or memory)
  4. Create API handler and router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config file (or WAGE_CONFIG)
  -port    HTTP server port (default: 8080, or PORT)
  -data    Entry document path (default: wage_data.json, or WAGE_DATA)
           Use ":memory:" to keep entries in memory only

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Flush the log file
  4. Exit

EXAMPLES:
  ./server -data="./data/wage_data.json"
  ./server -data=":memory:" -port=3000
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/wage-engine/api"
	"github.com/warp/wage-engine/config"
	"github.com/warp/wage-engine/logging"
	"github.com/warp/wage-engine/store/jsonfile"
	"github.com/warp/wage-engine/wage"
	"github.com/warp/wage-engine/wage/store"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(2)
	}

	logger, logCloser := logging.New(cfg.Log)
	defer logCloser.Close()

	backend, err := openBackend(cfg.Storage.Path)
	if err != nil {
		logger.Error("failed to open entry storage", "path", cfg.Storage.Path, "err", err)
		os.Exit(1)
	}

	entries, err := wage.NewEntryStore(backend)
	if err != nil {
		logger.Error("failed to create entry store", "err", err)
		os.Exit(1)
	}

	handler := api.NewHandler(entries, logger, cfg.Wage.Currency)
	router := api.NewRouter(handler, cfg.Server)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", "addr", server.Addr, "storage", cfg.Storage.Path)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "err", err)
		return
	}

	logger.Info("server stopped")
}

func openBackend(path string) (wage.Backend, error) {
	if path == config.MemoryPath {
		return store.NewMemory(), nil
	}
	return jsonfile.New(path)
}
