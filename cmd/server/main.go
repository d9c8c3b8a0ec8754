/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the reserve engine server: configuration,
  dependency wiring, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load and validate the TOML config
  3. Open the persistence backend (JSON file or SQLite)
  4. Load the reserve store
  5. Configure the router, start the optional auto-advance scheduler
  6. Serve until SIGINT/SIGTERM, then drain

COMMAND-LINE FLAGS:
  -config  Path to the TOML configuration file (default: config.toml)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the auto-advance scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)

SEE ALSO:
  - config/config.go: the configuration shape
  - api/server.go: router configuration
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medcabinet/reserve-engine/api"
	"github.com/medcabinet/reserve-engine/config"
	"github.com/medcabinet/reserve-engine/logging"
	"github.com/medcabinet/reserve-engine/metrics"
	"github.com/medcabinet/reserve-engine/reserve"
	"github.com/medcabinet/reserve-engine/store/jsonfile"
	"github.com/medcabinet/reserve-engine/store/sqlite"
)

func main() {
	configPath := flag.String("config", "config.toml", "Path to TOML configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config %s: %w", configPath, err)
	}

	log := logging.New(cfg.Env)

	if err := api.ValidateProfiles(cfg.ColumnProfiles); err != nil {
		return err
	}

	// Persistence backend
	var persister reserve.Persister
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		dbStore, err := sqlite.New(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("opening sqlite store: %w", err)
		}
		defer dbStore.Close()
		persister = dbStore
	default:
		persister = jsonfile.New(cfg.Storage.Path)
	}

	ctx := context.Background()
	store, err := reserve.Open(ctx, persister)
	if err != nil {
		return err
	}
	metrics.DrugsTracked.Set(float64(store.Len()))
	log.Info("reserve store loaded", "drugs", store.Len(), "driver", cfg.Storage.Driver)

	engine := reserve.Engine{
		MinWeeks:    cfg.MinWeeksPerPrescription,
		CountHidden: cfg.CountHiddenInTotals,
	}
	handler := api.NewHandler(store, engine, cfg.ColumnProfiles, log)
	router := api.NewRouter(handler, cfg.AuthTokens)

	if cfg.AutoAdvance.Enabled {
		adv := api.NewAutoAdvance(store, log, cfg.AutoAdvance.At)
		if err := adv.Start(); err != nil {
			return err
		}
		defer adv.Stop()
	}

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", cfg.ListenAddr, "base_url", cfg.BaseURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
