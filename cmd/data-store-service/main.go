// Command data-store-service runs PlayForge's central data store: the
// single writer over the on-disk catalog snapshot, serving typed CRUD
// over the framed request/response protocol (spec §4.2).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/playforge/core/internal/catalog"
	"github.com/playforge/core/internal/datastore"
	"github.com/playforge/core/pkg/config"
	"github.com/playforge/core/pkg/logging"
	"github.com/playforge/core/pkg/metrics"
)

var (
	version   string = "dev"
	buildTime string = "unknown"
	gitCommit string = "unknown"
)

func main() {
	var (
		configFile  = flag.String("config", "configs/data-store-service.yaml", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("PlayForge Data Store Service\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Git Commit: %s\n", gitCommit)
		return
	}

	cfg, err := config.LoadDataStoreConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New("data-store", cfg.Logging)
	logger.Info("starting playforge data store service")

	metricsRegistry := metrics.NewRegistry("data-store", version, buildTime, gitCommit, logger)
	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		go func() {
			if err := metricsRegistry.StartMetricsServer(cfg.Metrics.Port); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
		logger.Info("metrics server starting", "port", cfg.Metrics.Port)
	}

	store, err := catalog.NewStore(cfg.Storage.SnapshotPath)
	if err != nil {
		logger.Error("failed to open catalog store", "error", err)
		os.Exit(1)
	}

	server := datastore.NewServer(store, logger, metricsRegistry.DataStore)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	if err := server.Start(ctx, addr); err != nil {
		logger.Error("failed to start data store server", "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("shutting down gracefully")

	if err := server.Stop(); err != nil {
		logger.Error("error stopping data store server", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		if err := metricsRegistry.StopMetricsServer(shutdownCtx); err != nil {
			logger.Error("error stopping metrics server", "error", err)
		}
	}

	cancel()
	logger.Info("data store service stopped")
}
