// Command developer-service runs PlayForge's publishing service:
// developer authentication and versioned bundle upload/update/delist
// against the shared catalog and bundle repository (spec §4.4).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/playforge/core/internal/bundle"
	"github.com/playforge/core/internal/datastore"
	"github.com/playforge/core/internal/developer"
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
		configFile  = flag.String("config", "configs/developer-service.yaml", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("PlayForge Developer Service\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Git Commit: %s\n", gitCommit)
		return
	}

	cfg, err := config.LoadDeveloperConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New("developer", cfg.Logging)
	logger.Info("starting playforge developer service")

	metricsRegistry := metrics.NewRegistry("developer", version, buildTime, gitCommit, logger)
	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		go func() {
			if err := metricsRegistry.StartMetricsServer(cfg.Metrics.Port); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
		logger.Info("metrics server starting", "port", cfg.Metrics.Port)
	}

	ds, err := datastore.NewClient(cfg.DataStore.Address, cfg.DataStore.PoolSize)
	if err != nil {
		logger.Error("failed to connect to data store", "error", err)
		os.Exit(1)
	}
	defer ds.Close()

	bundles, err := bundle.NewRoot(cfg.Bundles.Root)
	if err != nil {
		logger.Error("failed to open bundle repository", "error", err)
		os.Exit(1)
	}

	server := developer.NewServer(cfg, ds, bundles, logger, metricsRegistry.Developer)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	if err := server.Start(ctx, addr); err != nil {
		logger.Error("failed to start developer server", "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("shutting down gracefully")

	if err := server.Stop(); err != nil {
		logger.Error("error stopping developer server", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		if err := metricsRegistry.StopMetricsServer(shutdownCtx); err != nil {
			logger.Error("error stopping metrics server", "error", err)
		}
	}

	cancel()
	logger.Info("developer service stopped")
}
