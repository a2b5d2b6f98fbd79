// Command lobby-service runs PlayForge's matchmaking core: session,
// room, and invitation state, game-server orchestration, downloads, and
// play-history-gated reviews (spec §4.3).
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
	"github.com/playforge/core/internal/lobby"
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
		configFile  = flag.String("config", "configs/lobby-service.yaml", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("PlayForge Lobby Service\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Git Commit: %s\n", gitCommit)
		return
	}

	cfg, err := config.LoadLobbyConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New("lobby", cfg.Logging)
	logger.Info("starting playforge lobby service")

	metricsRegistry := metrics.NewRegistry("lobby", version, buildTime, gitCommit, logger)
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

	server := lobby.NewServer(cfg, ds, bundles, logger, metricsRegistry.Lobby)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	if err := server.Start(ctx, addr); err != nil {
		logger.Error("failed to start lobby server", "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("shutting down gracefully")

	if err := server.Stop(); err != nil {
		logger.Error("error stopping lobby server", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		if err := metricsRegistry.StopMetricsServer(shutdownCtx); err != nil {
			logger.Error("error stopping metrics server", "error", err)
		}
	}

	cancel()
	logger.Info("lobby service stopped")
}
