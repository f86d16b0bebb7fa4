package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"dairyai/internal/api"
	"dairyai/internal/cfg"
	"dairyai/internal/common"
	"dairyai/internal/metrics"
	"dairyai/internal/model"
	"dairyai/internal/predict"
)

func main() {
	_ = godotenv.Load() // optional .env for local runs

	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()
	mw := metrics.NewWrapper(m)

	catalog := initializeCatalog(c)
	if catalog != nil {
		defer catalog.Close()
	}

	fetchArtifacts(c)

	registry := model.NewRegistry(c.ModelsDir, mw, catalog)
	warmRegistry(registry)

	svc := predict.NewService(registry, mw)

	startMetricsServer(ctx, c)

	apiServer := api.NewServer(svc, api.RangesForVersion(c.SchemaVersion), c.BatchMaxItems, c.ListenPort)
	go func() {
		if err := apiServer.Start(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("API server failed")
			cancel()
		}
	}()

	waitForShutdown(ctx, cancel, apiServer)
}

// initializeCatalog opens the artifact catalog if CATALOG_PATH is configured
func initializeCatalog(c cfg.Settings) *model.Catalog {
	if c.CatalogPath == "" {
		return nil
	}
	catalog, err := model.OpenCatalog(c.CatalogPath)
	if err != nil {
		log.Warn().Err(err).Msg("catalog initialization failed, continuing without load records")
		return nil
	}
	return catalog
}

// fetchArtifacts downloads missing model artifacts when a remote base URL is
// configured. Failures are non-fatal: the registry degrades the affected
// family the same way a missing file would.
func fetchArtifacts(c cfg.Settings) {
	if c.ModelBaseURL == "" {
		return
	}
	fetcher := model.NewFetcher(c.ModelBaseURL, c.ModelsDir, c.FetchTimeout)
	if err := fetcher.FetchAll(); err != nil {
		log.Warn().Err(err).Msg("artifact fetch incomplete, missing families will be unavailable")
	}
}

// warmRegistry triggers the lazy load at startup so the first request does
// not pay the load cost. A failed family logs here and stays unavailable.
func warmRegistry(registry *model.Registry) {
	for _, familyName := range []string{common.FamilyYield, common.FamilyMastitis} {
		if _, ok := registry.Get(familyName); !ok {
			log.Warn().Str("family", familyName).Msg("model family unavailable, other endpoints keep working")
		}
	}
}

// startMetricsServer starts the Prometheus metrics HTTP server
func startMetricsServer(ctx context.Context, c cfg.Settings) {
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		mux.Handle("/metrics", promhttp.Handler())

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", c.MetricsPort),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		go func() {
			<-ctx.Done()
			if err := server.Shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to shutdown metrics server")
			}
		}()

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

// waitForShutdown waits for shutdown signals and drains the API server
func waitForShutdown(ctx context.Context, cancel context.CancelFunc, apiServer *api.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info().Msg("shutdown signal received")
	case <-ctx.Done():
		log.Info().Msg("context canceled")
	}

	log.Info().Msg("shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("API server shutdown timed out")
	}
}
