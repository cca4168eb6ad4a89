// Package main is the entry point for the SIP simulator service.
// It wires configuration, the NAV cache database, the price provider
// client and the simulation services, then serves the HTTP API until
// interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shashank1310/SIPSimulator/internal/clientdata"
	"github.com/shashank1310/SIPSimulator/internal/clients/mfapi"
	"github.com/shashank1310/SIPSimulator/internal/config"
	"github.com/shashank1310/SIPSimulator/internal/database"
	"github.com/shashank1310/SIPSimulator/internal/modules/benchmark"
	"github.com/shashank1310/SIPSimulator/internal/modules/funds"
	fundshandlers "github.com/shashank1310/SIPSimulator/internal/modules/funds/handlers"
	"github.com/shashank1310/SIPSimulator/internal/modules/goals"
	goalshandlers "github.com/shashank1310/SIPSimulator/internal/modules/goals/handlers"
	"github.com/shashank1310/SIPSimulator/internal/modules/portfolio"
	portfoliohandlers "github.com/shashank1310/SIPSimulator/internal/modules/portfolio/handlers"
	"github.com/shashank1310/SIPSimulator/internal/modules/risk"
	riskhandlers "github.com/shashank1310/SIPSimulator/internal/modules/risk/handlers"
	"github.com/shashank1310/SIPSimulator/internal/modules/simulation"
	"github.com/shashank1310/SIPSimulator/internal/server"
	"github.com/shashank1310/SIPSimulator/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet.
		panic(err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Int("port", cfg.Port).
		Str("provider", cfg.ProviderURL).
		Int("workers", cfg.WorkerCount).
		Msg("Starting SIP simulator")

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("Failed to create data directory")
	}

	// NAV cache database. The service degrades to uncached fetches if it
	// cannot be opened.
	var cacheDB *database.DB
	var cache mfapi.Cache = mfapi.NopCache{}
	cacheDB, err = database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "navcache.db"),
		Profile: database.ProfileCache,
	})
	if err != nil {
		log.Warn().Err(err).Msg("NAV cache unavailable, continuing without caching")
		cacheDB = nil
	} else {
		defer cacheDB.Close()
		if err := cacheDB.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate NAV cache schema")
		}
		cache = clientdata.NewRepository(cacheDB.Conn())
	}

	client := mfapi.NewClient(mfapi.Config{
		BaseURL: cfg.ProviderURL,
		Timeout: cfg.APITimeout,
		NAVTTL:  cfg.NAVCacheTTL,
		ListTTL: cfg.SearchCacheTTL,
		Cache:   cache,
	}, log)

	simulator := simulation.New(log)
	portfolioSvc := portfolio.NewService(client, simulator, cfg.WorkerCount, cfg.SIPDayOfMonth, log)
	benchmarkAdapter := benchmark.NewAdapter(portfolioSvc)
	riskCalc := risk.NewCalculator(cfg.RiskFreeRate, log)
	riskSvc := risk.NewService(riskCalc, portfolioSvc, benchmarkAdapter, log)
	fundsSvc := funds.NewService(client, log)
	goalsSvc := goals.NewService(log)

	// Warm the fund registry; search works from the curated list until
	// the provider responds.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		_ = fundsSvc.Refresh(ctx)
	}()

	// Daily maintenance: refresh the fund registry and evict expired
	// cache rows.
	c := cron.New()
	if _, err := c.AddFunc("@daily", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		_ = fundsSvc.Refresh(ctx)
		if repo, ok := cache.(*clientdata.Repository); ok {
			if n, err := repo.CleanupExpired(clientdata.CleanupGrace); err != nil {
				log.Warn().Err(err).Msg("Cache cleanup failed")
			} else if n > 0 {
				log.Info().Int64("rows", n).Msg("Expired cache rows removed")
			}
		}
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule daily maintenance")
	}
	c.Start()
	defer c.Stop()

	srv := server.New(server.Config{
		Log:     log,
		Config:  cfg,
		CacheDB: cacheDB,
		Handlers: server.Handlers{
			Portfolio: portfoliohandlers.NewHandler(portfolioSvc, benchmarkAdapter, log),
			Risk:      riskhandlers.NewHandler(riskSvc, log),
			Funds:     fundshandlers.NewHandler(fundsSvc, client, log),
			Goals:     goalshandlers.NewHandler(goalsSvc, log),
		},
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatal().Err(err).Msg("HTTP server failed")
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Shutdown complete")
}
