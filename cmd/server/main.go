package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avarre/pea-tracker/internal/clients/yahoo"
	"github.com/avarre/pea-tracker/internal/config"
	"github.com/avarre/pea-tracker/internal/database"
	"github.com/avarre/pea-tracker/internal/modules/analytics"
	"github.com/avarre/pea-tracker/internal/modules/charts"
	"github.com/avarre/pea-tracker/internal/modules/marketdata"
	marketdatajobs "github.com/avarre/pea-tracker/internal/modules/marketdata/jobs"
	"github.com/avarre/pea-tracker/internal/modules/portfolio"
	portfoliojobs "github.com/avarre/pea-tracker/internal/modules/portfolio/jobs"
	"github.com/avarre/pea-tracker/internal/modules/settings"
	"github.com/avarre/pea-tracker/internal/scheduler"
	"github.com/avarre/pea-tracker/internal/server"
	"github.com/avarre/pea-tracker/pkg/logger"
)

func main() {
	// Load configuration first so the logger can pick up level and file
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
		File:   cfg.LogFile,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting PEA Tracker")

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("Failed to create data directory")
	}

	// Snapshots database
	db, err := database.New(cfg.SnapshotsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Stores and services
	portfolioStore := portfolio.NewStore(cfg.PortfolioPath, log)
	portfolioSvc := portfolio.NewService(portfolioStore, log)
	snapshotRepo := portfolio.NewSnapshotRepository(db.Conn(), log)

	yahooClient := yahoo.NewClient(log)
	priceCache := marketdata.NewPriceCache(cfg.CachePath, log)
	historyDB := marketdata.NewHistoryDB(cfg.HistoryDir, log)
	marketDataSvc := marketdata.NewService(yahooClient, priceCache, historyDB, log)

	chartsSvc := charts.NewService(portfolioSvc, marketDataSvc, log)
	settingsStore := settings.NewStore(cfg.SettingsPath, log)

	marketHours := scheduler.NewMarketHoursService(log)

	// Background jobs
	sched := scheduler.New(log)
	refreshJob := marketdatajobs.NewRefreshJob(marketDataSvc, portfolioSvc, marketHours, log)
	snapshotJob := portfoliojobs.NewSnapshotJob(portfolioSvc, marketDataSvc, snapshotRepo, log)

	// Refresh prices every 15 minutes (the job skips outside trading
	// hours); snapshot the portfolio shortly after the Paris close.
	if err := sched.AddJob("0 */15 * * * *", refreshJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register refresh job")
	}
	if err := sched.AddJob("0 45 17 * * MON-FRI", snapshotJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register snapshot job")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Port:    cfg.Port,
		DevMode: cfg.DevMode,
		Log:     log,

		PortfolioHandler:  portfolio.NewHandler(portfolioSvc, snapshotRepo, log),
		MarketDataHandler: marketdata.NewHandler(marketDataSvc, log),
		AnalyticsHandler:  analytics.NewHandler(portfolioSvc, marketDataSvc, cfg.RiskFreeRate, log),
		ChartsHandler:     charts.NewHandler(chartsSvc, log),
		SettingsHandler:   settings.NewHandler(settingsStore, log),

		MarketHours: marketHours,
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
