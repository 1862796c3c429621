package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/stock-portfolio-tracker/internal/alphavantage"
	"github.com/ndewijer/stock-portfolio-tracker/internal/api"
	"github.com/ndewijer/stock-portfolio-tracker/internal/config"
	"github.com/ndewijer/stock-portfolio-tracker/internal/database"
	"github.com/ndewijer/stock-portfolio-tracker/internal/logging"
	"github.com/ndewijer/stock-portfolio-tracker/internal/quote"
	"github.com/ndewijer/stock-portfolio-tracker/internal/repository"
	"github.com/ndewijer/stock-portfolio-tracker/internal/scheduler"
	"github.com/ndewijer/stock-portfolio-tracker/internal/service"
	"github.com/ndewijer/stock-portfolio-tracker/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := logging.New(logging.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger.Info().Str("version", version.Version).Msg("Starting stock portfolio tracker")

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database")
	}

	logger.Info().Str("path", cfg.Database.Path).Msg("Connected to database")

	// Create repositories
	userRepo := repository.NewUserRepository(db)
	portfolioRepo := repository.NewPortfolioRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)

	// Market data
	client := alphavantage.NewClient(cfg.StockAPI.Key,
		alphavantage.WithBaseURL(cfg.StockAPI.BaseURL),
		alphavantage.WithTimeout(cfg.StockAPI.Timeout),
		alphavantage.WithRatePerMinute(cfg.StockAPI.RatePerMinute),
		alphavantage.WithLogger(logger),
	)
	cache := quote.NewCache(client, quote.WithLogger(logger))

	// Create services
	valuator := service.NewValuator(cache, cfg.Valuation.Workers)
	provisioner := service.NewProvisioner(cache, holdingRepo, service.WithProvisionLogger(logger))

	userService := service.NewUserService(userRepo, logger)
	portfolioService := service.NewPortfolioService(
		portfolioRepo,
		holdingRepo,
		userRepo,
		cache,
		valuator,
		provisioner,
		cfg.Provisioning.Count,
		logger,
	)
	systemService := service.NewSystemService(db, cache, map[string]bool{
		"provisioning": true,
		"quote_warmup": cfg.Scheduler.QuoteWarmSchedule != "",
	})

	// Background jobs
	var jobs *scheduler.Scheduler
	if cfg.Scheduler.QuoteWarmSchedule != "" {
		jobs = scheduler.New(logger)
		warm := scheduler.NewQuoteWarmJob(holdingRepo, cache, time.Minute, logger)
		if err := jobs.AddJob(cfg.Scheduler.QuoteWarmSchedule, warm); err != nil {
			logger.Fatal().Err(err).Str("schedule", cfg.Scheduler.QuoteWarmSchedule).Msg("Invalid QUOTE_WARM_SCHEDULE")
		}
		jobs.Start()
	}

	// Create router
	router := api.NewRouter(api.Services{
		System:    systemService,
		User:      userService,
		Portfolio: portfolioService,
	}, cfg, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.StockAPI.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	if jobs != nil {
		jobs.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	logger.Info().Msg("Server exited")
}
