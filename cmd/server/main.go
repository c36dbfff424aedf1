package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	httpAdapter "github.com/vheb/stocksim/internal/adapter/http"
	"github.com/vheb/stocksim/internal/adapter/http/handler"
	"github.com/vheb/stocksim/internal/adapter/http/middleware"
	"github.com/vheb/stocksim/internal/adapter/provider"
	postgresRepo "github.com/vheb/stocksim/internal/adapter/repository/postgres"
	redisRepo "github.com/vheb/stocksim/internal/adapter/repository/redis"
	"github.com/vheb/stocksim/internal/infrastructure/auth"
	"github.com/vheb/stocksim/internal/infrastructure/config"
	"github.com/vheb/stocksim/internal/infrastructure/logger"
	"github.com/vheb/stocksim/internal/infrastructure/postgres"
	"github.com/vheb/stocksim/internal/infrastructure/redis"
	"github.com/vheb/stocksim/internal/usecase"
	"github.com/vheb/stocksim/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	startingBalance, err := decimal.NewFromString(cfg.StartingBalance)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid starting balance")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, "migrations", log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	positionRepo := postgresRepo.NewPositionRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	priceRepo := postgresRepo.NewPriceCacheRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log)

	quoteProvider := provider.NewAlphaVantageClient(
		cfg.ProviderBaseURL,
		cfg.ProviderAPIKey,
		cfg.ProviderTimeout,
		cfg.ProviderRateLimit,
		log,
	)

	// Initialize use cases
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, positionRepo, transactionRepo, retrier)
	quoteUC := usecase.NewQuoteUseCase(priceRepo, quoteProvider, cfg.TrackedSymbols, log)
	portfolioUC := usecase.NewPortfolioUseCase(accountRepo, positionRepo, transactionRepo, quoteUC)
	userUC := usecase.NewUserUseCase(txManager, userRepo, accountRepo, positionRepo, idGen, startingBalance)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitPerSecond > 0 {
		rateLimiter = middleware.NewRateLimiter(float64(cfg.RateLimitPerSecond), cfg.RateLimitBurst)
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:      handler.NewAuthHandler(userUC, jwtManager),
		TradeHandler:     handler.NewTradeHandler(ledgerUC),
		PortfolioHandler: handler.NewPortfolioHandler(portfolioUC),
		QuoteHandler:     handler.NewQuoteHandler(quoteUC),
		UserHandler:      handler.NewUserHandler(userUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		JWTManager:       jwtManager,
		IdempotencyStore: idempotencyStore,
		RateLimiter:      rateLimiter,
		Logger:           log,
	})

	// Background price refresh
	refresher := worker.NewRefresher(quoteUC, cfg.RefreshInterval, log)
	go refresher.Run(ctx)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
