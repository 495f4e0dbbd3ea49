package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/iho/gosend/internal/adapter/gateway"
	httpAdapter "github.com/iho/gosend/internal/adapter/http"
	"github.com/iho/gosend/internal/adapter/http/handler"
	"github.com/iho/gosend/internal/adapter/http/middleware"
	redisRepo "github.com/iho/gosend/internal/adapter/repository/redis"
	"github.com/iho/gosend/internal/domain"
	"github.com/iho/gosend/internal/infrastructure/config"
	"github.com/iho/gosend/internal/infrastructure/logger"
	"github.com/iho/gosend/internal/infrastructure/metrics"
	"github.com/iho/gosend/internal/infrastructure/redis"
	"github.com/iho/gosend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger
	zerolog.DefaultContextLogger = &appLogger

	ctx := context.Background()

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Flow policy from configuration
	policy, err := flowPolicy(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid flow policy configuration")
	}

	// Initialize repositories and gateways
	retrier := redisRepo.NewRetrier(appLogger)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, retrier, cfg.SessionTTL)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := redisRepo.NewULIDGenerator()

	sender := gateway.NewLogSender(appLogger)
	otpGateway := gateway.NewRedisOTPGateway(redisClient, sender, cfg.OTPCodeTTL, cfg.OTPResendCooldown)
	submissionGateway := gateway.NewHTTPSubmissionGateway(cfg.SubmissionURL, cfg.SubmissionTimeout, appLogger)

	// Initialize use case
	sendUC := usecase.NewSendUseCase(sessionRepo, otpGateway, submissionGateway, idGen, usecase.SystemClock{}, policy)

	// Initialize handlers
	flowMetrics := metrics.New()
	sessionHandler := handler.NewSessionHandler(sendUC, flowMetrics)
	healthHandler := handler.NewHealthHandler(redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		SessionHandler:   sessionHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		Logger:           appLogger,
		RateLimiter:      middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
	})

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

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// flowPolicy builds the transfer flow policy from configuration.
func flowPolicy(cfg *config.Config) (domain.FlowPolicy, error) {
	if _, err := domain.LookupCurrency(cfg.FlowCurrency); err != nil {
		return domain.FlowPolicy{}, err
	}

	ceiling, err := decimal.NewFromString(cfg.FlowAmountCeiling)
	if err != nil {
		return domain.FlowPolicy{}, fmt.Errorf("parse amount ceiling: %w", err)
	}

	return domain.FlowPolicy{
		RequireAddress:       cfg.FlowRequireAddress,
		RequirePhone:         cfg.FlowRequirePhone,
		RequireCountry:       cfg.FlowRequireCountry,
		RequireRecipientName: cfg.FlowRequireRecipientName,
		RequireOTP:           cfg.FlowRequireOTP,
		AmountCeiling:        ceiling,
		CurrencyCode:         cfg.FlowCurrency,
		Address: domain.AddressPolicy{
			Strict:    cfg.FlowStrictAddress,
			MinLength: cfg.FlowAddressMinLength,
		},
		DefaultPhoneRegion: cfg.FlowDefaultPhoneRegion,
	}, nil
}
