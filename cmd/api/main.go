package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trading-wallet-service/config"
	httpHandler "trading-wallet-service/internal/adapter/http/handler"
	pgStorage "trading-wallet-service/internal/adapter/storage/postgres"
	redisStorage "trading-wallet-service/internal/adapter/storage/redis"
	"trading-wallet-service/internal/adapter/venue"
	"trading-wallet-service/internal/core/ports"
	"trading-wallet-service/internal/service"
	"trading-wallet-service/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Trading Wallet Service")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	walletRepo := pgStorage.NewWalletRepo(pool)
	auditRepo := pgStorage.NewAuditRepository(pool)

	// Initialize Redis stores
	receiptCache := redisStorage.NewReceiptCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Master key takes precedence; passphrase+salt derives one via Argon2id.
	var encSvc ports.EncryptionService
	if cfg.Vault.MasterKey != "" {
		encSvc, err = service.NewAESEncryptionService(cfg.Vault.MasterKey)
	} else {
		encSvc, err = service.NewAESEncryptionServiceFromPassphrase(cfg.Vault.Passphrase, cfg.Vault.Salt)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}

	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	auditSvc := service.NewAuditService(auditRepo, log)

	// Initialize business services
	vaultSvc := service.NewVaultService(walletRepo, encSvc, auditSvc, log)
	backupSvc := service.NewBackupAckService(walletRepo)
	depositSvc := service.NewDepositTargetService()
	builder := service.NewTradeOrderBuilder()

	ledger := venue.NewClient(cfg.Venue.URL, &http.Client{Timeout: cfg.Venue.SubmitTimeout + 5*time.Second}, log)
	executor := service.NewVenueExecutor(ledger, cfg.Venue.SubmitTimeout, log)

	walletSvc := service.NewWalletOrchestrator(
		vaultSvc,
		backupSvc,
		depositSvc,
		builder,
		executor,
		receiptCache,
		auditSvc,
		cfg.Venue.ReceiptTTL,
		log,
	)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		WalletSvc:      walletSvc,
		BackupSvc:      backupSvc,
		TokenSvc:       tokenSvc,
		ServiceKey:     cfg.Server.ServiceKey,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		AuditSvc:       auditSvc,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
