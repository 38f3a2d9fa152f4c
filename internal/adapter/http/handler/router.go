package handler

import (
	"trading-wallet-service/internal/adapter/http/middleware"
	redisStore "trading-wallet-service/internal/adapter/storage/redis"
	"trading-wallet-service/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletService
	BackupSvc      ports.BackupService
	TokenSvc       ports.TokenService
	ServiceKey     string                     // empty disables the session-mint endpoint
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService         // nil = boundary audit logging disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	// Health check (deep: verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")

	// --- Service-key authenticated (dashboard backend) ---
	if deps.ServiceKey != "" {
		sessionHandler := NewSessionHandler(deps.TokenSvc, deps.ServiceKey)
		v1.POST("/auth/session", rl("session"), sessionHandler.CreateSession)
	}

	// --- JWT-authenticated user routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	walletHandler := NewWalletHandler(deps.WalletSvc, deps.BackupSvc)
	tradeHandler := NewTradeHandler(deps.WalletSvc)

	wallet := v1.Group("/wallet", jwtAuth)
	{
		wallet.POST("", rl("wallet"), walletHandler.Create)
		wallet.GET("/address", rl("wallet"), walletHandler.GetAddress)
		wallet.POST("/reveal", rl("reveal"), walletHandler.Reveal)
		wallet.POST("/backup-ack", rl("wallet"), walletHandler.ConfirmBackup)
		wallet.GET("/deposit", rl("wallet"), walletHandler.GetDeposit)
	}

	trades := v1.Group("/trades", jwtAuth)
	{
		trades.POST("", rl("trades"), tradeHandler.Execute)
		trades.GET("/last", rl("trades"), tradeHandler.GetLastReceipt)
	}

	return r
}
