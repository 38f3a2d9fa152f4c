package handler

import (
	"context"
	"net/http"
	"time"

	"trading-wallet-service/internal/core/ports"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 3 * time.Second

// HealthCheck returns a handler that pings each dependency and reports
// per-dependency status. Any failure yields 503.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		deps := make(map[string]string, len(checkers))

		for _, checker := range checkers {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
			err := checker.Ping(ctx)
			cancel()

			if err != nil {
				deps[checker.Name()] = "unhealthy"
				status = http.StatusServiceUnavailable
			} else {
				deps[checker.Name()] = "healthy"
			}
		}

		overall := "healthy"
		if status != http.StatusOK {
			overall = "unhealthy"
		}

		c.JSON(status, gin.H{
			"status":       overall,
			"dependencies": deps,
			"timestamp":    time.Now().UTC().Format(time.RFC3339),
		})
	}
}
