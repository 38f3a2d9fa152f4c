package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"trading-wallet-service/internal/core/domain"
	"trading-wallet-service/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that records successful write
// operations. Vault-level events (wallet creation, key reveal, trade
// submission) are additionally audited inside the services; this captures
// the HTTP boundary with the client IP.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			return
		}

		action, resourceType := mapPathToAction(c.Request.URL.Path, c.Request.Method)
		if action == "" {
			return
		}

		userID, _ := UserID(c)

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			UserID:       userID,
			Action:       action,
			ResourceType: resourceType,
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

func mapPathToAction(path, method string) (domain.AuditAction, string) {
	switch {
	case path == "/api/v1/wallet" && method == http.MethodPost:
		return domain.AuditActionWalletCreate, "wallet"
	case path == "/api/v1/wallet/reveal" && method == http.MethodPost:
		return domain.AuditActionKeyReveal, "wallet"
	case path == "/api/v1/wallet/backup-ack" && method == http.MethodPost:
		return domain.AuditActionBackupConfirm, "wallet"
	case path == "/api/v1/trades" && method == http.MethodPost:
		return domain.AuditActionTradeSubmit, "trade"
	}
	return "", ""
}
