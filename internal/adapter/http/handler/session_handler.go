package handler

import (
	"crypto/subtle"

	"trading-wallet-service/internal/adapter/http/dto"
	"trading-wallet-service/internal/core/ports"
	"trading-wallet-service/pkg/apperror"
	"trading-wallet-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// HeaderServiceKey authenticates the dashboard backend on session mint.
const HeaderServiceKey = "X-Service-Key"

// SessionHandler mints dashboard session tokens. User identity is asserted
// by the dashboard backend, which authenticates with a shared service key.
type SessionHandler struct {
	tokenSvc   ports.TokenService
	serviceKey string
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(tokenSvc ports.TokenService, serviceKey string) *SessionHandler {
	return &SessionHandler{
		tokenSvc:   tokenSvc,
		serviceKey: serviceKey,
	}
}

// CreateSession handles POST /api/v1/auth/session.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	provided := c.GetHeader(HeaderServiceKey)
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.serviceKey)) != 1 {
		response.Error(c, apperror.ErrInvalidServiceKey())
		return
	}

	var req dto.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	token, expiry, err := h.tokenSvc.Generate(req.UserID)
	if err != nil {
		response.Error(c, apperror.InternalError(err))
		return
	}

	response.Created(c, dto.SessionResponse{
		Token:  token,
		Expiry: expiry.Unix(),
	})
}
