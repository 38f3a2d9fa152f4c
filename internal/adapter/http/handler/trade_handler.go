package handler

import (
	"time"

	"trading-wallet-service/internal/adapter/http/dto"
	"trading-wallet-service/internal/adapter/http/middleware"
	"trading-wallet-service/internal/core/domain"
	"trading-wallet-service/internal/core/ports"
	"trading-wallet-service/pkg/apperror"
	"trading-wallet-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// TradeHandler handles trade submission and receipt lookup.
type TradeHandler struct {
	walletSvc ports.WalletService
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(walletSvc ports.WalletService) *TradeHandler {
	return &TradeHandler{walletSvc: walletSvc}
}

// Execute handles POST /api/v1/trades. On an ambiguous outcome the receipt
// is returned with the error status so the client can poll instead of
// blindly resubmitting.
func (h *TradeHandler) Execute(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	receipt, err := h.walletSvc.ExecuteTrade(c.Request.Context(), userID, ports.TradeInput{
		Side:         req.Side,
		Mint:         req.Mint,
		Amount:       req.Amount,
		SlippageBps:  req.SlippageBps,
		PriorityTier: req.PriorityFee,
		MevProtected: req.MevProtected,
		Venue:        req.Venue,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toReceiptResponse(receipt))
}

// GetLastReceipt handles GET /api/v1/trades/last.
func (h *TradeHandler) GetLastReceipt(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	receipt, err := h.walletSvc.LastReceipt(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toReceiptResponse(receipt))
}

func toReceiptResponse(r *domain.ExecutionReceipt) dto.ReceiptResponse {
	return dto.ReceiptResponse{
		ReceiptID:   r.ReceiptID,
		Status:      string(r.Status),
		VenueStatus: r.VenueStatus,
		SubmittedAt: r.SubmittedAt.Format(time.RFC3339),
	}
}
