package handler

import (
	"encoding/base64"
	"time"

	"trading-wallet-service/internal/adapter/http/dto"
	"trading-wallet-service/internal/adapter/http/middleware"
	"trading-wallet-service/internal/core/domain"
	"trading-wallet-service/internal/core/ports"
	"trading-wallet-service/pkg/apperror"
	"trading-wallet-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet lifecycle endpoints: provisioning, address
// and deposit queries, key disclosure, and the backup latch.
type WalletHandler struct {
	walletSvc ports.WalletService
	backupSvc ports.BackupService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService, backupSvc ports.BackupService) *WalletHandler {
	return &WalletHandler{
		walletSvc: walletSvc,
		backupSvc: backupSvc,
	}
}

// Create handles POST /api/v1/wallet. Idempotent: an existing wallet is
// returned unchanged.
func (h *WalletHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	wallet, err := h.walletSvc.CreateWalletIfMissing(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toWalletResponse(wallet))
}

// GetAddress handles GET /api/v1/wallet/address.
func (h *WalletHandler) GetAddress(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	address, err := h.walletSvc.GetPublicAddress(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.AddressResponse{Address: address})
}

// Reveal handles POST /api/v1/wallet/reveal. The response is the only
// place private key material ever leaves the service. The acknowledgment
// state rides along so the UI can decide whether to auto-hide.
func (h *WalletHandler) Reveal(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	key, err := h.walletSvc.RevealPrivateKey(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	acknowledged, err := h.backupSvc.IsAcknowledged(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.RevealResponse{
		PrivateKey:         key,
		BackupAcknowledged: acknowledged,
	})
}

// ConfirmBackup handles POST /api/v1/wallet/backup-ack.
func (h *WalletHandler) ConfirmBackup(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	if err := h.walletSvc.ConfirmBackup(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BackupAckResponse{BackupAcknowledged: true})
}

// GetDeposit handles GET /api/v1/wallet/deposit.
func (h *WalletHandler) GetDeposit(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	target, err := h.walletSvc.BuildDepositTarget(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.DepositResponse{
		Address: target.Address,
		QRImage: base64.StdEncoding.EncodeToString(target.PaymentImage),
	})
}

func toWalletResponse(w *domain.Wallet) dto.WalletResponse {
	return dto.WalletResponse{
		UserID:             w.UserID,
		PublicAddress:      w.PublicAddress,
		BackupAcknowledged: w.BackupAcknowledged,
		CreatedAt:          w.CreatedAt.Format(time.RFC3339),
	}
}
