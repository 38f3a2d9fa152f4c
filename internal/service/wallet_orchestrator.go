package service

import (
	"context"
	"time"

	"trading-wallet-service/internal/core/domain"
	"trading-wallet-service/internal/core/ports"
	"trading-wallet-service/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WalletOrchestrator implements ports.WalletService: the facade composing
// vault, backup latch, deposit target, trade builder, and executor. Wallet
// state only moves forward: NoWallet -> created(unacknowledged) ->
// created(acknowledged). Trading never changes wallet state.
type WalletOrchestrator struct {
	vault        ports.KeyVault
	backup       ports.BackupService
	deposit      ports.DepositService
	builder      ports.TradeBuilder
	executor     ports.TradeExecutor
	receiptCache ports.ReceiptCache
	auditSvc     ports.AuditService
	receiptTTL   time.Duration
	log          zerolog.Logger
}

// NewWalletOrchestrator creates a new WalletOrchestrator. receiptCache may
// be nil, in which case receipts are not retained for polling.
func NewWalletOrchestrator(
	vault ports.KeyVault,
	backup ports.BackupService,
	deposit ports.DepositService,
	builder ports.TradeBuilder,
	executor ports.TradeExecutor,
	receiptCache ports.ReceiptCache,
	auditSvc ports.AuditService,
	receiptTTL time.Duration,
	log zerolog.Logger,
) *WalletOrchestrator {
	return &WalletOrchestrator{
		vault:        vault,
		backup:       backup,
		deposit:      deposit,
		builder:      builder,
		executor:     executor,
		receiptCache: receiptCache,
		auditSvc:     auditSvc,
		receiptTTL:   receiptTTL,
		log:          log,
	}
}

// CreateWalletIfMissing provisions the user's wallet lazily.
func (o *WalletOrchestrator) CreateWalletIfMissing(ctx context.Context, userID string) (*domain.Wallet, error) {
	return o.vault.CreateIfMissing(ctx, userID)
}

// GetPublicAddress returns the wallet's public address.
func (o *WalletOrchestrator) GetPublicAddress(ctx context.Context, userID string) (string, error) {
	return o.vault.PublicAddress(ctx, userID)
}

// RevealPrivateKey discloses the private key material. The backup latch
// does not gate this; it only tells the UI whether to auto-hide the key
// after first view.
func (o *WalletOrchestrator) RevealPrivateKey(ctx context.Context, userID string) (string, error) {
	return o.vault.RevealPrivateKey(ctx, userID)
}

// ConfirmBackup flips the one-way backup latch. Fails with NotFound when
// called before the wallet exists.
func (o *WalletOrchestrator) ConfirmBackup(ctx context.Context, userID string) error {
	return o.backup.Confirm(ctx, userID)
}

// BuildDepositTarget derives the scannable deposit target from the user's
// public address.
func (o *WalletOrchestrator) BuildDepositTarget(ctx context.Context, userID string) (*ports.DepositTarget, error) {
	address, err := o.vault.PublicAddress(ctx, userID)
	if err != nil {
		return nil, err
	}
	return o.deposit.BuildDepositTarget(address)
}

// ExecuteTrade provisions the wallet if missing, validates the intent into
// an order, and submits it. Exactly one submission per call; the receipt
// (including ambiguous UNKNOWN outcomes) is cached best-effort so callers
// can poll before resubmitting.
func (o *WalletOrchestrator) ExecuteTrade(ctx context.Context, userID string, input ports.TradeInput) (*domain.ExecutionReceipt, error) {
	// Defensive create-if-missing before every trade attempt.
	wallet, err := o.vault.CreateIfMissing(ctx, userID)
	if err != nil {
		return nil, err
	}

	order, err := o.builder.Build(wallet.PublicAddress, userID, input)
	if err != nil {
		return nil, err
	}

	receipt, execErr := o.executor.Submit(ctx, order)
	if receipt != nil {
		o.cacheReceipt(ctx, userID, receipt)
		o.auditSvc.Log(ctx, &domain.AuditLog{
			ID:           uuid.New(),
			UserID:       userID,
			Action:       domain.AuditActionTradeSubmit,
			ResourceType: "trade",
			ResourceID:   receipt.ReceiptID,
			CreatedAt:    time.Now().UTC(),
		})
	}
	if execErr != nil {
		return receipt, execErr
	}
	return receipt, nil
}

// LastReceipt returns the most recently cached execution receipt, letting
// callers resolve an UNKNOWN outcome before deciding to resubmit.
func (o *WalletOrchestrator) LastReceipt(ctx context.Context, userID string) (*domain.ExecutionReceipt, error) {
	if o.receiptCache == nil {
		return nil, apperror.ErrReceiptNotFound()
	}
	receipt, err := o.receiptCache.Get(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if receipt == nil {
		return nil, apperror.ErrReceiptNotFound()
	}
	return receipt, nil
}

func (o *WalletOrchestrator) cacheReceipt(ctx context.Context, userID string, receipt *domain.ExecutionReceipt) {
	if o.receiptCache == nil {
		return
	}
	if err := o.receiptCache.Set(ctx, userID, receipt, o.receiptTTL); err != nil {
		o.log.Warn().Err(err).Str("user_id", userID).Msg("failed to cache execution receipt")
	}
}
