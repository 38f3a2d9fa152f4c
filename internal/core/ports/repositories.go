package ports

import (
	"context"

	"trading-wallet-service/internal/core/domain"
)

// WalletRepository defines persistence operations for custodial wallets.
type WalletRepository interface {
	// CreateIfAbsent inserts the wallet unless one already exists for the
	// user (conditional insert against a unique constraint on user_id).
	// Returns true if the wallet was inserted, false if a wallet already
	// existed and the insert was a no-op. This is the sole creation path
	// and enforces the at-most-one-wallet-per-user invariant under
	// concurrent calls.
	CreateIfAbsent(ctx context.Context, wallet *domain.Wallet) (bool, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error)
	// SetBackupAcknowledged flips the one-way backup latch. Returns false
	// if no wallet exists for the user. Confirming an already-confirmed
	// wallet is a no-op success.
	SetBackupAcknowledged(ctx context.Context, userID string) (bool, error)
}

// AuditRepository persists audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}
