package postgres

import (
	"context"
	"errors"
	"fmt"

	"trading-wallet-service/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

// CreateIfAbsent inserts the wallet unless one already exists for the
// user. The unique constraint on user_id makes this the mutual-exclusion
// point for concurrent first-time creation: exactly one insert wins.
func (r *WalletRepo) CreateIfAbsent(ctx context.Context, w *domain.Wallet) (bool, error) {
	query := `INSERT INTO wallets (id, user_id, public_address, encrypted_private_key, backup_acknowledged, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query,
		w.ID, w.UserID, w.PublicAddress, w.EncryptedPrivateKey,
		w.BackupAcknowledged, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert wallet: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetByUserID fetches a wallet by user ID. Returns nil, nil when no wallet
// exists.
func (r *WalletRepo) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	query := `SELECT id, user_id, public_address, encrypted_private_key, backup_acknowledged, created_at, updated_at
		FROM wallets WHERE user_id = $1`

	w := &domain.Wallet{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&w.ID, &w.UserID, &w.PublicAddress, &w.EncryptedPrivateKey,
		&w.BackupAcknowledged, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet by user id: %w", err)
	}
	return w, nil
}

// SetBackupAcknowledged flips the backup latch to true. The latch only
// moves forward; re-confirming an acknowledged wallet still matches the
// row and reports found.
func (r *WalletRepo) SetBackupAcknowledged(ctx context.Context, userID string) (bool, error) {
	query := `UPDATE wallets SET backup_acknowledged = TRUE, updated_at = NOW() WHERE user_id = $1`

	tag, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return false, fmt.Errorf("set backup acknowledged: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
