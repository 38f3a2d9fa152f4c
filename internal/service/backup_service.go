package service

import (
	"context"

	"trading-wallet-service/internal/core/ports"
	"trading-wallet-service/pkg/apperror"
)

// BackupAckService implements ports.BackupService: a one-way latch
// recording that the user confirmed saving the private key. The latch is
// advisory: it informs UI re-display policy and never blocks vault
// access, because the system cannot un-confirm a disclosure that already
// happened.
type BackupAckService struct {
	walletRepo ports.WalletRepository
}

// NewBackupAckService creates a new BackupAckService.
func NewBackupAckService(walletRepo ports.WalletRepository) *BackupAckService {
	return &BackupAckService{walletRepo: walletRepo}
}

// Confirm sets backup_acknowledged for the user's wallet. Confirming an
// already-confirmed wallet is a no-op success.
func (s *BackupAckService) Confirm(ctx context.Context, userID string) error {
	found, err := s.walletRepo.SetBackupAcknowledged(ctx, userID)
	if err != nil {
		return apperror.ErrVaultUnavailable(err)
	}
	if !found {
		return apperror.ErrWalletNotFound()
	}
	return nil
}

// IsAcknowledged reports the latch state for the user's wallet.
func (s *BackupAckService) IsAcknowledged(ctx context.Context, userID string) (bool, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return false, apperror.ErrVaultUnavailable(err)
	}
	if wallet == nil {
		return false, apperror.ErrWalletNotFound()
	}
	return wallet.BackupAcknowledged, nil
}
