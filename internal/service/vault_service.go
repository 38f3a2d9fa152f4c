package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"time"

	"trading-wallet-service/internal/core/domain"
	"trading-wallet-service/internal/core/ports"
	"trading-wallet-service/pkg/apperror"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// VaultService implements ports.KeyVault. It is the sole creation path for
// wallets: one ed25519 keypair per user, encrypted at rest, never rotated.
type VaultService struct {
	walletRepo ports.WalletRepository
	encSvc     ports.EncryptionService
	auditSvc   ports.AuditService
	log        zerolog.Logger
}

// NewVaultService creates a new VaultService.
func NewVaultService(
	walletRepo ports.WalletRepository,
	encSvc ports.EncryptionService,
	auditSvc ports.AuditService,
	log zerolog.Logger,
) *VaultService {
	return &VaultService{
		walletRepo: walletRepo,
		encSvc:     encSvc,
		auditSvc:   auditSvc,
		log:        log,
	}
}

// CreateIfMissing returns the user's wallet, generating one if none exists.
// The at-most-one invariant is enforced by the repository's conditional
// insert: when two first-time calls race, exactly one insert wins and the
// loser re-reads the stored wallet.
func (s *VaultService) CreateIfMissing(ctx context.Context, userID string) (*domain.Wallet, error) {
	existing, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.ErrVaultUnavailable(err)
	}
	if existing != nil {
		return existing, nil
	}

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	encKey, err := s.encSvc.Encrypt(base58.Encode(priv))
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(err)
	}

	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:                  uuid.New(),
		UserID:              userID,
		PublicAddress:       base58.Encode(pub),
		EncryptedPrivateKey: encKey,
		BackupAcknowledged:  false,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	created, err := s.walletRepo.CreateIfAbsent(ctx, wallet)
	if err != nil {
		return nil, apperror.ErrVaultUnavailable(err)
	}
	if !created {
		// Lost the race: another call inserted first. The freshly
		// generated keypair is discarded, never persisted.
		stored, err := s.walletRepo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, apperror.ErrVaultUnavailable(err)
		}
		if stored == nil {
			return nil, apperror.ErrWalletNotFound()
		}
		return stored, nil
	}

	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		UserID:       userID,
		Action:       domain.AuditActionWalletCreate,
		ResourceType: "wallet",
		ResourceID:   wallet.PublicAddress,
		CreatedAt:    now,
	})

	s.log.Info().
		Str("user_id", userID).
		Str("address", wallet.PublicAddress).
		Msg("trading wallet created")

	return wallet, nil
}

// RevealPrivateKey returns the decrypted private key material. Backup
// acknowledgment does not gate this call; it only drives UI re-display.
// Every reveal is audited.
func (s *VaultService) RevealPrivateKey(ctx context.Context, userID string) (string, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return "", apperror.ErrVaultUnavailable(err)
	}
	if wallet == nil {
		return "", apperror.ErrWalletNotFound()
	}

	key, err := s.encSvc.Decrypt(wallet.EncryptedPrivateKey)
	if err != nil {
		return "", apperror.ErrEncryptionFailure(err)
	}

	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:           uuid.New(),
		UserID:       userID,
		Action:       domain.AuditActionKeyReveal,
		ResourceType: "wallet",
		ResourceID:   wallet.PublicAddress,
		CreatedAt:    time.Now().UTC(),
	})

	return key, nil
}

// PublicAddress returns the wallet's public address.
func (s *VaultService) PublicAddress(ctx context.Context, userID string) (string, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return "", apperror.ErrVaultUnavailable(err)
	}
	if wallet == nil {
		return "", apperror.ErrWalletNotFound()
	}
	return wallet.PublicAddress, nil
}
