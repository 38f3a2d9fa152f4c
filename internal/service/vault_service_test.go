package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"trading-wallet-service/internal/core/domain"
	"trading-wallet-service/internal/core/ports/mocks"
	"trading-wallet-service/pkg/apperror"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestVaultService_CreateIfMissing_GeneratesWallet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWalletRepository(ctrl)
	mockEnc := mocks.NewMockEncryptionService(ctrl)
	mockAudit := mocks.NewMockAuditService(ctrl)
	svc := NewVaultService(mockRepo, mockEnc, mockAudit, newTestLogger())

	userID := "user-123"

	mockRepo.EXPECT().GetByUserID(gomock.Any(), userID).Return(nil, nil)
	mockEnc.EXPECT().Encrypt(gomock.Any()).DoAndReturn(func(plaintext string) (string, error) {
		// Key material is base58-encoded ed25519 (64 bytes).
		assert.Len(t, base58.Decode(plaintext), 64)
		return "encrypted-blob", nil
	})
	mockRepo.EXPECT().CreateIfAbsent(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, w *domain.Wallet) (bool, error) {
			assert.Equal(t, userID, w.UserID)
			assert.Equal(t, "encrypted-blob", w.EncryptedPrivateKey)
			assert.False(t, w.BackupAcknowledged)
			assert.Len(t, base58.Decode(w.PublicAddress), 32)
			return true, nil
		},
	)
	mockAudit.EXPECT().Log(gomock.Any(), gomock.Any()).Do(
		func(ctx context.Context, entry *domain.AuditLog) {
			assert.Equal(t, domain.AuditActionWalletCreate, entry.Action)
			assert.Equal(t, userID, entry.UserID)
		},
	)

	wallet, err := svc.CreateIfMissing(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, wallet)
	assert.NotEmpty(t, wallet.PublicAddress)
}

func TestVaultService_CreateIfMissing_ReturnsExistingUnchanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWalletRepository(ctrl)
	mockEnc := mocks.NewMockEncryptionService(ctrl)
	mockAudit := mocks.NewMockAuditService(ctrl)
	svc := NewVaultService(mockRepo, mockEnc, mockAudit, newTestLogger())

	existing := &domain.Wallet{
		ID:            uuid.New(),
		UserID:        "user-123",
		PublicAddress: "ExistingAddr",
	}
	mockRepo.EXPECT().GetByUserID(gomock.Any(), "user-123").Return(existing, nil)
	// No Encrypt, no CreateIfAbsent, no audit: the call is a pure read.

	wallet, err := svc.CreateIfMissing(context.Background(), "user-123")
	require.NoError(t, err)
	assert.Equal(t, existing, wallet)
}

func TestVaultService_CreateIfMissing_LostRaceReReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWalletRepository(ctrl)
	mockEnc := mocks.NewMockEncryptionService(ctrl)
	mockAudit := mocks.NewMockAuditService(ctrl)
	svc := NewVaultService(mockRepo, mockEnc, mockAudit, newTestLogger())

	winner := &domain.Wallet{ID: uuid.New(), UserID: "user-123", PublicAddress: "WinnerAddr"}

	gomock.InOrder(
		mockRepo.EXPECT().GetByUserID(gomock.Any(), "user-123").Return(nil, nil),
		mockRepo.EXPECT().CreateIfAbsent(gomock.Any(), gomock.Any()).Return(false, nil),
		mockRepo.EXPECT().GetByUserID(gomock.Any(), "user-123").Return(winner, nil),
	)
	mockEnc.EXPECT().Encrypt(gomock.Any()).Return("encrypted-blob", nil)

	wallet, err := svc.CreateIfMissing(context.Background(), "user-123")
	require.NoError(t, err)
	assert.Equal(t, "WinnerAddr", wallet.PublicAddress)
}

func TestVaultService_CreateIfMissing_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWalletRepository(ctrl)
	svc := NewVaultService(mockRepo, mocks.NewMockEncryptionService(ctrl), mocks.NewMockAuditService(ctrl), newTestLogger())

	mockRepo.EXPECT().GetByUserID(gomock.Any(), "user-123").Return(nil, errors.New("connection refused"))

	_, err := svc.CreateIfMissing(context.Background(), "user-123")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WAL_003", appErr.Code)
}

func TestVaultService_RevealPrivateKey_DecryptsAndAudits(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWalletRepository(ctrl)
	mockEnc := mocks.NewMockEncryptionService(ctrl)
	mockAudit := mocks.NewMockAuditService(ctrl)
	svc := NewVaultService(mockRepo, mockEnc, mockAudit, newTestLogger())

	wallet := &domain.Wallet{
		ID:                  uuid.New(),
		UserID:              "user-123",
		PublicAddress:       "Addr",
		EncryptedPrivateKey: "ciphertext",
		BackupAcknowledged:  false, // reveal is never gated by the latch
	}
	mockRepo.EXPECT().GetByUserID(gomock.Any(), "user-123").Return(wallet, nil)
	mockEnc.EXPECT().Decrypt("ciphertext").Return("plain-key", nil)
	mockAudit.EXPECT().Log(gomock.Any(), gomock.Any()).Do(
		func(ctx context.Context, entry *domain.AuditLog) {
			assert.Equal(t, domain.AuditActionKeyReveal, entry.Action)
		},
	)

	key, err := svc.RevealPrivateKey(context.Background(), "user-123")
	require.NoError(t, err)
	assert.Equal(t, "plain-key", key)
}

func TestVaultService_RevealPrivateKey_NoWallet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWalletRepository(ctrl)
	svc := NewVaultService(mockRepo, mocks.NewMockEncryptionService(ctrl), mocks.NewMockAuditService(ctrl), newTestLogger())

	mockRepo.EXPECT().GetByUserID(gomock.Any(), "user-123").Return(nil, nil)

	_, err := svc.RevealPrivateKey(context.Background(), "user-123")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "WAL_001", appErr.Code)
}

func TestVaultService_PublicAddress(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockWalletRepository(ctrl)
	svc := NewVaultService(mockRepo, mocks.NewMockEncryptionService(ctrl), mocks.NewMockAuditService(ctrl), newTestLogger())

	mockRepo.EXPECT().GetByUserID(gomock.Any(), "user-123").Return(&domain.Wallet{
		UserID:        "user-123",
		PublicAddress: "SomeAddr",
	}, nil)

	addr, err := svc.PublicAddress(context.Background(), "user-123")
	require.NoError(t, err)
	assert.Equal(t, "SomeAddr", addr)
}
