package service

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"image/png"
	"testing"

	"trading-wallet-service/pkg/apperror"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress(t *testing.T) string {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return base58.Encode(pub)
}

func TestDepositTargetService_BuildDepositTarget(t *testing.T) {
	svc := NewDepositTargetService()
	address := testAddress(t)

	target, err := svc.BuildDepositTarget(address)
	require.NoError(t, err)
	assert.Equal(t, address, target.Address)

	// The payment image must be a decodable PNG.
	img, err := png.Decode(bytes.NewReader(target.PaymentImage))
	require.NoError(t, err)
	assert.Equal(t, qrImageSize, img.Bounds().Dx())
}

func TestDepositTargetService_BuildDepositTarget_Deterministic(t *testing.T) {
	svc := NewDepositTargetService()
	address := testAddress(t)

	first, err := svc.BuildDepositTarget(address)
	require.NoError(t, err)
	second, err := svc.BuildDepositTarget(address)
	require.NoError(t, err)

	assert.Equal(t, first.Address, second.Address)
	assert.Equal(t, first.PaymentImage, second.PaymentImage)
}

func TestDepositTargetService_BuildDepositTarget_InvalidAddress(t *testing.T) {
	svc := NewDepositTargetService()

	for _, address := range []string{"", "not-base58-0OIl", "abc"} {
		_, err := svc.BuildDepositTarget(address)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr, "address %q", address)
		assert.Equal(t, "WAL_002", appErr.Code)
	}
}
