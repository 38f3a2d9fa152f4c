package service

import (
	"trading-wallet-service/internal/core/ports"
	"trading-wallet-service/pkg/apperror"

	"github.com/btcsuite/btcd/btcutil/base58"
	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 256

// DepositTargetService implements ports.DepositService: a stateless
// transformation of a public address into a scannable payment target.
type DepositTargetService struct{}

// NewDepositTargetService creates a new DepositTargetService.
func NewDepositTargetService() *DepositTargetService {
	return &DepositTargetService{}
}

// BuildDepositTarget encodes the address into a PNG QR code. Addresses
// originate from the vault, so InvalidAddress should be unreachable in
// practice; it is still checked because the input is a plain string.
func (s *DepositTargetService) BuildDepositTarget(address string) (*ports.DepositTarget, error) {
	if address == "" {
		return nil, apperror.ErrInvalidAddress()
	}
	if decoded := base58.Decode(address); len(decoded) != 32 {
		return nil, apperror.ErrInvalidAddress()
	}

	png, err := qrcode.Encode(address, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	return &ports.DepositTarget{
		Address:      address,
		PaymentImage: png,
	}, nil
}
