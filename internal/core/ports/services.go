package ports

import (
	"context"
	"time"

	"trading-wallet-service/internal/core/domain"
)

// EncryptionService handles AES-256-GCM encryption/decryption of key
// material at rest.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// TokenService handles JWT session token operations.
type TokenService interface {
	Generate(userID string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID string
}

// KeyVault generates and stores one keypair per user. The public address
// is always available; private key material is returned only through
// RevealPrivateKey, and every reveal is an audited event.
type KeyVault interface {
	// CreateIfMissing returns the existing wallet unchanged, or generates
	// and persists a new keypair. Safe under concurrent calls for the
	// same user.
	CreateIfMissing(ctx context.Context, userID string) (*domain.Wallet, error)
	// RevealPrivateKey returns decrypted key material. It is callable
	// regardless of backup acknowledgment: the latch gates UI re-display,
	// not vault access.
	RevealPrivateKey(ctx context.Context, userID string) (string, error)
	PublicAddress(ctx context.Context, userID string) (string, error)
}

// BackupService tracks the one-way "user saved the private key" latch.
type BackupService interface {
	// Confirm sets the latch. Idempotent: confirming twice is a no-op
	// success. The latch never reverts.
	Confirm(ctx context.Context, userID string) error
	IsAcknowledged(ctx context.Context, userID string) (bool, error)
}

// DepositTarget is a scannable payment target for funding a wallet.
type DepositTarget struct {
	Address      string
	PaymentImage []byte // PNG-encoded QR code
}

// DepositService derives a deposit target from a public address.
type DepositService interface {
	BuildDepositTarget(address string) (*DepositTarget, error)
}

// TradeInput is the raw, unvalidated trade intent from the caller.
type TradeInput struct {
	Side         string
	Mint         string
	Amount       string
	SlippageBps  string // numeric string, or "auto"/empty for the default
	PriorityTier string
	MevProtected bool
	Venue        string
}

// TradeBuilder validates and normalizes trade intent into an immutable
// order. Pure: the only gate before an irreversible on-chain action.
type TradeBuilder interface {
	Build(walletAddress, userID string, input TradeInput) (*domain.TradeOrder, error)
}

// TradeExecutor submits a built order to the execution venue. Exactly one
// submission per call; no internal queuing, batching, or retry.
type TradeExecutor interface {
	// Submit returns the receipt alongside any error so ambiguous
	// outcomes (ExecutionStatusUnknown) remain observable to the caller.
	Submit(ctx context.Context, order *domain.TradeOrder) (*domain.ExecutionReceipt, error)
}

// VenueOrder is the wire shape accepted by the external ledger/signing
// service.
type VenueOrder struct {
	Action            string `json:"action"`
	Mint              string `json:"mint"`
	Amount            string `json:"amount"`
	DenominatedInBase bool   `json:"denominatedInBase"`
	SlippageBps       int    `json:"slippageBps"`
	PriorityFee       string `json:"priorityFee"`
	MevProtected      bool   `json:"mevProtected"`
	Pool              string `json:"pool"`
}

// VenueResult is the venue's response to an order submission.
type VenueResult struct {
	StatusCode int
	ReceiptID  string
}

// LedgerClient is the narrow interface to the external ledger/signing
// service. The core treats it as a black box over request/response.
type LedgerClient interface {
	SubmitOrder(ctx context.Context, order VenueOrder) (*VenueResult, error)
}

// ReceiptCache stores the most recent execution receipt per user so an
// Unknown outcome can be polled before resubmission.
type ReceiptCache interface {
	Get(ctx context.Context, userID string) (*domain.ExecutionReceipt, error)
	Set(ctx context.Context, userID string, receipt *domain.ExecutionReceipt, ttl time.Duration) error
}

// WalletService is the orchestrator facade composing vault, backup,
// deposit, builder, and executor, enforcing the wallet state machine.
type WalletService interface {
	CreateWalletIfMissing(ctx context.Context, userID string) (*domain.Wallet, error)
	GetPublicAddress(ctx context.Context, userID string) (string, error)
	RevealPrivateKey(ctx context.Context, userID string) (string, error)
	ConfirmBackup(ctx context.Context, userID string) error
	BuildDepositTarget(ctx context.Context, userID string) (*DepositTarget, error)
	ExecuteTrade(ctx context.Context, userID string, input TradeInput) (*domain.ExecutionReceipt, error)
	LastReceipt(ctx context.Context, userID string) (*domain.ExecutionReceipt, error)
}

// AuditService records audited actions.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
