package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeSide represents the direction of a trade.
type TradeSide string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

// Valid reports whether the side is one of the known directions.
func (s TradeSide) Valid() bool {
	return s == TradeSideBuy || s == TradeSideSell
}

// PriorityTier is the named priority-fee level selected by the user.
type PriorityTier string

const (
	PriorityTierLow    PriorityTier = "low"
	PriorityTierMedium PriorityTier = "medium"
	PriorityTierHigh   PriorityTier = "high"
)

// Priority fee amounts per tier, in base-currency units.
var priorityFeeTable = map[PriorityTier]decimal.Decimal{
	PriorityTierLow:    decimal.NewFromFloat(0.0005),
	PriorityTierMedium: decimal.NewFromFloat(0.001),
	PriorityTierHigh:   decimal.NewFromFloat(0.005),
}

// FeeForTier maps a tier to its fixed fee amount. An unknown tier resolves
// to the medium fee, never an error.
func FeeForTier(tier PriorityTier) decimal.Decimal {
	if fee, ok := priorityFeeTable[tier]; ok {
		return fee
	}
	return priorityFeeTable[PriorityTierMedium]
}

const (
	// DefaultSlippageBps is applied when the caller requests "auto" slippage.
	DefaultSlippageBps = 1000

	// DefaultVenue defers pool routing to the execution venue.
	DefaultVenue = "auto"
)

// TradeOrder is a validated, normalized trade ready for submission.
// Orders are immutable once built; a new order is built per attempt.
type TradeOrder struct {
	UserID        string          `json:"user_id"`
	WalletAddress string          `json:"wallet_address"`
	Side          TradeSide       `json:"side"`
	Mint          string          `json:"mint"`
	// Amount is the base-currency amount for buys and the asset quantity
	// for sells.
	Amount            decimal.Decimal `json:"amount"`
	DenominatedInBase bool            `json:"denominated_in_base"`
	SlippageBps       int             `json:"slippage_bps"`
	PriorityFee       decimal.Decimal `json:"priority_fee"`
	MevProtected      bool            `json:"mev_protected"`
	Venue             string          `json:"venue"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ExecutionStatus is the outcome of a trade submission.
type ExecutionStatus string

const (
	ExecutionStatusSubmitted ExecutionStatus = "SUBMITTED"
	ExecutionStatusFailed    ExecutionStatus = "FAILED"
	// ExecutionStatusUnknown marks an ambiguous outcome (e.g. timeout):
	// the on-chain effect may have occurred, so callers must poll before
	// resubmitting rather than blindly retry.
	ExecutionStatusUnknown ExecutionStatus = "UNKNOWN"
)

// ExecutionReceipt is the venue's acknowledgment of an order submission.
type ExecutionReceipt struct {
	ReceiptID   string          `json:"receipt_id,omitempty"`
	Status      ExecutionStatus `json:"status"`
	VenueStatus int             `json:"venue_status,omitempty"`
	SubmittedAt time.Time       `json:"submitted_at"`
}
