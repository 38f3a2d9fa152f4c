package service

import (
	"strconv"
	"strings"
	"time"

	"trading-wallet-service/internal/core/domain"
	"trading-wallet-service/internal/core/ports"
	"trading-wallet-service/pkg/apperror"

	"github.com/shopspring/decimal"
)

// TradeOrderBuilder implements ports.TradeBuilder. Pure validate-and-
// normalize: the only gate before an irreversible on-chain action is
// attempted, so validation short-circuits on the first failure.
type TradeOrderBuilder struct{}

// NewTradeOrderBuilder creates a new TradeOrderBuilder.
func NewTradeOrderBuilder() *TradeOrderBuilder {
	return &TradeOrderBuilder{}
}

// Build validates raw trade intent and returns an immutable order.
// Validation order: amount, side, slippage, priority tier, venue.
func (b *TradeOrderBuilder) Build(walletAddress, userID string, input ports.TradeInput) (*domain.TradeOrder, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(input.Amount))
	if err != nil || !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	side := domain.TradeSide(strings.ToLower(strings.TrimSpace(input.Side)))
	if !side.Valid() {
		return nil, apperror.Validation("side must be buy or sell")
	}

	if strings.TrimSpace(input.Mint) == "" {
		return nil, apperror.Validation("missing target asset")
	}

	slippageBps, err := resolveSlippage(input.SlippageBps)
	if err != nil {
		return nil, err
	}

	// Unknown tiers resolve to medium rather than failing.
	fee := domain.FeeForTier(domain.PriorityTier(strings.ToLower(input.PriorityTier)))

	venue := strings.TrimSpace(input.Venue)
	if venue == "" {
		venue = domain.DefaultVenue
	}

	return &domain.TradeOrder{
		UserID:        userID,
		WalletAddress: walletAddress,
		Side:          side,
		Mint:          strings.TrimSpace(input.Mint),
		Amount:        amount,
		// Buys are denominated in the base currency, sells in asset
		// quantity.
		DenominatedInBase: side == domain.TradeSideBuy,
		SlippageBps:       slippageBps,
		PriorityFee:       fee,
		MevProtected:      input.MevProtected,
		Venue:             venue,
		CreatedAt:         time.Now().UTC(),
	}, nil
}

// resolveSlippage maps "auto" (or empty) to the system default and clamps
// explicit values to >= 0.
func resolveSlippage(raw string) (int, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == "auto" {
		return domain.DefaultSlippageBps, nil
	}
	bps, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.Validation("slippage must be an integer basis-point value or auto")
	}
	if bps < 0 {
		bps = 0
	}
	return bps, nil
}
