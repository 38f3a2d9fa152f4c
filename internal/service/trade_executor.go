package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"trading-wallet-service/internal/core/domain"
	"trading-wallet-service/internal/core/ports"
	"trading-wallet-service/pkg/apperror"

	"github.com/rs/zerolog"
)

// VenueExecutor implements ports.TradeExecutor. Stateless pass-through to
// the ledger service: exactly one submission per Submit call, bounded by a
// timeout. There is no retry on ambiguous failure since a trade is a
// financial action and a blind retry risks double execution.
type VenueExecutor struct {
	ledger  ports.LedgerClient
	timeout time.Duration
	log     zerolog.Logger
}

// NewVenueExecutor creates a new VenueExecutor.
func NewVenueExecutor(ledger ports.LedgerClient, timeout time.Duration, log zerolog.Logger) *VenueExecutor {
	return &VenueExecutor{
		ledger:  ledger,
		timeout: timeout,
		log:     log,
	}
}

// Submit sends the order to the venue. A receipt is returned alongside the
// error on failure paths so the outcome stays observable:
//   - success: SUBMITTED receipt, nil error
//   - venue rejection: FAILED receipt + ErrExecutionRejected (venue status attached)
//   - timeout: UNKNOWN receipt + ErrExecutionUnknown; the on-chain effect
//     may have happened; callers must poll before resubmitting.
func (e *VenueExecutor) Submit(ctx context.Context, order *domain.TradeOrder) (*domain.ExecutionReceipt, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	submittedAt := time.Now().UTC()
	result, err := e.ledger.SubmitOrder(ctx, ports.VenueOrder{
		Action:            string(order.Side),
		Mint:              order.Mint,
		Amount:            order.Amount.String(),
		DenominatedInBase: order.DenominatedInBase,
		SlippageBps:       order.SlippageBps,
		PriorityFee:       order.PriorityFee.String(),
		MevProtected:      order.MevProtected,
		Pool:              order.Venue,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			e.log.Warn().
				Str("user_id", order.UserID).
				Str("mint", order.Mint).
				Msg("trade submission timed out, outcome unknown")
			receipt := &domain.ExecutionReceipt{
				Status:      domain.ExecutionStatusUnknown,
				SubmittedAt: submittedAt,
			}
			return receipt, apperror.ErrExecutionUnknown(err)
		}
		return nil, apperror.ErrVenueUnavailable(err)
	}

	if result.StatusCode < http.StatusOK || result.StatusCode >= http.StatusMultipleChoices {
		e.log.Warn().
			Str("user_id", order.UserID).
			Str("mint", order.Mint).
			Int("venue_status", result.StatusCode).
			Msg("venue rejected trade order")
		receipt := &domain.ExecutionReceipt{
			Status:      domain.ExecutionStatusFailed,
			VenueStatus: result.StatusCode,
			SubmittedAt: submittedAt,
		}
		return receipt, apperror.ErrExecutionRejected(result.StatusCode)
	}

	e.log.Info().
		Str("user_id", order.UserID).
		Str("side", string(order.Side)).
		Str("mint", order.Mint).
		Str("receipt_id", result.ReceiptID).
		Msg("trade submitted")

	return &domain.ExecutionReceipt{
		ReceiptID:   result.ReceiptID,
		Status:      domain.ExecutionStatusSubmitted,
		VenueStatus: result.StatusCode,
		SubmittedAt: submittedAt,
	}, nil
}
