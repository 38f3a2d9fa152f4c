package venue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"trading-wallet-service/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ErrBreakerOpen is returned while the circuit breaker is shedding load.
var ErrBreakerOpen = errors.New("venue circuit breaker open")

// Client implements ports.LedgerClient over HTTP. Calls go through a
// circuit breaker so a venue outage fails fast instead of queueing
// submissions behind timeouts; the breaker never re-issues a request.
type Client struct {
	url        string
	httpClient HTTPClient
	breaker    *gobreaker.CircuitBreaker
	log        zerolog.Logger
}

// NewClient creates a venue client posting orders to the given URL.
func NewClient(url string, httpClient HTTPClient, log zerolog.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "venue",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("venue breaker state change")
		},
	})

	return &Client{
		url:        url,
		httpClient: httpClient,
		breaker:    breaker,
		log:        log,
	}
}

// venueResponse is the venue's JSON response body.
type venueResponse struct {
	ReceiptID string `json:"receiptId"`
}

// SubmitOrder posts the order to the venue and returns its status and
// receipt identifier. Non-2xx statuses are returned in the result, not as
// errors: classification is the executor's concern. Transport failures
// (including context deadline) surface as errors and count against the
// breaker.
func (c *Client) SubmitOrder(ctx context.Context, order ports.VenueOrder) (*ports.VenueResult, error) {
	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.post(ctx, order)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrBreakerOpen, err)
		}
		return nil, err
	}
	return res.(*ports.VenueResult), nil
}

func (c *Client) post(ctx context.Context, order ports.VenueOrder) (*ports.VenueResult, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("marshal venue order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build venue request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post venue order: %w", err)
	}
	defer resp.Body.Close()

	result := &ports.VenueResult{StatusCode: resp.StatusCode}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read venue response: %w", err)
	}
	if len(respBody) > 0 {
		var decoded venueResponse
		// A malformed body on a 2xx is still a valid submission; keep
		// the status and leave the receipt ID empty.
		if err := json.Unmarshal(respBody, &decoded); err == nil {
			result.ReceiptID = decoded.ReceiptID
		}
	}

	return result, nil
}
