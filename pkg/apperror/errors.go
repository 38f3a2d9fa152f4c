package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Wallet & Vault (WAL) ----

func ErrWalletNotFound() *AppError {
	return New("WAL_001", "No trading wallet exists for this user", http.StatusNotFound)
}

func ErrInvalidAddress() *AppError {
	return New("WAL_002", "Invalid wallet address", http.StatusBadRequest)
}

// ErrVaultUnavailable signals the encrypted key store cannot be reached.
// Secret operations are never retried against an uncertain store state.
func ErrVaultUnavailable(err error) *AppError {
	return Wrap("WAL_003", "Key vault unavailable", http.StatusServiceUnavailable, err)
}

// ---- Trade Submission (TRD) ----

// Validation returns a caller-correctable trade input error.
func Validation(message string) *AppError {
	return New("TRD_001", message, http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("TRD_001", "invalid amount", http.StatusBadRequest)
}

// ErrExecutionRejected signals the venue rejected the order. The venue
// status is carried for diagnostics; the order is never resubmitted
// automatically.
func ErrExecutionRejected(venueStatus int) *AppError {
	return New("TRD_002", fmt.Sprintf("Execution venue rejected order (status %d)", venueStatus), http.StatusBadGateway)
}

// ErrExecutionUnknown signals an ambiguous submission outcome: the trade
// may or may not have executed. Callers must poll for the receipt before
// resubmitting.
func ErrExecutionUnknown(err error) *AppError {
	return Wrap("TRD_003", "Trade outcome unknown, poll before resubmitting", http.StatusGatewayTimeout, err)
}

// ErrVenueUnavailable signals the venue is unreachable or shedding load.
func ErrVenueUnavailable(err error) *AppError {
	return Wrap("TRD_004", "Execution venue unavailable", http.StatusServiceUnavailable, err)
}

func ErrReceiptNotFound() *AppError {
	return New("TRD_005", "No execution receipt recorded for this user", http.StatusNotFound)
}

// ---- Security & Authentication (SEC) ----

func ErrInvalidToken() *AppError {
	return New("SEC_001", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrInvalidServiceKey() *AppError {
	return New("SEC_002", "Invalid service key", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_002", "Encryption service failure", http.StatusInternalServerError, err)
}
