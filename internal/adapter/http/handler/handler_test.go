package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trading-wallet-service/internal/adapter/http/dto"
	"trading-wallet-service/internal/adapter/http/middleware"
	"trading-wallet-service/internal/core/domain"
	"trading-wallet-service/internal/core/ports"
	"trading-wallet-service/internal/core/ports/mocks"
	"trading-wallet-service/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authedContext(w *httptest.ResponseRecorder, method, path string, body []byte) (*gin.Context, *gin.Engine) {
	c, r := gin.CreateTestContext(w)
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, path, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxUserID, "user-123")
	return c, r
}

// --- Session Handler Tests ---

func TestCreateSession_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockToken := mocks.NewMockTokenService(ctrl)
	h := NewSessionHandler(mockToken, "svc-key")

	expiry := time.Now().Add(24 * time.Hour)
	mockToken.EXPECT().Generate("user-123").Return("jwt-token", expiry, nil)

	body, _ := json.Marshal(dto.SessionRequest{UserID: "user-123"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/session", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set(HeaderServiceKey, "svc-key")

	h.CreateSession(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "jwt-token", data["token"])
}

func TestCreateSession_WrongServiceKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockToken := mocks.NewMockTokenService(ctrl)
	h := NewSessionHandler(mockToken, "svc-key")

	body, _ := json.Marshal(dto.SessionRequest{UserID: "user-123"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/session", bytes.NewReader(body))
	c.Request.Header.Set(HeaderServiceKey, "wrong")

	h.CreateSession(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "SEC_002")
}

func TestCreateSession_InvalidUserID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockToken := mocks.NewMockTokenService(ctrl)
	h := NewSessionHandler(mockToken, "svc-key")

	// Disallowed characters in user_id fail the safe_id validator.
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/session",
		bytes.NewReader([]byte(`{"user_id":"<script>"}`)))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set(HeaderServiceKey, "svc-key")

	h.CreateSession(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Wallet Handler Tests ---

func testWallet() *domain.Wallet {
	return &domain.Wallet{
		ID:                 uuid.New(),
		UserID:             "user-123",
		PublicAddress:      "SomeAddr",
		BackupAcknowledged: false,
		CreatedAt:          time.Now().UTC(),
	}
}

func TestWalletCreate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	mockBackup := mocks.NewMockBackupService(ctrl)
	h := NewWalletHandler(mockWallet, mockBackup)

	mockWallet.EXPECT().CreateWalletIfMissing(gomock.Any(), "user-123").Return(testWallet(), nil)

	w := httptest.NewRecorder()
	c, _ := authedContext(w, http.MethodPost, "/api/v1/wallet", nil)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "SomeAddr", data["public_address"])
	// Key material never appears in wallet state responses.
	assert.NotContains(t, w.Body.String(), "private_key")
}

func TestWalletCreate_Unauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewWalletHandler(mocks.NewMockWalletService(ctrl), mocks.NewMockBackupService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/wallet", nil)

	h.Create(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWalletGetAddress_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet, mocks.NewMockBackupService(ctrl))

	mockWallet.EXPECT().GetPublicAddress(gomock.Any(), "user-123").Return("SomeAddr", nil)

	w := httptest.NewRecorder()
	c, _ := authedContext(w, http.MethodGet, "/api/v1/wallet/address", nil)

	h.GetAddress(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SomeAddr")
}

func TestWalletGetAddress_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet, mocks.NewMockBackupService(ctrl))

	mockWallet.EXPECT().GetPublicAddress(gomock.Any(), "user-123").Return("", apperror.ErrWalletNotFound())

	w := httptest.NewRecorder()
	c, _ := authedContext(w, http.MethodGet, "/api/v1/wallet/address", nil)

	h.GetAddress(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "WAL_001")
}

func TestWalletReveal_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	mockBackup := mocks.NewMockBackupService(ctrl)
	h := NewWalletHandler(mockWallet, mockBackup)

	mockWallet.EXPECT().RevealPrivateKey(gomock.Any(), "user-123").Return("secret-key-material", nil)
	mockBackup.EXPECT().IsAcknowledged(gomock.Any(), "user-123").Return(false, nil)

	w := httptest.NewRecorder()
	c, _ := authedContext(w, http.MethodPost, "/api/v1/wallet/reveal", nil)

	h.Reveal(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "secret-key-material", data["private_key"])
	assert.Equal(t, false, data["backup_acknowledged"])
}

func TestWalletReveal_NotGatedByBackupLatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	mockBackup := mocks.NewMockBackupService(ctrl)
	h := NewWalletHandler(mockWallet, mockBackup)

	// Latch already set: reveal still succeeds.
	mockWallet.EXPECT().RevealPrivateKey(gomock.Any(), "user-123").Return("secret-key-material", nil)
	mockBackup.EXPECT().IsAcknowledged(gomock.Any(), "user-123").Return(true, nil)

	w := httptest.NewRecorder()
	c, _ := authedContext(w, http.MethodPost, "/api/v1/wallet/reveal", nil)

	h.Reveal(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWalletConfirmBackup_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet, mocks.NewMockBackupService(ctrl))

	mockWallet.EXPECT().ConfirmBackup(gomock.Any(), "user-123").Return(nil)

	w := httptest.NewRecorder()
	c, _ := authedContext(w, http.MethodPost, "/api/v1/wallet/backup-ack", nil)

	h.ConfirmBackup(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"backup_acknowledged":true`)
}

func TestWalletGetDeposit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet, mocks.NewMockBackupService(ctrl))

	png := []byte{0x89, 0x50, 0x4e, 0x47}
	mockWallet.EXPECT().BuildDepositTarget(gomock.Any(), "user-123").Return(&ports.DepositTarget{
		Address:      "SomeAddr",
		PaymentImage: png,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := authedContext(w, http.MethodGet, "/api/v1/wallet/deposit", nil)

	h.GetDeposit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "SomeAddr", data["address"])
	assert.Equal(t, base64.StdEncoding.EncodeToString(png), data["qr_image"])
}

// --- Trade Handler Tests ---

func tradeBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(dto.TradeRequest{
		Side:   "buy",
		Mint:   "So11111111111111111111111111111111111111112",
		Amount: "1.5",
	})
	require.NoError(t, err)
	return body
}

func TestTradeExecute_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewTradeHandler(mockWallet)

	receipt := &domain.ExecutionReceipt{
		ReceiptID:   "rcpt-1",
		Status:      domain.ExecutionStatusSubmitted,
		VenueStatus: 200,
		SubmittedAt: time.Now().UTC(),
	}
	mockWallet.EXPECT().ExecuteTrade(gomock.Any(), "user-123", gomock.Any()).DoAndReturn(
		func(ctx context.Context, userID string, input ports.TradeInput) (*domain.ExecutionReceipt, error) {
			assert.Equal(t, "buy", input.Side)
			assert.Equal(t, "1.5", input.Amount)
			return receipt, nil
		},
	)

	w := httptest.NewRecorder()
	c, _ := authedContext(w, http.MethodPost, "/api/v1/trades", tradeBody(t))

	h.Execute(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "rcpt-1", data["receipt_id"])
	assert.Equal(t, "SUBMITTED", data["status"])
}

func TestTradeExecute_MissingFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewTradeHandler(mocks.NewMockWalletService(ctrl))

	w := httptest.NewRecorder()
	c, _ := authedContext(w, http.MethodPost, "/api/v1/trades", []byte(`{}`))

	h.Execute(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTradeExecute_InvalidAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewTradeHandler(mockWallet)

	mockWallet.EXPECT().ExecuteTrade(gomock.Any(), "user-123", gomock.Any()).
		Return(nil, apperror.ErrInvalidAmount())

	body, _ := json.Marshal(dto.TradeRequest{Side: "buy", Mint: "mint-1", Amount: "-5"})
	w := httptest.NewRecorder()
	c, _ := authedContext(w, http.MethodPost, "/api/v1/trades", body)

	h.Execute(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "TRD_001")
}

func TestTradeExecute_UnknownOutcome(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewTradeHandler(mockWallet)

	receipt := &domain.ExecutionReceipt{Status: domain.ExecutionStatusUnknown, SubmittedAt: time.Now().UTC()}
	mockWallet.EXPECT().ExecuteTrade(gomock.Any(), "user-123", gomock.Any()).
		Return(receipt, apperror.ErrExecutionUnknown(errors.New("deadline exceeded")))

	w := httptest.NewRecorder()
	c, _ := authedContext(w, http.MethodPost, "/api/v1/trades", tradeBody(t))

	h.Execute(c)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Contains(t, w.Body.String(), "TRD_003")
}

func TestTradeGetLastReceipt_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewTradeHandler(mockWallet)

	mockWallet.EXPECT().LastReceipt(gomock.Any(), "user-123").Return(&domain.ExecutionReceipt{
		ReceiptID:   "rcpt-2",
		Status:      domain.ExecutionStatusUnknown,
		SubmittedAt: time.Now().UTC(),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := authedContext(w, http.MethodGet, "/api/v1/trades/last", nil)

	h.GetLastReceipt(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rcpt-2")
	assert.Contains(t, w.Body.String(), "UNKNOWN")
}

func TestTradeGetLastReceipt_None(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewTradeHandler(mockWallet)

	mockWallet.EXPECT().LastReceipt(gomock.Any(), "user-123").Return(nil, apperror.ErrReceiptNotFound())

	w := httptest.NewRecorder()
	c, _ := authedContext(w, http.MethodGet, "/api/v1/trades/last", nil)

	h.GetLastReceipt(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "TRD_005")
}

// --- Health Handler Tests ---

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Ping(ctx context.Context) error { return s.err }
func (s stubChecker) Name() string                   { return s.name }

func TestHealthCheck_AllHealthy(t *testing.T) {
	r := gin.New()
	r.GET("/health", HealthCheck(stubChecker{name: "postgres"}, stubChecker{name: "redis"}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestHealthCheck_DependencyDown(t *testing.T) {
	r := gin.New()
	r.GET("/health", HealthCheck(
		stubChecker{name: "postgres"},
		stubChecker{name: "redis", err: errors.New("connection refused")},
	))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"unhealthy"`)
}
