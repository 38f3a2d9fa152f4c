package dto

// SessionRequest is the request body for minting a dashboard session token.
type SessionRequest struct {
	UserID string `json:"user_id" binding:"required,min=1,max=100,safe_id"`
}

// SessionResponse is the response body for a minted session token.
type SessionResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// WalletResponse is the response body for wallet state. The private key is
// never part of this shape.
type WalletResponse struct {
	UserID             string `json:"user_id"`
	PublicAddress      string `json:"public_address"`
	BackupAcknowledged bool   `json:"backup_acknowledged"`
	CreatedAt          string `json:"created_at"`
}

// AddressResponse is the response body for the public address query.
type AddressResponse struct {
	Address string `json:"address"`
}

// RevealResponse carries the one-time key disclosure. This is the only
// response shape that ever contains private key material.
type RevealResponse struct {
	PrivateKey         string `json:"private_key"`
	BackupAcknowledged bool   `json:"backup_acknowledged"`
}

// BackupAckResponse reports the latch state after confirmation.
type BackupAckResponse struct {
	BackupAcknowledged bool `json:"backup_acknowledged"`
}

// DepositResponse is the response body for the deposit target.
type DepositResponse struct {
	Address string `json:"address"`
	QRImage string `json:"qr_image"` // base64-encoded PNG
}

// TradeRequest is the request body for trade execution.
type TradeRequest struct {
	Side         string `json:"side" binding:"required"`
	Mint         string `json:"mint" binding:"required,max=100,safe_id"`
	Amount       string `json:"amount" binding:"required,max=40"`
	SlippageBps  string `json:"slippage_bps,omitempty"`
	PriorityFee  string `json:"priority_fee,omitempty"`
	MevProtected bool   `json:"mev_protected,omitempty"`
	Venue        string `json:"venue,omitempty"`
}

// ReceiptResponse is the response body for trade submission results.
type ReceiptResponse struct {
	ReceiptID   string `json:"receipt_id,omitempty"`
	Status      string `json:"status"`
	VenueStatus int    `json:"venue_status,omitempty"`
	SubmittedAt string `json:"submitted_at"`
}
