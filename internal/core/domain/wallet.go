package domain

import (
	"time"

	"github.com/google/uuid"
)

// Wallet is a custodial trading wallet generated on behalf of a user.
// There is at most one wallet per user; the keypair is never rotated.
type Wallet struct {
	ID                  uuid.UUID `json:"id"`
	UserID              string    `json:"user_id"`
	PublicAddress       string    `json:"public_address"`
	EncryptedPrivateKey string    `json:"-"` // AES-256-GCM encrypted, never expose raw
	BackupAcknowledged  bool      `json:"backup_acknowledged"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// NeedsBackup reports whether the user has not yet confirmed saving the
// private key. The flag is advisory: it drives UI re-display policy only
// and never gates vault access.
func (w *Wallet) NeedsBackup() bool {
	return !w.BackupAcknowledged
}
