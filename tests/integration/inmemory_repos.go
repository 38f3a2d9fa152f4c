package integration

import (
	"context"
	"sync"

	"trading-wallet-service/internal/core/domain"
)

// In-memory repository implementations backing the integration stack.
// They reproduce the semantics the SQL layer relies on, most importantly
// the conditional insert behind the one-wallet-per-user invariant.

type inMemoryWalletRepo struct {
	mu      sync.Mutex
	wallets map[string]*domain.Wallet // keyed by user ID
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{wallets: make(map[string]*domain.Wallet)}
}

func (r *inMemoryWalletRepo) CreateIfAbsent(ctx context.Context, wallet *domain.Wallet) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.wallets[wallet.UserID]; exists {
		return false, nil
	}
	cp := *wallet
	r.wallets[wallet.UserID] = &cp
	return true, nil
}

func (r *inMemoryWalletRepo) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[userID]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *inMemoryWalletRepo) SetBackupAcknowledged(ctx context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[userID]
	if !ok {
		return false, nil
	}
	w.BackupAcknowledged = true
	return true, nil
}

type inMemoryAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, log *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *log
	r.entries = append(r.entries, &cp)
	return nil
}

// byAction returns the recorded entries matching the given action.
func (r *inMemoryAuditRepo) byAction(action domain.AuditAction) []*domain.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.AuditLog
	for _, e := range r.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}
