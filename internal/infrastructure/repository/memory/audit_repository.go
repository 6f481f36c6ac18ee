package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/statikk-crawler/internal/domain/audit"
)

// AuditRepository keeps audit entries in memory. Entries are append-only.
type AuditRepository struct {
	mu      sync.RWMutex
	entries []audit.Entry
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Insert(_ context.Context, entry audit.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	return nil
}

func (r *AuditRepository) Entries() []audit.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]audit.Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
