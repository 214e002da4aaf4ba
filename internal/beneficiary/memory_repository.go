package beneficiary

import (
	"context"
	"sync"
	"time"

	"github.com/aid-portal/beneficiary_portal/internal/records"
)

// MemoryRepository is an in-memory beneficiary store for tests and local development.
type MemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]Beneficiary
}

// NewMemoryRepository builds an in-memory store holding the given beneficiaries.
func NewMemoryRepository(seed ...Beneficiary) *MemoryRepository {
	r := &MemoryRepository{byID: make(map[string]Beneficiary)}
	for _, b := range seed {
		r.Put(b)
	}
	return r
}

// Put inserts or replaces a beneficiary. It stands in for the external registration process.
func (r *MemoryRepository) Put(b Beneficiary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[b.ID] = b
}

func (r *MemoryRepository) FindByNationalID(_ context.Context, nationalID string) (Beneficiary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.byID {
		if b.NationalID == nationalID {
			return b, nil
		}
	}
	return Beneficiary{}, records.ErrNotFound
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (Beneficiary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byID[id]
	if !ok {
		return Beneficiary{}, records.ErrNotFound
	}
	return b, nil
}

func (r *MemoryRepository) TouchPortalAccess(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return records.ErrNotFound
	}
	stamp := at.UTC()
	b.LastPortalAccess = &stamp
	r.byID[id] = b
	return nil
}
