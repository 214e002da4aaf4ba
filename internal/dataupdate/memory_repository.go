package dataupdate

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu       sync.RWMutex
	requests []Request
}

// NewMemoryRepository builds an in-memory request store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Create(_ context.Context, req Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
	return nil
}

func (r *memoryRepository) ListByBeneficiary(_ context.Context, beneficiaryID string) ([]Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Request, 0)
	for i := len(r.requests) - 1; i >= 0; i-- {
		if r.requests[i].BeneficiaryID == beneficiaryID {
			list = append(list, r.requests[i])
		}
	}
	return list, nil
}
