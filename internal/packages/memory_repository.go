package packages

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository keeps packages in memory for tests and local development.
type MemoryRepository struct {
	mu   sync.RWMutex
	pkgs []Package
}

func NewMemoryRepository(seed ...Package) *MemoryRepository {
	return &MemoryRepository{pkgs: append([]Package(nil), seed...)}
}

// Add records a package. It stands in for the external distribution process.
func (r *MemoryRepository) Add(p Package) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pkgs = append(r.pkgs, p)
}

func (r *MemoryRepository) ListByBeneficiary(_ context.Context, beneficiaryID string) ([]Package, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Package, 0)
	for _, p := range r.pkgs {
		if p.BeneficiaryID == beneficiaryID {
			list = append(list, p)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}
