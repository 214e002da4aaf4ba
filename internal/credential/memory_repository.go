package credential

import (
	"context"
	"sync"

	"github.com/aid-portal/beneficiary_portal/internal/records"
)

type memoryRepository struct {
	mu    sync.RWMutex
	creds map[string]Credential
}

// NewMemoryRepository builds an in-memory credential store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{creds: make(map[string]Credential)}
}

func (r *memoryRepository) Create(_ context.Context, cred Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.creds[cred.NationalID]; exists {
		return records.ErrConflict
	}
	for _, existing := range r.creds {
		if existing.BeneficiaryID == cred.BeneficiaryID {
			return records.ErrConflict
		}
	}
	r.creds[cred.NationalID] = cred
	return nil
}

func (r *memoryRepository) FindByNationalID(_ context.Context, nationalID string) (Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cred, ok := r.creds[nationalID]
	if !ok {
		return Credential{}, records.ErrNotFound
	}
	return cred, nil
}
