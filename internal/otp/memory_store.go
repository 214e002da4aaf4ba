package otp

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu    sync.Mutex
	codes map[string]Code
}

// NewMemoryStore builds an in-memory code store for tests and local development.
func NewMemoryStore() Store {
	return &memoryStore{codes: make(map[string]Code)}
}

func (s *memoryStore) Save(_ context.Context, code Code) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code.BeneficiaryID+"|"+code.Purpose] = code
	return nil
}

func (s *memoryStore) Consume(_ context.Context, beneficiaryID, purpose, digest string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := beneficiaryID + "|" + purpose
	code, ok := s.codes[key]
	if !ok || code.Digest != digest || !now.Before(code.ExpiresAt) {
		return false, nil
	}
	delete(s.codes, key)
	return true, nil
}
