package dataupdate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aid-portal/beneficiary_portal/internal/beneficiary"
)

var (
	// ErrNoChange is returned when the proposed value equals the current one.
	ErrNoChange = errors.New("no change")
	// ErrReadOnlyField is returned for fields the beneficiary may never change.
	ErrReadOnlyField = errors.New("field is read-only")
	// ErrFieldLocked is returned for the phone once a number is on file.
	ErrFieldLocked = errors.New("field is locked")
	// ErrUnknownField is returned for names outside the profile field set.
	ErrUnknownField = errors.New("unknown field")
)

// Service files update requests. It never changes the beneficiary record itself.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Submit files a pending request to change field on b to newValue. The old value is read from b.
func (s *Service) Submit(ctx context.Context, b beneficiary.Beneficiary, field, newValue string) (Request, error) {
	oldValue, known := currentValue(b, field)
	if !known {
		return Request{}, ErrUnknownField
	}
	if readOnly[field] {
		return Request{}, ErrReadOnlyField
	}
	if field == FieldPhone && b.PhoneIsLocked() {
		return Request{}, ErrFieldLocked
	}
	if newValue == oldValue {
		return Request{}, ErrNoChange
	}

	req := Request{
		ID:            uuid.NewString(),
		BeneficiaryID: b.ID,
		UpdateType:    "update",
		FieldName:     field,
		OldValue:      oldValue,
		NewValue:      newValue,
		Status:        StatusPending,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return Request{}, fmt.Errorf("create update request: %w", err)
	}
	return req, nil
}

// List returns the beneficiary's requests, newest first.
func (s *Service) List(ctx context.Context, beneficiaryID string) ([]Request, error) {
	return s.repo.ListByBeneficiary(ctx, beneficiaryID)
}
