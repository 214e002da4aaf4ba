package credential

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/aid-portal/beneficiary_portal/internal/records"
	"github.com/aid-portal/beneficiary_portal/internal/validation"
)

var (
	// ErrInvalidPIN is returned when a PIN is not exactly six digits.
	ErrInvalidPIN = errors.New("PIN must be exactly 6 digits")

	// ErrInvalidCredentials is the single failure returned by Verify. An unknown identity number and a
	// wrong PIN are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid identity number or PIN")

	// ErrCredentialExists is returned when the beneficiary already has a credential.
	ErrCredentialExists = errors.New("credential already exists")
)

// Service manages portal PIN credentials.
type Service struct {
	repo Repository
	cost int
}

// NewService creates a credential service. A non-positive cost selects bcrypt.DefaultCost.
func NewService(repo Repository, cost int) *Service {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, cost: cost}
}

// Create hashes the PIN and stores the beneficiary's one and only credential.
func (s *Service) Create(ctx context.Context, beneficiaryID, nationalID, pin string) (Credential, error) {
	if !validation.IsValidPIN(pin) {
		return Credential{}, ErrInvalidPIN
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), s.cost)
	if err != nil {
		return Credential{}, err
	}

	cred := Credential{
		ID:            uuid.New().String(),
		BeneficiaryID: beneficiaryID,
		NationalID:    nationalID,
		PINHash:       string(hash),
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, cred); err != nil {
		if errors.Is(err, records.ErrConflict) {
			return Credential{}, ErrCredentialExists
		}
		return Credential{}, err
	}

	return cred, nil
}

// Lookup returns the credential for a national identity number. found is false when the
// beneficiary has never created a PIN.
func (s *Service) Lookup(ctx context.Context, nationalID string) (cred Credential, found bool, err error) {
	cred, err = s.repo.FindByNationalID(ctx, nationalID)
	if errors.Is(err, records.ErrNotFound) {
		return Credential{}, false, nil
	}
	if err != nil {
		return Credential{}, false, err
	}
	return cred, true, nil
}

// Verify compares the PIN against the stored digest for nationalID.
func (s *Service) Verify(ctx context.Context, nationalID, pin string) (Credential, error) {
	cred, err := s.repo.FindByNationalID(ctx, nationalID)
	if errors.Is(err, records.ErrNotFound) {
		return Credential{}, ErrInvalidCredentials
	}
	if err != nil {
		return Credential{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PINHash), []byte(pin)); err != nil {
		return Credential{}, ErrInvalidCredentials
	}

	return cred, nil
}
