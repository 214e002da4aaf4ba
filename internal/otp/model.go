package otp

import (
	"context"
	"time"
)

// PurposeRegistration scopes codes issued while a beneficiary is creating a PIN.
const PurposeRegistration = "registration"

// Code is a stored one-time code. Only the digest of the code is kept.
type Code struct {
	BeneficiaryID string    `json:"beneficiary_id"`
	Purpose       string    `json:"purpose"`
	Digest        string    `json:"code_hash"`
	ExpiresAt     time.Time `json:"expires_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// Store persists at most one live code per (beneficiary, purpose).
type Store interface {
	// Save replaces any previous code for the same beneficiary and purpose.
	Save(ctx context.Context, code Code) error
	// Consume deletes the stored code and reports true when digest matches and the code has not
	// expired at now. A false result leaves no observable change.
	Consume(ctx context.Context, beneficiaryID, purpose, digest string, now time.Time) (bool, error)
}
