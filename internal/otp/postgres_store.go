package otp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps codes in the otp_codes table, one row per (beneficiary, purpose).
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, code Code) error {
	id, err := uuid.Parse(code.BeneficiaryID)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `INSERT INTO otp_codes (beneficiary_id, purpose, code_hash, expires_at, created_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (beneficiary_id, purpose)
        DO UPDATE SET code_hash = EXCLUDED.code_hash, expires_at = EXCLUDED.expires_at, created_at = EXCLUDED.created_at`,
		id, code.Purpose, code.Digest, code.ExpiresAt, code.CreatedAt)
	return err
}

// Consume deletes the row in one statement so two concurrent verifications cannot both succeed.
func (s *PostgresStore) Consume(ctx context.Context, beneficiaryID, purpose, digest string, now time.Time) (bool, error) {
	id, err := uuid.Parse(beneficiaryID)
	if err != nil {
		return false, nil
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM otp_codes
        WHERE beneficiary_id = $1 AND purpose = $2 AND code_hash = $3 AND expires_at > $4`,
		id, purpose, digest, now)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
