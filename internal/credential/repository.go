package credential

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aid-portal/beneficiary_portal/internal/records"
)

// Repository persists credentials.
type Repository interface {
	Create(ctx context.Context, cred Credential) error
	FindByNationalID(ctx context.Context, nationalID string) (Credential, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed credential repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new credential. Both beneficiary_id and national_id are unique.
func (r *PostgresRepository) Create(ctx context.Context, cred Credential) error {
	credID, err := uuid.Parse(cred.ID)
	if err != nil {
		return err
	}
	beneficiaryID, err := uuid.Parse(cred.BeneficiaryID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO beneficiary_auth (id, beneficiary_id, national_id, password_hash, created_at)
        VALUES ($1, $2, $3, $4, $5)`, credID, beneficiaryID, cred.NationalID, cred.PINHash, cred.CreatedAt.UTC())
	return records.FromPostgres(err)
}

// FindByNationalID fetches the credential registered for a national identity number.
func (r *PostgresRepository) FindByNationalID(ctx context.Context, nationalID string) (Credential, error) {
	row := r.db.QueryRow(ctx, `SELECT id, beneficiary_id, national_id, password_hash, created_at
        FROM beneficiary_auth WHERE national_id = $1`, nationalID)
	var (
		id, beneficiaryID uuid.UUID
		createdAt         time.Time
		cred              Credential
	)
	if err := row.Scan(&id, &beneficiaryID, &cred.NationalID, &cred.PINHash, &createdAt); err != nil {
		return Credential{}, records.FromPostgres(err)
	}
	cred.ID = id.String()
	cred.BeneficiaryID = beneficiaryID.String()
	cred.CreatedAt = createdAt.UTC()
	return cred, nil
}
