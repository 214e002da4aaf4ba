package beneficiary

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aid-portal/beneficiary_portal/internal/records"
)

// Repository reads beneficiaries from the record store.
type Repository interface {
	FindByNationalID(ctx context.Context, nationalID string) (Beneficiary, error)
	FindByID(ctx context.Context, id string) (Beneficiary, error)
	TouchPortalAccess(ctx context.Context, id string, at time.Time) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed beneficiary repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `SELECT id, national_id, name, full_name, gender, phone, phone_locked, whatsapp_number,
        whatsapp_family_member, address, personal_photo_url, status, eligibility_status, notes,
        last_portal_access, created_at, updated_at FROM beneficiaries`

// FindByNationalID fetches a beneficiary by national identity number.
func (r *PostgresRepository) FindByNationalID(ctx context.Context, nationalID string) (Beneficiary, error) {
	return r.scanOne(ctx, selectColumns+` WHERE national_id = $1`, nationalID)
}

// FindByID fetches a beneficiary by primary key.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (Beneficiary, error) {
	beneficiaryID, err := uuid.Parse(id)
	if err != nil {
		return Beneficiary{}, records.ErrNotFound
	}
	return r.scanOne(ctx, selectColumns+` WHERE id = $1`, beneficiaryID)
}

// TouchPortalAccess stamps the last time the beneficiary entered the dashboard.
func (r *PostgresRepository) TouchPortalAccess(ctx context.Context, id string, at time.Time) error {
	beneficiaryID, err := uuid.Parse(id)
	if err != nil {
		return records.ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE beneficiaries SET last_portal_access = $1 WHERE id = $2`, at.UTC(), beneficiaryID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return records.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) scanOne(ctx context.Context, query string, arg any) (Beneficiary, error) {
	var (
		b  Beneficiary
		id uuid.UUID
	)
	err := r.db.QueryRow(ctx, query, arg).Scan(&id, &b.NationalID, &b.Name, &b.FullName, &b.Gender, &b.Phone,
		&b.PhoneLocked, &b.WhatsAppNumber, &b.WhatsAppFamilyMember, &b.Address, &b.PersonalPhotoURL, &b.Status,
		&b.EligibilityStatus, &b.Notes, &b.LastPortalAccess, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return Beneficiary{}, records.FromPostgres(err)
	}
	b.ID = id.String()
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	return b, nil
}
