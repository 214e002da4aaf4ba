package packages

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aid-portal/beneficiary_portal/internal/records"
)

// Repository lists a beneficiary's packages, newest first.
type Repository interface {
	ListByBeneficiary(ctx context.Context, beneficiaryID string) ([]Package, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed package repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListByBeneficiary returns every package of the beneficiary ordered by creation time, newest first.
func (r *PostgresRepository) ListByBeneficiary(ctx context.Context, beneficiaryID string) ([]Package, error) {
	id, err := uuid.Parse(beneficiaryID)
	if err != nil {
		return nil, records.ErrNotFound
	}
	rows, err := r.db.Query(ctx, `SELECT id, beneficiary_id, name, type, description, status,
        scheduled_delivery_date, delivered_at, created_at
        FROM packages WHERE beneficiary_id = $1 ORDER BY created_at DESC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Package, 0)
	for rows.Next() {
		var (
			p              Package
			pkgID, ownerID uuid.UUID
			status         string
		)
		if err := rows.Scan(&pkgID, &ownerID, &p.Name, &p.Type, &p.Description, &status,
			&p.ScheduledDeliveryDate, &p.DeliveredAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.ID = pkgID.String()
		p.BeneficiaryID = ownerID.String()
		p.Status = Status(status)
		p.CreatedAt = p.CreatedAt.UTC()
		list = append(list, p)
	}
	return list, rows.Err()
}
