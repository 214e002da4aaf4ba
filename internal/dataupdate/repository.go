package dataupdate

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aid-portal/beneficiary_portal/internal/records"
)

// Repository persists update requests.
type Repository interface {
	Create(ctx context.Context, req Request) error
	ListByBeneficiary(ctx context.Context, beneficiaryID string) ([]Request, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, req Request) error {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return err
	}
	owner, err := uuid.Parse(req.BeneficiaryID)
	if err != nil {
		return records.ErrNotFound
	}
	_, err = r.db.Exec(ctx, `INSERT INTO beneficiary_data_updates
        (id, beneficiary_id, update_type, field_name, old_value, new_value, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, owner, req.UpdateType, req.FieldName, req.OldValue, req.NewValue, string(req.Status), req.CreatedAt)
	return records.FromPostgres(err)
}

func (r *PostgresRepository) ListByBeneficiary(ctx context.Context, beneficiaryID string) ([]Request, error) {
	owner, err := uuid.Parse(beneficiaryID)
	if err != nil {
		return []Request{}, nil
	}
	rows, err := r.db.Query(ctx, `SELECT id, beneficiary_id, update_type, field_name, old_value, new_value,
        status, rejection_reason, created_at
        FROM beneficiary_data_updates WHERE beneficiary_id = $1 ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Request, 0)
	for rows.Next() {
		var (
			req         Request
			id, ownerID uuid.UUID
			status      string
		)
		if err := rows.Scan(&id, &ownerID, &req.UpdateType, &req.FieldName, &req.OldValue, &req.NewValue,
			&status, &req.RejectionReason, &req.CreatedAt); err != nil {
			return nil, err
		}
		req.ID = id.String()
		req.BeneficiaryID = ownerID.String()
		req.Status = Status(status)
		list = append(list, req)
	}
	return list, rows.Err()
}
