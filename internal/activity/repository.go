package activity

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	supa "github.com/supabase-community/supabase-go"

	"github.com/aid-portal/beneficiary_portal/internal/records"
)

const table = "activity_log"

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, e Entry) error {
	id, err := uuid.Parse(e.ID)
	if err != nil {
		return err
	}
	var owner *uuid.UUID
	if e.BeneficiaryID != "" {
		parsed, err := uuid.Parse(e.BeneficiaryID)
		if err != nil {
			return err
		}
		owner = &parsed
	}
	_, err = r.db.Exec(ctx, `INSERT INTO activity_log (id, description, actor, actor_type, kind, beneficiary_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, e.Description, e.Actor, e.ActorType, string(e.Kind), owner, e.CreatedAt)
	return records.FromPostgres(err)
}

func (r *PostgresRepository) ListByBeneficiary(ctx context.Context, beneficiaryID string, limit int) ([]Entry, error) {
	owner, err := uuid.Parse(beneficiaryID)
	if err != nil {
		return []Entry{}, nil
	}
	rows, err := r.db.Query(ctx, `SELECT id, description, actor, actor_type, kind, created_at
        FROM activity_log WHERE beneficiary_id = $1 ORDER BY created_at DESC LIMIT $2`, owner, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Entry, 0)
	for rows.Next() {
		var (
			e    Entry
			id   uuid.UUID
			kind string
		)
		if err := rows.Scan(&id, &e.Description, &e.Actor, &e.ActorType, &kind, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ID = id.String()
		e.Kind = Kind(kind)
		e.BeneficiaryID = beneficiaryID
		list = append(list, e)
	}
	return list, rows.Err()
}

// SupabaseRepository implements Repository over the Supabase REST interface.
type SupabaseRepository struct {
	client *supa.Client
}

func NewSupabaseRepository(client *supa.Client) *SupabaseRepository {
	return &SupabaseRepository{client: client}
}

func (r *SupabaseRepository) Append(_ context.Context, e Entry) error {
	return records.Insert(r.client, table, e, false, "")
}

func (r *SupabaseRepository) ListByBeneficiary(_ context.Context, beneficiaryID string, limit int) ([]Entry, error) {
	list := make([]Entry, 0)
	if err := records.SelectMany(r.client, table, "beneficiary_id", beneficiaryID, "created_at", limit, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// MemoryRepository keeps entries in memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Append(_ context.Context, e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func (r *MemoryRepository) ListByBeneficiary(_ context.Context, beneficiaryID string, limit int) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Entry, 0)
	for _, e := range r.entries {
		if e.BeneficiaryID == beneficiaryID {
			list = append(list, e)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// Entries returns every stored entry in insertion order.
func (r *MemoryRepository) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Entry(nil), r.entries...)
}
