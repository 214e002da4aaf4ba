package features

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	supa "github.com/supabase-community/supabase-go"

	"github.com/aid-portal/beneficiary_portal/internal/records"
)

// PostgresRepository reads the system_features table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Row, error) {
	rows, err := r.db.Query(ctx, `SELECT feature_key, is_enabled, settings FROM system_features`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Row, 0)
	for rows.Next() {
		var (
			row      Row
			settings []byte
		)
		if err := rows.Scan(&row.FeatureKey, &row.IsEnabled, &settings); err != nil {
			return nil, err
		}
		row.Settings = settings
		list = append(list, row)
	}
	return list, rows.Err()
}

// SupabaseRepository reads the system_features table over REST.
type SupabaseRepository struct {
	client *supa.Client
}

func NewSupabaseRepository(client *supa.Client) *SupabaseRepository {
	return &SupabaseRepository{client: client}
}

func (r *SupabaseRepository) List(_ context.Context) ([]Row, error) {
	list := make([]Row, 0)
	if err := records.SelectAll(r.client, "system_features", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// MemoryRepository holds feature rows in memory.
type MemoryRepository struct {
	mu   sync.RWMutex
	rows []Row
}

func NewMemoryRepository(rows ...Row) *MemoryRepository {
	return &MemoryRepository{rows: rows}
}

// Set replaces the stored rows.
func (r *MemoryRepository) Set(rows ...Row) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = rows
}

func (r *MemoryRepository) List(_ context.Context) ([]Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Row(nil), r.rows...), nil
}
