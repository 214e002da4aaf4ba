package dataupdate

import (
	"context"

	supa "github.com/supabase-community/supabase-go"

	"github.com/aid-portal/beneficiary_portal/internal/records"
)

const table = "beneficiary_data_updates"

// SupabaseRepository stores update requests through the Supabase REST interface.
type SupabaseRepository struct {
	client *supa.Client
}

func NewSupabaseRepository(client *supa.Client) *SupabaseRepository {
	return &SupabaseRepository{client: client}
}

func (r *SupabaseRepository) Create(_ context.Context, req Request) error {
	return records.Insert(r.client, table, req, false, "")
}

func (r *SupabaseRepository) ListByBeneficiary(_ context.Context, beneficiaryID string) ([]Request, error) {
	list := make([]Request, 0)
	if err := records.SelectMany(r.client, table, "beneficiary_id", beneficiaryID, "created_at", 0, &list); err != nil {
		return nil, err
	}
	return list, nil
}
