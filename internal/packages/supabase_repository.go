package packages

import (
	"context"

	supa "github.com/supabase-community/supabase-go"

	"github.com/aid-portal/beneficiary_portal/internal/records"
)

// SupabaseRepository reads packages through the Supabase REST interface.
type SupabaseRepository struct {
	client *supa.Client
}

func NewSupabaseRepository(client *supa.Client) *SupabaseRepository {
	return &SupabaseRepository{client: client}
}

func (r *SupabaseRepository) ListByBeneficiary(_ context.Context, beneficiaryID string) ([]Package, error) {
	list := make([]Package, 0)
	if err := records.SelectMany(r.client, "packages", "beneficiary_id", beneficiaryID, "created_at", 0, &list); err != nil {
		return nil, err
	}
	return list, nil
}
