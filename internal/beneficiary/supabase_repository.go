package beneficiary

import (
	"context"
	"time"

	supa "github.com/supabase-community/supabase-go"

	"github.com/aid-portal/beneficiary_portal/internal/records"
)

const table = "beneficiaries"

// SupabaseRepository reads beneficiaries through the Supabase REST interface.
type SupabaseRepository struct {
	client *supa.Client
}

// NewSupabaseRepository builds a Supabase-backed beneficiary repository.
func NewSupabaseRepository(client *supa.Client) *SupabaseRepository {
	return &SupabaseRepository{client: client}
}

func (r *SupabaseRepository) FindByNationalID(_ context.Context, nationalID string) (Beneficiary, error) {
	var b Beneficiary
	if err := records.SelectOne(r.client, table, "national_id", nationalID, &b); err != nil {
		return Beneficiary{}, err
	}
	return b, nil
}

func (r *SupabaseRepository) FindByID(_ context.Context, id string) (Beneficiary, error) {
	var b Beneficiary
	if err := records.SelectOne(r.client, table, "id", id, &b); err != nil {
		return Beneficiary{}, err
	}
	return b, nil
}

func (r *SupabaseRepository) TouchPortalAccess(_ context.Context, id string, at time.Time) error {
	_, _, err := r.client.From(table).
		Update(map[string]any{"last_portal_access": at.UTC()}, "minimal", "").
		Eq("id", id).
		Execute()
	return records.FromSupabase(err)
}
