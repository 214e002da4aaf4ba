package credential

import (
	"context"

	supa "github.com/supabase-community/supabase-go"

	"github.com/aid-portal/beneficiary_portal/internal/records"
)

const table = "beneficiary_auth"

// SupabaseRepository stores credentials through the Supabase REST interface.
type SupabaseRepository struct {
	client *supa.Client
}

// NewSupabaseRepository builds a Supabase-backed credential repository.
func NewSupabaseRepository(client *supa.Client) *SupabaseRepository {
	return &SupabaseRepository{client: client}
}

func (r *SupabaseRepository) Create(_ context.Context, cred Credential) error {
	return records.Insert(r.client, table, cred, false, "")
}

func (r *SupabaseRepository) FindByNationalID(_ context.Context, nationalID string) (Credential, error) {
	var cred Credential
	if err := records.SelectOne(r.client, table, "national_id", nationalID, &cred); err != nil {
		return Credential{}, err
	}
	return cred, nil
}
