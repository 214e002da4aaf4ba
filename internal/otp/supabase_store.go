package otp

import (
	"context"
	"encoding/json"
	"time"

	supa "github.com/supabase-community/supabase-go"

	"github.com/aid-portal/beneficiary_portal/internal/records"
)

const table = "otp_codes"

// SupabaseStore keeps codes in the otp_codes table through the Supabase REST interface.
type SupabaseStore struct {
	client *supa.Client
}

func NewSupabaseStore(client *supa.Client) *SupabaseStore {
	return &SupabaseStore{client: client}
}

func (s *SupabaseStore) Save(_ context.Context, code Code) error {
	return records.Insert(s.client, table, code, true, "beneficiary_id,purpose")
}

// Consume filters the delete on the digest and expiry so only a live matching row is removed.
func (s *SupabaseStore) Consume(_ context.Context, beneficiaryID, purpose, digest string, now time.Time) (bool, error) {
	data, _, err := s.client.From(table).
		Delete("representation", "").
		Eq("beneficiary_id", beneficiaryID).
		Eq("purpose", purpose).
		Eq("code_hash", digest).
		Gt("expires_at", now.UTC().Format(time.RFC3339Nano)).
		Execute()
	if err != nil {
		return false, records.FromSupabase(err)
	}
	var deleted []json.RawMessage
	if err := json.Unmarshal(data, &deleted); err != nil {
		return false, err
	}
	return len(deleted) > 0, nil
}
