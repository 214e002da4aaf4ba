package infra

import (
	"fmt"

	supa "github.com/supabase-community/supabase-go"
)

// NewSupabaseClient configures a Supabase client using the service key.
func NewSupabaseClient(url, serviceKey string) (*supa.Client, error) {
	if url == "" || serviceKey == "" {
		return nil, fmt.Errorf("supabase url and service key are required")
	}

	client, err := supa.NewClient(url, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return client, nil
}
