package records

import (
	"encoding/json"
	"fmt"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

// SelectOne fetches the first row of table where column equals value and decodes it into dst.
// It returns ErrNotFound when the filter matches nothing.
func SelectOne(client *supa.Client, table, column, value string, dst any) error {
	data, _, err := client.From(table).
		Select("*", "", false).
		Eq(column, value).
		Limit(1, "").
		Execute()
	if err != nil {
		return FromSupabase(err)
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("decode %s: %w", table, err)
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	if err := json.Unmarshal(rows[0], dst); err != nil {
		return fmt.Errorf("decode %s: %w", table, err)
	}
	return nil
}

// SelectMany fetches every row of table where column equals value, newest first by orderBy, into dst
// (a pointer to a slice). limit <= 0 means no limit.
func SelectMany(client *supa.Client, table, column, value, orderBy string, limit int, dst any) error {
	query := client.From(table).
		Select("*", "", false).
		Eq(column, value).
		Order(orderBy, &postgrest.OrderOpts{Ascending: false})
	if limit > 0 {
		query = query.Limit(limit, "")
	}
	data, _, err := query.Execute()
	if err != nil {
		return FromSupabase(err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", table, err)
	}
	return nil
}

// SelectAll fetches every row of a small table, such as the feature flags.
func SelectAll(client *supa.Client, table string, dst any) error {
	data, _, err := client.From(table).Select("*", "", false).Execute()
	if err != nil {
		return FromSupabase(err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", table, err)
	}
	return nil
}

// Insert writes row into table. With upsert set, onConflict names the columns of the unique key to
// merge on.
func Insert(client *supa.Client, table string, row any, upsert bool, onConflict string) error {
	_, _, err := client.From(table).
		Insert(row, upsert, onConflict, "minimal", "").
		Execute()
	return FromSupabase(err)
}
