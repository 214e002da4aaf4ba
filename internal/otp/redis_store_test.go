package otp

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStoreConsumesOnce(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Code{
		BeneficiaryID: "b-1",
		Purpose:       PurposeRegistration,
		Digest:        "abc",
		ExpiresAt:     time.Now().Add(time.Minute),
	}))

	ok, err := store.Consume(ctx, "b-1", PurposeRegistration, "wrong", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Consume(ctx, "b-1", PurposeRegistration, "abc", time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Consume(ctx, "b-1", PurposeRegistration, "abc", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreExpiresWithTTL(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, Code{
		BeneficiaryID: "b-1",
		Purpose:       PurposeRegistration,
		Digest:        "abc",
		ExpiresAt:     time.Now().Add(time.Minute),
	}))
	mr.FastForward(2 * time.Minute)

	ok, err := store.Consume(ctx, "b-1", PurposeRegistration, "abc", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreWithService(t *testing.T) {
	store, _ := newRedisStore(t)
	svc := NewService(store, nil, time.Minute, []byte("test-key"), nil)
	svc.generate = func() (string, error) { return "654321", nil }
	ctx := context.Background()

	require.NoError(t, svc.Generate(ctx, "b-1", PurposeRegistration, ""))

	ok, err := svc.Verify(ctx, "b-1", "654321", PurposeRegistration)
	require.NoError(t, err)
	assert.True(t, ok)
}
