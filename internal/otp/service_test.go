package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aid-portal/beneficiary_portal/internal/logging"
	"github.com/aid-portal/beneficiary_portal/internal/notification"
)

type recordingNotifier struct {
	sent []notification.Message
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, msg notification.Message) error {
	n.sent = append(n.sent, msg)
	return n.err
}

func newTestService(store Store, notifier notification.Notifier, codes ...string) (*Service, *time.Time) {
	svc := NewService(store, notifier, time.Minute, []byte("test-key"), logging.Discard())
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	next := 0
	svc.generate = func() (string, error) {
		code := codes[next%len(codes)]
		next++
		return code, nil
	}
	return svc, &now
}

func TestGenerateDeliversAndVerifiesOnce(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, _ := newTestService(NewMemoryStore(), notifier, "123456")
	ctx := context.Background()

	require.NoError(t, svc.Generate(ctx, "b-1", PurposeRegistration, "0599000000"))
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, notification.KindOneTimeCode, notifier.sent[0].Kind)
	assert.Equal(t, "0599000000", notifier.sent[0].Destination)

	ok, err := svc.Verify(ctx, "b-1", "123456", PurposeRegistration)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Verify(ctx, "b-1", "123456", PurposeRegistration)
	require.NoError(t, err)
	assert.False(t, ok, "a consumed code must not match again")
}

func TestVerifyRejectsExpiredCode(t *testing.T) {
	svc, now := newTestService(NewMemoryStore(), nil, "123456")
	ctx := context.Background()

	require.NoError(t, svc.Generate(ctx, "b-1", PurposeRegistration, ""))
	*now = now.Add(2 * time.Minute)

	ok, err := svc.Verify(ctx, "b-1", "123456", PurposeRegistration)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewCodeSupersedesPrevious(t *testing.T) {
	svc, _ := newTestService(NewMemoryStore(), nil, "111111", "222222")
	ctx := context.Background()

	require.NoError(t, svc.Generate(ctx, "b-1", PurposeRegistration, ""))
	require.NoError(t, svc.Generate(ctx, "b-1", PurposeRegistration, ""))

	ok, err := svc.Verify(ctx, "b-1", "111111", PurposeRegistration)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.Verify(ctx, "b-1", "222222", PurposeRegistration)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyIsScopedToBeneficiary(t *testing.T) {
	svc, _ := newTestService(NewMemoryStore(), nil, "123456")
	ctx := context.Background()

	require.NoError(t, svc.Generate(ctx, "b-1", PurposeRegistration, ""))

	ok, err := svc.Verify(ctx, "b-2", "123456", PurposeRegistration)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyMalformedCodeFailsClosed(t *testing.T) {
	svc, _ := newTestService(NewMemoryStore(), nil, "123456")

	for _, code := range []string{"", "12345", "abcdef", "1234567"} {
		ok, err := svc.Verify(context.Background(), "b-1", code, PurposeRegistration)
		require.NoError(t, err)
		assert.False(t, ok, code)
	}
}

func TestDeliveryFailureIsNotObservable(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("gateway down")}
	svc, _ := newTestService(NewMemoryStore(), notifier, "123456")

	assert.NoError(t, svc.Generate(context.Background(), "b-1", PurposeRegistration, "0599000000"))
}

func TestRandomCodeShape(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := randomCode()
		require.NoError(t, err)
		assert.Len(t, code, 6)
	}
}

func TestDigestIsKeyed(t *testing.T) {
	store := NewMemoryStore()
	issuer := NewService(store, nil, time.Minute, []byte("key-one"), logging.Discard())
	issuer.generate = func() (string, error) { return "123456", nil }
	other := NewService(store, nil, time.Minute, []byte("key-two"), logging.Discard())
	ctx := context.Background()

	assert.NotEqual(t, issuer.digest("b-1", PurposeRegistration, "123456"), other.digest("b-1", PurposeRegistration, "123456"))

	require.NoError(t, issuer.Generate(ctx, "b-1", PurposeRegistration, "0599000000"))
	ok, err := other.Verify(ctx, "b-1", "123456", PurposeRegistration)
	require.NoError(t, err)
	assert.False(t, ok, "a digest made under another key must not match")

	ok, err = issuer.Verify(ctx, "b-1", "123456", PurposeRegistration)
	require.NoError(t, err)
	assert.True(t, ok)
}
