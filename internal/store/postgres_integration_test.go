//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aid-portal/beneficiary_portal/internal/activity"
	"github.com/aid-portal/beneficiary_portal/internal/credential"
	"github.com/aid-portal/beneficiary_portal/internal/dataupdate"
	"github.com/aid-portal/beneficiary_portal/internal/features"
	"github.com/aid-portal/beneficiary_portal/internal/infra"
	"github.com/aid-portal/beneficiary_portal/internal/logging"
	"github.com/aid-portal/beneficiary_portal/internal/otp"
	"github.com/aid-portal/beneficiary_portal/internal/records"
	"github.com/aid-portal/beneficiary_portal/internal/store"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("portal"),
		tcpostgres.WithUsername("portal"),
		tcpostgres.WithPassword("portal"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}
	return url
}

func TestPostgresBackend(t *testing.T) {
	ctx := context.Background()
	url := startPostgres(t)

	require.NoError(t, infra.RunMigrations(ctx, url))
	// Re-running is a no-op.
	require.NoError(t, infra.RunMigrations(ctx, url))

	pool, err := infra.NewPostgresPool(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	backend := store.NewPostgres(pool)

	beneficiaryID := uuid.NewString()
	_, err = pool.Exec(ctx, `INSERT INTO beneficiaries (id, national_id, name, whatsapp_number, address, phone_locked)
        VALUES ($1, '123456789', 'Mona', '0599111111', 'Gaza', TRUE)`, beneficiaryID)
	require.NoError(t, err)
	base := time.Now().UTC().Add(-time.Hour)
	for i, status := range []string{"delivered", "pending"} {
		_, err = pool.Exec(ctx, `INSERT INTO packages (id, beneficiary_id, name, status, created_at) VALUES ($1, $2, $3, $4, $5)`,
			uuid.NewString(), beneficiaryID, "basket", status, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	t.Run("beneficiaries", func(t *testing.T) {
		b, err := backend.Beneficiaries.FindByNationalID(ctx, "123456789")
		require.NoError(t, err)
		assert.Equal(t, beneficiaryID, b.ID)
		assert.True(t, b.PhoneLocked)
		assert.Nil(t, b.LastPortalAccess)

		_, err = backend.Beneficiaries.FindByNationalID(ctx, "000000000")
		assert.ErrorIs(t, err, records.ErrNotFound)

		require.NoError(t, backend.Beneficiaries.TouchPortalAccess(ctx, beneficiaryID, time.Now()))
		b, err = backend.Beneficiaries.FindByID(ctx, beneficiaryID)
		require.NoError(t, err)
		assert.NotNil(t, b.LastPortalAccess)
	})

	t.Run("packages newest first", func(t *testing.T) {
		list, err := backend.Packages.ListByBeneficiary(ctx, beneficiaryID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "pending", string(list[0].Status))
	})

	t.Run("credentials are unique", func(t *testing.T) {
		svc := credential.NewService(backend.Credentials, 4)
		_, err := svc.Create(ctx, beneficiaryID, "123456789", "123456")
		require.NoError(t, err)
		_, err = svc.Create(ctx, beneficiaryID, "123456789", "654321")
		assert.ErrorIs(t, err, credential.ErrCredentialExists)

		_, err = svc.Verify(ctx, "123456789", "123456")
		assert.NoError(t, err)
		_, err = svc.Verify(ctx, "123456789", "000000")
		assert.ErrorIs(t, err, credential.ErrInvalidCredentials)
	})

	t.Run("otp codes are single use", func(t *testing.T) {
		now := time.Now().UTC()
		code := otp.Code{BeneficiaryID: beneficiaryID, Purpose: otp.PurposeRegistration, Digest: "d1", ExpiresAt: now.Add(time.Minute), CreatedAt: now}
		require.NoError(t, backend.OTPCodes.Save(ctx, code))
		code.Digest = "d2"
		require.NoError(t, backend.OTPCodes.Save(ctx, code))

		ok, err := backend.OTPCodes.Consume(ctx, beneficiaryID, otp.PurposeRegistration, "d1", now)
		require.NoError(t, err)
		assert.False(t, ok, "replaced code must not verify")

		ok, err = backend.OTPCodes.Consume(ctx, beneficiaryID, otp.PurposeRegistration, "d2", now)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = backend.OTPCodes.Consume(ctx, beneficiaryID, otp.PurposeRegistration, "d2", now)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("data updates", func(t *testing.T) {
		b, err := backend.Beneficiaries.FindByID(ctx, beneficiaryID)
		require.NoError(t, err)
		svc := dataupdate.NewService(backend.DataUpdates)
		_, err = svc.Submit(ctx, b, dataupdate.FieldAddress, "Rafah")
		require.NoError(t, err)
		list, err := svc.List(ctx, beneficiaryID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Gaza", list[0].OldValue)
		assert.Equal(t, dataupdate.StatusPending, list[0].Status)
	})

	t.Run("features", func(t *testing.T) {
		_, err := pool.Exec(ctx, `INSERT INTO system_features (feature_key, is_enabled, settings) VALUES
            ($1, TRUE, NULL), ($2, TRUE, '{"support_phone": "+970500000000"}')`,
			features.KeyOTPVerification, features.KeyPasswordRecovery)
		require.NoError(t, err)
		rows, err := backend.Features.List(ctx)
		require.NoError(t, err)
		flags := features.Resolve(rows)
		assert.True(t, flags.OTPVerification)
		assert.True(t, flags.PasswordRecovery)
		assert.Equal(t, "+970500000000", flags.SupportPhone)
	})

	t.Run("activity", func(t *testing.T) {
		logger := activity.NewLogger(backend.Activity, logging.Discard(), nil)
		logger.Log(ctx, activity.Entry{Description: "login", Actor: "Mona", ActorType: activity.ActorBeneficiary, Kind: activity.KindReview, BeneficiaryID: beneficiaryID, CreatedAt: time.Now()})
		logger.Log(ctx, activity.Entry{Description: "anonymous search", Actor: "portal", ActorType: activity.ActorBeneficiary, Kind: activity.KindReview, CreatedAt: time.Now()})
		list, err := logger.List(ctx, beneficiaryID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "login", list[0].Description)
	})
}
