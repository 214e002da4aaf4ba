// Package store assembles one repository per record collection for the configured backend.
package store

import (
	"github.com/jackc/pgx/v5/pgxpool"
	supa "github.com/supabase-community/supabase-go"

	"github.com/aid-portal/beneficiary_portal/internal/activity"
	"github.com/aid-portal/beneficiary_portal/internal/beneficiary"
	"github.com/aid-portal/beneficiary_portal/internal/credential"
	"github.com/aid-portal/beneficiary_portal/internal/dataupdate"
	"github.com/aid-portal/beneficiary_portal/internal/features"
	"github.com/aid-portal/beneficiary_portal/internal/otp"
	"github.com/aid-portal/beneficiary_portal/internal/packages"
)

// Backend groups the repositories backing the portal.
type Backend struct {
	Beneficiaries beneficiary.Repository
	Credentials   credential.Repository
	Packages      packages.Repository
	OTPCodes      otp.Store
	DataUpdates   dataupdate.Repository
	Features      features.Repository
	Activity      activity.Repository
}

// NewPostgres builds a Backend over a pgx pool.
func NewPostgres(db *pgxpool.Pool) Backend {
	return Backend{
		Beneficiaries: beneficiary.NewPostgresRepository(db),
		Credentials:   credential.NewPostgresRepository(db),
		Packages:      packages.NewPostgresRepository(db),
		OTPCodes:      otp.NewPostgresStore(db),
		DataUpdates:   dataupdate.NewPostgresRepository(db),
		Features:      features.NewPostgresRepository(db),
		Activity:      activity.NewPostgresRepository(db),
	}
}

// NewSupabase builds a Backend over the Supabase REST interface.
func NewSupabase(client *supa.Client) Backend {
	return Backend{
		Beneficiaries: beneficiary.NewSupabaseRepository(client),
		Credentials:   credential.NewSupabaseRepository(client),
		Packages:      packages.NewSupabaseRepository(client),
		OTPCodes:      otp.NewSupabaseStore(client),
		DataUpdates:   dataupdate.NewSupabaseRepository(client),
		Features:      features.NewSupabaseRepository(client),
		Activity:      activity.NewSupabaseRepository(client),
	}
}

// Memory exposes the seedable in-memory repositories alongside the Backend.
type Memory struct {
	Backend
	BeneficiaryStore *beneficiary.MemoryRepository
	PackageStore     *packages.MemoryRepository
	FeatureStore     *features.MemoryRepository
	ActivityStore    *activity.MemoryRepository
}

// NewMemory builds an in-memory Backend for tests and local development.
func NewMemory() Memory {
	beneficiaries := beneficiary.NewMemoryRepository()
	pkgs := packages.NewMemoryRepository()
	flags := features.NewMemoryRepository()
	log := activity.NewMemoryRepository()
	return Memory{
		Backend: Backend{
			Beneficiaries: beneficiaries,
			Credentials:   credential.NewMemoryRepository(),
			Packages:      pkgs,
			OTPCodes:      otp.NewMemoryStore(),
			DataUpdates:   dataupdate.NewMemoryRepository(),
			Features:      flags,
			Activity:      log,
		},
		BeneficiaryStore: beneficiaries,
		PackageStore:     pkgs,
		FeatureStore:     flags,
		ActivityStore:    log,
	}
}
