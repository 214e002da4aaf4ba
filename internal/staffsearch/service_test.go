package staffsearch

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aid-portal/beneficiary_portal/internal/beneficiary"
	"github.com/aid-portal/beneficiary_portal/internal/logging"
	"github.com/aid-portal/beneficiary_portal/internal/metrics"
	"github.com/aid-portal/beneficiary_portal/internal/packages"
)

type brokenPackages struct{}

func (brokenPackages) ListByBeneficiary(context.Context, string) ([]packages.Package, error) {
	return nil, errors.New("timeout")
}

type brokenBeneficiaries struct{ beneficiary.Repository }

func (brokenBeneficiaries) FindByNationalID(context.Context, string) (beneficiary.Beneficiary, error) {
	return beneficiary.Beneficiary{}, errors.New("connection reset")
}

func seeded() (*beneficiary.MemoryRepository, *packages.MemoryRepository) {
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	return beneficiary.NewMemoryRepository(beneficiary.Beneficiary{ID: "b-1", NationalID: "123456789", Name: "Mona"}),
		packages.NewMemoryRepository(
			packages.Package{ID: "p1", BeneficiaryID: "b-1", Status: packages.StatusDelivered, CreatedAt: base},
			packages.Package{ID: "p2", BeneficiaryID: "b-1", Status: packages.StatusPending, CreatedAt: base.Add(time.Hour)},
		)
}

func TestSearchFound(t *testing.T) {
	bens, pkgs := seeded()
	m := metrics.New(prometheus.NewRegistry())
	svc := NewService(bens, pkgs, m, logging.Discard())

	res := svc.Search(context.Background(), "  123456789 ")
	require.Equal(t, OutcomeFound, res.Outcome)
	require.NotNil(t, res.Beneficiary)
	assert.Equal(t, "b-1", res.Beneficiary.ID)
	assert.Equal(t, "p2", res.Packages[0].ID)
	assert.Equal(t, packages.Summary{Total: 2, Delivered: 1, Pending: 1}, res.Summary)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StaffSearches.WithLabelValues("found")))
}

func TestSearchNotFound(t *testing.T) {
	bens, pkgs := seeded()
	res := NewService(bens, pkgs, nil, logging.Discard()).Search(context.Background(), "000000000")

	assert.Equal(t, OutcomeNotFound, res.Outcome)
	assert.Nil(t, res.Beneficiary)
	assert.Equal(t, "لم يتم العثور على مستفيد بهذا الرقم", res.Error)
}

func TestSearchEmptyInput(t *testing.T) {
	bens, pkgs := seeded()
	res := NewService(bens, pkgs, nil, logging.Discard()).Search(context.Background(), "   ")

	assert.Equal(t, OutcomeInvalid, res.Outcome)
	assert.NotEmpty(t, res.Error)
}

func TestSearchLookupFailureClearsRecord(t *testing.T) {
	_, pkgs := seeded()
	res := NewService(brokenBeneficiaries{}, pkgs, nil, logging.Discard()).Search(context.Background(), "123456789")

	assert.Equal(t, OutcomeError, res.Outcome)
	assert.Nil(t, res.Beneficiary)
}

func TestSearchPackageFailureIsNotFatal(t *testing.T) {
	bens, _ := seeded()
	res := NewService(bens, brokenPackages{}, nil, logging.Discard()).Search(context.Background(), "123456789")

	assert.Equal(t, OutcomeFound, res.Outcome)
	assert.Empty(t, res.Packages)
	assert.Equal(t, packages.Summary{}, res.Summary)
}

func TestHandlerStatusCodes(t *testing.T) {
	bens, pkgs := seeded()
	app := fiber.New()
	app.Get("/staff/beneficiaries/:nationalId", NewHandler(NewService(bens, pkgs, nil, logging.Discard())).Search)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/staff/beneficiaries/123456789", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/staff/beneficiaries/000000000", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
