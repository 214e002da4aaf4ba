package staffsearch

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aid-portal/beneficiary_portal/internal/beneficiary"
	"github.com/aid-portal/beneficiary_portal/internal/metrics"
	"github.com/aid-portal/beneficiary_portal/internal/packages"
	"github.com/aid-portal/beneficiary_portal/internal/records"
)

// Outcome classifies a search.
type Outcome string

const (
	OutcomeFound    Outcome = "found"
	OutcomeNotFound Outcome = "not_found"
	OutcomeInvalid  Outcome = "invalid"
	OutcomeError    Outcome = "error"
)

const (
	msgEmptyInput  = "الرجاء إدخال رقم الهوية الوطنية"
	msgNotFound    = "لم يتم العثور على مستفيد بهذا الرقم"
	msgLookupError = "حدث خطأ أثناء البحث عن المستفيد"
)

// Result is what the staff screen shows. Failed searches carry no beneficiary, so a previously
// displayed record is cleared.
type Result struct {
	Outcome     Outcome                  `json:"outcome"`
	Beneficiary *beneficiary.Beneficiary `json:"beneficiary"`
	Packages    []packages.Package       `json:"packages"`
	Summary     packages.Summary         `json:"summary"`
	Error       string                   `json:"error,omitempty"`
}

// Service answers staff lookups by identity number.
type Service struct {
	beneficiaries beneficiary.Repository
	packages      packages.Repository
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

func NewService(beneficiaries beneficiary.Repository, pkgs packages.Repository, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{beneficiaries: beneficiaries, packages: pkgs, metrics: m, logger: logger}
}

// Search resolves one beneficiary and their packages. Only the trimmed input being empty is
// rejected up front; any other string goes to the store.
func (s *Service) Search(ctx context.Context, nationalID string) Result {
	res := s.search(ctx, strings.TrimSpace(nationalID))
	s.metrics.IncrementStaffSearch(string(res.Outcome))
	return res
}

func (s *Service) search(ctx context.Context, nationalID string) Result {
	if nationalID == "" {
		return failed(OutcomeInvalid, msgEmptyInput)
	}

	b, err := s.beneficiaries.FindByNationalID(ctx, nationalID)
	if errors.Is(err, records.ErrNotFound) {
		return failed(OutcomeNotFound, msgNotFound)
	}
	if err != nil {
		s.logger.Error("staff beneficiary lookup failed", slog.Any("error", err))
		return failed(OutcomeError, msgLookupError)
	}

	list, err := s.packages.ListByBeneficiary(ctx, b.ID)
	if err != nil {
		s.logger.Warn("staff package list failed", slog.String("beneficiary_id", b.ID), slog.Any("error", err))
		list = []packages.Package{}
	}

	return Result{
		Outcome:     OutcomeFound,
		Beneficiary: &b,
		Packages:    list,
		Summary:     packages.Summarize(list),
	}
}

func failed(outcome Outcome, msg string) Result {
	return Result{Outcome: outcome, Packages: []packages.Package{}, Error: msg}
}
