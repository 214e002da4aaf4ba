package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aid-portal/beneficiary_portal/internal/metrics"
)

// Kind classifies an activity entry.
type Kind string

const (
	KindReview Kind = "review"
	KindCreate Kind = "create"
	KindUpdate Kind = "update"
)

// ActorBeneficiary marks entries written on behalf of a beneficiary.
const ActorBeneficiary = "beneficiary"

// ListLimit caps how many entries List returns.
const ListLimit = 50

// Entry is one audit record.
type Entry struct {
	ID            string    `json:"id"`
	Description   string    `json:"description"`
	Actor         string    `json:"actor"`
	ActorType     string    `json:"actor_type"`
	Kind          Kind      `json:"kind"`
	BeneficiaryID string    `json:"beneficiary_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Repository persists activity entries.
type Repository interface {
	Append(ctx context.Context, entry Entry) error
	ListByBeneficiary(ctx context.Context, beneficiaryID string, limit int) ([]Entry, error)
}

// Logger writes audit entries. Write failures never reach the caller.
type Logger struct {
	repo    Repository
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewLogger constructs a Logger. m may be nil.
func NewLogger(repo Repository, logger *slog.Logger, m *metrics.Metrics) *Logger {
	return &Logger{repo: repo, logger: logger, metrics: m, now: time.Now}
}

// Log appends entry, filling in its id and timestamp. A failed write is logged and counted.
func (l *Logger) Log(ctx context.Context, entry Entry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = l.now().UTC()
	}
	if err := l.repo.Append(ctx, entry); err != nil {
		l.metrics.IncrementAuditFailure()
		l.logger.Warn("activity log write failed",
			slog.String("kind", string(entry.Kind)),
			slog.String("beneficiary_id", entry.BeneficiaryID),
			slog.Any("error", err))
	}
}

// List returns the most recent entries for the beneficiary, newest first.
func (l *Logger) List(ctx context.Context, beneficiaryID string) ([]Entry, error) {
	return l.repo.ListByBeneficiary(ctx, beneficiaryID, ListLimit)
}
