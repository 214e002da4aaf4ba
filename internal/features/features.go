package features

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
)

// Row keys understood by Load.
const (
	KeyOTPVerification  = "otp_verification"
	KeyPasswordRecovery = "password_recovery"

	// DefaultSupportPhone is used when no row carries a support_phone setting.
	DefaultSupportPhone = "+970599505699"
)

// Row is one entry of the system_features table.
type Row struct {
	FeatureKey string          `json:"feature_key"`
	IsEnabled  bool            `json:"is_enabled"`
	Settings   json.RawMessage `json:"settings,omitempty"`
}

// Flags is the resolved, read-only feature configuration for one portal session.
type Flags struct {
	OTPVerification  bool   `json:"otp_verification"`
	PasswordRecovery bool   `json:"password_recovery"`
	SupportPhone     string `json:"support_phone"`
}

// Defaults returns the flags used when nothing has been configured.
func Defaults() Flags {
	return Flags{SupportPhone: DefaultSupportPhone}
}

// Repository lists feature rows.
type Repository interface {
	List(ctx context.Context) ([]Row, error)
}

// Loader resolves Flags from a Repository.
type Loader struct {
	repo   Repository
	logger *slog.Logger
}

func NewLoader(repo Repository, logger *slog.Logger) *Loader {
	return &Loader{repo: repo, logger: logger}
}

// Load resolves the current flags. A failed read is logged and yields Defaults.
func (l *Loader) Load(ctx context.Context) Flags {
	rows, err := l.repo.List(ctx)
	if err != nil {
		l.logger.Warn("feature flags unavailable, using defaults", slog.Any("error", err))
		return Defaults()
	}
	return Resolve(rows)
}

// Resolve folds rows over Defaults. Unknown keys are ignored except for their support_phone setting.
func Resolve(rows []Row) Flags {
	flags := Defaults()
	for _, row := range rows {
		switch row.FeatureKey {
		case KeyOTPVerification:
			flags.OTPVerification = row.IsEnabled
		case KeyPasswordRecovery:
			flags.PasswordRecovery = row.IsEnabled
		}
		if phone := supportPhone(row.Settings); phone != "" {
			flags.SupportPhone = phone
		}
	}
	return flags
}

func supportPhone(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var settings struct {
		SupportPhone string `json:"support_phone"`
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		return ""
	}
	return strings.TrimSpace(settings.SupportPhone)
}
