package otp

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/aid-portal/beneficiary_portal/internal/notification"
	"github.com/aid-portal/beneficiary_portal/internal/validation"
)

const (
	// DefaultTTL is how long an issued code stays valid.
	DefaultTTL = 5 * time.Minute
	codeDigits = 6
)

// Service issues and checks one-time codes.
type Service struct {
	store    Store
	notifier notification.Notifier
	ttl      time.Duration
	key      []byte
	logger   *slog.Logger
	now      func() time.Time
	generate func() (string, error)
}

// NewService builds an OTP service. A non-positive ttl selects DefaultTTL. key signs stored digests so
// a leaked code table cannot be brute-forced offline.
func NewService(store Store, notifier notification.Notifier, ttl time.Duration, key []byte, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		notifier: notifier,
		ttl:      ttl,
		key:      key,
		logger:   logger,
		now:      time.Now,
		generate: randomCode,
	}
}

// Generate issues a fresh code for the beneficiary, superseding any earlier one, and hands it to the
// notifier. Delivery failures are logged and do not fail the call.
func (s *Service) Generate(ctx context.Context, beneficiaryID, purpose, destination string) error {
	code, err := s.generate()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	now := s.now().UTC()
	if err := s.store.Save(ctx, Code{
		BeneficiaryID: beneficiaryID,
		Purpose:       purpose,
		Digest:        s.digest(beneficiaryID, purpose, code),
		ExpiresAt:     now.Add(s.ttl),
		CreatedAt:     now,
	}); err != nil {
		return fmt.Errorf("save code: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindOneTimeCode,
			Channel:     notification.ChannelWhatsApp,
			Destination: destination,
			Body:        code,
		}); err != nil {
			s.logger.Warn("one-time code delivery failed",
				slog.String("beneficiary_id", beneficiaryID),
				slog.Any("error", err))
		}
	}
	return nil
}

// Verify reports whether code is the live code for the beneficiary and purpose. A match consumes
// the code. Malformed input never reaches the store.
func (s *Service) Verify(ctx context.Context, beneficiaryID, code, purpose string) (bool, error) {
	if !validation.IsValidCode(code) {
		return false, nil
	}
	ok, err := s.store.Consume(ctx, beneficiaryID, purpose, s.digest(beneficiaryID, purpose, code), s.now().UTC())
	if err != nil {
		return false, fmt.Errorf("consume code: %w", err)
	}
	return ok, nil
}

func (s *Service) digest(beneficiaryID, purpose, code string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(beneficiaryID + ":" + purpose + ":" + code))
	return hex.EncodeToString(mac.Sum(nil))
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}
