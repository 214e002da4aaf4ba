package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/aid-portal/beneficiary_portal/internal/activity"
	"github.com/aid-portal/beneficiary_portal/internal/beneficiary"
	"github.com/aid-portal/beneficiary_portal/internal/credential"
	"github.com/aid-portal/beneficiary_portal/internal/dataupdate"
	"github.com/aid-portal/beneficiary_portal/internal/features"
	"github.com/aid-portal/beneficiary_portal/internal/metrics"
	"github.com/aid-portal/beneficiary_portal/internal/otp"
	"github.com/aid-portal/beneficiary_portal/internal/packages"
	"github.com/aid-portal/beneficiary_portal/internal/records"
	"github.com/aid-portal/beneficiary_portal/internal/validation"
)

// Deps wires a Controller.
type Deps struct {
	Beneficiaries beneficiary.Repository
	Credentials   *credential.Service
	OTP           *otp.Service
	Packages      packages.Repository
	Updates       *dataupdate.Service
	Features      *features.Loader
	Activity      *activity.Logger
	Sessions      SessionStore
	Locker        Locker
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
}

// Controller drives the beneficiary self-service flow. Every mutating method is one user action:
// it holds the session's in-flight lock, applies exactly one transition and persists the session.
type Controller struct {
	beneficiaries beneficiary.Repository
	credentials   *credential.Service
	otp           *otp.Service
	packages      packages.Repository
	updates       *dataupdate.Service
	features      *features.Loader
	activity      *activity.Logger
	sessions      SessionStore
	locker        Locker
	metrics       *metrics.Metrics
	logger        *slog.Logger
	now           func() time.Time
}

func NewController(d Deps) *Controller {
	return &Controller{
		beneficiaries: d.Beneficiaries,
		credentials:   d.Credentials,
		otp:           d.OTP,
		packages:      d.Packages,
		updates:       d.Updates,
		features:      d.Features,
		activity:      d.Activity,
		sessions:      d.Sessions,
		locker:        d.Locker,
		metrics:       d.Metrics,
		logger:        d.Logger,
		now:           time.Now,
	}
}

// Start opens a session at the search step. Feature flags are resolved once here and travel with
// the session.
func (c *Controller) Start(ctx context.Context) (Session, error) {
	s := Session{
		ID:        uuid.NewString(),
		Flags:     c.features.Load(ctx),
		State:     Searching{},
		UpdatedAt: c.now().UTC(),
	}
	if err := c.sessions.Save(ctx, s); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

// Session returns the stored session.
func (c *Controller) Session(ctx context.Context, id string) (Session, error) {
	return c.sessions.Load(ctx, id)
}

func (c *Controller) act(ctx context.Context, id string, fn func(context.Context, *Session) error) (Session, error) {
	unlock, err := c.locker.Lock(ctx, id)
	if err != nil {
		return Session{}, err
	}
	defer unlock()

	s, err := c.sessions.Load(ctx, id)
	if err != nil {
		return Session{}, err
	}
	from := s.Step()

	actErr := fn(ctx, &s)
	if errors.Is(actErr, ErrInvalidTransition) {
		return s, actErr
	}

	s.UpdatedAt = c.now().UTC()
	if err := c.sessions.Save(ctx, s); err != nil {
		return s, fmt.Errorf("save session: %w", err)
	}
	if to := s.Step(); to != from {
		c.metrics.IncrementTransition(string(from), string(to))
	}
	return s, actErr
}

// Search looks the identity number up and routes to register, create_pin or login.
func (c *Controller) Search(ctx context.Context, id, nationalID string) (Session, error) {
	return c.act(ctx, id, func(ctx context.Context, s *Session) error {
		if _, ok := s.State.(Searching); !ok {
			return invalidTransition("search", s.Step())
		}
		s.Message = ""
		s.NationalID = nationalID
		if !validation.IsValidIdentityNumber(nationalID) {
			return fail(s, KindValidation, msgInvalidNationalID, nil)
		}

		b, err := c.findBeneficiary(ctx, nationalID)
		if errors.Is(err, records.ErrNotFound) {
			s.State = Registering{NationalID: nationalID}
			return nil
		}
		if err != nil {
			return fail(s, KindRemote, msgSearchFailed, err)
		}

		cred, found, err := c.lookupCredential(ctx, nationalID)
		if err != nil {
			return fail(s, KindRemote, msgSearchFailed, err)
		}
		if found {
			s.State = LoggingIn{Beneficiary: b, CredentialID: cred.ID}
		} else {
			s.State = CreatingPIN{Beneficiary: b}
		}
		c.audit(ctx, b, activity.KindReview, fmt.Sprintf(auditSearch, nationalID))
		return nil
	})
}

// CreatePIN creates the beneficiary's credential, then either sends a one-time code or opens the
// dashboard depending on the session's flags.
func (c *Controller) CreatePIN(ctx context.Context, id, pin, confirm string) (Session, error) {
	return c.act(ctx, id, func(ctx context.Context, s *Session) error {
		st, ok := s.State.(CreatingPIN)
		if !ok {
			return invalidTransition("create pin", s.Step())
		}
		s.Message = ""
		if !validation.IsValidPIN(pin) {
			return fail(s, KindValidation, msgInvalidPIN, nil)
		}
		if pin != confirm {
			return fail(s, KindValidation, msgPINMismatch, nil)
		}

		b := st.Beneficiary
		cred, err := c.createCredential(ctx, b.ID, s.NationalID, pin)
		if errors.Is(err, credential.ErrCredentialExists) {
			// Created elsewhere since the search; continue at login when the credential is readable.
			if existing, found, lookupErr := c.lookupCredential(ctx, s.NationalID); lookupErr == nil && found {
				s.State = LoggingIn{Beneficiary: b, CredentialID: existing.ID}
			}
			return fail(s, KindConflict, msgCredentialExists, err)
		}
		if err != nil {
			return fail(s, KindRemote, msgCreatePINFailed, err)
		}
		c.audit(ctx, b, activity.KindCreate, auditCreatePIN)

		if s.Flags.OTPVerification {
			s.State = VerifyingOTP{Beneficiary: b, CredentialID: cred.ID}
			if err := c.sendCode(ctx, b); err != nil {
				return fail(s, KindRemote, msgSendCodeFailed, err)
			}
			s.Message = msgCodeSent
			return nil
		}
		s.State = c.enterDashboard(ctx, b, cred.ID)
		return nil
	})
}

// Login checks the PIN. A failure keeps the session at the login step.
func (c *Controller) Login(ctx context.Context, id, pin string) (Session, error) {
	return c.act(ctx, id, func(ctx context.Context, s *Session) error {
		st, ok := s.State.(LoggingIn)
		if !ok {
			return invalidTransition("login", s.Step())
		}
		s.Message = ""
		if !validation.IsValidPIN(pin) {
			return fail(s, KindValidation, msgInvalidPIN, nil)
		}

		cred, err := c.verifyCredential(ctx, s.NationalID, pin)
		if errors.Is(err, credential.ErrInvalidCredentials) {
			return fail(s, KindCredentials, msgWrongPIN, err)
		}
		if err != nil {
			return fail(s, KindRemote, msgLoginFailed, err)
		}

		s.State = c.enterDashboard(ctx, st.Beneficiary, cred.ID)
		c.audit(ctx, st.Beneficiary, activity.KindReview, auditLogin)
		return nil
	})
}

// VerifyOTP checks the registration code. A failure keeps the session at verify_otp.
func (c *Controller) VerifyOTP(ctx context.Context, id, code string) (Session, error) {
	return c.act(ctx, id, func(ctx context.Context, s *Session) error {
		st, ok := s.State.(VerifyingOTP)
		if !ok {
			return invalidTransition("verify code", s.Step())
		}
		s.Message = ""
		if !validation.IsValidCode(code) {
			return fail(s, KindValidation, msgInvalidCodeFormat, nil)
		}

		valid, err := c.verifyCode(ctx, st.Beneficiary.ID, code)
		if err != nil {
			return fail(s, KindRemote, msgVerifyFailed, err)
		}
		if !valid {
			return fail(s, KindCredentials, msgCodeRejected, nil)
		}

		s.State = c.enterDashboard(ctx, st.Beneficiary, st.CredentialID)
		c.audit(ctx, st.Beneficiary, activity.KindReview, auditVerifyOTP)
		return nil
	})
}

// ResendOTP issues a fresh code, superseding the previous one.
func (c *Controller) ResendOTP(ctx context.Context, id string) (Session, error) {
	return c.act(ctx, id, func(ctx context.Context, s *Session) error {
		st, ok := s.State.(VerifyingOTP)
		if !ok {
			return invalidTransition("resend code", s.Step())
		}
		s.Message = ""
		if err := c.sendCode(ctx, st.Beneficiary); err != nil {
			return fail(s, KindRemote, msgSendCodeFailed, err)
		}
		s.Message = msgCodeSent
		return nil
	})
}

// CompleteRegistration re-resolves the beneficiary created by the registration process and opens
// the dashboard. The session stays at register while the record is not there yet.
func (c *Controller) CompleteRegistration(ctx context.Context, id string) (Session, error) {
	return c.act(ctx, id, func(ctx context.Context, s *Session) error {
		st, ok := s.State.(Registering)
		if !ok {
			return invalidTransition("complete registration", s.Step())
		}
		s.Message = ""

		b, err := c.findBeneficiary(ctx, st.NationalID)
		if errors.Is(err, records.ErrNotFound) {
			return fail(s, KindNotFound, msgRegistrationPending, err)
		}
		if err != nil {
			return fail(s, KindRemote, msgUnexpected, err)
		}
		s.State = c.enterDashboard(ctx, b, "")
		return nil
	})
}

// CancelRegistration returns to the search step.
func (c *Controller) CancelRegistration(ctx context.Context, id string) (Session, error) {
	return c.act(ctx, id, func(_ context.Context, s *Session) error {
		if _, ok := s.State.(Registering); !ok {
			return invalidTransition("cancel registration", s.Step())
		}
		reset(s)
		return nil
	})
}

// Exit leaves the portal from any step. The session survives at the search step.
func (c *Controller) Exit(ctx context.Context, id string) (Session, error) {
	return c.act(ctx, id, func(_ context.Context, s *Session) error {
		reset(s)
		return nil
	})
}

func reset(s *Session) {
	s.State = Searching{}
	s.NationalID = ""
	s.Message = ""
}

// ShareLocation records the visitor's coordinates in the activity log.
func (c *Controller) ShareLocation(ctx context.Context, id string, latitude, longitude float64) (Session, error) {
	return c.act(ctx, id, func(ctx context.Context, s *Session) error {
		st, ok := s.State.(Dashboard)
		if !ok {
			return invalidTransition("share location", s.Step())
		}
		s.Message = ""
		if !validCoordinate(latitude, 90) || !validCoordinate(longitude, 180) {
			return fail(s, KindValidation, msgInvalidLocation, nil)
		}
		c.audit(ctx, st.Beneficiary, activity.KindUpdate, fmt.Sprintf(auditShareLocation, latitude, longitude))
		s.Message = msgLocationShared
		return nil
	})
}

func validCoordinate(v, limit float64) bool {
	return !math.IsNaN(v) && v >= -limit && v <= limit
}

// SubmitUpdate files a field-update request and refreshes the displayed beneficiary.
func (c *Controller) SubmitUpdate(ctx context.Context, id, field, newValue string) (Session, dataupdate.Request, error) {
	var created dataupdate.Request
	s, err := c.act(ctx, id, func(ctx context.Context, s *Session) error {
		st, ok := s.State.(Dashboard)
		if !ok {
			return invalidTransition("submit update", s.Step())
		}
		s.Message = ""

		req, err := c.submitUpdate(ctx, st.Beneficiary, field, newValue)
		switch {
		case errors.Is(err, dataupdate.ErrNoChange):
			return fail(s, KindValidation, msgNoChange, err)
		case errors.Is(err, dataupdate.ErrFieldLocked):
			return fail(s, KindValidation, msgPhoneLocked, err)
		case errors.Is(err, dataupdate.ErrReadOnlyField), errors.Is(err, dataupdate.ErrUnknownField):
			return fail(s, KindValidation, msgFieldReadOnly, err)
		case err != nil:
			return fail(s, KindRemote, msgUpdateFailed, err)
		}
		created = req

		c.audit(ctx, st.Beneficiary, activity.KindUpdate, fmt.Sprintf(auditUpdateRequest, dataupdate.Label(field)))
		s.State = c.refreshed(ctx, st)
		s.Message = msgUpdateSubmitted
		return nil
	})
	return s, created, err
}

// RefreshProfile re-reads the beneficiary record shown on the dashboard.
func (c *Controller) RefreshProfile(ctx context.Context, id string) (Session, error) {
	return c.act(ctx, id, func(ctx context.Context, s *Session) error {
		st, ok := s.State.(Dashboard)
		if !ok {
			return invalidTransition("refresh profile", s.Step())
		}
		s.Message = ""
		b, err := c.findBeneficiaryByID(ctx, st.Beneficiary.ID)
		if err != nil {
			return fail(s, KindRemote, msgUnexpected, err)
		}
		st.Beneficiary = b
		s.State = st
		return nil
	})
}

func (c *Controller) refreshed(ctx context.Context, st Dashboard) Dashboard {
	b, err := c.findBeneficiaryByID(ctx, st.Beneficiary.ID)
	if err != nil {
		c.logger.Warn("profile refresh failed", slog.String("beneficiary_id", st.Beneficiary.ID), slog.Any("error", err))
		return st
	}
	st.Beneficiary = b
	return st
}

// enterDashboard loads the package list and stamps the portal access time. Neither failure blocks
// the transition: a missing list shows as empty.
func (c *Controller) enterDashboard(ctx context.Context, b beneficiary.Beneficiary, credentialID string) Dashboard {
	list := []packages.Package{}

	var g errgroup.Group
	g.Go(func() error {
		defer c.observe("packages.list", time.Now())
		pkgs, err := c.packages.ListByBeneficiary(ctx, b.ID)
		if err != nil {
			c.logger.Warn("package list unavailable", slog.String("beneficiary_id", b.ID), slog.Any("error", err))
			return nil
		}
		list = pkgs
		return nil
	})
	g.Go(func() error {
		defer c.observe("beneficiary.touch", time.Now())
		if err := c.beneficiaries.TouchPortalAccess(ctx, b.ID, c.now().UTC()); err != nil {
			c.logger.Warn("portal access stamp failed", slog.String("beneficiary_id", b.ID), slog.Any("error", err))
		}
		return nil
	})
	_ = g.Wait()

	return Dashboard{Beneficiary: b, CredentialID: credentialID, Packages: list}
}

func (c *Controller) audit(ctx context.Context, b beneficiary.Beneficiary, kind activity.Kind, description string) {
	actor := b.Name
	if actor == "" {
		actor = unknownActor
	}
	c.activity.Log(ctx, activity.Entry{
		Description:   description,
		Actor:         actor,
		ActorType:     activity.ActorBeneficiary,
		Kind:          kind,
		BeneficiaryID: b.ID,
	})
}

func (c *Controller) observe(operation string, start time.Time) {
	c.metrics.ObserveRemoteCall(operation, time.Since(start))
}

func (c *Controller) findBeneficiary(ctx context.Context, nationalID string) (beneficiary.Beneficiary, error) {
	defer c.observe("beneficiary.find", time.Now())
	return c.beneficiaries.FindByNationalID(ctx, nationalID)
}

func (c *Controller) findBeneficiaryByID(ctx context.Context, id string) (beneficiary.Beneficiary, error) {
	defer c.observe("beneficiary.get", time.Now())
	return c.beneficiaries.FindByID(ctx, id)
}

func (c *Controller) lookupCredential(ctx context.Context, nationalID string) (credential.Credential, bool, error) {
	defer c.observe("credential.lookup", time.Now())
	return c.credentials.Lookup(ctx, nationalID)
}

func (c *Controller) createCredential(ctx context.Context, beneficiaryID, nationalID, pin string) (credential.Credential, error) {
	defer c.observe("credential.create", time.Now())
	return c.credentials.Create(ctx, beneficiaryID, nationalID, pin)
}

func (c *Controller) verifyCredential(ctx context.Context, nationalID, pin string) (credential.Credential, error) {
	defer c.observe("credential.verify", time.Now())
	return c.credentials.Verify(ctx, nationalID, pin)
}

func (c *Controller) sendCode(ctx context.Context, b beneficiary.Beneficiary) error {
	defer c.observe("otp.generate", time.Now())
	destination := b.WhatsAppNumber
	if destination == "" {
		destination = b.Phone
	}
	return c.otp.Generate(ctx, b.ID, otp.PurposeRegistration, destination)
}

func (c *Controller) verifyCode(ctx context.Context, beneficiaryID, code string) (bool, error) {
	defer c.observe("otp.verify", time.Now())
	return c.otp.Verify(ctx, beneficiaryID, code, otp.PurposeRegistration)
}

func (c *Controller) submitUpdate(ctx context.Context, b beneficiary.Beneficiary, field, value string) (dataupdate.Request, error) {
	defer c.observe("data_update.create", time.Now())
	return c.updates.Submit(ctx, b, field, value)
}
