package portal

import (
	"fmt"

	"github.com/aid-portal/beneficiary_portal/internal/beneficiary"
	"github.com/aid-portal/beneficiary_portal/internal/packages"
)

// Step names a position in the self-service flow.
type Step string

const (
	StepSearch    Step = "search"
	StepRegister  Step = "register"
	StepCreatePIN Step = "create_pin"
	StepLogin     Step = "login"
	StepVerifyOTP Step = "verify_otp"
	StepDashboard Step = "dashboard"
)

// State is one of the step variants below. Each variant carries only the data meaningful in
// that step.
type State interface {
	Step() Step
}

// Searching waits for an identity number.
type Searching struct{}

// Registering waits for the external registration process to create the beneficiary.
type Registering struct {
	NationalID string
}

// CreatingPIN holds a beneficiary that has no credential yet.
type CreatingPIN struct {
	Beneficiary beneficiary.Beneficiary
}

// LoggingIn holds a beneficiary with an existing credential.
type LoggingIn struct {
	Beneficiary  beneficiary.Beneficiary
	CredentialID string
}

// VerifyingOTP holds a beneficiary whose credential was just created and who must confirm a
// one-time code.
type VerifyingOTP struct {
	Beneficiary  beneficiary.Beneficiary
	CredentialID string
}

// Dashboard holds an authenticated beneficiary and the package list loaded on entry.
// CredentialID is empty when the dashboard was reached through registration.
type Dashboard struct {
	Beneficiary  beneficiary.Beneficiary
	CredentialID string
	Packages     []packages.Package
}

func (Searching) Step() Step    { return StepSearch }
func (Registering) Step() Step  { return StepRegister }
func (CreatingPIN) Step() Step  { return StepCreatePIN }
func (LoggingIn) Step() Step    { return StepLogin }
func (VerifyingOTP) Step() Step { return StepVerifyOTP }
func (Dashboard) Step() Step    { return StepDashboard }

// beneficiaryOf returns the resolved beneficiary of states that carry one.
func beneficiaryOf(s State) (beneficiary.Beneficiary, bool) {
	switch st := s.(type) {
	case CreatingPIN:
		return st.Beneficiary, true
	case LoggingIn:
		return st.Beneficiary, true
	case VerifyingOTP:
		return st.Beneficiary, true
	case Dashboard:
		return st.Beneficiary, true
	default:
		return beneficiary.Beneficiary{}, false
	}
}

type stateRecord struct {
	Step         Step                     `json:"step"`
	NationalID   string                   `json:"national_id,omitempty"`
	Beneficiary  *beneficiary.Beneficiary `json:"beneficiary,omitempty"`
	CredentialID string                   `json:"credential_id,omitempty"`
	Packages     []packages.Package       `json:"packages,omitempty"`
}

func encodeState(s State) stateRecord {
	rec := stateRecord{Step: s.Step()}
	switch st := s.(type) {
	case Registering:
		rec.NationalID = st.NationalID
	case LoggingIn:
		rec.CredentialID = st.CredentialID
	case VerifyingOTP:
		rec.CredentialID = st.CredentialID
	case Dashboard:
		rec.CredentialID = st.CredentialID
		rec.Packages = st.Packages
	}
	if b, ok := beneficiaryOf(s); ok {
		rec.Beneficiary = &b
	}
	return rec
}

func decodeState(rec stateRecord) (State, error) {
	needBeneficiary := func() (beneficiary.Beneficiary, error) {
		if rec.Beneficiary == nil {
			return beneficiary.Beneficiary{}, fmt.Errorf("step %s requires a beneficiary", rec.Step)
		}
		return *rec.Beneficiary, nil
	}

	switch rec.Step {
	case StepSearch:
		return Searching{}, nil
	case StepRegister:
		return Registering{NationalID: rec.NationalID}, nil
	case StepCreatePIN:
		b, err := needBeneficiary()
		if err != nil {
			return nil, err
		}
		return CreatingPIN{Beneficiary: b}, nil
	case StepLogin:
		b, err := needBeneficiary()
		if err != nil {
			return nil, err
		}
		return LoggingIn{Beneficiary: b, CredentialID: rec.CredentialID}, nil
	case StepVerifyOTP:
		b, err := needBeneficiary()
		if err != nil {
			return nil, err
		}
		return VerifyingOTP{Beneficiary: b, CredentialID: rec.CredentialID}, nil
	case StepDashboard:
		b, err := needBeneficiary()
		if err != nil {
			return nil, err
		}
		pkgs := rec.Packages
		if pkgs == nil {
			pkgs = []packages.Package{}
		}
		return Dashboard{Beneficiary: b, CredentialID: rec.CredentialID, Packages: pkgs}, nil
	default:
		return nil, fmt.Errorf("unknown step %q", rec.Step)
	}
}
