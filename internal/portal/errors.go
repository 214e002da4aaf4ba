package portal

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when an action does not apply to the session's current step.
var ErrInvalidTransition = errors.New("action not allowed in the current step")

// ErrorKind classifies a FlowError for transport mapping.
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindCredentials ErrorKind = "credentials"
	KindTransition  ErrorKind = "transition"
	KindConflict    ErrorKind = "conflict"
	KindNotFound    ErrorKind = "not_found"
	KindRemote      ErrorKind = "remote"
)

// FlowError is a failed user action. Message is what the visitor sees.
type FlowError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *FlowError) Unwrap() error { return e.Err }

// fail records msg on the session and returns the matching FlowError.
func fail(s *Session, kind ErrorKind, msg string, err error) error {
	s.Message = msg
	return &FlowError{Kind: kind, Message: msg, Err: err}
}

func invalidTransition(action string, from Step) error {
	return &FlowError{
		Kind:    KindTransition,
		Message: msgUnexpected,
		Err:     fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, from),
	}
}

// AsFlowError extracts the FlowError carried by err, if any.
func AsFlowError(err error) (*FlowError, bool) {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
