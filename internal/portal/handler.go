package portal

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/aid-portal/beneficiary_portal/internal/auth"
	"github.com/aid-portal/beneficiary_portal/internal/beneficiary"
	"github.com/aid-portal/beneficiary_portal/internal/features"
	"github.com/aid-portal/beneficiary_portal/internal/middleware"
)

// Handler exposes the portal flow over HTTP.
type Handler struct {
	ctrl   *Controller
	tokens *auth.Service
	logger *slog.Logger
}

func NewHandler(ctrl *Controller, tokens *auth.Service, logger *slog.Logger) *Handler {
	return &Handler{ctrl: ctrl, tokens: tokens, logger: logger}
}

// SessionView is the client's picture of a session. The beneficiary record is only exposed once the
// visitor has authenticated; earlier steps get the greeting name alone.
type SessionView struct {
	ID           string                   `json:"id"`
	Step         Step                     `json:"step"`
	Message      string                   `json:"message"`
	NationalID   string                   `json:"national_id,omitempty"`
	Flags        features.Flags           `json:"flags"`
	Greeting     *Greeting                `json:"greeting,omitempty"`
	Beneficiary  *beneficiary.Beneficiary `json:"beneficiary,omitempty"`
	PackageCount *int                     `json:"package_count,omitempty"`
}

// Greeting is what an unauthenticated visitor may see of the matched beneficiary.
type Greeting struct {
	Name string `json:"name"`
}

func newSessionView(s Session) SessionView {
	v := SessionView{
		ID:         s.ID,
		Step:       s.Step(),
		Message:    s.Message,
		NationalID: s.NationalID,
		Flags:      s.Flags,
	}
	if d, ok := s.State.(Dashboard); ok {
		b := d.Beneficiary
		n := len(d.Packages)
		v.Beneficiary = &b
		v.PackageCount = &n
		return v
	}
	if b, ok := beneficiaryOf(s.State); ok {
		v.Greeting = &Greeting{Name: b.Name}
	}
	return v
}

type startResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	Session   SessionView `json:"session"`
}

type searchRequest struct {
	NationalID string `json:"national_id"`
}

type pinRequest struct {
	PIN        string `json:"pin"`
	ConfirmPIN string `json:"confirm_pin"`
}

type codeRequest struct {
	Code string `json:"code"`
}

type locationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type updateRequest struct {
	Field    string `json:"field"`
	NewValue string `json:"new_value"`
}

// Start opens a session and returns its bearer token.
func (h *Handler) Start(c *fiber.Ctx) error {
	s, err := h.ctrl.Start(c.UserContext())
	if err != nil {
		return h.internal(err)
	}
	token, exp, err := h.tokens.Issue(s.ID)
	if err != nil {
		return h.internal(err)
	}
	return c.Status(http.StatusCreated).JSON(startResponse{Token: token, ExpiresAt: exp, Session: newSessionView(s)})
}

func (h *Handler) Session(c *fiber.Ctx) error {
	s, err := h.ctrl.Session(c.UserContext(), middleware.SessionID(c))
	return h.respond(c, s, err)
}

func (h *Handler) Search(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	s, err := h.ctrl.Search(c.UserContext(), middleware.SessionID(c), req.NationalID)
	return h.respond(c, s, err)
}

func (h *Handler) CreatePIN(c *fiber.Ctx) error {
	var req pinRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	s, err := h.ctrl.CreatePIN(c.UserContext(), middleware.SessionID(c), req.PIN, req.ConfirmPIN)
	return h.respond(c, s, err)
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req pinRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	s, err := h.ctrl.Login(c.UserContext(), middleware.SessionID(c), req.PIN)
	return h.respond(c, s, err)
}

func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	var req codeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	s, err := h.ctrl.VerifyOTP(c.UserContext(), middleware.SessionID(c), req.Code)
	return h.respond(c, s, err)
}

func (h *Handler) ResendOTP(c *fiber.Ctx) error {
	s, err := h.ctrl.ResendOTP(c.UserContext(), middleware.SessionID(c))
	return h.respond(c, s, err)
}

func (h *Handler) CompleteRegistration(c *fiber.Ctx) error {
	s, err := h.ctrl.CompleteRegistration(c.UserContext(), middleware.SessionID(c))
	return h.respond(c, s, err)
}

func (h *Handler) CancelRegistration(c *fiber.Ctx) error {
	s, err := h.ctrl.CancelRegistration(c.UserContext(), middleware.SessionID(c))
	return h.respond(c, s, err)
}

func (h *Handler) Exit(c *fiber.Ctx) error {
	s, err := h.ctrl.Exit(c.UserContext(), middleware.SessionID(c))
	return h.respond(c, s, err)
}

func (h *Handler) Support(c *fiber.Ctx) error {
	v, err := h.ctrl.Support(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(v)
}

func (h *Handler) Status(c *fiber.Ctx) error {
	v, err := h.ctrl.Status(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(v)
}

func (h *Handler) Packages(c *fiber.Ctx) error {
	v, err := h.ctrl.Packages(c.UserContext(), middleware.SessionID(c), c.Query("filter"))
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(v)
}

func (h *Handler) Profile(c *fiber.Ctx) error {
	v, err := h.ctrl.Profile(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(v)
}

func (h *Handler) SubmitUpdate(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	s, created, err := h.ctrl.SubmitUpdate(c.UserContext(), middleware.SessionID(c), req.Field, req.NewValue)
	if err != nil {
		return h.respond(c, s, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"session": newSessionView(s), "request": created})
}

func (h *Handler) RefreshProfile(c *fiber.Ctx) error {
	s, err := h.ctrl.RefreshProfile(c.UserContext(), middleware.SessionID(c))
	return h.respond(c, s, err)
}

func (h *Handler) Activity(c *fiber.Ctx) error {
	entries, err := h.ctrl.Activity(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return h.fail(err)
	}
	return c.JSON(fiber.Map{"entries": entries})
}

func (h *Handler) ShareLocation(c *fiber.Ctx) error {
	var req locationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	s, err := h.ctrl.ShareLocation(c.UserContext(), middleware.SessionID(c), req.Latitude, req.Longitude)
	return h.respond(c, s, err)
}

// respond writes the session view. Flow errors keep the view in the body next to the message.
func (h *Handler) respond(c *fiber.Ctx, s Session, err error) error {
	if err == nil {
		return c.JSON(fiber.Map{"session": newSessionView(s)})
	}
	fe, ok := AsFlowError(err)
	if !ok || s.ID == "" {
		return h.fail(err)
	}
	if fe.Kind == KindRemote {
		h.logger.Warn("portal action failed", slog.String("session_id", s.ID), slog.Any("error", err))
	}
	return c.Status(StatusCode(err)).JSON(fiber.Map{"session": newSessionView(s), "error": fe.Message})
}

func (h *Handler) fail(err error) error {
	if fe, ok := AsFlowError(err); ok {
		return fiber.NewError(StatusCode(err), fe.Message)
	}
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return fiber.NewError(http.StatusUnauthorized, "session expired")
	case errors.Is(err, ErrBusy):
		return fiber.NewError(http.StatusConflict, err.Error())
	}
	return h.internal(err)
}

func (h *Handler) internal(err error) error {
	h.logger.Error("portal request failed", slog.Any("error", err))
	return fiber.NewError(http.StatusInternalServerError, msgUnexpected)
}

// StatusCode maps a controller error onto an HTTP status.
func StatusCode(err error) int {
	if fe, ok := AsFlowError(err); ok {
		switch fe.Kind {
		case KindValidation:
			return http.StatusUnprocessableEntity
		case KindCredentials:
			return http.StatusUnauthorized
		case KindTransition, KindConflict:
			return http.StatusConflict
		case KindNotFound:
			return http.StatusNotFound
		case KindRemote:
			return http.StatusBadGateway
		}
	}
	switch {
	case errors.Is(err, ErrBusy):
		return http.StatusConflict
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
