package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aid-portal/beneficiary_portal/internal/portal"
)

// RegisterPortalRoutes wires the beneficiary self-service flow. Every route but session creation
// requires the session bearer token.
func RegisterPortalRoutes(api fiber.Router, h *portal.Handler, sessionAuth, loginLimiter fiber.Handler) {
	p := api.Group("/portal")
	p.Post("/sessions", h.Start)

	s := p.Group("", sessionAuth)
	s.Get("/session", h.Session)
	s.Post("/search", h.Search)
	s.Post("/pin", h.CreatePIN)
	s.Post("/login", loginLimiter, h.Login)
	s.Post("/otp/verify", h.VerifyOTP)
	s.Post("/otp/resend", h.ResendOTP)
	s.Post("/register/complete", h.CompleteRegistration)
	s.Post("/register/cancel", h.CancelRegistration)
	s.Post("/exit", h.Exit)
	s.Get("/support", h.Support)

	d := s.Group("/dashboard")
	d.Get("", h.Status)
	d.Get("/packages", h.Packages)
	d.Get("/profile", h.Profile)
	d.Post("/profile/requests", h.SubmitUpdate)
	d.Post("/profile/refresh", h.RefreshProfile)
	d.Get("/activity", h.Activity)
	d.Post("/location", h.ShareLocation)
}
