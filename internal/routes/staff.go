package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aid-portal/beneficiary_portal/internal/staffsearch"
)

// RegisterStaffRoutes wires the staff beneficiary lookup. Access control sits in front of the service.
func RegisterStaffRoutes(api fiber.Router, h *staffsearch.Handler) {
	api.Get("/staff/beneficiaries/:nationalId", h.Search)
}
