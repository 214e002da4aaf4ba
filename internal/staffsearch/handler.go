package staffsearch

import (
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the staff lookup over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Search answers GET /staff/beneficiaries/:nationalId.
func (h *Handler) Search(c *fiber.Ctx) error {
	nationalID := c.Params("nationalId")
	if decoded, err := url.PathUnescape(nationalID); err == nil {
		nationalID = decoded
	}
	res := h.svc.Search(c.UserContext(), nationalID)
	return c.Status(statusFor(res.Outcome)).JSON(res)
}

func statusFor(o Outcome) int {
	switch o {
	case OutcomeFound:
		return http.StatusOK
	case OutcomeNotFound:
		return http.StatusNotFound
	case OutcomeInvalid:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
