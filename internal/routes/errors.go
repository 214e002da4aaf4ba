package routes

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders fiber errors as {"error": message}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := http.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	msg := err.Error()
	if code == http.StatusInternalServerError && fe == nil {
		msg = http.StatusText(code)
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
