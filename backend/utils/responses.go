package utils

import (
	"github.com/gofiber/fiber/v2"

	"cloudmentor/backend/apperr"
)

// ErrorJSON writes the standard {"error": ...} body with the status
// implied by the error kind: not-found 404, validation 400, conflict
// 409, transport 502, anything else 500.
func ErrorJSON(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case apperr.IsNotFound(err):
		status = fiber.StatusNotFound
	case apperr.IsValidation(err):
		status = fiber.StatusBadRequest
	case apperr.IsConflict(err):
		status = fiber.StatusConflict
	case apperr.IsTransport(err):
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
