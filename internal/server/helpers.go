package server

import (
	"errors"
	"strconv"

	"tribune/internal/models"

	"github.com/gofiber/fiber/v2"
)

// respondError maps an application error to its HTTP status and writes the
// standardized error body.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeNotFound:
			status = fiber.StatusNotFound
		case models.CodeValidation:
			status = fiber.StatusBadRequest
		case models.CodeUnauthorized:
			status = fiber.StatusUnauthorized
		case models.CodeConflict:
			status = fiber.StatusConflict
		}
	}

	return models.RespondWithError(c, status, err)
}

// parseID extracts a positive integer route parameter.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("Invalid " + param)
	}
	return uint(id), nil
}

// viewerID returns the authenticated user's ID from locals, or zero for an
// anonymous request.
func viewerID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}
