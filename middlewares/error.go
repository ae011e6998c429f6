package middlewares

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"resmall-api-server/erp"
	"resmall-api-server/scheduler"
)

// ErrorHandler centralizes error responses: every failure kind maps to
// exactly one status class.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// 1) Typed failures from the sync pipeline and the scheduler
	switch {
	case errors.Is(err, erp.ErrQuotaExceeded):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "quota exceeded"})
	case errors.Is(err, erp.ErrNoStock):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "no stock registered"})
	case errors.Is(err, erp.ErrUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "inventory service unavailable"})
	case errors.Is(err, scheduler.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "a job is already scheduled"})
	case errors.Is(err, scheduler.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "no job is scheduled"})
	}

	// 2) Fiber errors (use their status code + message)
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	// 3) Validation errors (422 + per-field info)
	if ve, ok := err.(validator.ValidationErrors); ok {
		out := make(map[string]string, len(ve))
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  out,
		})
	}

	// 4) Unknown errors (500)
	log.Printf("internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}
