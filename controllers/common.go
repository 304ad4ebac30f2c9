package controllers

import (
	"errors"
	"log"

	"assetdesk-backend/services"
	"assetdesk-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// caller builds the service-layer caller identity from the request locals
// populated by the auth middleware
func caller(c *fiber.Ctx) services.Caller {
	return services.Caller{
		UserID: utils.CallerID(c),
		Role:   utils.CallerRole(c),
	}
}

// serviceError maps a service failure onto an HTTP response. Validation
// failures carry their reason; invariant violations and storage errors are
// logged server-side and surfaced generically.
func serviceError(c *fiber.Ctx, err error) error {
	type failure struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}

	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(401).JSON(failure{Success: false, Message: "Unauthorized"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(403).JSON(failure{Success: false, Message: "Forbidden"})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(404).JSON(failure{Success: false, Message: "Not found"})
	case errors.Is(err, services.ErrInvalidStateTransition):
		return c.Status(400).JSON(failure{Success: false, Message: "Invalid state for this action"})
	case errors.Is(err, services.ErrInsufficientQuantity):
		return c.Status(400).JSON(failure{Success: false, Message: "Not enough units available"})
	case errors.Is(err, services.ErrInvalidQuantity):
		return c.Status(400).JSON(failure{Success: false, Message: "Invalid quantity"})
	case errors.Is(err, services.ErrInvariantViolation):
		log.Printf("invariant violation: %v", err)
		return c.Status(500).JSON(failure{Success: false, Message: "Server Error"})
	default:
		log.Printf("server error: %v", err)
		return c.Status(500).JSON(failure{Success: false, Message: "Server Error"})
	}
}
