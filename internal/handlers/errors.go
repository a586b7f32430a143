package handlers

import (
	"errors"
	"log"

	"shop/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// respondError maps the error taxonomy to HTTP responses. Stock and
// validation failures are the user's to fix and carry enough detail to
// retry; sequence and persistence failures are logged in full and surfaced
// as a generic message.
func respondError(c *fiber.Ctx, err error) error {
	var stockErr *apperr.StockError
	var valErr *apperr.ValidationError

	switch {
	case errors.As(err, &stockErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message":    stockErr.Error(),
			"kind":       string(stockErr.Kind),
			"product_id": stockErr.ProductID,
			"available":  stockErr.Available,
		})
	case errors.As(err, &valErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  valErr.Fields,
		})
	case errors.Is(err, apperr.ErrEmptyCart):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Your cart is empty",
		})
	case errors.Is(err, apperr.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, apperr.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Resource not found",
		})
	case errors.Is(err, apperr.ErrSequenceExhausted):
		log.Printf("order sequence failure: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Order could not be created, please contact the operator",
		})
	default:
		log.Printf("unexpected error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong, please try again later",
		})
	}
}

// currentUserID pulls the authenticated user id set by the JWT middleware.
func currentUserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals("user_id").(string)
	return userID, ok && userID != ""
}
