package handlers

import (
	"log"

	"shop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles HTTP requests for checkout.
type CheckoutHandler struct {
	service *services.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
	}
}

// RegisterRoutes registers the checkout routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Get("/", h.HandleGetCheckout)
	checkoutRoutes.Post("/", h.HandleCheckout)
}

// HandleGetCheckout returns the cart snapshot and total for the checkout
// page, or 409 when the cart is empty.
func (h *CheckoutHandler) HandleGetCheckout(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	view, err := h.service.Preview(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// HandleCheckout runs a checkout attempt with the submitted shipping info.
func (h *CheckoutHandler) HandleCheckout(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var shipping services.ShippingInfo
	if err := c.BodyParser(&shipping); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	order, err := h.service.Checkout(userID, shipping)
	if err != nil {
		log.Printf("Checkout failed for user %s: %v", userID, err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Order created, please proceed to payment",
		"order_id": order.ID,
		"total":    order.TotalPrice,
	})
}
