package handlers

import (
	"log"

	"shop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the shopping cart.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service: service,
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/add", h.HandleAdd)
	cartRoutes.Post("/update", h.HandleUpdate)
	cartRoutes.Post("/remove", h.HandleRemove)
	cartRoutes.Post("/clear", h.HandleClear)
}

// HandleGetCart returns the cart with line subtotals and the total.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	view, err := h.service.List(userID)
	if err != nil {
		log.Printf("Error listing cart for user %s: %v", userID, err)
		return respondError(c, err)
	}
	return c.JSON(view)
}

// AddToCartRequest is the body of POST /cart/add.
type AddToCartRequest struct {
	ProductID string `json:"product_id"`
}

// HandleAdd puts one unit of a product into the cart.
func (h *CartHandler) HandleAdd(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "product_id is required",
		})
	}

	if err := h.service.Add(userID, req.ProductID); err != nil {
		log.Printf("Error adding product %s to cart for user %s: %v", req.ProductID, userID, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product added to cart",
	})
}

// UpdateCartRequest is the body of POST /cart/update.
type UpdateCartRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// HandleUpdate sets the quantity of a cart line. Zero or less removes it.
func (h *CartHandler) HandleUpdate(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var req UpdateCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.ItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "item_id is required",
		})
	}

	if err := h.service.SetQuantity(userID, req.ItemID, req.Quantity); err != nil {
		log.Printf("Error updating cart line %s for user %s: %v", req.ItemID, userID, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Cart updated",
	})
}

// RemoveFromCartRequest is the body of POST /cart/remove.
type RemoveFromCartRequest struct {
	ItemID string `json:"item_id"`
}

// HandleRemove deletes a cart line.
func (h *CartHandler) HandleRemove(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var req RemoveFromCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.ItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "item_id is required",
		})
	}

	if err := h.service.Remove(userID, req.ItemID); err != nil {
		log.Printf("Error removing cart line %s for user %s: %v", req.ItemID, userID, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product removed from cart",
	})
}

// HandleClear empties the cart.
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	if err := h.service.Clear(userID); err != nil {
		log.Printf("Error clearing cart for user %s: %v", userID, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Cart cleared",
	})
}
