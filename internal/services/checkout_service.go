package services

import (
	"fmt"
	"log"

	"shop/internal/apperr"
	"shop/internal/models"
	"shop/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ShippingInfo is the recipient data collected at checkout.
type ShippingInfo struct {
	FullName string `json:"full_name" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"required,numeric,min=5,max=20"`
	Address  string `json:"address" validate:"required,max=1000"`
}

// CheckoutService converts a mutable cart into an immutable order. The
// whole conversion runs in one transaction under row locks on every product
// in the cart: re-validate stock, snapshot prices into an order, convert
// the cart's reservations into permanent stock decrements, empty the cart.
// Any failure rolls the entire attempt back.
type CheckoutService struct {
	db       *gorm.DB
	carts    repositories.CartRepository
	ledger   repositories.InventoryLedger
	orders   repositories.OrderRepository
	events   EventPublisher
	validate *validator.Validate
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(db *gorm.DB, carts repositories.CartRepository, ledger repositories.InventoryLedger,
	orders repositories.OrderRepository, events EventPublisher) *CheckoutService {
	return &CheckoutService{
		db:       db,
		carts:    carts,
		ledger:   ledger,
		orders:   orders,
		events:   events,
		validate: validator.New(),
	}
}

// Preview returns the cart snapshot and total shown on the checkout page,
// or ErrEmptyCart when there is nothing to check out.
func (s *CheckoutService) Preview(userID string) (*CartView, error) {
	cart := NewCartService(s.db, s.carts, s.ledger)
	view, err := cart.List(userID)
	if err != nil {
		return nil, err
	}
	if len(view.Items) == 0 {
		return nil, apperr.ErrEmptyCart
	}
	return view, nil
}

// Checkout runs a single checkout attempt for the user and returns the
// created order.
func (s *CheckoutService) Checkout(userID string, shipping ShippingInfo) (*models.Order, error) {
	if err := s.validateShipping(shipping); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		items, err := s.carts.ListByUser(tx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return apperr.ErrEmptyCart
		}

		productIDs := make([]string, 0, len(items))
		for _, item := range items {
			productIDs = append(productIDs, item.ProductID)
		}
		locked, err := s.ledger.LockProducts(tx, productIDs)
		if err != nil {
			return err
		}
		products := make(map[string]*models.Product, len(locked))
		for i := range locked {
			products[locked[i].ID] = &locked[i]
		}

		// Re-read the cart now that the locks are held: an edit committing
		// between the id scan and the locks would otherwise be charged at
		// its stale quantity. A line added in that window locks its product
		// here.
		items, err = s.carts.ListByUser(tx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return apperr.ErrEmptyCart
		}
		for _, item := range items {
			if _, ok := products[item.ProductID]; !ok {
				product, err := s.ledger.LockProduct(tx, item.ProductID)
				if err != nil {
					return err
				}
				products[item.ProductID] = product
			}
		}

		// Safety net against partial reservation failures elsewhere: under
		// the reservation model every cart line is already backed by
		// reserved units, so this should not trigger.
		for _, item := range items {
			product := products[item.ProductID]
			if item.Quantity > product.Stock {
				return &apperr.StockError{
					Kind:        apperr.InsufficientStock,
					ProductID:   product.ID,
					ProductName: product.Name,
					Available:   product.Available(),
				}
			}
		}

		total := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			product := products[item.ProductID]
			price := product.FinalPrice()
			total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			orderItems = append(orderItems, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Price:       price,
				Quantity:    item.Quantity,
			})
		}

		order = &models.Order{
			UserID:     userID,
			FullName:   shipping.FullName,
			Phone:      shipping.Phone,
			Address:    shipping.Address,
			TotalPrice: total,
			Status:     models.StatusPending,
			Items:      orderItems,
		}
		if err := s.orders.Create(tx, order); err != nil {
			return err
		}

		for _, item := range items {
			if err := s.ledger.CommitSale(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		return s.carts.DeleteByUser(tx, userID)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("user %s created order %s, total: %s, items: %d",
		userID, order.ID, order.TotalPrice.StringFixed(2), len(order.Items))

	if s.events != nil {
		publishErr := s.events.PublishOrderCreated(OrderCreatedEvent{
			OrderID:   order.ID,
			UserID:    order.UserID,
			Total:     order.TotalPrice,
			ItemCount: len(order.Items),
		})
		if publishErr != nil {
			log.Printf("Warning: failed to publish order created event for order %s: %v", order.ID, publishErr)
		}
	}

	return order, nil
}

// validateShipping checks the shipping input before any store access.
// The phone number must be digits only.
func (s *CheckoutService) validateShipping(shipping ShippingInfo) error {
	err := s.validate.Struct(shipping)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.Persistence("validate shipping", err)
	}
	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return &apperr.ValidationError{Fields: fields}
}
