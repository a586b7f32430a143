package services

import (
	"errors"

	"shop/internal/apperr"
	"shop/internal/models"
	"shop/internal/repositories"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartLineView is a cart line prepared for display: the product's current
// unit price and the derived line subtotal.
type CartLineView struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Available   int             `json:"available"`
}

// CartView is the full cart snapshot with its total.
type CartView struct {
	Items []CartLineView  `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// CartService owns the cart mutation protocol. Every unit added to a cart
// is immediately reserved against the product's stock and every unit
// removed is credited back, so a cart line and its reservation always
// commit together.
type CartService struct {
	db     *gorm.DB
	carts  repositories.CartRepository
	ledger repositories.InventoryLedger
}

// NewCartService creates a new CartService.
func NewCartService(db *gorm.DB, carts repositories.CartRepository, ledger repositories.InventoryLedger) *CartService {
	return &CartService{
		db:     db,
		carts:  carts,
		ledger: ledger,
	}
}

// Add puts one unit of a product into the user's cart. The first add
// creates the line; later adds increment it. When nothing is available the
// first add fails with OutOfStock and an increment fails with
// StockLimitExceeded, in both cases without mutating anything.
func (s *CartService) Add(userID, productID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		product, err := s.ledger.LockProduct(tx, productID)
		if err != nil {
			return err
		}
		if !product.IsActive {
			return apperr.ErrNotFound
		}

		item, err := s.carts.GetByUserAndProduct(tx, userID, productID)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			if product.Available() < 1 {
				return &apperr.StockError{
					Kind:        apperr.OutOfStock,
					ProductID:   product.ID,
					ProductName: product.Name,
					Available:   product.Available(),
				}
			}
			if err := s.ledger.Reserve(tx, productID, 1); err != nil {
				return err
			}
			return s.carts.Create(tx, &models.CartItem{
				UserID:    userID,
				ProductID: productID,
				Quantity:  1,
			})
		case err != nil:
			return err
		default:
			if err := s.ledger.Reserve(tx, productID, 1); err != nil {
				return err
			}
			return s.carts.UpdateQuantity(tx, item.ID, item.Quantity+1)
		}
	})
}

// SetQuantity replaces a cart line's quantity. A target of zero or less
// credits the whole line back and deletes it. Otherwise only the difference
// between the new and old quantity has to be affordable: growing reserves
// the extra units, shrinking credits the surplus back.
func (s *CartService) SetQuantity(userID, itemID string, quantity int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		item, err := s.carts.GetByID(tx, itemID, userID)
		if err != nil {
			return err
		}

		if quantity <= 0 {
			if err := s.ledger.Reserve(tx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
			return s.carts.Delete(tx, item.ID)
		}

		delta := quantity - item.Quantity
		if delta != 0 {
			if err := s.ledger.Reserve(tx, item.ProductID, delta); err != nil {
				return err
			}
		}
		return s.carts.UpdateQuantity(tx, item.ID, quantity)
	})
}

// Remove deletes a cart line and credits its full quantity back to stock.
func (s *CartService) Remove(userID, itemID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		item, err := s.carts.GetByID(tx, itemID, userID)
		if err != nil {
			return err
		}
		if err := s.ledger.Reserve(tx, item.ProductID, -item.Quantity); err != nil {
			return err
		}
		return s.carts.Delete(tx, item.ID)
	})
}

// Clear empties the user's cart, crediting every line back to stock.
// All lines go or none do.
func (s *CartService) Clear(userID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		items, err := s.carts.ListByUser(tx, userID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := s.ledger.Reserve(tx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
		}
		return s.carts.DeleteByUser(tx, userID)
	})
}

// List returns the user's cart in insertion order with line subtotals and
// the cart total, priced at the products' current final prices.
func (s *CartService) List(userID string) (*CartView, error) {
	items, err := s.carts.ListByUser(s.db, userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{
		Items: make([]CartLineView, 0, len(items)),
		Total: decimal.Zero,
	}
	for i := range items {
		product := &items[i].Product
		unit := product.FinalPrice()
		subtotal := unit.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
		view.Items = append(view.Items, CartLineView{
			ID:          items[i].ID,
			ProductID:   items[i].ProductID,
			ProductName: product.Name,
			Quantity:    items[i].Quantity,
			UnitPrice:   unit,
			Subtotal:    subtotal,
			Available:   product.Available(),
		})
		view.Total = view.Total.Add(subtotal)
	}
	return view, nil
}
