// Package apperr defines the error taxonomy shared by the cart, checkout
// and order layers. Handlers branch on these with errors.Is / errors.As;
// services never inspect error strings.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers missing resources and resources owned by another
	// user. The two cases are deliberately indistinguishable so that a
	// lookup cannot leak whether a resource exists.
	ErrNotFound = errors.New("not found")

	// ErrEmptyCart is returned when checkout is attempted on an empty cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrSequenceExhausted signals an identifier collision while creating an
	// order. It is surfaced to the operator rather than retried silently.
	ErrSequenceExhausted = errors.New("order identifier collision")

	// ErrInvalidTransition rejects a status change the order lifecycle does
	// not permit.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAccountExists rejects a registration whose username or email is
	// already taken.
	ErrAccountExists = errors.New("account already exists")

	// ErrInvalidCredentials rejects a login attempt. An unknown username and
	// a wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// StockKind classifies stock failures.
type StockKind string

const (
	// OutOfStock: first add-to-cart of a product with nothing available.
	OutOfStock StockKind = "out_of_stock"
	// StockLimitExceeded: a cart mutation asked for more than is available.
	StockLimitExceeded StockKind = "stock_limit_exceeded"
	// InsufficientStock: the checkout re-validation found a cart line larger
	// than physical stock.
	InsufficientStock StockKind = "insufficient_stock"
)

// StockError is any stock-related refusal. Available carries the current
// available count for display to the user.
type StockError struct {
	Kind        StockKind
	ProductID   string
	ProductName string
	Available   int
}

func (e *StockError) Error() string {
	switch e.Kind {
	case OutOfStock:
		return fmt.Sprintf("product %s is out of stock", e.ProductName)
	case InsufficientStock:
		return fmt.Sprintf("insufficient stock for %s (available: %d)", e.ProductName, e.Available)
	default:
		return fmt.Sprintf("stock limit exceeded for %s (available: %d)", e.ProductName, e.Available)
	}
}

// ValidationError reports malformed user input, field by field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// PersistenceError wraps an unexpected storage failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Persistence wraps err as a PersistenceError unless it is already part of
// the taxonomy.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var stockErr *StockError
	var valErr *ValidationError
	if errors.As(err, &stockErr) || errors.As(err, &valErr) ||
		errors.Is(err, ErrNotFound) || errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrSequenceExhausted) || errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrAccountExists) || errors.Is(err, ErrInvalidCredentials) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
