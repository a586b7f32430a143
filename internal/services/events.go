package services

import "github.com/shopspring/decimal"

// OrderCreatedEvent is published after a checkout commits.
type OrderCreatedEvent struct {
	OrderID   string          `json:"order_id"`
	UserID    string          `json:"user_id"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// EventPublisher publishes order lifecycle events to the message broker.
// Publishing happens strictly after the transaction commits and failures
// never undo a checkout; they are logged and the broker catches up later.
type EventPublisher interface {
	PublishOrderCreated(event OrderCreatedEvent) error
}
