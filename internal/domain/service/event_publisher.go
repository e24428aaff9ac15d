package service

import (
	"context"
	"strconv"
)

// Order event types.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEvent describes an order lifecycle change for downstream consumers
// (fulfilment, email, analytics).
type OrderEvent struct {
	RequestID  string `json:"request_id,omitempty"` // For distributed tracing
	EventID    string `json:"event_id"`
	Type       string `json:"type"`
	OrderID    int64  `json:"order_id"`
	UserID     int64  `json:"user_id"`
	Status     string `json:"status"`
	Total      string `json:"total"`
	ItemCount  int    `json:"item_count"`
	OccurredAt string `json:"occurred_at"`
}

// Attributes returns the message attributes used for filtering and tracing.
func (e *OrderEvent) Attributes() map[string]string {
	attributes := map[string]string{
		"event_type": e.Type,
		"order_id":   strconv.FormatInt(e.OrderID, 10),
	}
	if e.RequestID != "" {
		attributes["request_id"] = e.RequestID
	}

	return attributes
}

// OrderingKey groups all events of one order so consumers see status changes in sequence.
func (e *OrderEvent) OrderingKey() string {
	return "order-" + strconv.FormatInt(e.OrderID, 10)
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishOrderEvent publishes an order event for async processing
	PublishOrderEvent(ctx context.Context, event *OrderEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
