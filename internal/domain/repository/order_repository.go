package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"
)

// ErrOrderNotFound is returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository stores orders and their frozen items.
type OrderRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.Order, error)

	// ListByUser retrieves the user's orders, newest first.
	ListByUser(ctx context.Context, userID int64) ([]*entity.Order, error)

	Create(ctx context.Context, order *entity.Order) error

	// UpdateStatus sets status and, when given, the tracking number, bumping UpdatedAt.
	UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus, trackingNumber *string) (*entity.Order, error)

	AddItem(ctx context.Context, item *entity.OrderItem) error
	ListItems(ctx context.Context, orderID int64) ([]*entity.OrderItem, error)

	// ListItemViews joins the order's rows with their current product and variant.
	ListItemViews(ctx context.Context, orderID int64) ([]entity.OrderItemView, error)
}
