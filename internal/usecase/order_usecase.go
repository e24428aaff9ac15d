package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// Actor is the authenticated caller of an operation with ownership rules.
type Actor struct {
	UserID  int64
	IsAdmin bool
}

// CheckoutInput defines the data required to turn the caller's cart into an order.
type CheckoutInput struct {
	UserID         int64
	SessionID      string
	AddressID      int64
	PaymentMethod  string
	ShippingMethod string
}

// UpdateOrderStatusInput defines an admin status change.
type UpdateOrderStatusInput struct {
	Status         entity.OrderStatus
	TrackingNumber *string
}

// OrderUsecase defines the interface for checkout and order history.
type OrderUsecase interface {
	Checkout(ctx context.Context, input *CheckoutInput) (*entity.OrderDetail, error)
	ListOrders(ctx context.Context, userID int64) ([]*entity.Order, error)
	GetOrder(ctx context.Context, actor Actor, orderID int64) (*entity.OrderDetail, error)
	UpdateStatus(ctx context.Context, orderID int64, input *UpdateOrderStatusInput) (*entity.Order, error)

	// PickupQR renders the QR code shown at the counter for pickup orders
	PickupQR(ctx context.Context, actor Actor, orderID int64) ([]byte, error)
}
