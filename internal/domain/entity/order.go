package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pendiente"
	OrderStatusShipped   OrderStatus = "enviado"
	OrderStatusDelivered OrderStatus = "entregado"
	OrderStatusCancelled OrderStatus = "cancelado"
)

// IsValid checks if the status is one of the known values.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

const (
	PaymentMethodCreditCard     = "credit_card"
	PaymentMethodBankTransfer   = "bank_transfer"
	PaymentMethodPayPal         = "paypal"
	PaymentMethodCashOnDelivery = "cash_on_delivery"

	ShippingMethodStandard = "standard"
	ShippingMethodExpress  = "express"
	ShippingMethodPickup   = "pickup"
)

// Order is an immutable snapshot of a completed checkout.
// Total is frozen at creation.
type Order struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"userId"`
	AddressID      int64           `json:"addressId"`
	Total          decimal.Decimal `json:"total"`
	Status         OrderStatus     `json:"status"`
	PaymentMethod  string          `json:"paymentMethod"`
	ShippingMethod string          `json:"shippingMethod"`
	TrackingNumber *string         `json:"trackingNumber,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// OrderItem records a purchased line with the unit price frozen at checkout.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"orderId"`
	ProductID int64           `json:"productId"`
	VariantID *int64          `json:"variantId,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// LineTotal is the frozen unit price times quantity.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderItemView is an order row joined with its current product and variant at read time.
// The price shown is always the frozen one.
type OrderItemView struct {
	OrderItem
	Product   *Product        `json:"product,omitempty"`
	Variant   *ProductVariant `json:"variant,omitempty"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// OrderDetail is an order with its item views.
type OrderDetail struct {
	Order *Order          `json:"order"`
	Items []OrderItemView `json:"items"`
}
