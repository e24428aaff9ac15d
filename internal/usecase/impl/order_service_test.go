package impl

import (
	"bytes"
	"context"
	"testing"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/pricing"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	"storefront/internal/infra/qrcode"
	mockService "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderServiceFixtures struct {
	service   usecase.OrderUsecase
	store     *testStore
	publisher *mockService.MockEventPublisher
}

func createTestOrderService(t *testing.T) *orderServiceFixtures {
	ts := newTestStore(t)
	publisher := mockService.NewMockEventPublisher(t)

	srv := NewOrderService(OrderServiceParams{
		TxManager:      ts.txManager,
		OrderRepo:      ts.orders,
		Rules:          pricing.DefaultRules(),
		EventPublisher: publisher,
		QRCodeService:  qrcode.NewQRCodeService(128, "M"),
		Logger:         newDiscardLogger(),
	})

	return &orderServiceFixtures{service: srv, store: ts, publisher: publisher}
}

// fillCart puts 2 x (100 - 10) and 1 x 75 in the user's cart: subtotal 255, taxes 15.30, free shipping.
func (fx *orderServiceFixtures) fillCart(t *testing.T, user *entity.User) {
	t.Helper()

	chair := fx.store.createProduct(t, "CHAIR", "100", "10", 10)
	lamp := fx.store.createProduct(t, "LAMP", "75", "0", 4)

	cart, err := ResolveCart(context.Background(), fx.store.carts, &user.ID, "")
	require.NoError(t, err)
	fx.store.addItem(t, cart.ID, chair.ID, nil, 2)
	fx.store.addItem(t, cart.ID, lamp.ID, nil, 1)
}

func TestOrderService_Checkout(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := deliverycontext.WithRequestID(context.Background(), "req-1")
	user := fx.store.createUser(t, "ana")
	address := fx.store.createAddress(t, user.ID)
	fx.fillCart(t, user)

	var published *service.OrderEvent
	fx.publisher.EXPECT().
		PublishOrderEvent(mock.Anything, mock.AnythingOfType("*service.OrderEvent")).
		Run(func(_ context.Context, event *service.OrderEvent) { published = event }).
		Return(nil).
		Once()

	detail, err := fx.service.Checkout(ctx, &usecase.CheckoutInput{
		UserID:         user.ID,
		AddressID:      address.ID,
		PaymentMethod:  entity.PaymentMethodCreditCard,
		ShippingMethod: entity.ShippingMethodStandard,
	})
	require.NoError(t, err)

	assertMoney(t, "270.30", detail.Order.Total)
	assert.Equal(t, entity.OrderStatusPending, detail.Order.Status)
	assert.Equal(t, address.ID, detail.Order.AddressID)
	require.Len(t, detail.Items, 2)
	assertMoney(t, "90", detail.Items[0].Price)
	assertMoney(t, "75", detail.Items[1].Price)

	require.NotNil(t, published)
	assert.Equal(t, service.EventOrderCreated, published.Type)
	assert.Equal(t, detail.Order.ID, published.OrderID)
	assert.Equal(t, "270.30", published.Total)
	assert.Equal(t, 3, published.ItemCount)
	assert.Equal(t, "req-1", published.RequestID)
	assert.NotEmpty(t, published.EventID)

	orders, err := fx.service.ListOrders(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
}

func TestOrderService_Checkout_PublishFailureDoesNotFailOrder(t *testing.T) {
	fx := createTestOrderService(t)
	user := fx.store.createUser(t, "ana")
	address := fx.store.createAddress(t, user.ID)
	fx.fillCart(t, user)

	fx.publisher.EXPECT().
		PublishOrderEvent(mock.Anything, mock.Anything).
		Return(errors.New("broker down"))

	detail, err := fx.service.Checkout(context.Background(), &usecase.CheckoutInput{
		UserID:         user.ID,
		AddressID:      address.ID,
		PaymentMethod:  entity.PaymentMethodPayPal,
		ShippingMethod: entity.ShippingMethodExpress,
	})
	require.NoError(t, err)
	assert.NotZero(t, detail.Order.ID)
}

func TestOrderService_Checkout_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   func(t *testing.T, fx *orderServiceFixtures, user *entity.User, address *entity.Address) *usecase.CheckoutInput
		fill    bool
		wantErr error
	}{
		{
			name: "unknown payment method",
			input: func(_ *testing.T, _ *orderServiceFixtures, user *entity.User, address *entity.Address) *usecase.CheckoutInput {
				return &usecase.CheckoutInput{UserID: user.ID, AddressID: address.ID, PaymentMethod: "bitcoin", ShippingMethod: entity.ShippingMethodStandard}
			},
			fill:    true,
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name: "unknown shipping method",
			input: func(_ *testing.T, _ *orderServiceFixtures, user *entity.User, address *entity.Address) *usecase.CheckoutInput {
				return &usecase.CheckoutInput{UserID: user.ID, AddressID: address.ID, PaymentMethod: entity.PaymentMethodPayPal, ShippingMethod: "drone"}
			},
			fill:    true,
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name: "empty cart",
			input: func(_ *testing.T, _ *orderServiceFixtures, user *entity.User, address *entity.Address) *usecase.CheckoutInput {
				return &usecase.CheckoutInput{UserID: user.ID, AddressID: address.ID, PaymentMethod: entity.PaymentMethodPayPal, ShippingMethod: entity.ShippingMethodStandard}
			},
			wantErr: domainerrors.ErrEmptyCart,
		},
		{
			name: "unknown address",
			input: func(_ *testing.T, _ *orderServiceFixtures, user *entity.User, _ *entity.Address) *usecase.CheckoutInput {
				return &usecase.CheckoutInput{UserID: user.ID, AddressID: 404, PaymentMethod: entity.PaymentMethodPayPal, ShippingMethod: entity.ShippingMethodStandard}
			},
			fill:    true,
			wantErr: domainerrors.ErrAddressNotFound,
		},
		{
			name: "address of another user",
			input: func(t *testing.T, fx *orderServiceFixtures, user *entity.User, _ *entity.Address) *usecase.CheckoutInput {
				other := fx.store.createUser(t, "bob")
				foreign := fx.store.createAddress(t, other.ID)

				return &usecase.CheckoutInput{UserID: user.ID, AddressID: foreign.ID, PaymentMethod: entity.PaymentMethodPayPal, ShippingMethod: entity.ShippingMethodStandard}
			},
			fill:    true,
			wantErr: domainerrors.ErrAddressOwnershipViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := createTestOrderService(t)
			user := fx.store.createUser(t, "ana")
			address := fx.store.createAddress(t, user.ID)
			if tt.fill {
				fx.fillCart(t, user)
			}

			detail, err := fx.service.Checkout(context.Background(), tt.input(t, fx, user, address))
			assert.Nil(t, detail)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			// Nothing is persisted and stock is untouched.
			orders, err := fx.store.orders.ListByUser(context.Background(), user.ID)
			require.NoError(t, err)
			assert.Empty(t, orders)
			if tt.fill {
				chair, err := fx.store.products.FindByID(context.Background(), 1)
				require.NoError(t, err)
				assert.Equal(t, 10, chair.Stock)
			}
		})
	}
}

func TestOrderService_GetOrder_Visibility(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()
	ana := fx.store.createUser(t, "ana")
	bob := fx.store.createUser(t, "bob")
	address := fx.store.createAddress(t, ana.ID)
	fx.fillCart(t, ana)

	fx.publisher.EXPECT().PublishOrderEvent(mock.Anything, mock.Anything).Return(nil)

	created, err := fx.service.Checkout(ctx, &usecase.CheckoutInput{
		UserID: ana.ID, AddressID: address.ID,
		PaymentMethod: entity.PaymentMethodBankTransfer, ShippingMethod: entity.ShippingMethodStandard,
	})
	require.NoError(t, err)
	orderID := created.Order.ID

	tests := []struct {
		name    string
		actor   usecase.Actor
		orderID int64
		wantErr error
	}{
		{name: "owner", actor: usecase.Actor{UserID: ana.ID}, orderID: orderID},
		{name: "admin", actor: usecase.Actor{UserID: bob.ID, IsAdmin: true}, orderID: orderID},
		{name: "other user", actor: usecase.Actor{UserID: bob.ID}, orderID: orderID, wantErr: domainerrors.ErrForbidden},
		{name: "unknown order", actor: usecase.Actor{UserID: ana.ID}, orderID: 999, wantErr: domainerrors.ErrOrderNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail, err := fx.service.GetOrder(ctx, tt.actor, tt.orderID)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, detail)

				return
			}
			require.NoError(t, err)
			assert.Len(t, detail.Items, 2)
		})
	}
}

func TestOrderService_UpdateStatus(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()
	user := fx.store.createUser(t, "ana")
	address := fx.store.createAddress(t, user.ID)
	fx.fillCart(t, user)

	fx.publisher.EXPECT().
		PublishOrderEvent(mock.Anything, mock.MatchedBy(func(e *service.OrderEvent) bool { return e.Type == service.EventOrderCreated })).
		Return(nil).
		Once()
	fx.publisher.EXPECT().
		PublishOrderEvent(mock.Anything, mock.MatchedBy(func(e *service.OrderEvent) bool {
			return e.Type == service.EventOrderStatusChanged && e.Status == string(entity.OrderStatusShipped) && e.ItemCount == 3
		})).
		Return(nil).
		Once()

	created, err := fx.service.Checkout(ctx, &usecase.CheckoutInput{
		UserID: user.ID, AddressID: address.ID,
		PaymentMethod: entity.PaymentMethodCreditCard, ShippingMethod: entity.ShippingMethodStandard,
	})
	require.NoError(t, err)

	tracking := "TRK-123"
	order, err := fx.service.UpdateStatus(ctx, created.Order.ID, &usecase.UpdateOrderStatusInput{
		Status:         entity.OrderStatusShipped,
		TrackingNumber: &tracking,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusShipped, order.Status)
	require.NotNil(t, order.TrackingNumber)
	assert.Equal(t, tracking, *order.TrackingNumber)
	assertMoney(t, "270.30", order.Total)

	_, err = fx.service.UpdateStatus(ctx, created.Order.ID, &usecase.UpdateOrderStatusInput{Status: "lost"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidOrderStatus))

	_, err = fx.service.UpdateStatus(ctx, 999, &usecase.UpdateOrderStatusInput{Status: entity.OrderStatusDelivered})
	assert.True(t, errors.Is(err, domainerrors.ErrOrderNotFound))
}

func TestOrderService_PickupQR(t *testing.T) {
	fx := createTestOrderService(t)
	ctx := context.Background()
	user := fx.store.createUser(t, "ana")
	address := fx.store.createAddress(t, user.ID)

	fx.publisher.EXPECT().PublishOrderEvent(mock.Anything, mock.Anything).Return(nil)

	checkout := func(shipping string) int64 {
		fx.fillCartWithSKU(t, user, shipping)
		detail, err := fx.service.Checkout(ctx, &usecase.CheckoutInput{
			UserID: user.ID, AddressID: address.ID,
			PaymentMethod: entity.PaymentMethodCashOnDelivery, ShippingMethod: shipping,
		})
		require.NoError(t, err)

		return detail.Order.ID
	}

	pickupID := checkout(entity.ShippingMethodPickup)
	standardID := checkout(entity.ShippingMethodStandard)

	png, err := fx.service.PickupQR(ctx, usecase.Actor{UserID: user.ID}, pickupID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	_, err = fx.service.PickupQR(ctx, usecase.Actor{UserID: user.ID}, standardID)
	assert.True(t, errors.Is(err, domainerrors.ErrPickupQRUnavailable))

	_, err = fx.service.PickupQR(ctx, usecase.Actor{UserID: user.ID + 1}, pickupID)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))
}

func (fx *orderServiceFixtures) fillCartWithSKU(t *testing.T, user *entity.User, sku string) {
	t.Helper()

	product := fx.store.createProduct(t, sku, "30", "0", 5)
	cart, err := ResolveCart(context.Background(), fx.store.carts, &user.ID, "")
	require.NoError(t, err)
	fx.store.addItem(t, cart.ID, product.ID, nil, 1)
}
