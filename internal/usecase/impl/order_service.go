package impl

import (
	"context"
	"log/slog"
	"slices"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/pricing"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

var (
	paymentMethods  = []string{entity.PaymentMethodCreditCard, entity.PaymentMethodBankTransfer, entity.PaymentMethodPayPal, entity.PaymentMethodCashOnDelivery}
	shippingMethods = []string{entity.ShippingMethodStandard, entity.ShippingMethodExpress, entity.ShippingMethodPickup}
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager      repository.TransactionManager
	orderRepo      repository.OrderRepository
	rules          pricing.Rules
	eventPublisher service.EventPublisher
	qrCodeService  service.QRCodeService
	logger         *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	OrderRepo      repository.OrderRepository
	Rules          pricing.Rules
	EventPublisher service.EventPublisher
	QRCodeService  service.QRCodeService
	Logger         *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager:      params.TxManager,
		orderRepo:      params.OrderRepo,
		rules:          params.Rules,
		eventPublisher: params.EventPublisher,
		qrCodeService:  params.QRCodeService,
		logger:         params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Checkout prices the caller's cart and materializes it into an order in one transaction.
// The order total is the cart's grand total at this moment.
func (srv *orderService) Checkout(ctx context.Context, input *usecase.CheckoutInput) (*entity.OrderDetail, error) {
	if !slices.Contains(paymentMethods, input.PaymentMethod) {
		return nil, errors.Wrapf(domainerrors.ErrValidationFailed, "unknown payment method %q", input.PaymentMethod)
	}
	if !slices.Contains(shippingMethods, input.ShippingMethod) {
		return nil, errors.Wrapf(domainerrors.ErrValidationFailed, "unknown shipping method %q", input.ShippingMethod)
	}

	srv.log(ctx).Info("Starting checkout", slog.Int64("userID", input.UserID), slog.Int64("addressID", input.AddressID))

	var detail *entity.OrderDetail
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cart, err := ResolveCart(ctx, repoFactory.NewCartRepository(), &input.UserID, input.SessionID)
		if err != nil {
			return err
		}

		items, err := repoFactory.NewCartItemRepository().ListViews(ctx, cart.ID)
		if err != nil {
			return translate(err, "failed to list cart items")
		}
		if len(items) == 0 {
			return errors.WithStack(domainerrors.ErrEmptyCart)
		}

		address, err := repoFactory.NewAddressRepository().FindByID(ctx, input.AddressID)
		if err := exists(address, err, repository.ErrAddressNotFound); err != nil {
			return translate(err, "failed to find address")
		}
		if address.UserID != input.UserID {
			return errors.WithStack(domainerrors.ErrAddressOwnershipViolation)
		}

		summary := srv.rules.Summarize(items)
		order := &entity.Order{
			UserID:         input.UserID,
			AddressID:      address.ID,
			Total:          summary.GrandTotal,
			PaymentMethod:  input.PaymentMethod,
			ShippingMethod: input.ShippingMethod,
		}

		detail, err = MaterializeOrder(ctx, repoFactory, order, cart.ID)

		return err
	})
	if err != nil {
		srv.log(ctx).Warn("Checkout failed", slog.Int64("userID", input.UserID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to checkout")
	}

	srv.log(ctx).Info("Order created",
		slog.Int64("orderID", detail.Order.ID),
		slog.String("total", detail.Order.Total.StringFixed(2)),
		slog.Int("items", len(detail.Items)),
	)

	srv.publish(ctx, service.EventOrderCreated, detail.Order, itemCount(detail.Items))

	return detail, nil
}

// ListOrders returns the user's orders, newest first.
func (srv *orderService) ListOrders(ctx context.Context, userID int64) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.ListByUser(ctx, userID)

	return orders, translate(err, "failed to list orders")
}

// GetOrder returns an order with its items to its owner or an admin.
func (srv *orderService) GetOrder(ctx context.Context, actor usecase.Actor, orderID int64) (*entity.OrderDetail, error) {
	order, err := srv.findVisibleOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	items, err := srv.orderRepo.ListItemViews(ctx, orderID)
	if err != nil {
		return nil, translate(err, "failed to list order items")
	}

	return &entity.OrderDetail{Order: order, Items: items}, nil
}

// UpdateStatus moves an order to a new status and records the tracking number when given.
func (srv *orderService) UpdateStatus(ctx context.Context, orderID int64, input *usecase.UpdateOrderStatusInput) (*entity.Order, error) {
	if !input.Status.IsValid() {
		return nil, errors.Wrapf(domainerrors.ErrInvalidOrderStatus, "status %q", input.Status)
	}

	order, err := srv.orderRepo.UpdateStatus(ctx, orderID, input.Status, input.TrackingNumber)
	if err != nil {
		return nil, translate(err, "failed to update order status")
	}

	srv.log(ctx).Info("Order status changed", slog.Int64("orderID", orderID), slog.String("status", string(order.Status)))

	items, err := srv.orderRepo.ListItems(ctx, orderID)
	if err != nil {
		return nil, translate(err, "failed to list order items")
	}
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	srv.publish(ctx, service.EventOrderStatusChanged, order, count)

	return order, nil
}

// PickupQR renders the counter QR code for an order shipped by store pickup.
func (srv *orderService) PickupQR(ctx context.Context, actor usecase.Actor, orderID int64) ([]byte, error) {
	order, err := srv.findVisibleOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if order.ShippingMethod != entity.ShippingMethodPickup {
		return nil, errors.WithStack(domainerrors.ErrPickupQRUnavailable)
	}

	png, err := srv.qrCodeService.GeneratePickupQR(service.PickupTicket{OrderID: order.ID, UserID: order.UserID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate pickup QR")
	}

	return png, nil
}

func (srv *orderService) findVisibleOrder(ctx context.Context, actor usecase.Actor, orderID int64) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err := exists(order, err, repository.ErrOrderNotFound); err != nil {
		return nil, translate(err, "failed to get order")
	}
	if order.UserID != actor.UserID && !actor.IsAdmin {
		srv.log(ctx).Warn("Order access denied", slog.Int64("orderID", orderID), slog.Int64("userID", actor.UserID))

		return nil, errors.Wrap(domainerrors.ErrForbidden, "order belongs to another user")
	}

	return order, nil
}

// publish sends an order event. Failures are logged; the order change already happened.
func (srv *orderService) publish(ctx context.Context, eventType string, order *entity.Order, count int) {
	event := &service.OrderEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		EventID:    uuid.NewString(),
		Type:       eventType,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     string(order.Status),
		Total:      order.Total.StringFixed(2),
		ItemCount:  count,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}

	if err := srv.eventPublisher.PublishOrderEvent(ctx, event); err != nil {
		srv.log(ctx).Error("Failed to publish order event",
			slog.String("event_type", eventType),
			slog.Int64("orderID", order.ID),
			slog.Any("error", err),
		)
	}
}

func itemCount(items []entity.OrderItemView) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}

	return count
}
