package memory

import (
	"cmp"
	"context"
	"slices"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
)

type orderRepository struct {
	acc access
}

// NewOrderRepository is the constructor for the order repository.
func NewOrderRepository(store *Store) repository.OrderRepository {
	return &orderRepository{access{store: store}}
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*entity.Order, error) {
	defer r.acc.rlock()()

	return rowByID(r.acc.db().orders, id), nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]*entity.Order, error) {
	defer r.acc.rlock()()

	orders := sortedByID(r.acc.db().orders, func(o *entity.Order) bool {
		return o.UserID == userID
	})
	slices.SortStableFunc(orders, func(a, b *entity.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}

		return cmp.Compare(b.ID, a.ID)
	})

	return orders, nil
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	defer r.acc.lock()()

	now := r.acc.store.now()
	order.ID = r.acc.store.nextID(TableOrders)
	if order.Status == "" {
		order.Status = entity.OrderStatusPending
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	r.acc.db().orders[order.ID] = *order

	return nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus, trackingNumber *string) (*entity.Order, error) {
	defer r.acc.lock()()

	order, ok := r.acc.db().orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}

	order.Status = status
	if trackingNumber != nil {
		order.TrackingNumber = trackingNumber
	}
	order.UpdatedAt = r.acc.store.now()
	r.acc.db().orders[id] = order

	return &order, nil
}

func (r *orderRepository) AddItem(ctx context.Context, item *entity.OrderItem) error {
	defer r.acc.lock()()

	item.ID = r.acc.store.nextID(TableOrderItems)
	r.acc.db().orderItems[item.ID] = *item

	return nil
}

func (r *orderRepository) ListItems(ctx context.Context, orderID int64) ([]*entity.OrderItem, error) {
	defer r.acc.rlock()()

	return r.itemsOf(orderID), nil
}

func (r *orderRepository) ListItemViews(ctx context.Context, orderID int64) ([]entity.OrderItemView, error) {
	defer r.acc.rlock()()

	items := r.itemsOf(orderID)
	views := make([]entity.OrderItemView, 0, len(items))
	for _, item := range items {
		view := entity.OrderItemView{OrderItem: *item, LineTotal: item.LineTotal()}
		view.Product, view.Variant = joinProduct(r.acc.db(), item.ProductID, item.VariantID)
		views = append(views, view)
	}

	return views, nil
}

func (r *orderRepository) itemsOf(orderID int64) []*entity.OrderItem {
	return sortedByID(r.acc.db().orderItems, func(i *entity.OrderItem) bool {
		return i.OrderID == orderID
	})
}
