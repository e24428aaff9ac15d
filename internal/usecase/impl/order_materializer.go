package impl

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/pricing"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
)

// MaterializeOrder turns the cart into an order snapshot. order.Total is stored as given.
//
// Each cart line becomes an order item whose unit price is frozen from the current product
// and variant; the product's stock drops by the line quantity, floored at zero. Lines whose
// product no longer exists are skipped. The cart is emptied but kept.
//
// The repositories must come from a single TransactionManager.Execute call so a failure
// leaves no partial order behind and concurrent checkouts are serialized.
func MaterializeOrder(ctx context.Context, repos repository.RepositoryFactory, order *entity.Order, cartID int64) (*entity.OrderDetail, error) {
	cartRepo := repos.NewCartRepository()
	cartItemRepo := repos.NewCartItemRepository()
	productRepo := repos.NewProductRepository()
	variantRepo := repos.NewVariantRepository()
	orderRepo := repos.NewOrderRepository()

	cart, err := cartRepo.FindByID(ctx, cartID)
	if err := exists(cart, err, repository.ErrCartNotFound); err != nil {
		return nil, translate(err, "failed to find cart")
	}

	items, err := cartItemRepo.ListByCart(ctx, cartID)
	if err != nil {
		return nil, translate(err, "failed to list cart items")
	}
	if len(items) == 0 {
		return nil, errors.WithStack(domainerrors.ErrEmptyCart)
	}

	if err := orderRepo.Create(ctx, order); err != nil {
		return nil, translate(err, "failed to create order")
	}

	for _, item := range items {
		product, err := productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, translate(err, "failed to find product")
		}
		if product == nil {
			continue
		}

		var variant *entity.ProductVariant
		if item.VariantID != nil {
			variant, err = variantRepo.FindByID(ctx, *item.VariantID)
			if err != nil {
				return nil, translate(err, "failed to find variant")
			}
		}

		orderItem := &entity.OrderItem{
			OrderID:   order.ID,
			ProductID: product.ID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			Price:     pricing.UnitPrice(product, variant),
		}
		if err := orderRepo.AddItem(ctx, orderItem); err != nil {
			return nil, translate(err, "failed to add order item")
		}

		if _, err := productRepo.DecrementStock(ctx, product.ID, item.Quantity); err != nil {
			return nil, translate(err, "failed to decrement stock")
		}
	}

	if err := cartItemRepo.Clear(ctx, cartID); err != nil {
		return nil, translate(err, "failed to clear cart")
	}

	views, err := orderRepo.ListItemViews(ctx, order.ID)
	if err != nil {
		return nil, translate(err, "failed to list order items")
	}

	return &entity.OrderDetail{Order: order, Items: views}, nil
}
