package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/pricing"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"go.uber.org/fx"
)

// cartService implements the CartUsecase interface.
type cartService struct {
	txManager repository.TransactionManager
	rules     pricing.Rules
	formatter *pricing.Formatter
	logger    *slog.Logger
}

// CartServiceParams holds dependencies for CartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Rules     pricing.Rules
	Formatter *pricing.Formatter
	Logger    *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		txManager: params.TxManager,
		rules:     params.Rules,
		formatter: params.Formatter,
		logger:    params.Logger,
	}
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetCart resolves the shopper's cart and prices it.
func (srv *cartService) GetCart(ctx context.Context, identity usecase.CartIdentity) (*usecase.CartView, error) {
	return srv.mutate(ctx, identity, nil)
}

// AddItem puts a selection in the cart, merging with an existing line for the same product and variant.
func (srv *cartService) AddItem(ctx context.Context, identity usecase.CartIdentity, input *usecase.AddCartItemInput) (*usecase.CartView, error) {
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, errors.WithStack(domainerrors.ErrInvalidQuantity)
	}

	return srv.mutate(ctx, identity, func(repoFactory repository.RepositoryFactory, cart *entity.Cart) error {
		product, err := repoFactory.NewProductRepository().FindByID(ctx, input.ProductID)
		if err := exists(product, err, repository.ErrProductNotFound); err != nil {
			return translate(err, "failed to find product")
		}

		if input.VariantID != nil {
			variant, err := repoFactory.NewVariantRepository().FindByID(ctx, *input.VariantID)
			if err := exists(variant, err, repository.ErrVariantNotFound); err != nil {
				return translate(err, "failed to find variant")
			}
			if variant.ProductID != input.ProductID {
				return errors.Wrap(domainerrors.ErrInvalidVariant, "variant belongs to another product")
			}
		}

		item := &entity.CartItem{
			CartID:    cart.ID,
			ProductID: input.ProductID,
			VariantID: input.VariantID,
			Quantity:  quantity,
		}
		if _, err := repoFactory.NewCartItemRepository().Add(ctx, item); err != nil {
			return translate(err, "failed to add cart item")
		}

		srv.log(ctx).Debug("Cart item added", slog.Int64("cartID", cart.ID), slog.Int64("productID", input.ProductID))

		return nil
	})
}

// UpdateItemQuantity sets the quantity of a line in the shopper's cart.
func (srv *cartService) UpdateItemQuantity(ctx context.Context, identity usecase.CartIdentity, itemID int64, quantity int) (*usecase.CartView, error) {
	return srv.mutate(ctx, identity, func(repoFactory repository.RepositoryFactory, cart *entity.Cart) error {
		itemRepo := repoFactory.NewCartItemRepository()
		if err := srv.checkOwnership(ctx, itemRepo, cart, itemID); err != nil {
			return err
		}

		_, err := itemRepo.UpdateQuantity(ctx, itemID, quantity)

		return translate(err, "failed to update cart item")
	})
}

// RemoveItem deletes a line from the shopper's cart.
func (srv *cartService) RemoveItem(ctx context.Context, identity usecase.CartIdentity, itemID int64) (*usecase.CartView, error) {
	return srv.mutate(ctx, identity, func(repoFactory repository.RepositoryFactory, cart *entity.Cart) error {
		itemRepo := repoFactory.NewCartItemRepository()
		if err := srv.checkOwnership(ctx, itemRepo, cart, itemID); err != nil {
			return err
		}

		return translate(itemRepo.Remove(ctx, itemID), "failed to remove cart item")
	})
}

func (srv *cartService) checkOwnership(ctx context.Context, itemRepo repository.CartItemRepository, cart *entity.Cart, itemID int64) error {
	item, err := itemRepo.FindByID(ctx, itemID)
	if err := exists(item, err, repository.ErrCartItemNotFound); err != nil {
		return translate(err, "failed to find cart item")
	}
	if item.CartID != cart.ID {
		srv.log(ctx).Warn("Cart item ownership violation", slog.Int64("itemID", itemID), slog.Int64("cartID", cart.ID))

		return errors.Wrap(domainerrors.ErrForbidden, "cart item belongs to another cart")
	}

	return nil
}

// mutate resolves the cart, applies fn and reads the priced cart back, all in one transaction.
func (srv *cartService) mutate(
	ctx context.Context,
	identity usecase.CartIdentity,
	fn func(repository.RepositoryFactory, *entity.Cart) error,
) (*usecase.CartView, error) {
	var view *usecase.CartView

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cart, err := ResolveCart(ctx, repoFactory.NewCartRepository(), identity.UserID, identity.SessionID)
		if err != nil {
			return err
		}

		if fn != nil {
			if err := fn(repoFactory, cart); err != nil {
				return err
			}
			// Item mutations bump updatedAt.
			cart, err = repoFactory.NewCartRepository().FindByID(ctx, cart.ID)
			if err := exists(cart, err, repository.ErrCartNotFound); err != nil {
				return translate(err, "failed to reload cart")
			}
		}

		items, err := repoFactory.NewCartItemRepository().ListViews(ctx, cart.ID)
		if err != nil {
			return translate(err, "failed to list cart items")
		}

		summary := srv.rules.Summarize(items)
		view = &usecase.CartView{
			Cart:    cart,
			Items:   items,
			Summary: summary,
			Display: srv.formatter.Display(summary),
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}
