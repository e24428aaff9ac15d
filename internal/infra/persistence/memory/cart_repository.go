package memory

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
)

type cartRepository struct {
	acc access
}

// NewCartRepository is the constructor for the cart repository.
func NewCartRepository(store *Store) repository.CartRepository {
	return &cartRepository{access{store: store}}
}

func (r *cartRepository) FindByID(ctx context.Context, id int64) (*entity.Cart, error) {
	defer r.acc.rlock()()

	return rowByID(r.acc.db().carts, id), nil
}

// FindByUserID returns the oldest cart of the user.
func (r *cartRepository) FindByUserID(ctx context.Context, userID int64) (*entity.Cart, error) {
	defer r.acc.rlock()()

	carts := sortedByID(r.acc.db().carts, func(c *entity.Cart) bool {
		return c.UserID != nil && *c.UserID == userID
	})
	if len(carts) == 0 {
		return nil, nil
	}

	return carts[0], nil
}

// FindBySessionID returns the oldest cart created for the session.
func (r *cartRepository) FindBySessionID(ctx context.Context, sessionID string) (*entity.Cart, error) {
	defer r.acc.rlock()()

	carts := sortedByID(r.acc.db().carts, func(c *entity.Cart) bool {
		return c.SessionID == sessionID
	})
	if len(carts) == 0 {
		return nil, nil
	}

	return carts[0], nil
}

func (r *cartRepository) Create(ctx context.Context, cart *entity.Cart) error {
	defer r.acc.lock()()

	now := r.acc.store.now()
	cart.ID = r.acc.store.nextID(TableCarts)
	cart.CreatedAt = now
	cart.UpdatedAt = now
	r.acc.db().carts[cart.ID] = *cart

	return nil
}

func (r *cartRepository) AssignUser(ctx context.Context, id, userID int64) (*entity.Cart, error) {
	defer r.acc.lock()()

	cart, ok := r.acc.db().carts[id]
	if !ok {
		return nil, repository.ErrCartNotFound
	}

	cart.UserID = &userID
	cart.UpdatedAt = r.acc.store.now()
	r.acc.db().carts[id] = cart

	return &cart, nil
}

type cartItemRepository struct {
	acc access
}

// NewCartItemRepository is the constructor for the cart item repository.
func NewCartItemRepository(store *Store) repository.CartItemRepository {
	return &cartItemRepository{access{store: store}}
}

func (r *cartItemRepository) FindByID(ctx context.Context, id int64) (*entity.CartItem, error) {
	defer r.acc.rlock()()

	return rowByID(r.acc.db().cartItems, id), nil
}

func (r *cartItemRepository) ListByCart(ctx context.Context, cartID int64) ([]*entity.CartItem, error) {
	defer r.acc.rlock()()

	return r.itemsOf(cartID), nil
}

func (r *cartItemRepository) ListViews(ctx context.Context, cartID int64) ([]entity.CartItemView, error) {
	defer r.acc.rlock()()

	items := r.itemsOf(cartID)
	views := make([]entity.CartItemView, 0, len(items))
	for _, item := range items {
		view := entity.CartItemView{CartItem: *item}
		view.Product, view.Variant = joinProduct(r.acc.db(), item.ProductID, item.VariantID)
		views = append(views, view)
	}

	return views, nil
}

func (r *cartItemRepository) Add(ctx context.Context, item *entity.CartItem) (*entity.CartItem, error) {
	defer r.acc.lock()()

	if item.Quantity < 1 {
		return nil, repository.ErrInvalidQuantity
	}

	for _, existing := range r.itemsOf(item.CartID) {
		if existing.SameSelection(item.ProductID, item.VariantID) {
			existing.Quantity += item.Quantity
			r.acc.db().cartItems[existing.ID] = *existing
			r.touchCart(item.CartID)

			return existing, nil
		}
	}

	item.ID = r.acc.store.nextID(TableCartItems)
	r.acc.db().cartItems[item.ID] = *item
	r.touchCart(item.CartID)

	return item, nil
}

func (r *cartItemRepository) UpdateQuantity(ctx context.Context, id int64, quantity int) (*entity.CartItem, error) {
	defer r.acc.lock()()

	item, ok := r.acc.db().cartItems[id]
	if !ok {
		return nil, repository.ErrCartItemNotFound
	}
	if quantity < 1 {
		return nil, repository.ErrInvalidQuantity
	}

	item.Quantity = quantity
	r.acc.db().cartItems[id] = item
	r.touchCart(item.CartID)

	return &item, nil
}

func (r *cartItemRepository) Remove(ctx context.Context, id int64) error {
	defer r.acc.lock()()

	item, ok := r.acc.db().cartItems[id]
	if !ok {
		return repository.ErrCartItemNotFound
	}

	delete(r.acc.db().cartItems, id)
	r.touchCart(item.CartID)

	return nil
}

func (r *cartItemRepository) Clear(ctx context.Context, cartID int64) error {
	defer r.acc.lock()()

	for id, item := range r.acc.db().cartItems {
		if item.CartID == cartID {
			delete(r.acc.db().cartItems, id)
		}
	}
	r.touchCart(cartID)

	return nil
}

func (r *cartItemRepository) itemsOf(cartID int64) []*entity.CartItem {
	return sortedByID(r.acc.db().cartItems, func(i *entity.CartItem) bool {
		return i.CartID == cartID
	})
}

func (r *cartItemRepository) touchCart(cartID int64) {
	cart, ok := r.acc.db().carts[cartID]
	if !ok {
		return
	}
	cart.UpdatedAt = r.acc.store.now()
	r.acc.db().carts[cartID] = cart
}

// joinProduct resolves a product and optional variant reference. Either may be nil when
// the referenced row is gone.
func joinProduct(db *tables, productID int64, variantID *int64) (*entity.Product, *entity.ProductVariant) {
	var product *entity.Product
	if p, ok := db.products[productID]; ok {
		product = &p
	}

	var variant *entity.ProductVariant
	if variantID != nil {
		if v, ok := db.variants[*variantID]; ok {
			variant = &v
		}
	}

	return product, variant
}
