package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/pricing"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testStore bundles a fresh in-memory store with the repositories built on it.
type testStore struct {
	store     *memory.Store
	txManager repository.TransactionManager
	users     repository.UserRepository
	addresses repository.AddressRepository
	products  repository.ProductRepository
	variants  repository.VariantRepository
	carts     repository.CartRepository
	cartItems repository.CartItemRepository
	orders    repository.OrderRepository
	reviews   repository.ReviewRepository
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()

	current := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := memory.New(memory.WithClock(func() time.Time {
		current = current.Add(time.Second)

		return current
	}))

	return &testStore{
		store:     store,
		txManager: memory.NewTransactionManager(store),
		users:     memory.NewUserRepository(store),
		addresses: memory.NewAddressRepository(store),
		products:  memory.NewProductRepository(store),
		variants:  memory.NewVariantRepository(store),
		carts:     memory.NewCartRepository(store),
		cartItems: memory.NewCartItemRepository(store),
		orders:    memory.NewOrderRepository(store),
		reviews:   memory.NewReviewRepository(store),
	}
}

func (ts *testStore) createUser(t *testing.T, username string) *entity.User {
	t.Helper()

	user := &entity.User{Username: username, Email: username + "@example.com", PasswordHash: "hash"}
	require.NoError(t, ts.users.Create(context.Background(), user))

	return user
}

func (ts *testStore) createProduct(t *testing.T, sku, price, discount string, stock int) *entity.Product {
	t.Helper()

	product := &entity.Product{
		Name:     "Producto " + sku,
		Price:    decimal.RequireFromString(price),
		Discount: decimal.RequireFromString(discount),
		Stock:    stock,
		SKU:      sku,
	}
	require.NoError(t, ts.products.Create(context.Background(), product))

	return product
}

func (ts *testStore) createVariant(t *testing.T, productID int64, name, value, modifier string) *entity.ProductVariant {
	t.Helper()

	variant := &entity.ProductVariant{
		ProductID:     productID,
		Name:          name,
		Value:         value,
		PriceModifier: decimal.RequireFromString(modifier),
	}
	require.NoError(t, ts.variants.Create(context.Background(), variant))

	return variant
}

func (ts *testStore) createAddress(t *testing.T, userID int64) *entity.Address {
	t.Helper()

	address := &entity.Address{UserID: userID, Street: "Calle Mayor 1", City: "Madrid", State: "MD", PostalCode: "28013", Country: "ES"}
	require.NoError(t, ts.addresses.Create(context.Background(), address))

	return address
}

func (ts *testStore) addItem(t *testing.T, cartID, productID int64, variantID *int64, quantity int) *entity.CartItem {
	t.Helper()

	item, err := ts.cartItems.Add(context.Background(), &entity.CartItem{
		CartID:    cartID,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
	})
	require.NoError(t, err)

	return item
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func testFormatter() *pricing.Formatter {
	return pricing.NewFormatter("$", 2)
}
