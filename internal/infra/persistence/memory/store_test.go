package memory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// steppingClock advances one second per call so creation order is observable.
func steppingClock() func() time.Time {
	current := fixedNow

	return func() time.Time {
		current = current.Add(time.Second)

		return current
	}
}

func newTestStore() *Store {
	return New(WithClock(steppingClock()))
}

func createProduct(t *testing.T, repo repository.ProductRepository, sku, price string) *entity.Product {
	t.Helper()
	product := &entity.Product{
		Name:  "Producto " + sku,
		Price: decimal.RequireFromString(price),
		Stock: 10,
		SKU:   sku,
	}
	require.NoError(t, repo.Create(context.Background(), product))

	return product
}

func TestStore_IDsStartAtOnePerTable(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	categories := NewCategoryRepository(store)
	first := &entity.Category{Name: "A"}
	second := &entity.Category{Name: "B"}
	require.NoError(t, categories.Create(ctx, first))
	require.NoError(t, categories.Create(ctx, second))
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	product := createProduct(t, NewProductRepository(store), "SKU-1", "10")
	assert.Equal(t, int64(1), product.ID)
}

func TestStore_InjectedIDGenerator(t *testing.T) {
	store := New(WithIDGenerator(TableOrders, NewSequence(1000)))

	order := &entity.Order{UserID: 1, AddressID: 1, Total: decimal.NewFromInt(5)}
	require.NoError(t, NewOrderRepository(store).Create(context.Background(), order))
	assert.Equal(t, int64(1001), order.ID)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
}

func TestStore_InstancesAreIsolated(t *testing.T) {
	a, b := newTestStore(), newTestStore()
	createProduct(t, NewProductRepository(a), "SKU-1", "10")

	_, total, err := NewProductRepository(b).List(context.Background(), repository.ProductFilter{}, repository.ListOptions{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestUserRepository_CaseInsensitiveUniqueKeys(t *testing.T) {
	store := newTestStore()
	repo := NewUserRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.User{Username: "Maria", Email: "Maria@Example.com", PasswordHash: "x"}))

	found, err := repo.FindByUsername(ctx, "maria")
	require.NoError(t, err)
	assert.Equal(t, "Maria", found.Username)

	found, err = repo.FindByEmail(ctx, "maria@example.COM")
	require.NoError(t, err)
	assert.Equal(t, int64(1), found.ID)

	err = repo.Create(ctx, &entity.User{Username: "MARIA", Email: "other@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateUsername)

	err = repo.Create(ctx, &entity.User{Username: "otra", Email: "maria@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	missing, err := repo.FindByID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepositories_MissingRowsReadAsAbsent(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	tests := []struct {
		name string
		find func() (any, error)
	}{
		{name: "user by id", find: func() (any, error) { return NewUserRepository(store).FindByID(ctx, 1) }},
		{name: "user by username", find: func() (any, error) { return NewUserRepository(store).FindByUsername(ctx, "nadie") }},
		{name: "user by email", find: func() (any, error) { return NewUserRepository(store).FindByEmail(ctx, "nadie@example.com") }},
		{name: "address", find: func() (any, error) { return NewAddressRepository(store).FindByID(ctx, 1) }},
		{name: "category", find: func() (any, error) { return NewCategoryRepository(store).FindByID(ctx, 1) }},
		{name: "product", find: func() (any, error) { return NewProductRepository(store).FindByID(ctx, 1) }},
		{name: "variant", find: func() (any, error) { return NewVariantRepository(store).FindByID(ctx, 1) }},
		{name: "cart", find: func() (any, error) { return NewCartRepository(store).FindByID(ctx, 1) }},
		{name: "cart by user", find: func() (any, error) { return NewCartRepository(store).FindByUserID(ctx, 1) }},
		{name: "cart by session", find: func() (any, error) { return NewCartRepository(store).FindBySessionID(ctx, "s-1") }},
		{name: "cart item", find: func() (any, error) { return NewCartItemRepository(store).FindByID(ctx, 1) }},
		{name: "order", find: func() (any, error) { return NewOrderRepository(store).FindByID(ctx, 1) }},
		{name: "review", find: func() (any, error) { return NewReviewRepository(store).FindByUserAndProduct(ctx, 1, 1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := tt.find()
			require.NoError(t, err)
			assert.Nil(t, row)
		})
	}
}

func countDefaults(t *testing.T, repo repository.AddressRepository, userID int64) int {
	t.Helper()
	addresses, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)

	n := 0
	for _, a := range addresses {
		if a.IsDefault {
			n++
		}
	}

	return n
}

func TestAddressRepository_DefaultInvariant(t *testing.T) {
	store := newTestStore()
	repo := NewAddressRepository(store)
	ctx := context.Background()

	newAddress := func(userID int64, isDefault bool) *entity.Address {
		a := &entity.Address{UserID: userID, Street: "Calle 1", City: "Lima", State: "Lima", PostalCode: "15001", Country: "PE", IsDefault: isDefault}
		require.NoError(t, repo.Create(ctx, a))

		return a
	}

	first := newAddress(1, false)
	assert.True(t, first.IsDefault, "first address becomes default")

	second := newAddress(1, true)
	third := newAddress(1, false)
	other := newAddress(2, true)
	assert.Equal(t, 1, countDefaults(t, repo, 1))

	reloaded, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)

	updated, err := repo.Update(ctx, third.ID, entity.AddressPatch{IsDefault: util.Ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)
	assert.Equal(t, 1, countDefaults(t, repo, 1))

	require.NoError(t, repo.Delete(ctx, third.ID))
	assert.Equal(t, 1, countDefaults(t, repo, 1))

	require.NoError(t, repo.Delete(ctx, first.ID))
	require.NoError(t, repo.Delete(ctx, second.ID))
	assert.Equal(t, 0, countDefaults(t, repo, 1))

	// other users are untouched
	otherReloaded, err := repo.FindByID(ctx, other.ID)
	require.NoError(t, err)
	assert.True(t, otherReloaded.IsDefault)

	_, err = repo.Update(ctx, 999, entity.AddressPatch{})
	assert.ErrorIs(t, err, repository.ErrAddressNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 999), repository.ErrAddressNotFound)
}

func TestProductRepository_ListFilters(t *testing.T) {
	store := newTestStore()
	repo := NewProductRepository(store)
	ctx := context.Background()

	for _, price := range []string{"10", "50", "99", "150"} {
		createProduct(t, repo, "SKU-"+price, price)
	}

	tests := []struct {
		name      string
		filter    repository.ProductFilter
		opts      repository.ListOptions
		wantSKUs  []string
		wantTotal int
	}{
		{
			name:      "price range ignores pagination for total",
			filter:    repository.ProductFilter{MinPrice: util.Ptr(decimal.NewFromInt(20)), MaxPrice: util.Ptr(decimal.NewFromInt(100))},
			opts:      repository.ListOptions{Limit: 1},
			wantSKUs:  []string{"SKU-50"},
			wantTotal: 2,
		},
		{
			name:      "price range full page",
			filter:    repository.ProductFilter{MinPrice: util.Ptr(decimal.NewFromInt(20)), MaxPrice: util.Ptr(decimal.NewFromInt(100))},
			wantSKUs:  []string{"SKU-50", "SKU-99"},
			wantTotal: 2,
		},
		{
			name:      "price descending",
			opts:      repository.ListOptions{Sort: repository.SortPriceDesc},
			wantSKUs:  []string{"SKU-150", "SKU-99", "SKU-50", "SKU-10"},
			wantTotal: 4,
		},
		{
			name:      "newest first",
			opts:      repository.ListOptions{Sort: repository.SortNewest, Limit: 2},
			wantSKUs:  []string{"SKU-150", "SKU-99"},
			wantTotal: 4,
		},
		{
			name:      "unknown sort keeps insertion order",
			opts:      repository.ListOptions{Sort: "rating", Offset: 1, Limit: 2},
			wantSKUs:  []string{"SKU-50", "SKU-99"},
			wantTotal: 4,
		},
		{
			name:      "offset past end",
			opts:      repository.ListOptions{Offset: 10},
			wantSKUs:  []string{},
			wantTotal: 4,
		},
		{
			name:      "search is case insensitive",
			filter:    repository.ProductFilter{Search: "PRODUCTO sku-9"},
			wantSKUs:  []string{"SKU-99"},
			wantTotal: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, total, err := repo.List(ctx, tt.filter, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)

			skus := make([]string, 0, len(products))
			for _, p := range products {
				skus = append(skus, p.SKU)
			}
			assert.Equal(t, tt.wantSKUs, skus)
		})
	}
}

func TestProductRepository_CategoryFeaturedAndDescriptionSearch(t *testing.T) {
	store := newTestStore()
	repo := NewProductRepository(store)
	ctx := context.Background()

	category := int64(7)
	require.NoError(t, repo.Create(ctx, &entity.Product{Name: "Silla", Description: util.Ptr("Soporte LUMBAR"), Price: decimal.NewFromInt(5), SKU: "A", CategoryID: &category, Featured: true}))
	require.NoError(t, repo.Create(ctx, &entity.Product{Name: "Mesa", Price: decimal.NewFromInt(5), SKU: "B"}))

	products, total, err := repo.List(ctx, repository.ProductFilter{CategoryID: &category, Featured: util.Ptr(true), Search: "lumbar"}, repository.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "A", products[0].SKU)

	_, total, err = repo.List(ctx, repository.ProductFilter{Featured: util.Ptr(false)}, repository.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestProductRepository_SKUAndStock(t *testing.T) {
	store := newTestStore()
	repo := NewProductRepository(store)
	ctx := context.Background()

	first := createProduct(t, repo, "DUP", "10")
	second := createProduct(t, repo, "OTHER", "10")

	assert.ErrorIs(t, repo.Create(ctx, &entity.Product{Name: "x", SKU: "DUP"}), repository.ErrDuplicateSKU)

	_, err := repo.Update(ctx, second.ID, entity.ProductPatch{SKU: util.Ptr("DUP")})
	assert.ErrorIs(t, err, repository.ErrDuplicateSKU)

	// keeping its own sku is fine
	_, err = repo.Update(ctx, first.ID, entity.ProductPatch{SKU: util.Ptr("DUP")})
	assert.NoError(t, err)

	product, err := repo.DecrementStock(ctx, first.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, product.Stock)

	product, err = repo.DecrementStock(ctx, first.ID, 15)
	require.NoError(t, err)
	assert.Equal(t, 0, product.Stock)

	_, err = repo.DecrementStock(ctx, 404, 1)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestVariantRepository_DuplicateNameValue(t *testing.T) {
	store := newTestStore()
	product := createProduct(t, NewProductRepository(store), "SHIRT", "20")
	repo := NewVariantRepository(store)
	ctx := context.Background()

	red := &entity.ProductVariant{ProductID: product.ID, Name: "Color", Value: "Rojo", PriceModifier: decimal.NewFromInt(2)}
	require.NoError(t, repo.Create(ctx, red))

	err := repo.Create(ctx, &entity.ProductVariant{ProductID: product.ID, Name: "Color", Value: "Rojo"})
	assert.ErrorIs(t, err, repository.ErrDuplicateVariant)

	require.NoError(t, repo.Create(ctx, &entity.ProductVariant{ProductID: product.ID + 1, Name: "Color", Value: "Rojo"}))

	variants, err := repo.ListByProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, variants, 1)
}

func TestCartItemRepository_MergesDuplicateSelection(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	product := createProduct(t, NewProductRepository(store), "P5", "10")

	cart := &entity.Cart{SessionID: "s1"}
	require.NoError(t, NewCartRepository(store).Create(ctx, cart))
	createdAt := cart.UpdatedAt

	items := NewCartItemRepository(store)
	_, err := items.Add(ctx, &entity.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	merged, err := items.Add(ctx, &entity.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, merged.Quantity)

	variantID := int64(1)
	_, err = items.Add(ctx, &entity.CartItem{CartID: cart.ID, ProductID: product.ID, VariantID: &variantID, Quantity: 1})
	require.NoError(t, err)

	rows, err := items.ListByCart(ctx, cart.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	reloaded, err := NewCartRepository(store).FindByID(ctx, cart.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.UpdatedAt.After(createdAt))

	_, err = items.Add(ctx, &entity.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 0})
	assert.ErrorIs(t, err, repository.ErrInvalidQuantity)

	_, err = items.UpdateQuantity(ctx, merged.ID, 0)
	assert.ErrorIs(t, err, repository.ErrInvalidQuantity)
	_, err = items.UpdateQuantity(ctx, 999, 0)
	assert.ErrorIs(t, err, repository.ErrCartItemNotFound)

	require.NoError(t, items.Clear(ctx, cart.ID))
	rows, err = items.ListByCart(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCartItemRepository_ListViewsJoinsProducts(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	product := createProduct(t, NewProductRepository(store), "P1", "10")
	variant := &entity.ProductVariant{ProductID: product.ID, Name: "Talla", Value: "M"}
	require.NoError(t, NewVariantRepository(store).Create(ctx, variant))

	cart := &entity.Cart{SessionID: "s1"}
	require.NoError(t, NewCartRepository(store).Create(ctx, cart))
	items := NewCartItemRepository(store)
	_, err := items.Add(ctx, &entity.CartItem{CartID: cart.ID, ProductID: product.ID, VariantID: &variant.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = items.Add(ctx, &entity.CartItem{CartID: cart.ID, ProductID: 404, Quantity: 1})
	require.NoError(t, err)

	views, err := items.ListViews(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.NotNil(t, views[0].Product)
	require.NotNil(t, views[0].Variant)
	assert.Equal(t, "M", views[0].Variant.Value)
	assert.Nil(t, views[1].Product)
}

func TestReviewRepository_OnePerUserAndProduct(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	require.NoError(t, NewUserRepository(store).Create(ctx, &entity.User{Username: "ana", Email: "ana@example.com", FullName: util.Ptr("Ana Pérez")}))

	repo := NewReviewRepository(store)
	first := &entity.Review{UserID: 1, ProductID: 1, Rating: 5, Comment: util.Ptr("Excelente")}
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, &entity.Review{UserID: 1, ProductID: 1, Rating: 1})
	assert.ErrorIs(t, err, repository.ErrDuplicateReview)

	existing, err := repo.FindByUserAndProduct(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, existing.Rating)

	views, err := repo.ListViewsByProduct(ctx, 1)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "ana", views[0].Username)
	assert.Equal(t, "Ana Pérez", *views[0].UserFullName)
}

func TestOrderRepository_ListNewestFirstAndStatus(t *testing.T) {
	store := newTestStore()
	repo := NewOrderRepository(store)
	ctx := context.Background()

	for range 3 {
		require.NoError(t, repo.Create(ctx, &entity.Order{UserID: 1, Total: decimal.NewFromInt(1)}))
	}
	require.NoError(t, repo.Create(ctx, &entity.Order{UserID: 2, Total: decimal.NewFromInt(1)}))

	orders, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{orders[0].ID, orders[1].ID, orders[2].ID})

	updated, err := repo.UpdateStatus(ctx, 1, entity.OrderStatusShipped, util.Ptr("TRK-1"))
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusShipped, updated.Status)
	assert.Equal(t, "TRK-1", *updated.TrackingNumber)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	store := newTestStore()
	tm := NewTransactionManager(store)
	ctx := context.Background()
	product := createProduct(t, NewProductRepository(store), "P1", "10")

	errBoom := errors.New("boom")
	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		if _, err := f.NewProductRepository().DecrementStock(ctx, product.ID, 4); err != nil {
			return err
		}
		if err := f.NewOrderRepository().Create(ctx, &entity.Order{UserID: 1}); err != nil {
			return err
		}

		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	reloaded, err := NewProductRepository(store).FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, reloaded.Stock)
	rolledBack, err := NewOrderRepository(store).FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, rolledBack)

	// ids are never reused after a rollback
	order := &entity.Order{UserID: 1}
	require.NoError(t, NewOrderRepository(store).Create(ctx, order))
	assert.Equal(t, int64(2), order.ID)
}

func TestTransactionManager_RollsBackOnPanic(t *testing.T) {
	store := newTestStore()
	tm := NewTransactionManager(store)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = tm.Execute(ctx, func(f repository.RepositoryFactory) error {
			_ = f.NewCategoryRepository().Create(ctx, &entity.Category{Name: "temp"})
			panic("kaboom")
		})
	})

	categories, err := NewCategoryRepository(store).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)

	// the lock was released
	require.NoError(t, NewCategoryRepository(store).Create(ctx, &entity.Category{Name: "ok"}))
}

func TestTransactionManager_CancelledContext(t *testing.T) {
	tm := NewTransactionManager(newTestStore())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := tm.Execute(ctx, func(repository.RepositoryFactory) error {
		called = true

		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (plainHasher) Check(password, hash string) bool      { return hash == "hashed:"+password }
func (plainHasher) ValidatePasswordStrength(string) error { return nil }

func TestSeed(t *testing.T) {
	store := newTestStore()
	tm := NewTransactionManager(store)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()
	cfg := &config.SeedConfig{Enabled: true, AdminUsername: "admin", AdminEmail: "admin@storefront.local", AdminPassword: "admin1234"}

	require.NoError(t, Seed(ctx, tm, plainHasher{}, cfg, logger))
	// second run is a no-op
	require.NoError(t, Seed(ctx, tm, plainHasher{}, cfg, logger))

	categories, err := NewCategoryRepository(store).List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 3)

	products, total, err := NewProductRepository(store).List(ctx, repository.ProductFilter{Featured: util.Ptr(true)}, repository.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, "LAPTOP-2023", products[0].SKU)
	assert.True(t, products[0].Discount.Equal(decimal.NewFromInt(150)))
	require.NotNil(t, products[0].CategoryID)
	assert.Equal(t, categories[0].ID, *products[0].CategoryID)

	admin, err := NewUserRepository(store).FindByUsername(ctx, "ADMIN")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.Equal(t, "hashed:admin1234", admin.PasswordHash)
}

func TestRunSeed_Disabled(t *testing.T) {
	store := newTestStore()
	err := RunSeed(SeedParams{
		Config:    &config.Config{},
		TxManager: NewTransactionManager(store),
		Hasher:    plainHasher{},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	categories, err := NewCategoryRepository(store).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, categories)
}
