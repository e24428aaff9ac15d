package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
)

type productRepository struct {
	acc access
}

// NewProductRepository is the constructor for the product repository.
func NewProductRepository(store *Store) repository.ProductRepository {
	return &productRepository{access{store: store}}
}

func (r *productRepository) FindByID(ctx context.Context, id int64) (*entity.Product, error) {
	defer r.acc.rlock()()

	return rowByID(r.acc.db().products, id), nil
}

func (r *productRepository) List(ctx context.Context, filter repository.ProductFilter, opts repository.ListOptions) ([]*entity.Product, int, error) {
	defer r.acc.rlock()()

	matched := sortedByID(r.acc.db().products, func(p *entity.Product) bool {
		return matchesFilter(p, filter)
	})
	total := len(matched)

	sortProducts(matched, opts.Sort)

	return paginate(matched, opts.Offset, opts.Limit), total, nil
}

func matchesFilter(p *entity.Product, f repository.ProductFilter) bool {
	if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		inName := strings.Contains(strings.ToLower(p.Name), needle)
		inDescription := p.Description != nil && strings.Contains(strings.ToLower(*p.Description), needle)
		if !inName && !inDescription {
			return false
		}
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}

	return true
}

// sortProducts orders by raw price or creation time. Unknown keys keep insertion order.
func sortProducts(products []*entity.Product, sortBy repository.ProductSort) {
	switch sortBy {
	case repository.SortPriceAsc:
		slices.SortStableFunc(products, func(a, b *entity.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case repository.SortPriceDesc:
		slices.SortStableFunc(products, func(a, b *entity.Product) int {
			return b.Price.Cmp(a.Price)
		})
	case repository.SortNewest:
		slices.SortStableFunc(products, func(a, b *entity.Product) int {
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}

			return cmp.Compare(b.ID, a.ID)
		})
	}
}

func paginate[T any](rows []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []T{}
	}
	end := len(rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return rows[offset:end]
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	defer r.acc.lock()()

	if r.skuTaken(product.SKU, 0) {
		return repository.ErrDuplicateSKU
	}

	product.ID = r.acc.store.nextID(TableProducts)
	if product.CreatedAt.IsZero() {
		product.CreatedAt = r.acc.store.now()
	}
	r.acc.db().products[product.ID] = *product

	return nil
}

func (r *productRepository) Update(ctx context.Context, id int64, patch entity.ProductPatch) (*entity.Product, error) {
	defer r.acc.lock()()

	product, ok := r.acc.db().products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	if patch.SKU != nil && r.skuTaken(*patch.SKU, id) {
		return nil, repository.ErrDuplicateSKU
	}

	patch.Apply(&product)
	r.acc.db().products[id] = product

	return &product, nil
}

func (r *productRepository) DecrementStock(ctx context.Context, id int64, quantity int) (*entity.Product, error) {
	defer r.acc.lock()()

	product, ok := r.acc.db().products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}

	product.Stock = max(0, product.Stock-quantity)
	r.acc.db().products[id] = product

	return &product, nil
}

func (r *productRepository) skuTaken(sku string, exceptID int64) bool {
	for id, p := range r.acc.db().products {
		if id != exceptID && p.SKU == sku {
			return true
		}
	}

	return false
}

type variantRepository struct {
	acc access
}

// NewVariantRepository is the constructor for the product variant repository.
func NewVariantRepository(store *Store) repository.VariantRepository {
	return &variantRepository{access{store: store}}
}

func (r *variantRepository) FindByID(ctx context.Context, id int64) (*entity.ProductVariant, error) {
	defer r.acc.rlock()()

	return rowByID(r.acc.db().variants, id), nil
}

func (r *variantRepository) ListByProduct(ctx context.Context, productID int64) ([]*entity.ProductVariant, error) {
	defer r.acc.rlock()()

	return sortedByID(r.acc.db().variants, func(v *entity.ProductVariant) bool {
		return v.ProductID == productID
	}), nil
}

func (r *variantRepository) Create(ctx context.Context, variant *entity.ProductVariant) error {
	defer r.acc.lock()()

	for _, existing := range r.acc.db().variants {
		if existing.ProductID == variant.ProductID && existing.Name == variant.Name && existing.Value == variant.Value {
			return repository.ErrDuplicateVariant
		}
	}

	variant.ID = r.acc.store.nextID(TableVariants)
	r.acc.db().variants[variant.ID] = *variant

	return nil
}
