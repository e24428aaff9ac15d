package memory

import (
	"context"

	"storefront/internal/domain/repository"
	"storefront/internal/errors"
)

// transactionManager implements the domain's TransactionManager over the store lock.
type transactionManager struct {
	store *Store
}

// repositoryFactory hands out repositories that run under the lock held by Execute.
type repositoryFactory struct {
	acc access
}

func (f *repositoryFactory) NewUserRepository() repository.UserRepository {
	return &userRepository{f.acc}
}

func (f *repositoryFactory) NewAddressRepository() repository.AddressRepository {
	return &addressRepository{f.acc}
}

func (f *repositoryFactory) NewCategoryRepository() repository.CategoryRepository {
	return &categoryRepository{f.acc}
}

func (f *repositoryFactory) NewProductRepository() repository.ProductRepository {
	return &productRepository{f.acc}
}

func (f *repositoryFactory) NewVariantRepository() repository.VariantRepository {
	return &variantRepository{f.acc}
}

func (f *repositoryFactory) NewCartRepository() repository.CartRepository {
	return &cartRepository{f.acc}
}

func (f *repositoryFactory) NewCartItemRepository() repository.CartItemRepository {
	return &cartItemRepository{f.acc}
}

func (f *repositoryFactory) NewOrderRepository() repository.OrderRepository {
	return &orderRepository{f.acc}
}

func (f *repositoryFactory) NewReviewRepository() repository.ReviewRepository {
	return &reviewRepository{f.acc}
}

// NewTransactionManager is the constructor for the in-memory transaction manager.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return &transactionManager{store: store}
}

// Execute holds the store write lock for the whole callback, so every other
// read and write waits until it finishes. Tables are restored from a snapshot
// when fn fails or panics. Id counters are not rewound.
func (tm *transactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	tm.store.mu.Lock()
	defer tm.store.mu.Unlock()

	snapshot := tm.store.data.clone()

	defer func() {
		if r := recover(); r != nil {
			tm.store.data = snapshot
			panic(r)
		}
	}()

	factory := &repositoryFactory{acc: access{store: tm.store, inTx: true}}

	if err := fn(factory); err != nil {
		tm.store.data = snapshot

		return err
	}

	return nil
}
