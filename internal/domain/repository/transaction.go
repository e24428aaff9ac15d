package repository

import "context"

// TransactionManager defines the interface for running several repository calls atomically.
type TransactionManager interface {
	// Execute runs fn within a transaction.
	// If fn returns an error or panics, every change made through the factory is rolled back.
	// Execute must not be nested.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides repository instances bound to a specific transaction.
type RepositoryFactory interface {
	NewUserRepository() UserRepository
	NewAddressRepository() AddressRepository
	NewCategoryRepository() CategoryRepository
	NewProductRepository() ProductRepository
	NewVariantRepository() VariantRepository
	NewCartRepository() CartRepository
	NewCartItemRepository() CartItemRepository
	NewOrderRepository() OrderRepository
	NewReviewRepository() ReviewRepository
}
