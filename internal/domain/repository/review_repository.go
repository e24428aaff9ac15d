package repository

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"
)

// Domain-specific errors for review persistence.
var (
	// ErrDuplicateReview is returned when the user already reviewed the product.
	ErrDuplicateReview = errors.New("review already exists")
)

// ReviewRepository stores product reviews, one per (user, product).
type ReviewRepository interface {
	FindByUserAndProduct(ctx context.Context, userID, productID int64) (*entity.Review, error)

	// ListViewsByProduct joins the product's reviews with their authors, newest first.
	ListViewsByProduct(ctx context.Context, productID int64) ([]entity.ReviewView, error)

	Create(ctx context.Context, review *entity.Review) error
}
