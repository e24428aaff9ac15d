package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// CreateReviewInput defines a product review.
type CreateReviewInput struct {
	Rating  int
	Comment *string
}

// ReviewUsecase defines the interface for product reviews.
type ReviewUsecase interface {
	ListReviews(ctx context.Context, productID int64) ([]entity.ReviewView, error)
	CreateReview(ctx context.Context, userID, productID int64, input *CreateReviewInput) (*entity.Review, error)
}
