package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
	"storefront/internal/usecase"
)

const (
	minRating = 1
	maxRating = 5
)

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	txManager  repository.TransactionManager
	reviewRepo repository.ReviewRepository
	logger     *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(
	txManager repository.TransactionManager,
	reviewRepo repository.ReviewRepository,
	logger *slog.Logger,
) usecase.ReviewUsecase {
	return &reviewService{
		txManager:  txManager,
		reviewRepo: reviewRepo,
		logger:     logger,
	}
}

func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListReviews returns the product's reviews with their authors, newest first.
func (srv *reviewService) ListReviews(ctx context.Context, productID int64) ([]entity.ReviewView, error) {
	reviews, err := srv.reviewRepo.ListViewsByProduct(ctx, productID)

	return reviews, translate(err, "failed to list reviews")
}

// CreateReview records the user's only review of a product.
func (srv *reviewService) CreateReview(ctx context.Context, userID, productID int64, input *usecase.CreateReviewInput) (*entity.Review, error) {
	if input.Rating < minRating || input.Rating > maxRating {
		return nil, errors.Wrapf(domainerrors.ErrValidationFailed, "rating must be between %d and %d", minRating, maxRating)
	}

	review := &entity.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		product, err := repoFactory.NewProductRepository().FindByID(ctx, productID)
		if err := exists(product, err, repository.ErrProductNotFound); err != nil {
			return translate(err, "failed to find product")
		}

		return translate(repoFactory.NewReviewRepository().Create(ctx, review), "failed to create review")
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Review created", slog.Int64("userID", userID), slog.Int64("productID", productID))

	return review, nil
}
