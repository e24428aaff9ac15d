package memory

import (
	"cmp"
	"context"
	"slices"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
)

type reviewRepository struct {
	acc access
}

// NewReviewRepository is the constructor for the review repository.
func NewReviewRepository(store *Store) repository.ReviewRepository {
	return &reviewRepository{access{store: store}}
}

func (r *reviewRepository) FindByUserAndProduct(ctx context.Context, userID, productID int64) (*entity.Review, error) {
	defer r.acc.rlock()()

	review, _ := r.find(userID, productID)

	return review, nil
}

func (r *reviewRepository) ListViewsByProduct(ctx context.Context, productID int64) ([]entity.ReviewView, error) {
	defer r.acc.rlock()()

	reviews := sortedByID(r.acc.db().reviews, func(rv *entity.Review) bool {
		return rv.ProductID == productID
	})
	slices.SortStableFunc(reviews, func(a, b *entity.Review) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}

		return cmp.Compare(b.ID, a.ID)
	})

	views := make([]entity.ReviewView, 0, len(reviews))
	for _, review := range reviews {
		view := entity.ReviewView{Review: *review}
		if author, ok := r.acc.db().users[review.UserID]; ok {
			view.Username = author.Username
			view.UserFullName = author.FullName
		}
		views = append(views, view)
	}

	return views, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	defer r.acc.lock()()

	if _, exists := r.find(review.UserID, review.ProductID); exists {
		return repository.ErrDuplicateReview
	}

	review.ID = r.acc.store.nextID(TableReviews)
	if review.CreatedAt.IsZero() {
		review.CreatedAt = r.acc.store.now()
	}
	r.acc.db().reviews[review.ID] = *review

	return nil
}

func (r *reviewRepository) find(userID, productID int64) (*entity.Review, bool) {
	for _, review := range r.acc.db().reviews {
		if review.UserID == userID && review.ProductID == productID {
			return &review, true
		}
	}

	return nil, false
}
