package impl

import (
	"context"
	"testing"

	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/errors"
	"storefront/internal/usecase"
	"storefront/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService(t *testing.T) {
	ts := newTestStore(t)
	srv := NewReviewService(ts.txManager, ts.reviews, newDiscardLogger())
	ctx := context.Background()
	ana := ts.createUser(t, "ana")
	bob := ts.createUser(t, "bob")
	chair := ts.createProduct(t, "CHAIR", "10", "0", 1)

	review, err := srv.CreateReview(ctx, ana.ID, chair.ID, &usecase.CreateReviewInput{Rating: 5, Comment: util.Ptr("Muy cómoda")})
	require.NoError(t, err)
	assert.NotZero(t, review.ID)

	_, err = srv.CreateReview(ctx, bob.ID, chair.ID, &usecase.CreateReviewInput{Rating: 3})
	require.NoError(t, err)

	tests := []struct {
		name      string
		userID    int64
		productID int64
		rating    int
		wantErr   error
	}{
		{name: "second review by the same user", userID: ana.ID, productID: chair.ID, rating: 4, wantErr: domainerrors.ErrReviewAlreadyExists},
		{name: "rating too low", userID: ana.ID, productID: chair.ID, rating: 0, wantErr: domainerrors.ErrValidationFailed},
		{name: "rating too high", userID: ana.ID, productID: chair.ID, rating: 6, wantErr: domainerrors.ErrValidationFailed},
		{name: "unknown product", userID: ana.ID, productID: 404, rating: 4, wantErr: domainerrors.ErrProductNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := srv.CreateReview(ctx, tt.userID, tt.productID, &usecase.CreateReviewInput{Rating: tt.rating})
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	views, err := srv.ListReviews(ctx, chair.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	// Newest first.
	assert.Equal(t, "bob", views[0].Username)
	assert.Equal(t, "ana", views[1].Username)
}
