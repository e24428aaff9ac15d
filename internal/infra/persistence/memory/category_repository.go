package memory

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
)

type categoryRepository struct {
	acc access
}

// NewCategoryRepository is the constructor for the category repository.
func NewCategoryRepository(store *Store) repository.CategoryRepository {
	return &categoryRepository{access{store: store}}
}

func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*entity.Category, error) {
	defer r.acc.rlock()()

	return rowByID(r.acc.db().categories, id), nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	defer r.acc.rlock()()

	return sortedByID(r.acc.db().categories, nil), nil
}

// Create does not validate ParentID.
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	defer r.acc.lock()()

	category.ID = r.acc.store.nextID(TableCategories)
	r.acc.db().categories[category.ID] = *category

	return nil
}
