package memory

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/util"
)

type userRepository struct {
	acc access
}

// NewUserRepository is the constructor for the user repository.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{access{store: store}}
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	defer r.acc.rlock()()

	return rowByID(r.acc.db().users, id), nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	defer r.acc.rlock()()

	return r.findBy(func(u *entity.User) bool {
		return util.FoldKey(u.Username) == util.FoldKey(username)
	})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	defer r.acc.rlock()()

	return r.findBy(func(u *entity.User) bool {
		return util.FoldKey(u.Email) == util.FoldKey(email)
	})
}

func (r *userRepository) findBy(match func(*entity.User) bool) (*entity.User, error) {
	for _, user := range r.acc.db().users {
		if match(&user) {
			return &user, nil
		}
	}

	return nil, nil
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	defer r.acc.lock()()

	for _, existing := range r.acc.db().users {
		if util.FoldKey(existing.Username) == util.FoldKey(user.Username) {
			return repository.ErrDuplicateUsername
		}
		if util.FoldKey(existing.Email) == util.FoldKey(user.Email) {
			return repository.ErrDuplicateEmail
		}
	}

	user.ID = r.acc.store.nextID(TableUsers)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.acc.store.now()
	}
	r.acc.db().users[user.ID] = *user

	return nil
}
