// internal/storage/user_repo.go
package storage

import (
	"context"
	"fmt"

	"github.com/myfood/myfood-backend/internal/domain"
)

var userColumns = []string{
	"id", "email", "password", "name", "image", "height", "weight", "age", "goalWeight",
}

// UserRepository stores the users table. It is not cached: users are read
// once per login and kept in the session.
type UserRepository struct {
	Table[domain.User]
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{Table: newTable[domain.User](db, "users", userColumns...)}
}

// FindByEmail returns the user owning email, or nil when there is none.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, err := Query[domain.User](ctx, r.db, r.selectFrom()+" WHERE email = ? LIMIT 1", email)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// FindFirst returns the oldest account, or nil on a fresh install.
func (r *UserRepository) FindFirst(ctx context.Context) (*domain.User, error) {
	users, err := Query[domain.User](ctx, r.db, r.selectFrom()+" ORDER BY id LIMIT 1")
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// Create inserts user and returns it with its generated id.
// A taken email is ErrEmailExists.
func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	id, err := r.db.Insert(ctx, `
		INSERT INTO users (email, password, name, image, height, weight, age, goalWeight)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Email, user.Password, user.Name, user.Image,
		user.Height, user.Weight, user.Age, user.GoalWeight,
	)
	if err != nil {
		return domain.User{}, err
	}
	user.ID = id
	return user, nil
}

// Update writes the non-nil fields of patch and returns the refreshed user.
// A missing user is ErrNotFound.
func (r *UserRepository) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	a := &assignments{}
	if patch.Email != nil {
		a.set("email", *patch.Email)
	}
	if patch.Password != nil {
		a.set("password", *patch.Password)
	}
	if patch.Name != nil {
		a.set("name", *patch.Name)
	}
	if patch.Image != nil {
		a.set("image", *patch.Image)
	}
	if patch.Height != nil {
		a.set("height", *patch.Height)
	}
	if patch.Weight != nil {
		a.set("weight", *patch.Weight)
	}
	if patch.Age != nil {
		a.set("age", *patch.Age)
	}
	if patch.GoalWeight != nil {
		a.set("goalWeight", *patch.GoalWeight)
	}

	current, err := r.update(ctx, id, a)
	if err != nil {
		return nil, err
	}
	if a.empty() {
		return current, nil
	}

	updated, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: users %d", ErrNotFound, id)
	}
	return updated, nil
}

// DeleteAll empties the users table.
func (r *UserRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.Execute(ctx, "DELETE FROM users")
	return err
}
