// Package services composes the repositories and the nutrition backends into
// the use cases exposed to the UI.
package services

import (
	"context"
	"time"

	"github.com/myfood/myfood-backend/internal/domain"
)

// MealStore is the meal side of storage (implemented by *storage.MealRepository).
type MealStore interface {
	FindByID(ctx context.Context, id int64) (*domain.Meal, error)
	FindAllWithFoods(ctx context.Context) ([]domain.Meal, error)
	FindByDateWithFoods(ctx context.Context, day time.Time) ([]domain.Meal, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, meal domain.Meal) (domain.Meal, error)
	Update(ctx context.Context, id int64, patch domain.MealPatch) error
	Delete(ctx context.Context, id int64) error
}

// FoodStore is the food side of storage (implemented by *storage.FoodRepository).
type FoodStore interface {
	FindFoodsByDate(ctx context.Context, day time.Time) ([]domain.Food, error)
	FindFoodsByMealID(ctx context.Context, mealID int64) ([]domain.Food, error)
	Create(ctx context.Context, food domain.Food) (domain.Food, error)
	Update(ctx context.Context, id int64, patch domain.FoodPatch) error
	Delete(ctx context.Context, id int64) error
}

// UserStore is implemented by *storage.UserRepository.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindFirst(ctx context.Context) (*domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
	Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
}

// FoodRecognizer identifies foods in a base64-encoded photo.
type FoodRecognizer interface {
	RecognizeFoods(ctx context.Context, imageBase64 string) ([]domain.FoodDTO, error)
}

// FoodSearcher runs a paginated text search over the food catalogue.
type FoodSearcher interface {
	SearchFoods(ctx context.Context, text string, page int) ([]domain.FoodDTO, error)
}
