// internal/storage/meal_repo.go
package storage

import (
	"context"
	"time"

	"github.com/myfood/myfood-backend/internal/cache"
	"github.com/myfood/myfood-backend/internal/domain"
)

var mealColumns = []string{"id", "name", "iconName", "position"}

// MealRepository stores the meals table and composes meals with their foods.
type MealRepository struct {
	Table[domain.Meal]
	foods *FoodRepository
	cache *cache.TTLCache
}

// NewMealRepository builds the repository. foods must share c so that food
// writes also drop cached meal views.
func NewMealRepository(db *DB, foods *FoodRepository, c *cache.TTLCache) *MealRepository {
	return &MealRepository{
		Table: newTable[domain.Meal](db, "meals", mealColumns...),
		foods: foods,
		cache: c,
	}
}

// FindAll returns the meals without their foods.
func (r *MealRepository) FindAll(ctx context.Context) ([]domain.Meal, error) {
	meals, err := cache.Remember(r.cache, cache.Key("meals.FindAll"), func() ([]domain.Meal, error) {
		return r.Table.FindAll(ctx)
	})
	return cloneMeals(meals), err
}

// FindAllWithFoods returns every meal by position, each carrying all of its foods.
func (r *MealRepository) FindAllWithFoods(ctx context.Context) ([]domain.Meal, error) {
	meals, err := cache.Remember(r.cache, cache.Key("meals.FindAllWithFoods"), func() ([]domain.Meal, error) {
		meals, err := r.findOrdered(ctx)
		if err != nil {
			return nil, err
		}
		foods, err := r.foods.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		return attachFoods(meals, foods), nil
	})
	return cloneMeals(meals), err
}

// FindByDateWithFoods returns every meal by position, each carrying only the
// foods dated within day.
func (r *MealRepository) FindByDateWithFoods(ctx context.Context, day time.Time) ([]domain.Meal, error) {
	start, _ := DayBounds(day, r.foods.loc)
	meals, err := cache.Remember(r.cache, cache.Key("meals.FindByDateWithFoods", start), func() ([]domain.Meal, error) {
		meals, err := r.findOrdered(ctx)
		if err != nil {
			return nil, err
		}
		foods, err := r.foods.FindFoodsByDate(ctx, day)
		if err != nil {
			return nil, err
		}
		return attachFoods(meals, foods), nil
	})
	return cloneMeals(meals), err
}

func (r *MealRepository) findOrdered(ctx context.Context) ([]domain.Meal, error) {
	return Query[domain.Meal](ctx, r.db, r.selectFrom()+" ORDER BY position, id")
}

// attachFoods merges foods into meals by mealId. Every meal gets a non-nil list.
func attachFoods(meals []domain.Meal, foods []domain.Food) []domain.Meal {
	byMeal := make(map[int64][]domain.Food, len(meals))
	for _, f := range foods {
		byMeal[f.MealID] = append(byMeal[f.MealID], f)
	}
	for i := range meals {
		meals[i].Foods = byMeal[meals[i].ID]
		if meals[i].Foods == nil {
			meals[i].Foods = []domain.Food{}
		}
	}
	return meals
}

// cloneMeals keeps callers from mutating slices held by the cache.
func cloneMeals(meals []domain.Meal) []domain.Meal {
	if meals == nil {
		return nil
	}
	out := make([]domain.Meal, len(meals))
	for i, m := range meals {
		out[i] = m
		out[i].Foods = cloneFoods(m.Foods)
	}
	return out
}

// Create inserts meal and returns it with its generated id and no foods.
func (r *MealRepository) Create(ctx context.Context, meal domain.Meal) (domain.Meal, error) {
	defer r.cache.Invalidate()

	id, err := r.db.Insert(ctx, `INSERT INTO meals (name, iconName, position) VALUES (?, ?, ?)`,
		meal.Name, meal.IconName, meal.Position)
	if err != nil {
		return domain.Meal{}, err
	}
	meal.ID = id
	meal.Foods = []domain.Food{}
	return meal, nil
}

// Update writes the non-nil fields of patch. A missing meal is ErrNotFound.
func (r *MealRepository) Update(ctx context.Context, id int64, patch domain.MealPatch) error {
	defer r.cache.Invalidate()

	a := &assignments{}
	if patch.Name != nil {
		a.set("name", *patch.Name)
	}
	if patch.IconName != nil {
		a.set("iconName", *patch.IconName)
	}
	if patch.Position != nil {
		a.set("position", *patch.Position)
	}

	_, err := r.update(ctx, id, a)
	return err
}

// Delete removes one meal. Its foods must be gone already: the foreign key
// does not cascade. A missing meal is ErrNotFound.
func (r *MealRepository) Delete(ctx context.Context, id int64) error {
	defer r.cache.Invalidate()
	return r.Table.Delete(ctx, id)
}
