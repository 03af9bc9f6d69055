// internal/storage/food_repo.go
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/myfood/myfood-backend/internal/cache"
	"github.com/myfood/myfood-backend/internal/domain"
)

var foodColumns = []string{
	"id", "name", "calories", "protein", "carbs", "fat", "quantity", "unit", "mealId", "date",
}

// foodRow mirrors the foods table; date is stored as text.
type foodRow struct {
	ID       int64    `db:"id"`
	Name     string   `db:"name"`
	Calories *int     `db:"calories"`
	Protein  *float64 `db:"protein"`
	Carbs    *float64 `db:"carbs"`
	Fat      *float64 `db:"fat"`
	Quantity *float64 `db:"quantity"`
	Unit     *string  `db:"unit"`
	MealID   int64    `db:"mealId"`
	Date     string   `db:"date"`
}

func (r foodRow) toDomain() (domain.Food, error) {
	date, err := ParseTimestamp(r.Date)
	if err != nil {
		return domain.Food{}, fmt.Errorf("food %d: %w", r.ID, err)
	}
	return domain.Food{
		ID:       r.ID,
		Name:     r.Name,
		Calories: r.Calories,
		Protein:  r.Protein,
		Carbs:    r.Carbs,
		Fat:      r.Fat,
		Quantity: r.Quantity,
		Unit:     r.Unit,
		MealID:   r.MealID,
		Date:     date,
	}, nil
}

func toFoods(rows []foodRow) ([]domain.Food, error) {
	foods := make([]domain.Food, 0, len(rows))
	for _, r := range rows {
		f, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		foods = append(foods, f)
	}
	return foods, nil
}

// FoodRepository stores the foods table.
type FoodRepository struct {
	Table[foodRow]
	cache *cache.TTLCache
	loc   *time.Location
}

// NewFoodRepository builds the repository. c may be nil (no caching);
// loc decides calendar-day boundaries.
func NewFoodRepository(db *DB, c *cache.TTLCache, loc *time.Location) *FoodRepository {
	if loc == nil {
		loc = time.Local
	}
	return &FoodRepository{
		Table: newTable[foodRow](db, "foods", foodColumns...),
		cache: c,
		loc:   loc,
	}
}

// FindByID returns the food with the given id, or nil when there is none.
func (r *FoodRepository) FindByID(ctx context.Context, id int64) (*domain.Food, error) {
	row, err := r.Table.FindByID(ctx, id)
	if err != nil || row == nil {
		return nil, err
	}
	food, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &food, nil
}

// FindAll returns every stored food.
func (r *FoodRepository) FindAll(ctx context.Context) ([]domain.Food, error) {
	foods, err := cache.Remember(r.cache, cache.Key("foods.FindAll"), func() ([]domain.Food, error) {
		rows, err := r.Table.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		return toFoods(rows)
	})
	return cloneFoods(foods), err
}

// FindFoodsByDate returns the foods dated within day's calendar date,
// both bounds inclusive.
func (r *FoodRepository) FindFoodsByDate(ctx context.Context, day time.Time) ([]domain.Food, error) {
	start, end := DayBounds(day, r.loc)
	foods, err := cache.Remember(r.cache, cache.Key("foods.FindFoodsByDate", start), func() ([]domain.Food, error) {
		return r.findBetween(ctx, start, end)
	})
	return cloneFoods(foods), err
}

func (r *FoodRepository) findBetween(ctx context.Context, start, end time.Time) ([]domain.Food, error) {
	rows, err := Query[foodRow](ctx, r.db, r.selectFrom()+" WHERE date >= ? AND date <= ? ORDER BY date, id",
		FormatTimestamp(start), FormatTimestamp(end))
	if err != nil {
		return nil, err
	}
	return toFoods(rows)
}

// FindFoodsByMealID returns every food attached to a meal, whatever its date.
func (r *FoodRepository) FindFoodsByMealID(ctx context.Context, mealID int64) ([]domain.Food, error) {
	foods, err := cache.Remember(r.cache, cache.Key("foods.FindFoodsByMealID", mealID), func() ([]domain.Food, error) {
		rows, err := Query[foodRow](ctx, r.db, r.selectFrom()+" WHERE mealId = ? ORDER BY date, id", mealID)
		if err != nil {
			return nil, err
		}
		return toFoods(rows)
	})
	return cloneFoods(foods), err
}

// Create inserts food and returns it with its generated id.
func (r *FoodRepository) Create(ctx context.Context, food domain.Food) (domain.Food, error) {
	defer r.cache.Invalidate()

	id, err := r.db.Insert(ctx, `
		INSERT INTO foods (name, calories, protein, carbs, fat, quantity, unit, mealId, date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		food.Name, food.Calories, food.Protein, food.Carbs, food.Fat,
		food.Quantity, food.Unit, food.MealID, FormatTimestamp(food.Date),
	)
	if err != nil {
		return domain.Food{}, err
	}
	food.ID = id
	return food, nil
}

// Update writes the non-nil fields of patch. A missing food is ErrNotFound.
func (r *FoodRepository) Update(ctx context.Context, id int64, patch domain.FoodPatch) error {
	defer r.cache.Invalidate()

	a := &assignments{}
	if patch.Name != nil {
		a.set("name", *patch.Name)
	}
	if patch.Calories != nil {
		a.set("calories", *patch.Calories)
	}
	if patch.Protein != nil {
		a.set("protein", *patch.Protein)
	}
	if patch.Carbs != nil {
		a.set("carbs", *patch.Carbs)
	}
	if patch.Fat != nil {
		a.set("fat", *patch.Fat)
	}
	if patch.Quantity != nil {
		a.set("quantity", *patch.Quantity)
	}
	if patch.Unit != nil {
		a.set("unit", *patch.Unit)
	}
	if patch.MealID != nil {
		a.set("mealId", *patch.MealID)
	}
	if patch.Date != nil {
		a.set("date", FormatTimestamp(*patch.Date))
	}

	_, err := r.update(ctx, id, a)
	return err
}

// Delete removes one food. A missing food is ErrNotFound.
func (r *FoodRepository) Delete(ctx context.Context, id int64) error {
	defer r.cache.Invalidate()
	return r.Table.Delete(ctx, id)
}

// cloneFoods copies foods, pointer fields included, so callers never share
// memory with the cache.
func cloneFoods(foods []domain.Food) []domain.Food {
	if foods == nil {
		return nil
	}
	out := make([]domain.Food, len(foods))
	for i, f := range foods {
		f.Calories = clonePtr(f.Calories)
		f.Protein = clonePtr(f.Protein)
		f.Carbs = clonePtr(f.Carbs)
		f.Fat = clonePtr(f.Fat)
		f.Quantity = clonePtr(f.Quantity)
		f.Unit = clonePtr(f.Unit)
		out[i] = f
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
