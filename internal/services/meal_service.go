// internal/services/meal_service.go
package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/myfood/myfood-backend/internal/core"
	"github.com/myfood/myfood-backend/internal/domain"
	"github.com/myfood/myfood-backend/internal/logger"
	"github.com/myfood/myfood-backend/internal/storage"
)

var (
	customLog = logger.NewLogger()
)

const iconTag = "oneof=" + domain.IconSunrise + " " + domain.IconCoffee + " " + domain.IconSun + " " + domain.IconMoon

// MealService is the meal and food facade used by the handlers.
type MealService struct {
	meals      MealStore
	foods      FoodStore
	recognizer FoodRecognizer
	searcher   FoodSearcher

	defaults []domain.Meal
	seedMu   sync.Mutex
}

func NewMealService(meals MealStore, foods FoodStore, recognizer FoodRecognizer, searcher FoodSearcher) *MealService {
	return &MealService{
		meals:      meals,
		foods:      foods,
		recognizer: recognizer,
		searcher:   searcher,
		defaults:   domain.DefaultMeals(),
	}
}

// WithDefaultMeals replaces the meals reseeded into an empty table.
func (s *MealService) WithDefaultMeals(defaults []domain.Meal) *MealService {
	s.defaults = defaults
	return s
}

// GetMealsWithFoods returns every meal with the foods eaten on day. An empty
// meals table is reseeded with the defaults first.
func (s *MealService) GetMealsWithFoods(ctx context.Context, day time.Time) ([]domain.Meal, error) {
	if _, err := s.InitializeDefaultMeals(ctx, s.defaults); err != nil {
		return nil, err
	}
	meals, err := s.meals.FindByDateWithFoods(ctx, day)
	if err != nil {
		customLog.Warnf("MealService: Error loading meals for %s: %v", day.Format(core.DayLayout), err)
		return nil, err
	}
	return meals, nil
}

// GetAllMealsWithFoods returns every meal with all of its foods, whatever their date.
func (s *MealService) GetAllMealsWithFoods(ctx context.Context) ([]domain.Meal, error) {
	meals, err := s.meals.FindAllWithFoods(ctx)
	if err != nil {
		customLog.Warnf("MealService: Error loading meals: %v", err)
		return nil, err
	}
	return meals, nil
}

func (s *MealService) CreateMeal(ctx context.Context, meal domain.Meal) (domain.Meal, error) {
	meal.Name = strings.TrimSpace(meal.Name)
	if err := core.ValidateStruct(meal); err != nil {
		return domain.Meal{}, err
	}

	created, err := s.meals.Create(ctx, meal)
	if err != nil {
		customLog.Warnf("MealService: Error creating meal %q: %v", meal.Name, err)
		return domain.Meal{}, err
	}
	customLog.Printf("MealService: Created meal %d (%s)", created.ID, created.Name)
	return created, nil
}

// AppendMeal creates meal positioned after every stored meal.
func (s *MealService) AppendMeal(ctx context.Context, meal domain.Meal) (domain.Meal, error) {
	count, err := s.meals.Count(ctx)
	if err != nil {
		customLog.Warnf("MealService: Error counting meals: %v", err)
		return domain.Meal{}, err
	}
	meal.Position = int(count)
	return s.CreateMeal(ctx, meal)
}

func (s *MealService) UpdateMeal(ctx context.Context, id int64, patch domain.MealPatch) error {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if err := core.ValidateVar("name", name, "required"); err != nil {
			return err
		}
		patch.Name = &name
	}
	if patch.IconName != nil {
		if err := core.ValidateVar("iconName", *patch.IconName, iconTag); err != nil {
			return err
		}
	}
	if patch.Position != nil {
		if err := core.ValidateVar("position", *patch.Position, "gte=0"); err != nil {
			return err
		}
	}

	if err := s.meals.Update(ctx, id, patch); err != nil {
		customLog.Warnf("MealService: Error updating meal %d: %v", id, err)
		return err
	}
	return nil
}

// DeleteMeal removes the meal's foods first and then the meal. The foreign key
// does not cascade, so the order matters.
func (s *MealService) DeleteMeal(ctx context.Context, id int64) error {
	meal, err := s.meals.FindByID(ctx, id)
	if err != nil {
		customLog.Warnf("MealService: Error loading meal %d for deletion: %v", id, err)
		return err
	}
	if meal == nil {
		return fmt.Errorf("%w: meals %d", storage.ErrNotFound, id)
	}

	foods, err := s.foods.FindFoodsByMealID(ctx, id)
	if err != nil {
		customLog.Warnf("MealService: Error listing foods of meal %d: %v", id, err)
		return err
	}
	for _, f := range foods {
		if err := s.foods.Delete(ctx, f.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			customLog.Warnf("MealService: Error deleting food %d of meal %d: %v", f.ID, id, err)
			return err
		}
	}

	if err := s.meals.Delete(ctx, id); err != nil {
		customLog.Warnf("MealService: Error deleting meal %d: %v", id, err)
		return err
	}
	customLog.Printf("MealService: Deleted meal %d and %d food(s)", id, len(foods))
	return nil
}

// AddFoodToMeal stores food in its meal. A missing meal is ErrNotFound.
func (s *MealService) AddFoodToMeal(ctx context.Context, food domain.Food) (domain.Food, error) {
	food.Name = strings.TrimSpace(food.Name)
	if err := core.ValidateStruct(food); err != nil {
		return domain.Food{}, err
	}
	if err := s.requireMeal(ctx, food.MealID); err != nil {
		return domain.Food{}, err
	}

	created, err := s.foods.Create(ctx, food)
	if err != nil {
		customLog.Warnf("MealService: Error adding food %q to meal %d: %v", food.Name, food.MealID, err)
		return domain.Food{}, err
	}
	return created, nil
}

func (s *MealService) requireMeal(ctx context.Context, id int64) error {
	meal, err := s.meals.FindByID(ctx, id)
	if err != nil {
		customLog.Warnf("MealService: Error loading meal %d: %v", id, err)
		return err
	}
	if meal == nil {
		return fmt.Errorf("%w: meals %d", storage.ErrNotFound, id)
	}
	return nil
}

// AddFoodsToMeal stores one food per selected search result, dated day.
// It stops at the first failure and returns what was stored so far.
func (s *MealService) AddFoodsToMeal(ctx context.Context, mealID int64, items []domain.FoodDTO, day time.Time) ([]domain.Food, error) {
	created := make([]domain.Food, 0, len(items))
	for _, item := range items {
		food := item.ToFood(mealID)
		food.Date = day
		f, err := s.AddFoodToMeal(ctx, food)
		if err != nil {
			return created, err
		}
		created = append(created, f)
	}
	return created, nil
}

func (s *MealService) RemoveFoodFromMeal(ctx context.Context, foodID int64) error {
	if err := s.foods.Delete(ctx, foodID); err != nil {
		customLog.Warnf("MealService: Error removing food %d: %v", foodID, err)
		return err
	}
	return nil
}

func (s *MealService) UpdateFood(ctx context.Context, id int64, patch domain.FoodPatch) error {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if err := core.ValidateVar("name", name, "required"); err != nil {
			return err
		}
		patch.Name = &name
	}
	if patch.MealID != nil {
		if err := core.ValidateVar("mealId", *patch.MealID, "gt=0"); err != nil {
			return err
		}
	}

	if err := s.foods.Update(ctx, id, patch); err != nil {
		customLog.Warnf("MealService: Error updating food %d: %v", id, err)
		return err
	}
	return nil
}

func (s *MealService) GetFoodsByDate(ctx context.Context, day time.Time) ([]domain.Food, error) {
	foods, err := s.foods.FindFoodsByDate(ctx, day)
	if err != nil {
		customLog.Warnf("MealService: Error loading foods for %s: %v", day.Format(core.DayLayout), err)
		return nil, err
	}
	return foods, nil
}

// InitializeDefaultMeals seeds defaults only into an empty meals table and
// returns how many meals it inserted.
func (s *MealService) InitializeDefaultMeals(ctx context.Context, defaults []domain.Meal) (int, error) {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()

	count, err := s.meals.Count(ctx)
	if err != nil {
		customLog.Warnf("MealService: Error counting meals: %v", err)
		return 0, err
	}
	if count > 0 {
		customLog.Debugf("MealService: %d meal(s) present, skipping defaults", count)
		return 0, nil
	}

	for i, meal := range defaults {
		if _, err := s.CreateMeal(ctx, meal); err != nil {
			return i, err
		}
	}
	customLog.Printf("MealService: Seeded %d default meal(s)", len(defaults))
	return len(defaults), nil
}

// HandleImageCapture sends the photo at imagePath to the recognizer and stores
// one food per recognized item in mealID, dated day.
func (s *MealService) HandleImageCapture(ctx context.Context, mealID int64, imagePath string, day time.Time) ([]domain.Food, error) {
	raw, err := os.ReadFile(imagePath)
	if err != nil {
		customLog.Warnf("MealService: Error reading captured image %s: %v", imagePath, err)
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	items, err := s.recognizer.RecognizeFoods(ctx, base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		customLog.Warnf("MealService: Image recognition failed for meal %d: %v", mealID, err)
		return nil, fmt.Errorf("image recognition failed: %w", err)
	}
	if len(items) == 0 {
		customLog.Printf("MealService: No food identified for meal %d", mealID)
		return nil, ErrNoFoodIdentified
	}

	foods, err := s.AddFoodsToMeal(ctx, mealID, items, day)
	if err != nil {
		return foods, err
	}
	customLog.Printf("MealService: Added %d recognized food(s) to meal %d", len(foods), mealID)
	return foods, nil
}

// SearchFoods queries the search backend. A blank text or a backend failure
// yields an empty list; results are capped at core.MaxSearchResults.
func (s *MealService) SearchFoods(ctx context.Context, opts core.SearchOptions) []domain.FoodDTO {
	text := strings.TrimSpace(opts.Text)
	if text == "" {
		return []domain.FoodDTO{}
	}

	items, err := s.searcher.SearchFoods(ctx, text, opts.Page)
	if err != nil {
		customLog.Warnf("MealService: Food search for %q failed: %v", text, err)
		return []domain.FoodDTO{}
	}
	if items == nil {
		return []domain.FoodDTO{}
	}
	if len(items) > core.MaxSearchResults {
		items = items[:core.MaxSearchResults]
	}
	return items
}
