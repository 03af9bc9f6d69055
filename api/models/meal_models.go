// api/models/meal_models.go
package models

import (
	"time"

	"github.com/myfood/myfood-backend/internal/domain"
)

// --- Meal Request Structs ---

// CreateMealRequest defines the structure for the create meal request body.
// A missing position appends the meal after the existing ones.
type CreateMealRequest struct {
	Name     string `json:"name" binding:"required"`
	IconName string `json:"iconName" binding:"required,oneof=sunrise coffee sun moon"`
	Position *int   `json:"position" binding:"omitempty,gte=0"`
}

func (r CreateMealRequest) ToMeal() domain.Meal {
	meal := domain.Meal{Name: r.Name, IconName: r.IconName}
	if r.Position != nil {
		meal.Position = *r.Position
	}
	return meal
}

// UpdateMealRequest defines the PATCH /meals/:id body
type UpdateMealRequest struct {
	Name     *string `json:"name"`
	IconName *string `json:"iconName" binding:"omitempty,oneof=sunrise coffee sun moon"`
	Position *int    `json:"position" binding:"omitempty,gte=0"`
}

func (r UpdateMealRequest) ToPatch() domain.MealPatch {
	return domain.MealPatch{Name: r.Name, IconName: r.IconName, Position: r.Position}
}

// --- Food Request Structs ---

// CreateFoodRequest defines the POST /meals/:id/foods body. A missing date means now.
type CreateFoodRequest struct {
	Name     string     `json:"name" binding:"required"`
	Calories *int       `json:"calories" binding:"omitempty,gte=0"`
	Protein  *float64   `json:"protein" binding:"omitempty,gte=0"`
	Carbs    *float64   `json:"carbs" binding:"omitempty,gte=0"`
	Fat      *float64   `json:"fat" binding:"omitempty,gte=0"`
	Quantity *float64   `json:"quantity" binding:"omitempty,gt=0"`
	Unit     *string    `json:"unit"`
	Date     *time.Time `json:"date"`
}

func (r CreateFoodRequest) ToFood(mealID int64, now time.Time) domain.Food {
	date := now
	if r.Date != nil {
		date = *r.Date
	}
	return domain.Food{
		Name:     r.Name,
		Calories: r.Calories,
		Protein:  r.Protein,
		Carbs:    r.Carbs,
		Fat:      r.Fat,
		Quantity: r.Quantity,
		Unit:     r.Unit,
		MealID:   mealID,
		Date:     date,
	}
}

// UpdateFoodRequest defines the PATCH /foods/:id body
type UpdateFoodRequest struct {
	Name     *string    `json:"name"`
	Calories *int       `json:"calories" binding:"omitempty,gte=0"`
	Protein  *float64   `json:"protein" binding:"omitempty,gte=0"`
	Carbs    *float64   `json:"carbs" binding:"omitempty,gte=0"`
	Fat      *float64   `json:"fat" binding:"omitempty,gte=0"`
	Quantity *float64   `json:"quantity" binding:"omitempty,gt=0"`
	Unit     *string    `json:"unit"`
	MealID   *int64     `json:"mealId" binding:"omitempty,gt=0"`
	Date     *time.Time `json:"date"`
}

func (r UpdateFoodRequest) ToPatch() domain.FoodPatch {
	return domain.FoodPatch{
		Name:     r.Name,
		Calories: r.Calories,
		Protein:  r.Protein,
		Carbs:    r.Carbs,
		Fat:      r.Fat,
		Quantity: r.Quantity,
		Unit:     r.Unit,
		MealID:   r.MealID,
		Date:     r.Date,
	}
}

// SearchResultsRequest carries the search results the user picked for a meal
type SearchResultsRequest struct {
	Foods []domain.FoodDTO `json:"foods" binding:"required,min=1"`
}

// FoodsResponse wraps a list of foods
type FoodsResponse struct {
	Foods []domain.Food `json:"foods"`
}
