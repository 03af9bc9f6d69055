package domain

import "math"

// Meal icons understood by the app.
const (
	IconSunrise = "sunrise"
	IconCoffee  = "coffee"
	IconSun     = "sun"
	IconMoon    = "moon"
)

// DefaultMeals is the ordered set seeded into an empty meals table.
func DefaultMeals() []Meal {
	return []Meal{
		{Name: "Desjejum", IconName: IconSunrise, Position: 0},
		{Name: "Café da manhã", IconName: IconCoffee, Position: 1},
		{Name: "Almoço", IconName: IconSun, Position: 2},
		{Name: "Café da tarde", IconName: IconCoffee, Position: 3},
		{Name: "Jantar", IconName: IconMoon, Position: 4},
	}
}

// ToFood turns a backend result into a food for the given meal.
func (d FoodDTO) ToFood(mealID int64) Food {
	calories := int(math.Round(d.Calories))
	food := Food{
		Name:     d.FoodName,
		Calories: &calories,
		Protein:  d.Protein,
		Carbs:    d.Carbs,
		Fat:      d.Fat,
		MealID:   mealID,
	}
	if d.Quantity > 0 {
		quantity := d.Quantity
		food.Quantity = &quantity
	}
	if d.Unit != "" {
		unit := d.Unit
		food.Unit = &unit
	}
	return food
}
