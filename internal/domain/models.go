// internal/domain/models.go
package domain

import "time"

// User is the single local account of the installation.
type User struct {
	ID         int64    `db:"id" json:"id"`
	Email      string   `db:"email" json:"email"`
	Password   string   `db:"password" json:"-"` // bcrypt hash
	Name       string   `db:"name" json:"name"`
	Image      *string  `db:"image" json:"image"`
	Height     *float64 `db:"height" json:"height,omitempty"`
	Weight     *float64 `db:"weight" json:"weight,omitempty"`
	Age        *int     `db:"age" json:"age,omitempty"`
	GoalWeight *float64 `db:"goalWeight" json:"goalWeight,omitempty"`
}

// Meal is a named, ordered slot grouping the foods eaten in it.
type Meal struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name" validate:"required"`
	IconName string `db:"iconName" json:"iconName" validate:"required,oneof=sunrise coffee sun moon"`
	Position int    `db:"position" json:"position" validate:"gte=0"`
	Foods    []Food `db:"-" json:"foods"`
}

// Food is one consumed item, always attached to a meal.
type Food struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name" validate:"required"`
	Calories *int      `json:"calories"`
	Protein  *float64  `json:"protein,omitempty"`
	Carbs    *float64  `json:"carbs,omitempty"`
	Fat      *float64  `json:"fat,omitempty"`
	Quantity *float64  `json:"quantity,omitempty"`
	Unit     *string   `json:"unit,omitempty"`
	MealID   int64     `json:"mealId" validate:"required,gt=0"`
	Date     time.Time `json:"date" validate:"required"`
}

// MealPatch carries the fields of a partial meal update; nil means unchanged.
type MealPatch struct {
	Name     *string `json:"name,omitempty"`
	IconName *string `json:"iconName,omitempty"`
	Position *int    `json:"position,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p MealPatch) IsEmpty() bool {
	return p.Name == nil && p.IconName == nil && p.Position == nil
}

// FoodPatch carries the fields of a partial food update; nil means unchanged.
type FoodPatch struct {
	Name     *string    `json:"name,omitempty"`
	Calories *int       `json:"calories,omitempty"`
	Protein  *float64   `json:"protein,omitempty"`
	Carbs    *float64   `json:"carbs,omitempty"`
	Fat      *float64   `json:"fat,omitempty"`
	Quantity *float64   `json:"quantity,omitempty"`
	Unit     *string    `json:"unit,omitempty"`
	MealID   *int64     `json:"mealId,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
}

func (p FoodPatch) IsEmpty() bool {
	return p.Name == nil && p.Calories == nil && p.Protein == nil && p.Carbs == nil &&
		p.Fat == nil && p.Quantity == nil && p.Unit == nil && p.MealID == nil && p.Date == nil
}

// UserPatch carries the fields of a partial user update; nil means unchanged.
// Password is expected to be hashed already when it reaches storage.
type UserPatch struct {
	Email      *string  `json:"email,omitempty"`
	Password   *string  `json:"password,omitempty"`
	Name       *string  `json:"name,omitempty"`
	Image      *string  `json:"image,omitempty"`
	Height     *float64 `json:"height,omitempty"`
	Weight     *float64 `json:"weight,omitempty"`
	Age        *int     `json:"age,omitempty"`
	GoalWeight *float64 `json:"goalWeight,omitempty"`
}

func (p UserPatch) IsEmpty() bool {
	return p.Email == nil && p.Password == nil && p.Name == nil && p.Image == nil &&
		p.Height == nil && p.Weight == nil && p.Age == nil && p.GoalWeight == nil
}

// Registration is the sign-up form.
type Registration struct {
	Email           string   `json:"email" validate:"required,email"`
	Password        string   `json:"password" validate:"required"`
	ConfirmPassword string   `json:"confirmPassword" validate:"required,eqfield=Password"`
	Name            string   `json:"name" validate:"required"`
	Image           *string  `json:"image"`
	Height          *float64 `json:"height" validate:"omitempty,gt=0"`
	Weight          *float64 `json:"weight" validate:"omitempty,gt=0"`
	Age             *int     `json:"age" validate:"omitempty,gt=0"`
	GoalWeight      *float64 `json:"goalWeight" validate:"omitempty,gt=0"`
}

// FoodDTO is a food item as returned by the search and recognition backends.
type FoodDTO struct {
	FoodID   string   `json:"food_id"`
	FoodName string   `json:"food_name"`
	Calories float64  `json:"calories"`
	Quantity float64  `json:"quantity"`
	Unit     string   `json:"unit"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
}

// MigrationRecord is one row of the migrations ledger.
type MigrationRecord struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	ExecutedAt time.Time `db:"executed_at" json:"executedAt"`
}

// TableInfo describes one table of the local database.
type TableInfo struct {
	Name    string       `json:"name"`
	Rows    int64        `json:"rows"`
	Columns []ColumnInfo `json:"columns"`
}

// ColumnInfo is one row of PRAGMA table_info.
type ColumnInfo struct {
	Name       string `db:"name" json:"name"`
	Type       string `db:"type" json:"type"`
	NotNull    bool   `db:"notnull" json:"notNull"`
	PrimaryKey bool   `db:"pk" json:"primaryKey"`
}
