package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myfood/myfood-backend/internal/cache"
	"github.com/myfood/myfood-backend/internal/domain"
	"github.com/myfood/myfood-backend/internal/storage"
)

func TestMealRepository_CreateHasEmptyFoods(t *testing.T) {
	r := newRepos(t, testDBSetup(t))

	meal, err := r.meals.Create(context.Background(), domain.Meal{Name: "Lanche", IconName: domain.IconCoffee, Position: 3})
	require.NoError(t, err)
	assert.Positive(t, meal.ID)
	assert.NotNil(t, meal.Foods)
	assert.Empty(t, meal.Foods)
}

func TestMealRepository_WithFoodsOrderedByPosition(t *testing.T) {
	r := newRepos(t, testDBSetup(t))
	ctx := context.Background()

	dinner := createMeal(t, r, "Jantar", 4)
	breakfast := createMeal(t, r, "Café da manhã", 1)
	lunch := createMeal(t, r, "Almoço", 2)

	today := time.Date(2024, 5, 1, 12, 0, 0, 0, testLoc)
	yesterday := today.AddDate(0, 0, -1)

	for _, f := range []domain.Food{
		{Name: "Pão", MealID: breakfast.ID, Date: today},
		{Name: "Ovo", MealID: breakfast.ID, Date: today.Add(time.Minute)},
		{Name: "Sopa", MealID: dinner.ID, Date: yesterday},
	} {
		_, err := r.foods.Create(ctx, f)
		require.NoError(t, err)
	}

	t.Run("all foods", func(t *testing.T) {
		meals, err := r.meals.FindAllWithFoods(ctx)
		require.NoError(t, err)
		require.Len(t, meals, 3)

		assert.Equal(t, []int64{breakfast.ID, lunch.ID, dinner.ID}, []int64{meals[0].ID, meals[1].ID, meals[2].ID})
		assert.Len(t, meals[0].Foods, 2)
		assert.NotNil(t, meals[1].Foods)
		assert.Empty(t, meals[1].Foods)
		assert.Len(t, meals[2].Foods, 1)
	})

	t.Run("one day", func(t *testing.T) {
		meals, err := r.meals.FindByDateWithFoods(ctx, today)
		require.NoError(t, err)
		require.Len(t, meals, 3, "meals without foods that day are still listed")

		require.Len(t, meals[0].Foods, 2)
		assert.Equal(t, "Pão", meals[0].Foods[0].Name)
		assert.Equal(t, "Ovo", meals[0].Foods[1].Name)
		assert.Empty(t, meals[2].Foods, "yesterday's soup is filtered out")
	})
}

func TestMealRepository_UpdateAndDelete(t *testing.T) {
	r := newRepos(t, testDBSetup(t))
	ctx := context.Background()
	meal := createMeal(t, r, "Almoço", 2)

	require.NoError(t, r.meals.Update(ctx, meal.ID, domain.MealPatch{Name: ptr("Almoço tardio")}))
	found, err := r.meals.FindByID(ctx, meal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Almoço tardio", found.Name)
	assert.Equal(t, domain.IconSun, found.IconName, "unpatched columns are kept")
	assert.Equal(t, 2, found.Position)

	assert.ErrorIs(t, r.meals.Update(ctx, 9999, domain.MealPatch{Name: ptr("x")}), storage.ErrNotFound)

	_, err = r.foods.Create(ctx, domain.Food{Name: "Arroz", MealID: meal.ID, Date: time.Now()})
	require.NoError(t, err)
	assert.ErrorIs(t, r.meals.Delete(ctx, meal.ID), storage.ErrConstraintViolation,
		"a meal still referenced by foods cannot be deleted")

	foods, err := r.foods.FindFoodsByMealID(ctx, meal.ID)
	require.NoError(t, err)
	for _, f := range foods {
		require.NoError(t, r.foods.Delete(ctx, f.ID))
	}
	require.NoError(t, r.meals.Delete(ctx, meal.ID))
	assert.ErrorIs(t, r.meals.Delete(ctx, meal.ID), storage.ErrNotFound)

	count, err := r.meals.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMealRepository_CacheCoherence(t *testing.T) {
	db := testDBSetup(t)
	r := newRepos(t, db)
	ctx := context.Background()
	meal := createMeal(t, r, "Almoço", 2)

	meals, err := r.meals.FindAllWithFoods(ctx)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Positive(t, r.cache.Len())

	// A write that bypasses the repositories is invisible until the cache drops.
	_, err = db.Insert(ctx, `INSERT INTO meals (name, iconName, position) VALUES (?, ?, ?)`, "Ceia", "moon", 5)
	require.NoError(t, err)
	meals, err = r.meals.FindAllWithFoods(ctx)
	require.NoError(t, err)
	assert.Len(t, meals, 1)

	// A food write through the repository drops the meal views too.
	_, err = r.foods.Create(ctx, domain.Food{Name: "Feijão", MealID: meal.ID, Date: time.Now()})
	require.NoError(t, err)
	assert.Zero(t, r.cache.Len())

	meals, err = r.meals.FindAllWithFoods(ctx)
	require.NoError(t, err)
	require.Len(t, meals, 2)
	assert.Len(t, meals[0].Foods, 1)
}

func TestCache_WriteDuringReadIsNotCachedStale(t *testing.T) {
	r := newRepos(t, testDBSetup(t))
	ctx := context.Background()
	meal := createMeal(t, r, "Almoço", 2)
	key := cache.Key("foods.snapshot", meal.ID)

	// The read finishes before a concurrent write commits, but stores after it.
	load := func() ([]domain.Food, error) {
		before, err := r.foods.FindFoodsByMealID(ctx, meal.ID)
		if err != nil {
			return nil, err
		}
		if _, err := r.foods.Create(ctx, domain.Food{Name: "Arroz", MealID: meal.ID, Date: time.Now()}); err != nil {
			return nil, err
		}
		return before, nil
	}
	stale, err := cache.Remember(r.cache, key, load)
	require.NoError(t, err)
	assert.Empty(t, stale)

	fresh, err := cache.Remember(r.cache, key, func() ([]domain.Food, error) {
		return r.foods.FindFoodsByMealID(ctx, meal.ID)
	})
	require.NoError(t, err)
	assert.Len(t, fresh, 1, "a read that raced a write must not be served afterwards")

	foods, err := r.foods.FindFoodsByMealID(ctx, meal.ID)
	require.NoError(t, err)
	assert.Len(t, foods, 1)
}

func TestMealRepository_CallersCannotCorruptCache(t *testing.T) {
	r := newRepos(t, testDBSetup(t))
	ctx := context.Background()
	createMeal(t, r, "Almoço", 2)

	first, err := r.meals.FindAll(ctx)
	require.NoError(t, err)
	first[0].Name = "mutated"

	second, err := r.meals.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Almoço", second[0].Name)

	t.Run("pointer fields of cached foods", func(t *testing.T) {
		calories, unit := 130, "g"
		_, err := r.foods.Create(ctx, domain.Food{Name: "Arroz", Calories: &calories, Unit: &unit, MealID: first[0].ID, Date: time.Now()})
		require.NoError(t, err)

		foods, err := r.foods.FindFoodsByMealID(ctx, first[0].ID)
		require.NoError(t, err)
		require.Len(t, foods, 1)
		*foods[0].Calories = 9999
		*foods[0].Unit = "kg"

		meals, err := r.meals.FindAllWithFoods(ctx)
		require.NoError(t, err)
		require.Len(t, meals[0].Foods, 1)
		*meals[0].Foods[0].Calories = 8888

		again, err := r.foods.FindFoodsByMealID(ctx, first[0].ID)
		require.NoError(t, err)
		assert.Equal(t, 130, *again[0].Calories)
		assert.Equal(t, "g", *again[0].Unit)

		meals, err = r.meals.FindAllWithFoods(ctx)
		require.NoError(t, err)
		assert.Equal(t, 130, *meals[0].Foods[0].Calories)
	})
}

func TestMealRepository_NilCacheAlwaysReadsThrough(t *testing.T) {
	db := testDBSetup(t)
	foods := storage.NewFoodRepository(db, nil, testLoc)
	meals := storage.NewMealRepository(db, foods, nil)
	ctx := context.Background()

	_, err := meals.Create(ctx, domain.Meal{Name: "Almoço", IconName: domain.IconSun, Position: 2})
	require.NoError(t, err)
	_, err = meals.FindAll(ctx)
	require.NoError(t, err)

	_, err = db.Insert(ctx, `INSERT INTO meals (name, iconName, position) VALUES (?, ?, ?)`, "Ceia", "moon", 5)
	require.NoError(t, err)

	all, err := meals.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
