// api/handlers/food_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myfood/myfood-backend/api/models"
	"github.com/myfood/myfood-backend/internal/core"
)

// The food routes share MealHandler's dependencies.

// ListFoods returns the foods eaten on ?date= (default today).
func (h *MealHandler) ListFoods(c *gin.Context) {
	day, ok := h.day(c)
	if !ok {
		return
	}

	foods, err := h.Meals.GetFoodsByDate(c.Request.Context(), day)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.FoodsResponse{Foods: foods})
}

func (h *MealHandler) UpdateFood(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateFoodRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.Meals.UpdateFood(c.Request.Context(), id, req.ToPatch()); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Food updated successfully"})
}

func (h *MealHandler) DeleteFood(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.Meals.RemoveFoodFromMeal(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SearchFoods proxies ?q=&page= to the search backend. Failures yield an empty list.
func (h *MealHandler) SearchFoods(c *gin.Context) {
	opts, err := core.ParseSearchOptions(c.Request.URL.Query())
	if err != nil {
		_ = c.Error(err)
		return
	}

	results := h.Meals.SearchFoods(c.Request.Context(), *opts)
	c.JSON(http.StatusOK, gin.H{"foods": results, "page": opts.Page})
}
