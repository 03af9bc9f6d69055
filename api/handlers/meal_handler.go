// api/handlers/meal_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/myfood/myfood-backend/api/models"
	"github.com/myfood/myfood-backend/config"
	"github.com/myfood/myfood-backend/internal/core"
	"github.com/myfood/myfood-backend/internal/domain"
	"github.com/myfood/myfood-backend/internal/services"
)

// maxImageSize bounds uploaded meal photos.
const maxImageSize = 10 << 20

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".heic": true}

// MealHandler serves the meal routes and the foods nested under a meal.
type MealHandler struct {
	Meals *services.MealService
	Cfg   *config.Config
	now   func() time.Time
}

func NewMealHandler(svc *services.MealService, cfg *config.Config) *MealHandler {
	return &MealHandler{Meals: svc, Cfg: cfg, now: time.Now}
}

// day reads the optional ?date=YYYY-MM-DD parameter.
func (h *MealHandler) day(c *gin.Context) (time.Time, bool) {
	day, err := core.ParseDay(c.Request.URL.Query(), h.Cfg.Location, h.now())
	if err != nil {
		_ = c.Error(err)
		return time.Time{}, false
	}
	return day, true
}

// ListMeals returns every meal with the foods of the requested day.
func (h *MealHandler) ListMeals(c *gin.Context) {
	day, ok := h.day(c)
	if !ok {
		return
	}

	meals, err := h.Meals.GetMealsWithFoods(c.Request.Context(), day)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": day.Format(core.DayLayout), "meals": meals})
}

// ListAllMeals returns every meal with all of its foods.
func (h *MealHandler) ListAllMeals(c *gin.Context) {
	meals, err := h.Meals.GetAllMealsWithFoods(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

func (h *MealHandler) CreateMeal(c *gin.Context) {
	var req models.CreateMealRequest
	if !bindJSON(c, &req) {
		return
	}

	var (
		meal domain.Meal
		err  error
	)
	if req.Position == nil {
		meal, err = h.Meals.AppendMeal(c.Request.Context(), req.ToMeal())
	} else {
		meal, err = h.Meals.CreateMeal(c.Request.Context(), req.ToMeal())
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

func (h *MealHandler) UpdateMeal(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateMealRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.Meals.UpdateMeal(c.Request.Context(), id, req.ToPatch()); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Meal updated successfully"})
}

// DeleteMeal removes the meal together with its foods.
func (h *MealHandler) DeleteMeal(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.Meals.DeleteMeal(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MealHandler) AddFood(c *gin.Context) {
	mealID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.CreateFoodRequest
	if !bindJSON(c, &req) {
		return
	}

	food, err := h.Meals.AddFoodToMeal(c.Request.Context(), req.ToFood(mealID, h.now()))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, food)
}

// AddSearchResults stores the picked search results in the meal, dated ?date=.
func (h *MealHandler) AddSearchResults(c *gin.Context) {
	mealID, ok := pathID(c, "id")
	if !ok {
		return
	}
	day, ok := h.day(c)
	if !ok {
		return
	}
	var req models.SearchResultsRequest
	if !bindJSON(c, &req) {
		return
	}

	foods, err := h.Meals.AddFoodsToMeal(c.Request.Context(), mealID, req.Foods, day)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, models.FoodsResponse{Foods: foods})
}

// UploadPhoto stores the multipart "image" under the image directory and
// fills the meal with the foods recognized in it.
func (h *MealHandler) UploadPhoto(c *gin.Context) {
	mealID, ok := pathID(c, "id")
	if !ok {
		return
	}
	day, ok := h.day(c)
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		_ = c.Error(fmt.Errorf("%w: multipart field 'image' is required", core.ErrValidation))
		return
	}
	if file.Size > maxImageSize {
		_ = c.Error(fmt.Errorf("%w: image exceeds %d bytes", core.ErrValidation, maxImageSize))
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtensions[ext] {
		_ = c.Error(fmt.Errorf("%w: unsupported image type %q", core.ErrValidation, ext))
		return
	}

	if err := os.MkdirAll(h.Cfg.ImageDir, 0750); err != nil {
		customLog.Warnf("Failed to create image directory %s: %v", h.Cfg.ImageDir, err)
		_ = c.Error(err)
		return
	}
	path := filepath.Join(h.Cfg.ImageDir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(file, path); err != nil {
		customLog.Warnf("Failed to save uploaded image for meal %d: %v", mealID, err)
		_ = c.Error(err)
		return
	}

	foods, err := h.Meals.HandleImageCapture(c.Request.Context(), mealID, path, day)
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			customLog.Warnf("Failed to remove rejected image %s: %v", path, rmErr)
		}
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"image": filepath.Base(path), "foods": foods})
}
