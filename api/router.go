// api/router.go
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/myfood/myfood-backend/api/handlers"
	"github.com/myfood/myfood-backend/api/middleware"
	"github.com/myfood/myfood-backend/config"
	"github.com/myfood/myfood-backend/internal/services"
	"github.com/myfood/myfood-backend/internal/storage"
)

// SetupRouter initializes the Gin router and sets up all routes.
func SetupRouter(cfg *config.Config, db *storage.DB, meals *services.MealService, authSvc *services.AuthService) *gin.Engine {
	router := gin.Default() // Includes Logger and Recovery

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	corsCfg.MaxAge = 12 * time.Hour
	if len(cfg.CORSOrigins) == 0 || (len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	}
	router.Use(cors.New(corsCfg))

	// Must wrap every handler so it sees the errors they attach.
	router.Use(middleware.ErrorHandler())

	authHandler := handlers.NewAuthHandler(authSvc, cfg)
	mealHandler := handlers.NewMealHandler(meals, cfg)
	systemHandler := handlers.NewSystemHandler(db)

	// --- Public Routes ---
	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })

	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
	authRoutes := router.Group("/auth")
	authRoutes.Use(middleware.RateLimitMiddleware(limiter))
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	// --- Protected Routes ---
	apiRoutes := router.Group("/api/v1")
	apiRoutes.Use(middleware.AuthMiddleware(cfg))
	{
		apiRoutes.POST("/auth/logout", authHandler.Logout)
		apiRoutes.GET("/me", authHandler.Me)
		apiRoutes.GET("/status", systemHandler.Status)
		apiRoutes.PATCH("/users/:id", authHandler.UpdateUser)

		apiRoutes.GET("/meals", mealHandler.ListMeals)
		apiRoutes.GET("/meals/all", mealHandler.ListAllMeals)
		apiRoutes.POST("/meals", mealHandler.CreateMeal)
		apiRoutes.PATCH("/meals/:id", mealHandler.UpdateMeal)
		apiRoutes.DELETE("/meals/:id", mealHandler.DeleteMeal)
		apiRoutes.POST("/meals/:id/foods", mealHandler.AddFood)
		apiRoutes.POST("/meals/:id/foods/search-results", mealHandler.AddSearchResults)
		apiRoutes.POST("/meals/:id/photo", mealHandler.UploadPhoto)

		apiRoutes.GET("/foods", mealHandler.ListFoods)
		apiRoutes.GET("/foods/search", mealHandler.SearchFoods)
		apiRoutes.PATCH("/foods/:id", mealHandler.UpdateFood)
		apiRoutes.DELETE("/foods/:id", mealHandler.DeleteFood)
	}

	return router
}
