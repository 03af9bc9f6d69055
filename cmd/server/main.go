// cmd/server/main.go
package main

import (
	"context"
	"fmt"

	"github.com/myfood/myfood-backend/api"
	"github.com/myfood/myfood-backend/config"
	"github.com/myfood/myfood-backend/internal/auth"
	"github.com/myfood/myfood-backend/internal/cache"
	"github.com/myfood/myfood-backend/internal/domain"
	"github.com/myfood/myfood-backend/internal/logger"
	"github.com/myfood/myfood-backend/internal/migrate"
	"github.com/myfood/myfood-backend/internal/nutrition"
	"github.com/myfood/myfood-backend/internal/services"
	"github.com/myfood/myfood-backend/internal/storage"
)

var (
	customLog = logger.NewLogger()
)

func main() {
	customLog.Println("Starting MyFood backend server...")
	ctx := context.Background()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		customLog.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Open the database and bring the schema up to date
	db, err := storage.Open(cfg.DatabaseDir, cfg.DatabaseFile)
	if err != nil {
		customLog.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		customLog.Println("Closing database connection...")
		if err := db.Close(); err != nil {
			customLog.Printf("Error closing database: %v", err)
		}
	}()

	if err := db.InitializeDatabase(ctx, migrate.NewRunner(db, migrate.All())); err != nil {
		// A partially migrated schema is unsafe to serve.
		customLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 3. Wire repositories and services
	var readCache *cache.TTLCache
	if cfg.CacheEnabled {
		readCache = cache.New(cfg.CacheTTL)
	}
	foods := storage.NewFoodRepository(db, readCache, cfg.Location)
	meals := storage.NewMealRepository(db, foods, readCache)
	users := storage.NewUserRepository(db)

	backend := nutrition.NewClient(cfg.FoodAPIURL, cfg.FoodAPITimeout)

	mealService := services.NewMealService(meals, foods, backend, backend)
	authService := services.NewAuthService(users, auth.NewSession())

	if _, err := mealService.InitializeDefaultMeals(ctx, domain.DefaultMeals()); err != nil {
		customLog.Fatalf("Failed to seed default meals: %v", err)
	}

	// 4. Setup Router (passing dependencies)
	router := api.SetupRouter(cfg, db, mealService, authService)

	// 5. Start Server
	customLog.Printf("Server listening on port %s", cfg.ServerPort)
	if err := router.Run(fmt.Sprintf(":%s", cfg.ServerPort)); err != nil {
		customLog.Fatalf("Failed to start server: %v", err)
	}
}
