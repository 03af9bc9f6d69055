package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/myfood/myfood-backend/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

const (
	defaultDatabaseDir  = "data"
	defaultDatabaseFile = "myfood.db"
)

// Config holds application configuration values
type Config struct {
	ServerPort    string
	JWTSecret     string
	JWTExpiration time.Duration

	DatabaseDir  string
	DatabaseFile string
	ImageDir     string

	CacheEnabled bool
	CacheTTL     time.Duration

	// FoodAPIURL is the base URL of the food-search / image-recognition backend.
	// Empty disables both collaborators.
	FoodAPIURL     string
	FoodAPITimeout time.Duration

	// Location decides where a calendar day starts and ends.
	Location *time.Location

	CORSOrigins    []string
	AuthRateLimit  int
	AuthRateWindow time.Duration
}

// LoadConfig loads configuration from environment variables.
// It uses a .env file for local development if present (ignores it for production).
func LoadConfig() (*Config, error) {
	customLog.Println("Loading configuration from environment variables...")

	loadDotEnv()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable must be set")
	}

	location := time.Local
	if tz := getEnv("TIMEZONE", "Local"); tz != "Local" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, errors.New("TIMEZONE must be a valid IANA zone name")
		}
		location = loc
	}

	cfg := &Config{
		ServerPort:     strings.TrimPrefix(getEnv("SERVER_PORT", "8080"), ":"),
		JWTSecret:      jwtSecret,
		JWTExpiration:  time.Hour * time.Duration(getPositiveInt("JWT_EXPIRATION_HOURS", 24)),
		DatabaseDir:    getEnv("DATABASE_DIRECTORY", defaultDatabaseDir),
		DatabaseFile:   getEnv("DATABASE_FILE", defaultDatabaseFile),
		ImageDir:       getEnv("IMAGE_DIRECTORY", "data/images"),
		CacheEnabled:   getBool("CACHE_ENABLED", true),
		CacheTTL:       time.Second * time.Duration(getPositiveInt("CACHE_TTL_SECONDS", 300)),
		FoodAPIURL:     strings.TrimRight(os.Getenv("FOOD_API_URL"), "/"),
		FoodAPITimeout: time.Second * time.Duration(getPositiveInt("FOOD_API_TIMEOUT_SECONDS", 20)),
		Location:       location,
		CORSOrigins:    strings.Split(getEnv("CORS_ORIGINS", "*"), ","),
		AuthRateLimit:  getPositiveInt("AUTH_RATE_LIMIT", 5),
		AuthRateWindow: time.Minute,
	}

	if cfg.FoodAPIURL == "" {
		customLog.Warnln("FOOD_API_URL is not set: food search and photo recognition are disabled")
	}

	customLog.Printf("Configuration loaded successfully. Port: %s, DB: %s/%s, Cache: %v (%v)",
		cfg.ServerPort, cfg.DatabaseDir, cfg.DatabaseFile, cfg.CacheEnabled, cfg.CacheTTL)
	return cfg, nil
}

// LoadDatabaseLocation reads only DATABASE_DIRECTORY and DATABASE_FILE, for
// tools that do not serve HTTP and so need no JWT_SECRET.
func LoadDatabaseLocation() (dir, file string) {
	loadDotEnv()
	return getEnv("DATABASE_DIRECTORY", defaultDatabaseDir), getEnv("DATABASE_FILE", defaultDatabaseFile)
}

// loadDotEnv loads .env outside production. A missing file is fine.
func loadDotEnv() {
	if os.Getenv("APP_ENV") == "production" {
		return
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		customLog.Warnf("Warning: Error loading .env file: %v", err)
	}
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getPositiveInt(key string, fallback int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		customLog.Warnf("Invalid %s '%s'. Using default %d. Error: %v", key, raw, fallback, err)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		customLog.Warnf("Invalid %s '%s'. Using default %v.", key, raw, fallback)
		return fallback
	}
	return b
}
