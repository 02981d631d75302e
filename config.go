package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// config is read from the environment after godotenv has loaded .env.
type config struct {
	DBURL string // empty runs on in-memory stores
	Port  string

	BrandedFoodURL    string
	BrandedFoodAPIKey string
	OpenFoodURL       string
	ProviderTimeout   time.Duration

	ExerciseCatalog string // optional YAML file replacing the embedded catalog
	CORSOrigins     []string

	// DevUsername and DevPassword seed a login when running in memory.
	DevUsername string
	DevPassword string
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func loadConfig() (config, error) {
	cfg := config{
		DBURL:             getenv("DB_URL", ""),
		Port:              getenv("PORT", "3000"),
		BrandedFoodURL:    getenv("BRANDED_FOOD_URL", ""),
		BrandedFoodAPIKey: getenv("BRANDED_FOOD_API_KEY", ""),
		OpenFoodURL:       getenv("OPEN_FOOD_URL", ""),
		ExerciseCatalog:   getenv("EXERCISE_CATALOG", ""),
		DevUsername:       getenv("DEV_USERNAME", ""),
		DevPassword:       getenv("DEV_PASSWORD", ""),
	}

	ms, err := strconv.Atoi(getenv("PROVIDER_TIMEOUT_MS", "4000"))
	if err != nil || ms <= 0 {
		return config{}, fmt.Errorf("PROVIDER_TIMEOUT_MS must be a positive integer, got %q", os.Getenv("PROVIDER_TIMEOUT_MS"))
	}
	cfg.ProviderTimeout = time.Duration(ms) * time.Millisecond

	for _, o := range strings.Split(getenv("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}
	return cfg, nil
}
