package config

import (
	"log"
	"os"
)

type Config struct {
	DBURL         string
	APIPort       string
	JWTSecret     string
	PublicBaseURL string
}

func Load() Config {
	cfg := Config{
		DBURL:         os.Getenv("DATABASE_URL"),
		APIPort:       getEnv("PORT", "8080"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),
	}

	// Validate required fields
	if cfg.DBURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}
	if cfg.PublicBaseURL == "" {
		log.Fatal("PUBLIC_BASE_URL environment variable is required")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
