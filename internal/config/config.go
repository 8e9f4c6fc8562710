package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBDSN         string
	JWTSecret     string
	LogFile       string
	AdminEmail    string
	AdminPassword string
}

func Load() Config {
	// .env only exists in local development; deployed environments set real vars.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("[config] could not load .env: %v", err)
		}
	}

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		DBDSN:         getEnv("DB_DSN", "velora.db"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
		LogFile:       getEnv("LOG_FILE", ""),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@velora.test"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "ChangeMe123!"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.LogFile)
	return cfg
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
