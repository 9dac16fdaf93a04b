package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	PORT       string
	DB_URL     string
	JWT_SECRET string

	STRIPE_SECRET_KEY     string
	STRIPE_WEBHOOK_SECRET string
	STRIPE_PRICE_WEEKLY   string
	STRIPE_PRICE_YEARLY   string

	OPENAI_API_KEY string
	S3_BUCKET      string

	GOOGLE_CLIENT_ID         string
	GOOGLE_CLIENT_SECRET     string
	GOOGLE_REDIRECT_URL      string
	GOOGLE_FRONTEND_REDIRECT string

	APP_URL string

	// Policy values, overridable per deployment.
	FREE_ANALYSIS_LIMIT int
	SESSION_TTL_DAYS    int
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = os.Getenv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")

	STRIPE_SECRET_KEY = os.Getenv("STRIPE_SECRET_KEY")
	STRIPE_WEBHOOK_SECRET = os.Getenv("STRIPE_WEBHOOK_SECRET")
	STRIPE_PRICE_WEEKLY = getEnv("STRIPE_PRICE_WEEKLY", "price_weekly")
	STRIPE_PRICE_YEARLY = getEnv("STRIPE_PRICE_YEARLY", "price_yearly")

	OPENAI_API_KEY = os.Getenv("OPENAI_API_KEY")
	S3_BUCKET = os.Getenv("S3_BUCKET")

	GOOGLE_CLIENT_ID = os.Getenv("GOOGLE_CLIENT_ID")
	GOOGLE_CLIENT_SECRET = os.Getenv("GOOGLE_CLIENT_SECRET")
	GOOGLE_REDIRECT_URL = os.Getenv("GOOGLE_REDIRECT_URL")
	GOOGLE_FRONTEND_REDIRECT = getEnv("GOOGLE_FRONTEND_REDIRECT", "")

	APP_URL = getEnv("APP_URL", "http://localhost:3000")

	FREE_ANALYSIS_LIMIT = getEnvInt("FREE_ANALYSIS_LIMIT", 3)
	SESSION_TTL_DAYS = getEnvInt("SESSION_TTL_DAYS", 365)
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, exists := os.LookupEnv(key)
	if !exists || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Printf("Invalid value for %s: %q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}
