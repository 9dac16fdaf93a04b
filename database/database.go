package database

import (
	"log"
	"os"

	"chartsense-app/internal/domain/analyses"
	"chartsense-app/internal/domain/billing"
	"chartsense-app/internal/domain/profiles"
	"chartsense-app/internal/domain/usage"
	"chartsense-app/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB is nil when DB_URL is not configured. Data-layer callers must treat a
// nil handle as "no profile available", never as a crash.
var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Println("[Database] DB_URL not set, running without persistence")
		return
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Printf("[Database] Failed to connect: %v", err)
		return
	}

	DB = db

	if err := Migrate(DB); err != nil {
		log.Fatal("[Database] AutoMigrate error:", err)
	}

	log.Println("[Database] Connected and migrated successfully")
}

// Migrate is separate from InitDB so tests can run it against their own handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&profiles.Profile{},
		&billing.Subscription{},
		&usage.Log{},
		&analyses.Analysis{},
	)
}
