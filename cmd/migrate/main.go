// Command migrate applies the table schema to the configured Postgres
// database. It requires DB_CONNECTION_STRING; the hosted-REST deployment
// manages its schema through the provider's own migrations instead.
package main

import (
	"log"

	"github.com/mahdyhasan/augmind/internal/config"
	"github.com/mahdyhasan/augmind/internal/entity"
	"github.com/mahdyhasan/augmind/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Backend.DatabaseDSN == "" {
		log.Fatal("DB_CONNECTION_STRING is required for migrations")
	}

	db, err := database.NewGormDBFromDSN(cfg.Backend.DatabaseDSN)
	if err != nil {
		log.Fatalf("Unable to connect to Postgres: %v", err)
	}

	err = db.AutoMigrate(
		&entity.UserProfile{},
		&entity.Conversation{},
		&entity.Message{},
		&entity.Document{},
		&entity.PresetQuestion{},
		&entity.ClientProspect{},
		&entity.ProspectAnalysis{},
		&entity.SystemSetting{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("✅ Migration completed")
}
