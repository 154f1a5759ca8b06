package main

import (
	"log"

	"security-training-be/internal/config"
	"security-training-be/internal/model"
	"security-training-be/pkg/database"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	// The vector type needs the pgvector extension before the tables exist.
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		log.Fatalf("Failed to create vector extension: %v", err)
	}

	if err := db.AutoMigrate(
		&model.KnowledgeDocument{},
		&model.TranscriptEntry{},
		&model.GenerationAttempt{},
	); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("✅ Migration complete")
}
