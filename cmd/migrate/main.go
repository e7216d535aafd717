package main

import (
	"log"

	"github.com/casevault/backend/internal/config"
	"github.com/casevault/backend/internal/database"
)

// Applies pending schema migrations and exits. The server runs the
// same migrations at startup; this binary exists for operators who
// want to migrate ahead of a deploy.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := database.Migrate(cfg.GetDBConnString()); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations applied")
}
