package main

import (
	"log"

	"factcheck-workflow-api/config"
	"factcheck-workflow-api/services"

	"github.com/joho/godotenv"
)

// Seeds the default peer review trigger rows. Safe to rerun; existing
// trigger types are left untouched.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	triggerConfig := services.NewTriggerConfigService(config.DB)
	if err := triggerConfig.SeedDefaults(); err != nil {
		log.Fatalf("Failed to seed peer review triggers: %v", err)
	}

	log.Println("Peer review triggers seeded")
}
