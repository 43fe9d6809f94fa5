package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/researchdesk/researchdesk/db"
	"github.com/researchdesk/researchdesk/internal/auth"
	"github.com/researchdesk/researchdesk/internal/config"
	"github.com/researchdesk/researchdesk/internal/handlers"
	"github.com/researchdesk/researchdesk/internal/mailer"
	"github.com/researchdesk/researchdesk/internal/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg, err := config.NewConfig()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := auth.SetJWTSecret(cfg.JWTSecret); err != nil {
		log.Fatalf("Failed to configure auth: %v", err)
	}

	if err := db.ConnectDatabase(cfg.DatabaseDSN); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	mailer.Init(cfg)
	handlers.Domain = cfg.Domain

	r := router.NewRouter()

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
