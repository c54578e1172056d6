package main

import (
	"log"

	"github.com/firesim/firesim-backend-go/internal/api"
	"github.com/firesim/firesim-backend-go/internal/config"
	"github.com/firesim/firesim-backend-go/internal/cronjobs"
	"github.com/firesim/firesim-backend-go/internal/database"
	"github.com/firesim/firesim-backend-go/internal/repository"
	"github.com/firesim/firesim-backend-go/internal/service"
)

func main() {
	cfg := config.Load()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	simRepo := repository.NewSimulationRepository(database.GetDB())
	simService := service.NewSimulationService(simRepo)

	purge := cronjobs.Start(simService, cfg.RetentionHours)
	defer purge.Stop()

	router := api.SetupRouter(cfg, simService)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
