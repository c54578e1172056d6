// Package cronjobs schedules background maintenance for the simulation
// registry.
package cronjobs

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/firesim/firesim-backend-go/internal/service"
)

// Start schedules the hourly purge of finished simulations older than the
// retention window. Returns the scheduler so the caller can Stop it.
func Start(simService *service.SimulationService, retention time.Duration) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("@hourly", func() {
		n, err := simService.PurgeOlderThan(retention)
		if err != nil {
			log.Printf("Simulation purge failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("Purged %d finished simulations older than %s", n, retention)
		}
	})
	if err != nil {
		log.Printf("Failed to schedule purge job: %v", err)
		return c
	}

	c.Start()
	log.Printf("Scheduled hourly simulation purge (retention %s)", retention)
	return c
}
