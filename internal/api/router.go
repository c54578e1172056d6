package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/firesim/firesim-backend-go/internal/config"
	"github.com/firesim/firesim-backend-go/internal/handler"
	"github.com/firesim/firesim-backend-go/internal/middleware"
	"github.com/firesim/firesim-backend-go/internal/service"
)

// SetupRouter wires middleware and routes
func SetupRouter(cfg *config.Config, simService *service.SimulationService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Fire Simulation API is running",
		})
	})

	simHandler := handler.NewSimulationHandler(simService)
	calcHandler := handler.NewCalculatorHandler()

	api := r.Group("/api/v1")
	{
		sims := api.Group("/simulations")
		{
			sims.POST("", middleware.RateLimit(cfg.CreateRateLimit, time.Minute), simHandler.CreateSimulation)
			sims.GET("", simHandler.ListSimulations)
			sims.GET("/:id", simHandler.GetSimulation)
			sims.GET("/:id/frames", simHandler.GetFrames)
			sims.GET("/:id/stream", simHandler.StreamSimulation)
			sims.GET("/:id/summary", simHandler.GetSummary)
			sims.GET("/:id/export", simHandler.ExportSimulation)
			sims.DELETE("/:id", simHandler.CancelSimulation)
		}

		calc := api.Group("/calc")
		{
			calc.POST("/fwi", calcHandler.CalculateFWI)
			calc.POST("/fbp", calcHandler.CalculateFBP)
		}

		api.GET("/fuels", calcHandler.ListFuels)
	}

	return r
}
