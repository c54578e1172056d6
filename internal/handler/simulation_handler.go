package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/firesim/firesim-backend-go/internal/export"
	"github.com/firesim/firesim-backend-go/internal/models"
	"github.com/firesim/firesim-backend-go/internal/service"
	"github.com/firesim/firesim-backend-go/internal/spread"
	"github.com/firesim/firesim-backend-go/pkg/response"
)

// SimulationHandler handles HTTP requests for simulation runs
type SimulationHandler struct {
	simService *service.SimulationService
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(simService *service.SimulationService) *SimulationHandler {
	return &SimulationHandler{
		simService: simService,
	}
}

// CreateSimulation handles POST /api/v1/simulations
func (h *SimulationHandler) CreateSimulation(c *gin.Context) {
	var req models.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sim, err := h.simService.Create(req)
	if err != nil {
		if errors.Is(err, spread.ErrInvalidConfig) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, sim)
}

// ListSimulations handles GET /api/v1/simulations
func (h *SimulationHandler) ListSimulations(c *gin.Context) {
	var filter models.SimulationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.simService.List(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}

// GetSimulation handles GET /api/v1/simulations/:id
func (h *SimulationHandler) GetSimulation(c *gin.Context) {
	id := c.Param("id")

	sim, err := h.simService.Get(id)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if sim == nil {
		response.NotFound(c, "Simulation not found")
		return
	}

	response.Success(c, sim)
}

// GetFrames handles GET /api/v1/simulations/:id/frames
func (h *SimulationHandler) GetFrames(c *gin.Context) {
	id := c.Param("id")

	sim, err := h.simService.Get(id)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if sim == nil {
		response.NotFound(c, "Simulation not found")
		return
	}

	response.Success(c, gin.H{
		"data":  sim.Frames,
		"count": len(sim.Frames),
	})
}

// StreamSimulation handles GET /api/v1/simulations/:id/stream with
// server-sent events: already-emitted frames are replayed, then live
// frames follow until the run finishes or the client disconnects.
func (h *SimulationHandler) StreamSimulation(c *gin.Context) {
	id := c.Param("id")

	replay, live, unsubscribe, err := h.simService.Subscribe(id)
	if err != nil {
		response.NotFound(c, "Simulation not found")
		return
	}
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	for _, frame := range replay {
		c.SSEvent("frame", frame)
	}
	c.Writer.Flush()

	if live == nil {
		c.SSEvent("done", gin.H{"simulation_id": id})
		c.Writer.Flush()
		return
	}

	clientGone := c.Request.Context().Done()
	for {
		select {
		case frame, ok := <-live:
			if !ok {
				c.SSEvent("done", gin.H{"simulation_id": id})
				c.Writer.Flush()
				return
			}
			c.SSEvent("frame", frame)
			c.Writer.Flush()
		case <-clientGone:
			return
		}
	}
}

// GetSummary handles GET /api/v1/simulations/:id/summary
func (h *SimulationHandler) GetSummary(c *gin.Context) {
	id := c.Param("id")

	summary, err := h.simService.Summary(id)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if summary == nil {
		response.NotFound(c, "Simulation not found")
		return
	}

	response.Success(c, summary)
}

// ExportSimulation handles GET /api/v1/simulations/:id/export, returning
// the run's perimeters as a zipped ESRI shapefile.
func (h *SimulationHandler) ExportSimulation(c *gin.Context) {
	id := c.Param("id")

	sim, err := h.simService.Get(id)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if sim == nil {
		response.NotFound(c, "Simulation not found")
		return
	}
	if len(sim.Frames) == 0 {
		response.Conflict(c, "Simulation has no frames yet")
		return
	}

	name := "perimeters_" + id
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".zip"))
	if err := export.WritePerimetersZip(c.Writer, name, sim.Frames); err != nil {
		response.InternalError(c, err.Error())
		return
	}
}

// CancelSimulation handles DELETE /api/v1/simulations/:id
func (h *SimulationHandler) CancelSimulation(c *gin.Context) {
	id := c.Param("id")

	if err := h.simService.Cancel(id); err != nil {
		response.Conflict(c, err.Error())
		return
	}

	response.Success(c, gin.H{"simulation_id": id, "status": models.StatusCancelled})
}
