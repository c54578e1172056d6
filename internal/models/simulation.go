package models

import (
	"time"

	"github.com/firesim/firesim-backend-go/internal/fwi"
	"github.com/firesim/firesim-backend-go/internal/spread"
)

// Simulation status values mirror the driver state machine, with "pending"
// for runs accepted but not yet started.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// SimulationRequest is the configuration envelope accepted by the API.
type SimulationRequest struct {
	IgnitionLat float64        `json:"ignition_lat" binding:"gte=-90,lte=90"`
	IgnitionLng float64        `json:"ignition_lng" binding:"gte=-180,lte=180"`
	Weather     fwi.Weather    `json:"weather" binding:"required"`
	Overrides   *fwi.Overrides `json:"fwi_overrides,omitempty"`
	FuelType    string         `json:"fuel_type" binding:"required"`

	DurationHours           float64 `json:"duration_hours" binding:"gt=0,lte=48"`
	SnapshotIntervalMinutes float64 `json:"snapshot_interval_minutes" binding:"gt=0,lte=240"`

	SlopePct  float64 `json:"slope_pct,omitempty" binding:"gte=0"`
	AspectDeg float64 `json:"aspect_deg,omitempty" binding:"gte=0,lt=360"`

	PercentConifer *float64 `json:"percent_conifer,omitempty" binding:"omitempty,gte=0,lte=100"`
	PercentDeadFir *float64 `json:"percent_dead_fir,omitempty" binding:"omitempty,gte=0,lte=100"`
	GrassCuring    *float64 `json:"grass_curing,omitempty" binding:"omitempty,gte=0,lte=100"`
	CBHOverride    *float64 `json:"cbh_override,omitempty" binding:"omitempty,gt=0"`
}

// Simulation is one simulation run with its lifecycle state.
type Simulation struct {
	ID        string            `json:"simulation_id" db:"id"`
	Status    string            `json:"status" db:"status"`
	Config    SimulationRequest `json:"config"`
	Error     string            `json:"error,omitempty" db:"error"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
}

// SimulationResponse is returned from creation and status queries.
type SimulationResponse struct {
	Simulation
	Frames []spread.Frame `json:"frames,omitempty"`
}

// SimulationFilter filters and paginates simulation listings.
type SimulationFilter struct {
	Status   string `form:"status"`
	FuelType string `form:"fuel_type"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// SimulationsResponse is a paginated listing of simulations.
type SimulationsResponse struct {
	Data       []Simulation `json:"data"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	TotalPages int          `json:"totalPages"`
}

// SimulationSummary aggregates a finished (or in-flight) run.
type SimulationSummary struct {
	SimulationID        string  `json:"simulation_id"`
	FrameCount          int     `json:"frame_count"`
	FinalAreaHa         float64 `json:"final_area_ha"`
	MeanGrowthHaH       float64 `json:"mean_growth_ha_h"`
	MaxHFIKWM           float64 `json:"max_hfi_kw_m"`
	HFIP95KWM           float64 `json:"hfi_p95_kw_m"`
	MeanSpreadDeg       float64 `json:"mean_spread_bearing_deg"`
	SpreadConcentration float64 `json:"spread_concentration"`
	FireType            string  `json:"fire_type"`
}
