package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/firesim/firesim-backend-go/internal/fuel"
	"github.com/firesim/firesim-backend-go/internal/fwi"
	"github.com/firesim/firesim-backend-go/internal/models"
	"github.com/firesim/firesim-backend-go/internal/repository"
	"github.com/firesim/firesim-backend-go/internal/spatial"
	"github.com/firesim/firesim-backend-go/internal/spread"
	"github.com/firesim/firesim-backend-go/internal/stats"
)

// run tracks one live or finished simulation in the registry.
type run struct {
	mu     sync.Mutex
	sim    models.Simulation
	frames []spread.Frame
	subs   map[chan spread.Frame]struct{}
	cancel context.CancelFunc
	done   bool
}

// SimulationService owns the simulation registry: it validates requests,
// drives each run's lazy frame sequence on its own goroutine, fans frames
// out to stream subscribers, and persists runs through the repository.
type SimulationService struct {
	repo *repository.SimulationRepository

	mu   sync.RWMutex
	runs map[string]*run
}

// NewSimulationService creates a new simulation service
func NewSimulationService(repo *repository.SimulationRepository) *SimulationService {
	return &SimulationService{
		repo: repo,
		runs: make(map[string]*run),
	}
}

// buildConfig converts an API request to a driver config.
func buildConfig(req models.SimulationRequest) (spread.Config, error) {
	code, err := fuel.Parse(req.FuelType)
	if err != nil {
		return spread.Config{}, fmt.Errorf("%w: %v", spread.ErrInvalidConfig, err)
	}

	var overrides fwi.Overrides
	if req.Overrides != nil {
		overrides = *req.Overrides
	}

	return spread.Config{
		IgnitionLat:             req.IgnitionLat,
		IgnitionLng:             req.IgnitionLng,
		Weather:                 req.Weather,
		Overrides:               overrides,
		Fuel:                    code,
		DurationHours:           req.DurationHours,
		SnapshotIntervalMinutes: req.SnapshotIntervalMinutes,
		SlopePercent:            req.SlopePct,
		AspectDeg:               req.AspectDeg,
		PercentConifer:          req.PercentConifer,
		PercentDeadFir:          req.PercentDeadFir,
		GrassCuring:             req.GrassCuring,
		CrownBaseHt:             req.CBHOverride,
	}, nil
}

// Create validates the request, registers the run, and starts it.
func (s *SimulationService) Create(req models.SimulationRequest) (*models.Simulation, error) {
	cfg, err := buildConfig(req)
	if err != nil {
		return nil, err
	}

	// Validates the full envelope and resolves the FWI/FBP stacks.
	sim, err := spread.NewSimulator(cfg)
	if err != nil {
		return nil, err
	}

	record := models.Simulation{
		ID:        uuid.NewString(),
		Status:    models.StatusRunning,
		Config:    req,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(record); err != nil {
		return nil, fmt.Errorf("failed to persist simulation: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &run{
		sim:    record,
		subs:   make(map[chan spread.Frame]struct{}),
		cancel: cancel,
	}

	s.mu.Lock()
	s.runs[record.ID] = r
	s.mu.Unlock()

	go s.runLoop(ctx, r, sim)

	return &record, nil
}

// runLoop pulls the lazy frame sequence until it ends or the run is
// cancelled. Dropping out of the loop releases every intermediate buffer;
// the simulator needs no finalization.
func (s *SimulationService) runLoop(ctx context.Context, r *run, sim *spread.Simulator) {
	seq := 0
	for sim.Next() {
		if ctx.Err() != nil {
			s.finish(r, models.StatusCancelled, "")
			return
		}

		frame := sim.Frame()
		r.mu.Lock()
		r.frames = append(r.frames, frame)
		for ch := range r.subs {
			select {
			case ch <- frame:
			default:
				// Slow subscriber: skip rather than stall the run.
			}
		}
		r.mu.Unlock()

		if err := s.repo.InsertFrame(r.sim.ID, seq, frame); err != nil {
			log.Printf("simulation %s: frame persist failed: %v", r.sim.ID, err)
		}
		seq++
	}

	if err := sim.Err(); err != nil {
		log.Printf("simulation %s failed: %v", r.sim.ID, err)
		s.finish(r, models.StatusFailed, err.Error())
		return
	}
	s.finish(r, models.StatusCompleted, "")
}

// finish closes out a run: status update, subscriber shutdown, persistence.
func (s *SimulationService) finish(r *run, status, errMsg string) {
	r.mu.Lock()
	r.sim.Status = status
	r.sim.Error = errMsg
	r.done = true
	for ch := range r.subs {
		close(ch)
	}
	r.subs = make(map[chan spread.Frame]struct{})
	r.mu.Unlock()

	if err := s.repo.UpdateStatus(r.sim.ID, status, errMsg); err != nil {
		log.Printf("simulation %s: status persist failed: %v", r.sim.ID, err)
	}
}

// Get returns a simulation with its frames, preferring the live registry
// and falling back to the database for runs from earlier processes.
func (s *SimulationService) Get(id string) (*models.SimulationResponse, error) {
	s.mu.RLock()
	r, ok := s.runs[id]
	s.mu.RUnlock()

	if ok {
		r.mu.Lock()
		defer r.mu.Unlock()
		resp := &models.SimulationResponse{Simulation: r.sim}
		resp.Frames = append(resp.Frames, r.frames...)
		return resp, nil
	}

	sim, err := s.repo.Get(id)
	if err != nil {
		return nil, err
	}
	if sim == nil {
		return nil, nil
	}
	frames, err := s.repo.GetFrames(id)
	if err != nil {
		return nil, err
	}
	return &models.SimulationResponse{Simulation: *sim, Frames: frames}, nil
}

// List returns simulations matching the filter.
func (s *SimulationService) List(filter models.SimulationFilter) (*models.SimulationsResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}

	sims, total, err := s.repo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list simulations: %w", err)
	}

	totalPages := int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))
	return &models.SimulationsResponse{
		Data:       sims,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// Subscribe attaches a live frame stream to a run. It returns the frames
// emitted so far (for replay), the live channel (closed when the run
// finishes), and an unsubscribe function. The channel is nil when the run
// has already finished.
func (s *SimulationService) Subscribe(id string) ([]spread.Frame, <-chan spread.Frame, func(), error) {
	s.mu.RLock()
	r, ok := s.runs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, nil, fmt.Errorf("simulation not found")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	replay := append([]spread.Frame(nil), r.frames...)
	if r.done {
		return replay, nil, func() {}, nil
	}

	ch := make(chan spread.Frame, 16)
	r.subs[ch] = struct{}{}
	unsubscribe := func() {
		r.mu.Lock()
		if _, live := r.subs[ch]; live {
			delete(r.subs, ch)
			close(ch)
		}
		r.mu.Unlock()
	}
	return replay, ch, unsubscribe, nil
}

// Cancel stops a running simulation.
func (s *SimulationService) Cancel(id string) error {
	s.mu.RLock()
	r, ok := s.runs[id]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("simulation not found")
	}

	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done {
		return fmt.Errorf("simulation already finished")
	}

	r.cancel()
	return nil
}

// Summary aggregates a run's frames: final area, growth rate, intensity
// percentiles, and the distance-weighted mean spread bearing of the final
// perimeter around the ignition point.
func (s *SimulationService) Summary(id string) (*models.SimulationSummary, error) {
	resp, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, nil
	}

	summary := &models.SimulationSummary{
		SimulationID: id,
		FrameCount:   len(resp.Frames),
	}
	if len(resp.Frames) == 0 {
		return summary, nil
	}

	last := resp.Frames[len(resp.Frames)-1]
	summary.FinalAreaHa = last.AreaHa
	summary.FireType = string(last.FireType)
	if last.TimeHours > 0 {
		summary.MeanGrowthHaH = last.AreaHa / last.TimeHours
	}

	hfis := make([]float64, 0, len(resp.Frames))
	for _, f := range resp.Frames {
		hfis = append(hfis, f.MaxHFIKWM)
	}
	summary.MaxHFIKWM = stats.Max(hfis)
	summary.HFIP95KWM = stats.Percentile(hfis, 95)

	if len(last.Perimeter) > 1 {
		ring := last.Perimeter[:len(last.Perimeter)-1]
		bearings := make([]float64, 0, len(ring))
		weights := make([]float64, 0, len(ring))
		for _, p := range ring {
			bearings = append(bearings, spatial.Bearing(
				resp.Config.IgnitionLat, resp.Config.IgnitionLng, p[0], p[1]))
			weights = append(weights, spatial.HaversineDistance(
				resp.Config.IgnitionLat, resp.Config.IgnitionLng, p[0], p[1]))
		}
		summary.MeanSpreadDeg = spatial.CircularMeanDegrees(bearings, weights)

		radians := make([]float64, len(bearings))
		for i, b := range bearings {
			radians[i] = b * math.Pi / 180
		}
		summary.SpreadConcentration = spatial.MeanResultantLength(radians, weights)
	}

	return summary, nil
}

// PurgeOlderThan drops finished runs older than the retention window from
// both the registry and the database. Returns the number of purged rows.
func (s *SimulationService) PurgeOlderThan(retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)

	s.mu.Lock()
	for id, r := range s.runs {
		r.mu.Lock()
		expired := r.done && r.sim.CreatedAt.Before(cutoff)
		r.mu.Unlock()
		if expired {
			delete(s.runs, id)
		}
	}
	s.mu.Unlock()

	return s.repo.DeleteOlderThan(cutoff)
}
