package spread

import (
	"errors"
	"fmt"
	"math"

	"github.com/firesim/firesim-backend-go/internal/fbp"
	"github.com/firesim/firesim-backend-go/internal/fuel"
	"github.com/firesim/firesim-backend-go/internal/fwi"
	"github.com/firesim/firesim-backend-go/internal/spatial"
)

// Simulation errors.
var (
	ErrInvalidConfig = errors.New("invalid simulation config")
	ErrNumeric       = errors.New("numeric error in fire front")
)

// Status is the driver state machine.
type Status string

// Driver states.
const (
	StatusInitializing Status = "initializing"
	StatusRunning      Status = "running"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
)

// Config describes one fire spread simulation.
type Config struct {
	IgnitionLat float64       `json:"ignition_lat"`
	IgnitionLng float64       `json:"ignition_lng"`
	Weather     fwi.Weather   `json:"weather"`
	Overrides   fwi.Overrides `json:"fwi_overrides"`
	Fuel        fuel.Code     `json:"fuel_type"`

	DurationHours           float64 `json:"duration_hours"`
	SnapshotIntervalMinutes float64 `json:"snapshot_interval_minutes"`

	SlopePercent float64 `json:"slope_pct"`
	AspectDeg    float64 `json:"aspect_deg"`

	PercentConifer *float64 `json:"percent_conifer,omitempty"`
	PercentDeadFir *float64 `json:"percent_dead_fir,omitempty"`
	GrassCuring    *float64 `json:"grass_curing,omitempty"`
	CrownBaseHt    *float64 `json:"cbh_override,omitempty"`
}

// Validate checks the configuration envelope.
func (c Config) Validate() error {
	if _, err := fuel.Lookup(c.Fuel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.IgnitionLat < -90 || c.IgnitionLat > 90 {
		return fmt.Errorf("%w: ignition_lat %.4f outside [-90,90]", ErrInvalidConfig, c.IgnitionLat)
	}
	if c.IgnitionLng < -180 || c.IgnitionLng > 180 {
		return fmt.Errorf("%w: ignition_lng %.4f outside [-180,180]", ErrInvalidConfig, c.IgnitionLng)
	}
	if c.DurationHours <= 0 {
		return fmt.Errorf("%w: duration_hours must be positive", ErrInvalidConfig)
	}
	if c.SnapshotIntervalMinutes <= 0 {
		return fmt.Errorf("%w: snapshot_interval_minutes must be positive", ErrInvalidConfig)
	}
	if c.SnapshotIntervalMinutes > c.DurationHours*60 {
		return fmt.Errorf("%w: snapshot interval exceeds duration", ErrInvalidConfig)
	}
	if c.SlopePercent < 0 {
		return fmt.Errorf("%w: slope_pct must be non-negative", ErrInvalidConfig)
	}
	if err := c.Weather.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Frame is one time-stamped snapshot of the fire.
type Frame struct {
	TimeHours     float64            `json:"time_hours"`
	Perimeter     [][2]float64       `json:"perimeter"` // closed [lat,lng] ring
	AreaHa        float64            `json:"area_ha"`
	HeadROSMMin   float64            `json:"head_ros_m_min"`
	MaxHFIKWM     float64            `json:"max_hfi_kw_m"`
	FireType      fbp.FireType       `json:"fire_type"`
	FlameLengthM  float64            `json:"flame_length_m"`
	FuelBreakdown map[string]float64 `json:"fuel_breakdown"`
}

// minStepMinutes is the 1-second floor on the adaptive timestep.
const minStepMinutes = 1.0 / 60.0

// ignitionVertices is the seed polygon size.
const ignitionVertices = 16

// Simulator advances a fire front with Huygens wavelet expansion and emits
// frames lazily. Usage follows the scanner idiom:
//
//	sim, err := spread.NewSimulator(cfg)
//	for sim.Next() {
//	    frame := sim.Frame()
//	    ...
//	}
//	if err := sim.Err(); err != nil { ... }
//
// The sequence is finite and not restartable. A caller cancels simply by
// not calling Next again; the simulator holds no resources beyond its ring
// buffer and performs no finalization.
type Simulator struct {
	cfg    Config
	proj   spatial.Projection
	fwi    fwi.State
	fbp    fbp.Result
	status Status
	err    error

	ring         Ring
	degenerate   bool
	timeMinutes  float64
	endMinutes   float64
	nextSnapshot float64
	spreadDir    float64 // downwind azimuth, degrees
	maxHeadROS   float64 // slope-boosted head rate for frame metrics

	frame   Frame
	emitted bool // t=0 frame emitted
}

// NewSimulator validates the config and prepares a simulation. The FWI and
// FBP stacks run once up front: weather is held constant over the run.
func NewSimulator(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	state, err := fwi.Calculate(cfg.Weather, cfg.Overrides)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	result, err := fbp.Calculate(fbp.Inputs{
		Fuel:           cfg.Fuel,
		ISI:            state.ISI,
		BUI:            state.BUI,
		FFMC:           state.FFMC,
		WindSpeed:      cfg.Weather.WindSpeed,
		PercentConifer: cfg.PercentConifer,
		PercentDeadFir: cfg.PercentDeadFir,
		GrassCuring:    cfg.GrassCuring,
		CrownBaseHt:    cfg.CrownBaseHt,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	s := &Simulator{
		cfg:          cfg,
		proj:         spatial.NewProjection(cfg.IgnitionLat, cfg.IgnitionLng),
		fwi:          state,
		fbp:          result,
		status:       StatusInitializing,
		endMinutes:   cfg.DurationHours * 60,
		nextSnapshot: cfg.SnapshotIntervalMinutes,
		spreadDir:    math.Mod(cfg.Weather.WindDirection+180, 360),
		maxHeadROS:   result.HeadROS * MaxSlopeFactor(cfg.SlopePercent),
	}
	return s, nil
}

// FWIState returns the resolved FWI components for the run.
func (s *Simulator) FWIState() fwi.State { return s.fwi }

// FBPResult returns the fire behavior output driving the run.
func (s *Simulator) FBPResult() fbp.Result { return s.fbp }

// Status returns the driver state.
func (s *Simulator) Status() Status { return s.status }

// Err returns the terminal error, if the simulation failed.
func (s *Simulator) Err() error { return s.err }

// Frame returns the frame produced by the last successful Next call.
func (s *Simulator) Frame() Frame { return s.frame }

// Next advances the simulation to the next snapshot boundary. It returns
// true when a new frame is available, false at the end of the sequence or
// on failure (inspect Err).
func (s *Simulator) Next() bool {
	switch s.status {
	case StatusCompleted, StatusFailed:
		return false
	}

	if !s.emitted {
		// Seed the ignition polygon and emit the t=0 frame.
		r0 := math.Max(1.0, s.fbp.HeadROS*s.stepMinutes())
		s.ring = IgnitionRing(r0, ignitionVertices)
		s.status = StatusRunning
		s.emitted = true
		s.frame = s.makeFrame()
		return true
	}

	if s.timeMinutes >= s.endMinutes {
		s.status = StatusCompleted
		return false
	}

	// Integrate forward until the next snapshot boundary.
	for s.timeMinutes < s.nextSnapshot && s.timeMinutes < s.endMinutes {
		dt := s.stepMinutes()
		if rem := s.nextSnapshot - s.timeMinutes; dt > rem {
			dt = rem
		}
		if rem := s.endMinutes - s.timeMinutes; dt > rem {
			dt = rem
		}
		if err := s.step(dt); err != nil {
			s.err = err
			s.status = StatusFailed
			return false
		}
		s.timeMinutes += dt
	}

	s.frame = s.makeFrame()
	if s.nextSnapshot <= s.timeMinutes {
		s.nextSnapshot += s.cfg.SnapshotIntervalMinutes
	}
	if s.timeMinutes >= s.endMinutes {
		s.status = StatusCompleted
	}
	return true
}

// stepMinutes picks the adaptive timestep: the fastest vertex may move at
// most half the maximum vertex spacing, clamped to [1 s, snapshot interval].
func (s *Simulator) stepMinutes() float64 {
	dt := s.cfg.SnapshotIntervalMinutes
	if s.maxHeadROS > 1e-9 {
		dt = (MaxVertexSpacing / 2) / s.maxHeadROS
	}
	dt = math.Min(dt, s.cfg.SnapshotIntervalMinutes)
	return math.Max(dt, minStepMinutes)
}

// step advances every vertex by its slope-adjusted elliptical wavelet, then
// restores ring invariants (spacing, simplicity, winding).
func (s *Simulator) step(dtMin float64) error {
	if s.degenerate || len(s.ring.V) < 3 {
		// Collapsed front: hold state and keep emitting zero-area frames.
		s.degenerate = true
		return nil
	}

	normals := s.ring.Normals()
	for i := range s.ring.V {
		sf := DirectionalSlopeFactor(s.cfg.SlopePercent, s.cfg.AspectDeg, normals[i])
		w := NewWavelet(
			s.fbp.HeadROS*sf,
			s.fbp.BackROS*sf,
			s.fbp.FlankROS*sf,
			dtMin,
			s.spreadDir,
		)
		dx, dy := w.Displace(normals[i])
		s.ring.V[i].X += dx
		s.ring.V[i].Y += dy

		if math.IsNaN(s.ring.V[i].X) || math.IsNaN(s.ring.V[i].Y) ||
			math.IsInf(s.ring.V[i].X, 0) || math.IsInf(s.ring.V[i].Y, 0) {
			return fmt.Errorf("%w: vertex %d at t=%.2f min", ErrNumeric, i, s.timeMinutes)
		}
	}

	s.ring.Resample(MinVertexSpacing, MaxVertexSpacing)
	s.ring.RemoveSelfIntersections()
	if len(s.ring.V) < 3 {
		s.degenerate = true
		return nil
	}
	s.ring.EnsureCCW()
	return nil
}

// makeFrame snapshots the current front.
func (s *Simulator) makeFrame() Frame {
	hfi := 300.0 * s.fbp.TFC * s.maxHeadROS

	f := Frame{
		TimeHours:     s.timeMinutes / 60,
		HeadROSMMin:   s.maxHeadROS,
		MaxHFIKWM:     hfi,
		FireType:      s.fbp.FireType,
		FlameLengthM:  fbp.FlameLength(hfi),
		FuelBreakdown: map[string]float64{string(s.cfg.Fuel): 1.0},
	}

	if s.degenerate || len(s.ring.V) < 3 {
		f.Perimeter = [][2]float64{}
		return f
	}

	f.AreaHa = s.ring.AreaHa()
	f.Perimeter = make([][2]float64, 0, len(s.ring.V)+1)
	for _, v := range s.ring.V {
		lat, lng := s.proj.ToLatLng(v.X, v.Y)
		f.Perimeter = append(f.Perimeter, [2]float64{lat, lng})
	}
	f.Perimeter = append(f.Perimeter, f.Perimeter[0])
	return f
}
