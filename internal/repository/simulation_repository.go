package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/firesim/firesim-backend-go/internal/models"
	"github.com/firesim/firesim-backend-go/internal/spread"
)

// SimulationRepository handles database operations for simulation runs
type SimulationRepository struct {
	db *sql.DB
}

// NewSimulationRepository creates a new simulation repository
func NewSimulationRepository(db *sql.DB) *SimulationRepository {
	return &SimulationRepository{db: db}
}

// Create inserts a new simulation run
func (r *SimulationRepository) Create(sim models.Simulation) error {
	configJSON, err := json.Marshal(sim.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO simulations (id, status, config_json, error, created_at) VALUES (?, ?, ?, ?, ?)`,
		sim.ID, sim.Status, string(configJSON), sim.Error, sim.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert simulation: %w", err)
	}
	return nil
}

// UpdateStatus sets the status and error of a simulation
func (r *SimulationRepository) UpdateStatus(id, status, errMsg string) error {
	_, err := r.db.Exec(
		`UPDATE simulations SET status = ?, error = ? WHERE id = ?`,
		status, errMsg, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update simulation status: %w", err)
	}
	return nil
}

// Get retrieves a simulation by ID. Returns nil when not found.
func (r *SimulationRepository) Get(id string) (*models.Simulation, error) {
	row := r.db.QueryRow(
		`SELECT id, status, config_json, error, created_at FROM simulations WHERE id = ?`, id,
	)

	var sim models.Simulation
	var configJSON string
	err := row.Scan(&sim.ID, &sim.Status, &configJSON, &sim.Error, &sim.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation: %w", err)
	}
	if err := json.Unmarshal([]byte(configJSON), &sim.Config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &sim, nil
}

// List retrieves simulations with filtering and pagination
func (r *SimulationRepository) List(filter models.SimulationFilter) ([]models.Simulation, int64, error) {
	query := `SELECT id, status, config_json, error, created_at FROM simulations`

	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.FuelType != "" {
		conditions = append(conditions, "json_extract(config_json, '$.fuel_type') = ?")
		args = append(args, filter.FuelType)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM simulations"
	if len(conditions) > 0 {
		countQuery += " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count simulations: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	if filter.PageSize > 500 {
		filter.PageSize = 500
	}

	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query simulations: %w", err)
	}
	defer rows.Close()

	var sims []models.Simulation
	for rows.Next() {
		var sim models.Simulation
		var configJSON string
		if err := rows.Scan(&sim.ID, &sim.Status, &configJSON, &sim.Error, &sim.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan simulation: %w", err)
		}
		if err := json.Unmarshal([]byte(configJSON), &sim.Config); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal config: %w", err)
		}
		sims = append(sims, sim)
	}
	return sims, total, rows.Err()
}

// InsertFrame appends one frame to a simulation
func (r *SimulationRepository) InsertFrame(simID string, seq int, frame spread.Frame) error {
	frameJSON, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("failed to marshal frame: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO frames (simulation_id, seq, time_hours, frame_json) VALUES (?, ?, ?, ?)`,
		simID, seq, frame.TimeHours, string(frameJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert frame: %w", err)
	}
	return nil
}

// GetFrames returns all frames of a simulation in emission order
func (r *SimulationRepository) GetFrames(simID string) ([]spread.Frame, error) {
	rows, err := r.db.Query(
		`SELECT frame_json FROM frames WHERE simulation_id = ? ORDER BY seq`, simID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query frames: %w", err)
	}
	defer rows.Close()

	var frames []spread.Frame
	for rows.Next() {
		var frameJSON string
		if err := rows.Scan(&frameJSON); err != nil {
			return nil, fmt.Errorf("failed to scan frame: %w", err)
		}
		var f spread.Frame
		if err := json.Unmarshal([]byte(frameJSON), &f); err != nil {
			return nil, fmt.Errorf("failed to unmarshal frame: %w", err)
		}
		frames = append(frames, f)
	}
	return frames, rows.Err()
}

// DeleteOlderThan removes finished simulations created before the cutoff.
// Frames cascade.
func (r *SimulationRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(
		`DELETE FROM simulations WHERE created_at < ? AND status IN (?, ?, ?)`,
		cutoff, models.StatusCompleted, models.StatusFailed, models.StatusCancelled,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge simulations: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
