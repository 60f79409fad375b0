package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/desertthunder/cloudup/internal/models"
	"github.com/desertthunder/cloudup/internal/shared"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// RunRepository implements models.Repository[*models.Run].
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

const runColumns = "id, sequence, source, path, total, processed, failed, started_at, finished_at"

// Create inserts a new run with a generated ID and sequence
func (r *RunRepository) Create(run *models.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	run.ID = shared.GenerateID()
	run.Sequence = sequence

	query := `
		INSERT INTO runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		run.ID,
		run.Sequence,
		run.Source,
		run.Path,
		run.Total,
		run.Processed,
		run.Failed,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID
func (r *RunRepository) Get(id string) (*models.Run, error) {
	row := r.db.QueryRow("SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	return scanRun(row)
}

// Find retrieves a run by ID or, when ref is numeric, by sequence number.
func (r *RunRepository) Find(ref string) (*models.Run, error) {
	if seq, err := strconv.Atoi(ref); err == nil {
		return scanRun(r.db.QueryRow("SELECT "+runColumns+" FROM runs WHERE sequence = ?", seq))
	}
	return r.Get(ref)
}

// Update stores the run's counts and finish time
func (r *RunRepository) Update(run *models.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE runs
		SET total = ?, processed = ?, failed = ?, finished_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, run.Total, run.Processed, run.Failed, run.FinishedAt, run.ID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	return expectRow(result, "run", run.ID)
}

// Delete removes a run and, through the foreign key, its uploads
func (r *RunRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	return expectRow(result, "run", id)
}

// List retrieves runs newest first.
//
// Supported criteria: "source" (string) and "limit" (int).
func (r *RunRepository) List(criteria map[string]any) ([]*models.Run, error) {
	query := "SELECT " + runColumns + " FROM runs WHERE 1 = 1"
	args := []any{}

	if source, ok := criteria["source"].(string); ok && source != "" {
		query += " AND source = ?"
		args = append(args, source)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []*models.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// scanner is satisfied by [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*models.Run, error) {
	var (
		run        models.Run
		finishedAt sql.NullTime
	)

	err := s.Scan(&run.ID, &run.Sequence, &run.Source, &run.Path, &run.Total, &run.Processed, &run.Failed, &run.StartedAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}
	return &run, nil
}

func expectRow(result sql.Result, entity, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s %w: %s", entity, ErrNotFound, id)
	}
	return nil
}
