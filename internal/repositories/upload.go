package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/cloudup/internal/models"
	"github.com/desertthunder/cloudup/internal/shared"
)

// UploadRepository implements models.Repository[*models.Upload].
type UploadRepository struct {
	db *sql.DB
}

// NewUploadRepository creates a new UploadRepository with the given database connection
func NewUploadRepository(db *sql.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

const uploadColumns = "id, run_id, position, path, name, title, artist, album, md5, size, status, error, created_at"

// Create inserts a new upload record with a generated ID
func (r *UploadRepository) Create(upload *models.Upload) error {
	if err := upload.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	upload.ID = shared.GenerateID()
	if upload.CreatedAt.IsZero() {
		upload.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO uploads (` + uploadColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		upload.ID,
		upload.RunID,
		upload.Position,
		upload.Path,
		upload.Name,
		upload.Title,
		upload.Artist,
		upload.Album,
		upload.MD5,
		upload.Size,
		string(upload.Status),
		upload.Error,
		upload.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert upload: %w", err)
	}

	return nil
}

// Get retrieves an upload by ID
func (r *UploadRepository) Get(id string) (*models.Upload, error) {
	return scanUpload(r.db.QueryRow("SELECT "+uploadColumns+" FROM uploads WHERE id = ?", id))
}

// Update stores the upload's outcome fields
func (r *UploadRepository) Update(upload *models.Upload) error {
	if err := upload.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE uploads
		SET title = ?, artist = ?, album = ?, md5 = ?, size = ?, status = ?, error = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		upload.Title,
		upload.Artist,
		upload.Album,
		upload.MD5,
		upload.Size,
		string(upload.Status),
		upload.Error,
		upload.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update upload: %w", err)
	}

	return expectRow(result, "upload", upload.ID)
}

// Delete removes an upload by ID
func (r *UploadRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM uploads WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete upload: %w", err)
	}

	return expectRow(result, "upload", id)
}

// List retrieves uploads ordered by run and position.
//
// Supported criteria: "run_id", "status" and "md5" (strings).
func (r *UploadRepository) List(criteria map[string]any) ([]*models.Upload, error) {
	query := "SELECT " + uploadColumns + " FROM uploads WHERE 1 = 1"
	args := []any{}

	for _, key := range []string{"run_id", "status", "md5"} {
		if value, ok := criteria[key].(string); ok && value != "" {
			query += " AND " + key + " = ?"
			args = append(args, value)
		}
	}

	query += " ORDER BY run_id, position ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer rows.Close()

	uploads := []*models.Upload{}
	for rows.Next() {
		upload, err := scanUpload(rows)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, upload)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return uploads, nil
}

// ListByRun retrieves the uploads of one run in position order
func (r *UploadRepository) ListByRun(runID string) ([]*models.Upload, error) {
	return r.List(map[string]any{"run_id": runID})
}

func scanUpload(s scanner) (*models.Upload, error) {
	var (
		upload models.Upload
		status string
	)

	err := s.Scan(
		&upload.ID, &upload.RunID, &upload.Position, &upload.Path, &upload.Name,
		&upload.Title, &upload.Artist, &upload.Album, &upload.MD5, &upload.Size,
		&status, &upload.Error, &upload.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("upload %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan upload: %w", err)
	}

	upload.Status = models.UploadStatus(status)
	return &upload, nil
}
