// package models defines the data model for the upload history
package models

import (
	"errors"
	"fmt"
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	Identifier() string // Identifier returns the unique identifier for this model
	Validate() error    // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

var errMissingField = errors.New("missing required field")

// UploadStatus is the outcome of a single file upload.
type UploadStatus string

const (
	UploadSucceeded UploadStatus = "succeeded"
	UploadFailed    UploadStatus = "failed"
)

// Run is one upload invocation.
type Run struct {
	ID         string
	Sequence   int
	Source     string // how the session was obtained: explicit, session or saved
	Path       string // file or directory the files were resolved from
	Total      int
	Processed  int
	Failed     int
	StartedAt  time.Time
	FinishedAt *time.Time
}

// NewRun creates a Run started now.
func NewRun(source, path string, total int) *Run {
	return &Run{Source: source, Path: path, Total: total, StartedAt: time.Now()}
}

func (r *Run) Identifier() string { return r.ID }

// Validate checks required fields and count invariants.
func (r *Run) Validate() error {
	if r.Path == "" {
		return fmt.Errorf("%w: path", errMissingField)
	}
	if r.Source == "" {
		return fmt.Errorf("%w: source", errMissingField)
	}
	if r.Processed > r.Total || r.Failed > r.Processed {
		return fmt.Errorf("inconsistent counts: total=%d processed=%d failed=%d", r.Total, r.Processed, r.Failed)
	}
	return nil
}

// Finish records final counts and the finish time.
func (r *Run) Finish(processed, failed int) {
	now := time.Now()
	r.Processed = processed
	r.Failed = failed
	r.FinishedAt = &now
}

// Upload is one file's outcome within a [Run].
type Upload struct {
	ID        string
	RunID     string
	Position  int
	Path      string
	Name      string
	Title     string
	Artist    string
	Album     string
	MD5       string
	Size      int64
	Status    UploadStatus
	Error     string
	CreatedAt time.Time
}

func (u *Upload) Identifier() string { return u.ID }

// Validate checks required fields.
func (u *Upload) Validate() error {
	switch {
	case u.RunID == "":
		return fmt.Errorf("%w: run_id", errMissingField)
	case u.Path == "":
		return fmt.Errorf("%w: path", errMissingField)
	case u.Status != UploadSucceeded && u.Status != UploadFailed:
		return fmt.Errorf("invalid status: %q", u.Status)
	}
	return nil
}
