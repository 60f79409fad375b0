package repositories

import (
	"database/sql"

	"github.com/desertthunder/cloudup/internal/models"
)

// HistoryRecorder writes upload runs through [RunRepository] and [UploadRepository].
type HistoryRecorder struct {
	Runs    *RunRepository
	Uploads *UploadRepository
}

// NewHistoryRecorder creates a HistoryRecorder on db.
func NewHistoryRecorder(db *sql.DB) *HistoryRecorder {
	return &HistoryRecorder{Runs: NewRunRepository(db), Uploads: NewUploadRepository(db)}
}

func (h *HistoryRecorder) StartRun(run *models.Run) error {
	return h.Runs.Create(run)
}

func (h *HistoryRecorder) RecordUpload(upload *models.Upload) error {
	return h.Uploads.Create(upload)
}

func (h *HistoryRecorder) FinishRun(run *models.Run) error {
	return h.Runs.Update(run)
}

// RunDetail is a run with its uploads.
type RunDetail struct {
	Run     *models.Run
	Uploads []*models.Upload
}

// Detail loads the run identified by ref (ID or sequence) with its uploads.
func (h *HistoryRecorder) Detail(ref string) (*RunDetail, error) {
	run, err := h.Runs.Find(ref)
	if err != nil {
		return nil, err
	}

	uploads, err := h.Uploads.ListByRun(run.ID)
	if err != nil {
		return nil, err
	}

	return &RunDetail{Run: run, Uploads: uploads}, nil
}
