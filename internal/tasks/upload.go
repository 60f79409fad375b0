package tasks

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cloudup/internal/audio"
	"github.com/desertthunder/cloudup/internal/models"
	"github.com/desertthunder/cloudup/internal/services"
	"github.com/desertthunder/cloudup/internal/shared"
	"golang.org/x/time/rate"
)

// Uploader is the part of [services.CloudService] the engine needs.
type Uploader interface {
	Upload(ctx context.Context, token string, file services.UploadFile, override *services.Override) (*services.UploadResult, error)
}

// Recorder stores run history. Errors are logged and never stop a run.
type Recorder interface {
	StartRun(run *models.Run) error
	RecordUpload(upload *models.Upload) error
	FinishRun(run *models.Run) error
}

// EngineOpts configures an [UploadEngine].
type EngineOpts struct {
	Uploader  Uploader
	Sink      Sink
	RateLimit float64 // Uploads per second, 0 disables limiting
	Recorder  Recorder
	Logger    *log.Logger
	Source    AuthSource // Recorded on the run
}

// UploadEngine uploads files one at a time and isolates per-file failures.
type UploadEngine struct {
	uploader Uploader
	sink     Sink
	limiter  *rate.Limiter
	recorder Recorder
	logger   *log.Logger
	source   AuthSource
}

// NewUploadEngine creates an UploadEngine.
func NewUploadEngine(opts EngineOpts) *UploadEngine {
	e := &UploadEngine{
		uploader: opts.Uploader,
		sink:     sinkOrNop(opts.Sink),
		recorder: opts.Recorder,
		logger:   opts.Logger,
		source:   opts.Source,
	}
	if e.logger == nil {
		e.logger = shared.NewLogger(nil)
	}
	if opts.RateLimit > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return e
}

// Run uploads files in order using session and returns the finished report.
//
// Every file is attempted; a failure is reported to the sink and counted, and the loop moves
// on. The override in target is sent with every file.
func (e *UploadEngine) Run(ctx context.Context, session string, files []FileEntry, target UploadTarget) *RunReport {
	report := NewRunReport(len(files))
	total := len(files)

	run := e.startRun(target, total)

	for i := range files {
		step := i + 1
		file := files[i]

		upload, err := e.uploadOne(ctx, session, &file, target, step, total)
		report.record(file.Path, err)
		if err != nil {
			e.logger.Debug("upload failed", "path", file.Path, "error", err)
			e.sink.Send(uploadFailedUpdate(step, total, file.Path, err))
		}
		e.sink.Send(processedUpdate(step, total, file.Path))

		if run != nil {
			upload.RunID = run.ID
			upload.Position = step
			if err := e.recorder.RecordUpload(upload); err != nil {
				e.logger.Warn("failed to record upload", "path", file.Path, "error", err)
			}
		}
	}

	if run != nil {
		run.Finish(report.Processed, report.Failed)
		if err := e.recorder.FinishRun(run); err != nil {
			e.logger.Warn("failed to finish run history", "error", err)
		}
	}

	return report
}

func (e *UploadEngine) startRun(target UploadTarget, total int) *models.Run {
	if e.recorder == nil {
		return nil
	}
	run := models.NewRun(e.source.String(), target.Path, total)
	if err := e.recorder.StartRun(run); err != nil {
		e.logger.Warn("failed to start run history", "error", err)
		return nil
	}
	return run
}

// uploadOne reads, tags and uploads a single file. The returned Upload describes the outcome
// whether or not err is nil. File data is released before returning.
func (e *UploadEngine) uploadOne(ctx context.Context, session string, file *FileEntry, target UploadTarget, step, total int) (*models.Upload, error) {
	upload := &models.Upload{Path: file.Path, Name: file.Name, Status: models.UploadFailed}
	defer func() { file.Data = nil }()

	fail := func(err error) (*models.Upload, error) {
		upload.Error = err.Error()
		return upload, err
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return fail(fmt.Errorf("rate limiter: %w", err))
		}
	}

	if file.Data == nil {
		if err := file.Read(); err != nil {
			return fail(err)
		}
	}
	upload.Size = int64(len(file.Data))
	upload.MD5 = shared.MD5Hex(file.Data)

	display := shared.FirstNonEmpty(target.DisplayName, filepath.Base(file.Path))
	if tags, err := audio.ReadTags(file.Data); err == nil {
		upload.Title, upload.Artist, upload.Album = tags.Title, tags.Artist, tags.Album
		if target.DisplayName == "" {
			display = audio.DisplayName(tags, display)
		}
	} else {
		e.logger.Debug("no readable tags", "path", file.Path, "error", err)
	}

	e.sink.Send(uploadingUpdate(step, total, file.Path, display))

	name := shared.FirstNonEmpty(file.Name, filepath.Base(file.Path))
	if _, err := e.uploader.Upload(ctx, session, services.UploadFile{Name: name, Data: file.Data}, target.Override); err != nil {
		return fail(err)
	}

	upload.Status = models.UploadSucceeded
	return upload, nil
}
