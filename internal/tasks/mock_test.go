package tasks

import (
	"context"
	"errors"
	"sync"

	"github.com/desertthunder/cloudup/internal/models"
	"github.com/desertthunder/cloudup/internal/services"
	"github.com/desertthunder/cloudup/internal/shared"
)

// mockCloud implements [services.CloudService] for testing.
type mockCloud struct {
	mu sync.Mutex

	loginResult *services.LoginResult
	loginErr    error
	status      *services.StatusResult
	statusErr   error
	failUploads map[string]error // keyed by file name

	logins   []services.LoginParams
	checks   []string
	uploads  []services.UploadFile
	tokens   []string
	override []*services.Override
}

func newMockCloud() *mockCloud {
	return &mockCloud{
		loginResult: &services.LoginResult{Code: 200, Cookie: "fresh-cookie", Body: []byte(`{"code":200}`)},
		status:      &services.StatusResult{Code: 200, Account: &services.Account{ID: 1}},
		failUploads: map[string]error{},
	}
}

func (m *mockCloud) Name() string { return "Mock" }

func (m *mockCloud) Login(ctx context.Context, params services.LoginParams) (*services.LoginResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logins = append(m.logins, params)
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return m.loginResult, nil
}

func (m *mockCloud) CheckStatus(ctx context.Context, token string) (*services.StatusResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks = append(m.checks, token)
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	return m.status, nil
}

func (m *mockCloud) Upload(ctx context.Context, token string, file services.UploadFile, override *services.Override) (*services.UploadResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads = append(m.uploads, file)
	m.tokens = append(m.tokens, token)
	m.override = append(m.override, override)
	if err, ok := m.failUploads[file.Name]; ok {
		return nil, err
	}
	return &services.UploadResult{Code: 200, SongID: file.Name}, nil
}

var _ services.CloudService = (*mockCloud)(nil)

// mockStore records saved configs.
type mockStore struct {
	saved []*shared.Config
	err   error
}

func (s *mockStore) Save(config *shared.Config) error {
	if s.err != nil {
		return s.err
	}
	clone := *config
	s.saved = append(s.saved, &clone)
	return nil
}

// updateLog collects every update sent to it.
type updateLog struct {
	updates []ProgressUpdate
}

func (l *updateLog) Send(u ProgressUpdate) { l.updates = append(l.updates, u) }

func (l *updateLog) messages(level Level) []string {
	var out []string
	for _, u := range l.updates {
		if u.Level == level {
			out = append(out, u.Message)
		}
	}
	return out
}

// mockRecorder keeps history in memory.
type mockRecorder struct {
	runs     []*models.Run
	uploads  []*models.Upload
	finished []*models.Run
	startErr error
	writeErr error
}

func (r *mockRecorder) StartRun(run *models.Run) error {
	if r.startErr != nil {
		return r.startErr
	}
	run.ID = "run-1"
	r.runs = append(r.runs, run)
	return nil
}

func (r *mockRecorder) RecordUpload(upload *models.Upload) error {
	r.uploads = append(r.uploads, upload)
	return r.writeErr
}

func (r *mockRecorder) FinishRun(run *models.Run) error {
	r.finished = append(r.finished, run)
	return r.writeErr
}

var errRejected = errors.New("rejected")
