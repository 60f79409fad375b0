package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/cloudup/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	AuthView ViewState = iota
	UploadView
	ResultView
)

const maxLogLines = 6

// Pipeline runs authentication and the upload loop, reporting through sink.
type Pipeline func(ctx context.Context, sink tasks.Sink) (*tasks.RunReport, error)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	cancel       context.CancelFunc
	view         ViewState
	pipeline     Pipeline
	width        int
	height       int
	spinner      spinner.Model
	bar          progress.Model
	failedList   list.Model
	progressChan chan tasks.ProgressUpdate
	done         chan runOutcome
	progress     tasks.ProgressUpdate
	logLines     []tasks.ProgressUpdate
	report       *tasks.RunReport
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a TUI model that runs pipeline once started.
// Quitting before the run completes cancels the context passed to pipeline.
func NewModel(ctx context.Context, pipeline Pipeline) *Model {
	ctx, cancel := context.WithCancel(ctx)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.title.UnsetMarginBottom()

	return &Model{
		ctx:      ctx,
		cancel:   cancel,
		view:     AuthView,
		pipeline: pipeline,
		spinner:  sp,
		bar:      progress.New(progress.WithDefaultGradient()),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Report returns the finished run report, nil until the run completes or when it failed early.
func (m *Model) Report() *tasks.RunReport { return m.report }

// Err returns the error that stopped the run before uploading, if any.
// A run interrupted by quitting reports [context.Canceled].
func (m *Model) Err() error { return m.err }

// Init starts the spinner and the pipeline.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startRun())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(msg.Width-4, 10)
		if m.view == ResultView {
			m.failedList.SetSize(msg.Width-4, max(msg.Height-12, 4))
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			if m.view != ResultView && m.progressChan != nil {
				m.err = context.Canceled
			}
			m.cancel()
			return m, tea.Quit
		}
		if m.view == ResultView && len(m.failedList.Items()) > 0 {
			var cmd tea.Cmd
			m.failedList, cmd = m.failedList.Update(msg)
			return m, cmd
		}
		return m, nil

	case spinner.TickMsg:
		if m.view == ResultView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.applyUpdate(msg.data.(tasks.ProgressUpdate))
			return m, m.waitForProgress()
		case MsgRunComplete:
			outcome := msg.data.(runOutcome)
			m.finish(outcome.report, outcome.err)
			return m, nil
		}
	}

	return m, nil
}

func (m *Model) applyUpdate(u tasks.ProgressUpdate) {
	m.progress = u
	if u.Phase == tasks.UploadPhase {
		m.view = UploadView
	}
	m.logLines = append(m.logLines, u)
	if len(m.logLines) > maxLogLines {
		m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
	}
}

func (m *Model) finish(report *tasks.RunReport, err error) {
	m.report = report
	m.err = err
	m.view = ResultView
	m.progressChan = nil
	m.done = nil
	m.cancel()

	var paths []string
	if report != nil {
		paths = report.FailedPaths
	}
	m.failedList = list.New(failedItems(paths), list.NewDefaultDelegate(), max(m.width-4, 20), max(m.height-12, 4))
	m.failedList.Title = "Failed uploads"
	m.failedList.SetShowStatusBar(false)
	m.failedList.SetFilteringEnabled(false)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case AuthView:
		return m.renderAuth()
	case UploadView:
		return m.renderUpload()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

// startRun runs the pipeline in its own goroutine. The outcome only reaches the model
// through the done channel and [MsgRunComplete].
func (m *Model) startRun() tea.Cmd {
	ch := make(chan tasks.ProgressUpdate, 100)
	done := make(chan runOutcome, 1)
	m.progressChan, m.done = ch, done

	ctx, pipeline := m.ctx, m.pipeline
	go func() {
		report, err := pipeline(ctx, tasks.ChanSink(ch))
		done <- runOutcome{report: report, err: err}
		close(ch)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	ch, done := m.progressChan, m.done
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			outcome := <-done
			return runCompleteMsg(outcome.report, outcome.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderLog() string {
	var b strings.Builder
	for _, u := range m.logLines {
		b.WriteString(styles.ForLevel(u.Level).Render(u.Message))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderAuth() string {
	title := styles.title.Render("Cloud Upload")
	status := fmt.Sprintf("%s Authenticating...", m.spinner.View())
	return fmt.Sprintf("%s\n%s\n\n%s\n%s", title, status, m.renderLog(), m.help.ShortHelpView(m.keys.ShortHelp()))
}

func (m *Model) renderUpload() string {
	title := styles.title.Render("Uploading")

	percent := 0.0
	if m.progress.Total > 0 {
		percent = float64(m.progress.Step) / float64(m.progress.Total)
	}
	counter := fmt.Sprintf("%s %d/%d", m.spinner.View(), m.progress.Step, m.progress.Total)

	return fmt.Sprintf("%s\n%s\n%s\n\n%s\n%s", title, m.bar.ViewAs(percent), counter, m.renderLog(), m.help.ShortHelpView(m.keys.ShortHelp()))
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.error.Render(fmt.Sprintf("Upload failed: %v\n\nPress q to quit", m.err))
	}

	if m.report == nil {
		return styles.error.Render("No result available\n\nPress q to quit")
	}

	var title string
	if m.report.HasFailures() {
		title = styles.warning.Render(fmt.Sprintf("Failed to upload %d songs.", m.report.Failed))
	} else {
		title = styles.success.Render("✓ Finished.")
	}

	info := fmt.Sprintf("\nUploaded: %d/%d\nFailed: %d", m.report.Succeeded(), m.report.Total, m.report.Failed)

	var failed string
	if m.report.HasFailures() {
		failed = "\n\n" + m.failedList.View()
	}

	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.quit}
	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, m.help.ShortHelpView(helpKeys))
}
