package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cloudup/internal/services"
	"github.com/desertthunder/cloudup/internal/shared"
	"github.com/desertthunder/cloudup/internal/tasks"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	service     services.CloudService
	store       tasks.ConfigStore
	logger      *log.Logger
	output      io.Writer
	errOutput   io.Writer
	isTerminal  func() bool
	openHistory func(shared.DatabaseConfig) (*sql.DB, error)
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Config, Service and Store are built from the --config flag on first use when left nil.
type RunnerOpts struct {
	Config      *shared.Config
	ConfigPath  string
	Service     services.CloudService
	Store       tasks.ConfigStore
	Logger      *log.Logger
	Output      io.Writer
	ErrOutput   io.Writer // progress lines when stdout carries a report, defaults to [os.Stderr]
	IsTerminal  func() bool
	OpenHistory func(shared.DatabaseConfig) (*sql.DB, error)
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}
	if opts.IsTerminal == nil {
		opts.IsTerminal = stdoutIsTerminal
	}
	if opts.OpenHistory == nil {
		opts.OpenHistory = shared.OpenHistory
	}

	return &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		service:     opts.Service,
		store:       opts.Store,
		logger:      opts.Logger,
		output:      opts.Output,
		errOutput:   opts.ErrOutput,
		isTerminal:  opts.IsTerminal,
		openHistory: opts.OpenHistory,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// load loads the config named by --config (creating it with defaults when absent) and builds
// the service client and config store from it. Already-set dependencies are kept.
func (r *Runner) load(cmd *cli.Command) error {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if path := cmd.String("config"); path != "" && r.configPath == "" {
		r.configPath = path
	}
	if r.configPath == "" {
		r.configPath = defaultConfigPath
	}

	if r.config == nil {
		config, created, err := shared.LoadOrCreateConfig(r.configPath)
		if err != nil {
			return err
		}
		if created {
			r.logger.Info("created default config", "path", r.configPath)
		}
		r.config = config
	}

	if r.store == nil {
		r.store = shared.NewFileStore(r.configPath)
	}
	if r.service == nil {
		r.service = services.NewMusicServiceFromConfig(r.config.API)
	}

	r.logger.Debug("runner ready", "config", r.configPath, "api", r.config.API.BaseURL)
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
