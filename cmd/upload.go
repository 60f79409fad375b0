package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/cloudup/internal/formatter"
	"github.com/desertthunder/cloudup/internal/repositories"
	"github.com/desertthunder/cloudup/internal/shared"
	"github.com/desertthunder/cloudup/internal/tasks"
	"github.com/desertthunder/cloudup/internal/ui"
	"github.com/urfave/cli/v3"
)

// uploadOptions are the upload inputs read from flags.
type uploadOptions struct {
	credentials tasks.Credentials
	save        tasks.SaveFlags
	target      tasks.TargetOptions
}

func uploadOptionsFrom(cmd *cli.Command) uploadOptions {
	return uploadOptions{
		credentials: tasks.Credentials{
			CountryCode: cmd.String("countrycode"),
			Phone:       cmd.String("phone"),
			Password:    cmd.String("password"),
		},
		save: tasks.SaveFlags{
			SaveSession:   cmd.Bool("save-cookie"),
			SaveLoginInfo: cmd.Bool("save-login-info"),
		},
		target: tasks.TargetOptions{
			File:   cmd.String("file"),
			Dir:    cmd.String("dir"),
			Name:   cmd.String("name"),
			Artist: cmd.String("artist"),
			Album:  cmd.String("album"),
		},
	}
}

// validate checks flag combinations.
func (o uploadOptions) validate() error {
	c, t := o.credentials, o.target

	switch {
	case t.File != "" && t.Dir != "":
		return fmt.Errorf("%w: --file and --dir cannot be used together", shared.ErrInvalidArgument)
	case t.File == "" && (t.Name != "" || t.Artist != "" || t.Album != ""):
		return fmt.Errorf("%w: --name, --artist and --album require --file", shared.ErrInvalidArgument)
	case c.Phone != "" && c.Password == "":
		return fmt.Errorf("%w: --phone requires --password", shared.ErrMissingArgument)
	case c.Password != "" && c.Phone == "":
		return fmt.Errorf("%w: --password requires --phone", shared.ErrMissingArgument)
	case c.Phone == "" && (c.CountryCode != "" || o.save.SaveSession || o.save.SaveLoginInfo):
		return fmt.Errorf("%w: --countrycode, --save-cookie and --save-login-info require --phone", shared.ErrMissingArgument)
	}
	return nil
}

// Upload authenticates, resolves the files to upload and uploads them one by one.
//
// Fails when authentication fails or no file was found. Individual upload failures are listed
// in the summary and do not fail the command.
func (r *Runner) Upload(ctx context.Context, cmd *cli.Command) error {
	opts := uploadOptionsFrom(cmd)
	if err := opts.validate(); err != nil {
		return err
	}

	var reportFormat formatter.Format
	if f := cmd.String("report"); f != "" {
		format, err := formatter.ParseFormat(f)
		if err != nil {
			return err
		}
		reportFormat = format
	}

	if cmd.Bool("ui") {
		return r.uploadUI(ctx, cmd, opts)
	}

	if err := r.load(cmd); err != nil {
		return err
	}

	console := ui.NewConsole(r.output)
	if reportFormat != "" {
		console = ui.NewConsole(r.errOutput)
	}

	report, err := r.runUpload(ctx, opts, console)
	if tasks.IsAuthError(err) {
		return fmt.Errorf("%w (pass --phone/--password or run 'cloudup auth login')", err)
	}
	if err != nil {
		return err
	}

	r.logger.Debug("upload finished", "total", report.Total, "failed", report.Failed)

	if reportFormat == "" {
		return nil
	}
	data, err := formatter.FormatReport(report, reportFormat)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// runUpload is the upload pipeline shared by the console and TUI front ends.
func (r *Runner) runUpload(ctx context.Context, opts uploadOptions, sink tasks.Sink) (*tasks.RunReport, error) {
	resolver := tasks.NewCredentialResolver(r.service, r.store, sink, shared.WithLogger(r.logger, "component", "auth"))
	resolution, err := resolver.Resolve(ctx, opts.credentials, r.config, opts.save)
	if err != nil {
		return nil, err
	}
	r.config = resolution.Config

	plan, err := tasks.PrepareRun(opts.target, r.config, sink)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, shared.ErrNoFiles) {
			msg = "No valid music file found."
		}
		sink.Send(tasks.ProgressUpdate{Phase: tasks.ResolveFilesPhase, Level: tasks.LevelError, Message: msg})
		return nil, err
	}

	recorder, closeHistory := r.historyRecorder()
	defer closeHistory()

	engine := tasks.NewUploadEngine(tasks.EngineOpts{
		Uploader:  r.service,
		Sink:      sink,
		RateLimit: r.config.Upload.RateLimit,
		Recorder:  recorder,
		Logger:    shared.WithLogger(r.logger, "component", "upload"),
		Source:    resolution.Source,
	})

	report := engine.Run(ctx, resolution.Session, plan.Files, plan.Target)
	tasks.Summarize(sink, report)
	return report, nil
}

// historyRecorder opens the history database when enabled. Failures disable history for the
// run instead of stopping it.
func (r *Runner) historyRecorder() (tasks.Recorder, func()) {
	if !r.config.Upload.History {
		return nil, func() {}
	}

	db, err := r.openHistory(r.config.Database)
	if err != nil {
		r.logger.Warn("upload history disabled", "error", err)
		return nil, func() {}
	}

	return repositories.NewHistoryRecorder(db), func() {
		if err := db.Close(); err != nil {
			r.logger.Warn("failed to close history database", "error", err)
		}
	}
}
