package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/cloudup/internal/formatter"
	"github.com/desertthunder/cloudup/internal/repositories"
	"github.com/desertthunder/cloudup/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList prints recent upload runs.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	recorder, closeDB, err := r.history(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	runs, err := recorder.Runs.List(map[string]any{
		"limit":  int(cmd.Int("limit")),
		"source": cmd.String("source"),
	})
	if err != nil {
		return err
	}

	data, err := formatter.FormatRuns(runs, format)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// HistoryShow prints one run and its per-file outcomes.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.StringArg("run")
	if ref == "" {
		return fmt.Errorf("%w: run ID or number", shared.ErrMissingArgument)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	recorder, closeDB, err := r.history(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	detail, err := recorder.Detail(ref)
	if err != nil {
		return err
	}

	data, err := formatter.FormatRunDetail(detail, format)
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

func (r *Runner) history(cmd *cli.Command) (*repositories.HistoryRecorder, func(), error) {
	if err := r.load(cmd); err != nil {
		return nil, nil, err
	}

	db, err := r.openHistory(r.config.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history database: %w", err)
	}

	return repositories.NewHistoryRecorder(db), func() { db.Close() }, nil
}
