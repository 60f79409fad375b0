package main

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/cloudup/internal/shared"
	"github.com/desertthunder/cloudup/internal/tasks"
	"github.com/desertthunder/cloudup/internal/ui"
	"github.com/urfave/cli/v3"
)

// uploadUI runs the upload pipeline inside the interactive progress view.
func (r *Runner) uploadUI(ctx context.Context, cmd *cli.Command, opts uploadOptions) error {
	if !r.isTerminal() {
		return fmt.Errorf("%w: --ui requires an interactive terminal", shared.ErrInvalidArgument)
	}

	if err := r.load(cmd); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(filepath.Join("tmp", "cloudup-tui.log"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, func(ctx context.Context, sink tasks.Sink) (*tasks.RunReport, error) {
		return r.runUpload(ctx, opts, sink)
	})

	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return model.Err()
}
