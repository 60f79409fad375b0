package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/cloudup/internal/shared"
	"github.com/desertthunder/cloudup/internal/tasks"
	"github.com/desertthunder/cloudup/internal/ui"
	"github.com/urfave/cli/v3"
)

// AuthLogin logs in with --phone/--password and saves the session cookie to the config.
//
// --save-login-info additionally stores the phone number and password.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	opts := uploadOptionsFrom(cmd)
	if opts.credentials.Phone == "" || opts.credentials.Password == "" {
		return fmt.Errorf("%w: --phone and --password are required", shared.ErrMissingArgument)
	}

	if err := r.load(cmd); err != nil {
		return err
	}

	opts.save.SaveSession = true
	resolver := tasks.NewCredentialResolver(r.service, r.store, ui.NewConsole(r.output).Quiet(true), r.logger)

	resolution, err := resolver.Resolve(ctx, opts.credentials, r.config, opts.save)
	if err != nil {
		return err
	}
	r.config = resolution.Config

	if !resolution.Saved {
		return fmt.Errorf("logged in but the session could not be saved to %s", r.configPath)
	}

	return r.writePlain("Session saved to %s\n", r.configPath)
}

// AuthStatus checks whether the saved session cookie is still attached to a logged-in account.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.load(cmd); err != nil {
		return err
	}

	token := r.config.Account.Cookie
	if token == "" {
		return fmt.Errorf("%w: %w: no saved session, run 'cloudup auth login'", shared.ErrAuthFailed, shared.ErrSessionInvalid)
	}

	r.logger.Info("checking session status", "service", r.service.Name())

	status, err := r.service.CheckStatus(ctx, token)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	if !status.Valid() {
		return fmt.Errorf("%w: %w (code %d)", shared.ErrAuthFailed, shared.ErrSessionInvalid, status.Code)
	}

	r.writePlain("✓ Session is valid\n")
	r.writePlain("Account: %d\n", status.Account.ID)
	if status.Profile != nil && status.Profile.Nickname != "" {
		r.writePlain("Nickname: %s\n", status.Profile.Nickname)
	}
	return nil
}
