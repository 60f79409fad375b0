package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cloudup/internal/services"
	"github.com/desertthunder/cloudup/internal/shared"
)

// Credentials are the login inputs from one source (flags or config).
//
// Password wins over PasswordHash when both are set.
type Credentials struct {
	CountryCode  string
	Phone        string
	Password     string
	PasswordHash string
	SessionToken string
}

// CredentialsFromConfig reads the persisted credentials out of cfg.
func CredentialsFromConfig(cfg *shared.Config) Credentials {
	if cfg == nil {
		return Credentials{}
	}
	return Credentials{
		CountryCode:  cfg.Account.CountryCode,
		Phone:        cfg.Account.Phone,
		Password:     cfg.Account.Password,
		PasswordHash: cfg.Account.PasswordHash,
		SessionToken: cfg.Account.Cookie,
	}
}

func (c Credentials) hasSecret() bool {
	return c.Password != "" || c.PasswordHash != ""
}

// SaveFlags control what an explicit login writes back to the config.
type SaveFlags struct {
	SaveSession   bool
	SaveLoginInfo bool
}

// AuthSource names which path produced the session.
type AuthSource int

const (
	SourceNone AuthSource = iota
	SourceExplicit
	SourceSession
	SourceSaved
)

func (s AuthSource) String() string {
	switch s {
	case SourceExplicit:
		return "explicit"
	case SourceSession:
		return "session"
	case SourceSaved:
		return "saved"
	default:
		return "none"
	}
}

// Authenticator is the part of [services.CloudService] the resolver needs.
type Authenticator interface {
	Login(ctx context.Context, params services.LoginParams) (*services.LoginResult, error)
	CheckStatus(ctx context.Context, token string) (*services.StatusResult, error)
}

// ConfigStore persists the config record.
type ConfigStore interface {
	Save(config *shared.Config) error
}

// Resolution is the outcome of a successful [CredentialResolver.Resolve].
type Resolution struct {
	Session string
	Source  AuthSource
	Config  *shared.Config // Config as it stands after resolution, including saved values
	Saved   bool           // Whether Config was written to the store
}

// CredentialResolver obtains a valid session from explicit credentials, a saved session or saved credentials.
type CredentialResolver struct {
	auth   Authenticator
	store  ConfigStore
	sink   Sink
	logger *log.Logger
}

// NewCredentialResolver creates a resolver. store may be nil, in which case nothing is persisted.
func NewCredentialResolver(auth Authenticator, store ConfigStore, sink Sink, logger *log.Logger) *CredentialResolver {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CredentialResolver{auth: auth, store: store, sink: sinkOrNop(sink), logger: logger}
}

// Resolve returns a verified session or an error wrapping [shared.ErrAuthFailed].
//
// An explicit phone always triggers a fresh login and the persisted values are ignored; on
// success the session and login info are saved according to flags. Without an explicit phone
// the persisted session is checked first and the persisted phone/password are used when it is
// missing or invalid. persisted is never modified; the returned Config is a copy.
func (r *CredentialResolver) Resolve(ctx context.Context, explicit Credentials, persisted *shared.Config, flags SaveFlags) (*Resolution, error) {
	cfg := persisted.Clone()

	if explicit.Phone != "" {
		return r.resolveExplicit(ctx, explicit, cfg, flags)
	}

	saved := CredentialsFromConfig(cfg)
	saved.CountryCode = shared.FirstNonEmpty(saved.CountryCode, shared.DefaultCountryCode)

	if saved.SessionToken != "" {
		if r.sessionValid(ctx, saved.SessionToken) {
			r.sink.Send(authUpdate(LevelSuccess, "Session is valid."))
			return &Resolution{Session: saved.SessionToken, Source: SourceSession, Config: cfg}, nil
		}
		r.sink.Send(sessionInvalidUpdate())
	}

	if saved.Phone == "" || !saved.hasSecret() {
		r.sink.Send(authUpdate(LevelError, "Login phone number or password not found."))
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, shared.ErrMissingCredentials)
	}

	session, err := r.login(ctx, saved)
	if err != nil {
		return nil, err
	}

	r.sink.Send(loginSucceededUpdate(SourceSaved))
	return &Resolution{Session: session, Source: SourceSaved, Config: cfg}, nil
}

func (r *CredentialResolver) resolveExplicit(ctx context.Context, creds Credentials, cfg *shared.Config, flags SaveFlags) (*Resolution, error) {
	creds.CountryCode = shared.FirstNonEmpty(creds.CountryCode, shared.DefaultCountryCode)
	if !creds.hasSecret() {
		r.sink.Send(authUpdate(LevelError, "Login phone number or password not found."))
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, shared.ErrMissingCredentials)
	}

	session, err := r.login(ctx, creds)
	if err != nil {
		return nil, err
	}
	r.sink.Send(loginSucceededUpdate(SourceExplicit))

	res := &Resolution{Session: session, Source: SourceExplicit, Config: cfg}
	changed := false

	if flags.SaveSession {
		cfg.Account.Cookie = session
		changed = true
	}

	if flags.SaveLoginInfo {
		cfg.Account.Phone = creds.Phone
		cfg.Account.CountryCode = creds.CountryCode
		switch {
		case creds.Password != "" && cfg.Account.HashSavedPassword:
			cfg.Account.Password = ""
			cfg.Account.PasswordHash = services.HashPassword(creds.Password)
		case creds.Password != "":
			cfg.Account.Password = creds.Password
			cfg.Account.PasswordHash = ""
		default:
			cfg.Account.Password = ""
			cfg.Account.PasswordHash = creds.PasswordHash
		}
		changed = true
	}

	if changed && r.store != nil {
		if err := r.store.Save(cfg); err != nil {
			r.logger.Warn("failed to save config", "error", err)
			r.sink.Send(authUpdate(LevelWarn, fmt.Sprintf("Could not save login info: %v", err)))
		} else {
			res.Saved = true
			r.logger.Debug("saved config", "session", flags.SaveSession, "login_info", flags.SaveLoginInfo)
		}
	}

	return res, nil
}

// sessionValid reports whether token passes a status check. Transport errors count as invalid.
func (r *CredentialResolver) sessionValid(ctx context.Context, token string) bool {
	status, err := r.auth.CheckStatus(ctx, token)
	if err != nil {
		r.logger.Warn("session status check failed", "error", err)
		return false
	}
	return status.Valid()
}

func (r *CredentialResolver) login(ctx context.Context, creds Credentials) (string, error) {
	r.sink.Send(loginAttemptUpdate(creds.Phone))

	params := services.LoginParams{
		CountryCode: creds.CountryCode,
		Phone:       creds.Phone,
	}
	if creds.Password != "" {
		params.Password = creds.Password
	} else {
		params.PasswordHash = creds.PasswordHash
	}

	result, err := r.auth.Login(ctx, params)
	if err != nil {
		r.sink.Send(authUpdate(LevelError, fmt.Sprintf("Login failed: %v", err)))
		return "", fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	if result.Code != services.SuccessCode || result.Cookie == "" {
		apiErr := &shared.APIError{Code: result.Code, Body: string(result.Body), Err: shared.ErrAuthFailed}
		r.sink.Send(authUpdate(LevelError, fmt.Sprintf("Login failed: %s", string(result.Body))))
		return "", apiErr
	}

	return result.Cookie, nil
}

// IsAuthError reports whether err came from credential resolution.
func IsAuthError(err error) bool {
	return errors.Is(err, shared.ErrAuthFailed)
}
