package tasks

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/desertthunder/cloudup/internal/services"
	"github.com/desertthunder/cloudup/internal/shared"
)

func newTestResolver(cloud *mockCloud, store ConfigStore, sink Sink) *CredentialResolver {
	return NewCredentialResolver(cloud, store, sink, shared.NewLogger(io.Discard))
}

func savedConfig() *shared.Config {
	cfg := shared.DefaultConfig()
	cfg.Account.Cookie = "saved-cookie"
	cfg.Account.Phone = "13800000000"
	cfg.Account.Password = "saved-pass"
	return cfg
}

func TestCredentialResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("Explicit", func(t *testing.T) {
		t.Run("ignores persisted credentials", func(t *testing.T) {
			cloud := newMockCloud()
			res, err := newTestResolver(cloud, nil, nil).Resolve(ctx,
				Credentials{Phone: "15500000000", Password: "pw"}, savedConfig(), SaveFlags{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(cloud.checks) != 0 {
				t.Errorf("expected no status checks, got %v", cloud.checks)
			}
			if len(cloud.logins) != 1 {
				t.Fatalf("expected 1 login, got %d", len(cloud.logins))
			}
			got := cloud.logins[0]
			if got.Phone != "15500000000" || got.Password != "pw" || got.CountryCode != "86" {
				t.Errorf("unexpected login params %+v", got)
			}
			if res.Source != SourceExplicit || res.Session != "fresh-cookie" {
				t.Errorf("unexpected resolution %+v", res)
			}
		})

		t.Run("login rejected", func(t *testing.T) {
			cloud := newMockCloud()
			cloud.loginResult = &services.LoginResult{Code: 502, Body: []byte(`{"code":502,"msg":"wrong password"}`)}
			store := &mockStore{}

			_, err := newTestResolver(cloud, store, nil).Resolve(ctx,
				Credentials{Phone: "155", Password: "bad"}, savedConfig(), SaveFlags{SaveSession: true, SaveLoginInfo: true})
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Fatalf("expected ErrAuthFailed, got %v", err)
			}

			var apiErr *shared.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != 502 || !strings.Contains(apiErr.Body, "wrong password") {
				t.Errorf("expected APIError carrying the body, got %v", err)
			}
			if len(store.saved) != 0 {
				t.Error("config must not be written after a failed login")
			}
			if len(cloud.checks) != 0 {
				t.Error("explicit login failure must not fall back to the saved session")
			}
		})

		t.Run("transport error", func(t *testing.T) {
			cloud := newMockCloud()
			cloud.loginErr = shared.ErrAPIRequest

			_, err := newTestResolver(cloud, nil, nil).Resolve(ctx, Credentials{Phone: "155", Password: "pw"}, nil, SaveFlags{})
			if !errors.Is(err, shared.ErrAuthFailed) || !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected auth and request errors, got %v", err)
			}
		})

		t.Run("phone without password", func(t *testing.T) {
			cloud := newMockCloud()
			_, err := newTestResolver(cloud, nil, nil).Resolve(ctx, Credentials{Phone: "155"}, savedConfig(), SaveFlags{})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
			if len(cloud.logins) != 0 {
				t.Error("expected no login attempt")
			}
		})

		t.Run("save flags", func(t *testing.T) {
			tc := []struct {
				name         string
				flags        SaveFlags
				hash         bool
				wantSaved    bool
				wantCookie   string
				wantPhone    string
				wantPassword string
				wantHash     string
			}{
				{name: "no flags", flags: SaveFlags{}, wantCookie: "old", wantPhone: "1"},
				{name: "session", flags: SaveFlags{SaveSession: true}, wantSaved: true, wantCookie: "fresh-cookie", wantPhone: "1"},
				{
					name: "login info", flags: SaveFlags{SaveLoginInfo: true}, wantSaved: true,
					wantCookie: "old", wantPhone: "155", wantPassword: "pw",
				},
				{
					name: "login info hashed", flags: SaveFlags{SaveLoginInfo: true}, hash: true, wantSaved: true,
					wantCookie: "old", wantPhone: "155", wantHash: services.HashPassword("pw"),
				},
				{
					name: "both", flags: SaveFlags{SaveSession: true, SaveLoginInfo: true}, wantSaved: true,
					wantCookie: "fresh-cookie", wantPhone: "155", wantPassword: "pw",
				},
			}

			for _, tt := range tc {
				t.Run(tt.name, func(t *testing.T) {
					persisted := shared.DefaultConfig()
					persisted.Account.Cookie = "old"
					persisted.Account.Phone = "1"
					persisted.Account.HashSavedPassword = tt.hash
					store := &mockStore{}

					res, err := newTestResolver(newMockCloud(), store, nil).Resolve(ctx,
						Credentials{Phone: "155", Password: "pw", CountryCode: "1"}, persisted, tt.flags)
					if err != nil {
						t.Fatalf("unexpected error: %v", err)
					}

					if res.Saved != tt.wantSaved || (len(store.saved) == 1) != tt.wantSaved {
						t.Fatalf("saved = %v (%d writes), want %v", res.Saved, len(store.saved), tt.wantSaved)
					}

					acct := res.Config.Account
					if acct.Cookie != tt.wantCookie || acct.Phone != tt.wantPhone {
						t.Errorf("cookie/phone = %q/%q, want %q/%q", acct.Cookie, acct.Phone, tt.wantCookie, tt.wantPhone)
					}
					if tt.flags.SaveLoginInfo {
						if acct.Password != tt.wantPassword || acct.PasswordHash != tt.wantHash {
							t.Errorf("password/hash = %q/%q, want %q/%q", acct.Password, acct.PasswordHash, tt.wantPassword, tt.wantHash)
						}
						if acct.CountryCode != "1" {
							t.Errorf("expected country code 1, got %q", acct.CountryCode)
						}
					}
					if persisted.Account.Cookie != "old" {
						t.Error("persisted config must not be mutated")
					}
				})
			}
		})

		t.Run("store failure is not fatal", func(t *testing.T) {
			sink := &updateLog{}
			store := &mockStore{err: errors.New("disk full")}

			res, err := newTestResolver(newMockCloud(), store, sink).Resolve(ctx,
				Credentials{Phone: "155", Password: "pw"}, nil, SaveFlags{SaveSession: true})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Saved {
				t.Error("expected Saved to be false")
			}
			if len(sink.messages(LevelWarn)) == 0 {
				t.Error("expected a warning about the failed save")
			}
		})
	})

	t.Run("Session", func(t *testing.T) {
		t.Run("valid session skips login", func(t *testing.T) {
			cloud := newMockCloud()
			res, err := newTestResolver(cloud, nil, nil).Resolve(ctx, Credentials{}, savedConfig(), SaveFlags{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Source != SourceSession || res.Session != "saved-cookie" {
				t.Errorf("unexpected resolution %+v", res)
			}
			if len(cloud.logins) != 0 {
				t.Error("expected no login")
			}
		})

		invalid := []struct {
			name      string
			status    *services.StatusResult
			statusErr error
		}{
			{name: "no account", status: &services.StatusResult{Code: 200}},
			{name: "bad code", status: &services.StatusResult{Code: 301, Account: &services.Account{ID: 1}}},
			{name: "transport error", statusErr: shared.ErrAPIRequest},
		}

		for _, tt := range invalid {
			t.Run("invalid falls through to login/"+tt.name, func(t *testing.T) {
				cloud := newMockCloud()
				cloud.status = tt.status
				cloud.statusErr = tt.statusErr
				sink := &updateLog{}
				store := &mockStore{}

				res, err := newTestResolver(cloud, store, sink).Resolve(ctx, Credentials{}, savedConfig(), SaveFlags{})
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if res.Source != SourceSaved || res.Session != "fresh-cookie" {
					t.Errorf("unexpected resolution %+v", res)
				}
				if len(cloud.logins) != 1 || cloud.logins[0].Password != "saved-pass" {
					t.Errorf("expected login with saved password, got %+v", cloud.logins)
				}
				if len(store.saved) != 0 {
					t.Error("saved credential path must not write config")
				}
				if len(sink.messages(LevelWarn)) == 0 {
					t.Error("expected a session warning")
				}
			})
		}

		t.Run("invalid without credentials", func(t *testing.T) {
			cloud := newMockCloud()
			cloud.status = &services.StatusResult{Code: 200}
			cfg := shared.DefaultConfig()
			cfg.Account.Cookie = "stale"

			_, err := newTestResolver(cloud, nil, nil).Resolve(ctx, Credentials{}, cfg, SaveFlags{})
			if !errors.Is(err, shared.ErrAuthFailed) || !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected missing credentials auth error, got %v", err)
			}
			if len(cloud.logins) != 0 {
				t.Error("expected no login")
			}
		})
	})

	t.Run("Saved", func(t *testing.T) {
		t.Run("uses password hash and default country code", func(t *testing.T) {
			cloud := newMockCloud()
			cfg := shared.DefaultConfig()
			cfg.Account.CountryCode = ""
			cfg.Account.Phone = "138"
			cfg.Account.PasswordHash = "abc123"

			res, err := newTestResolver(cloud, nil, nil).Resolve(ctx, Credentials{}, cfg, SaveFlags{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(cloud.checks) != 0 {
				t.Error("expected no status check without a saved session")
			}
			got := cloud.logins[0]
			if got.PasswordHash != "abc123" || got.Password != "" || got.CountryCode != "86" {
				t.Errorf("unexpected login params %+v", got)
			}
			if res.Source != SourceSaved {
				t.Errorf("expected saved source, got %v", res.Source)
			}
		})

		t.Run("nothing configured", func(t *testing.T) {
			sink := &updateLog{}
			_, err := newTestResolver(newMockCloud(), nil, sink).Resolve(ctx, Credentials{}, nil, SaveFlags{})
			if !IsAuthError(err) {
				t.Fatalf("expected auth error, got %v", err)
			}
			msgs := sink.messages(LevelError)
			if len(msgs) == 0 || msgs[0] != "Login phone number or password not found." {
				t.Errorf("unexpected error messages %v", msgs)
			}
		})

		t.Run("saved login rejected", func(t *testing.T) {
			cloud := newMockCloud()
			cloud.status = &services.StatusResult{Code: 200}
			cloud.loginResult = &services.LoginResult{Code: 400, Body: []byte("nope")}

			_, err := newTestResolver(cloud, nil, nil).Resolve(ctx, Credentials{}, savedConfig(), SaveFlags{})
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})

		t.Run("success code without cookie", func(t *testing.T) {
			cloud := newMockCloud()
			cloud.loginResult = &services.LoginResult{Code: 200}
			cfg := savedConfig()
			cfg.Account.Cookie = ""

			_, err := newTestResolver(cloud, nil, nil).Resolve(ctx, Credentials{}, cfg, SaveFlags{})
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})
	})
}

func TestAuthSource(t *testing.T) {
	tc := map[AuthSource]string{
		SourceNone:     "none",
		SourceExplicit: "explicit",
		SourceSession:  "session",
		SourceSaved:    "saved",
	}
	for source, want := range tc {
		if got := source.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", source, got, want)
		}
	}
}
