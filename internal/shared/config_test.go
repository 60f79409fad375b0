package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Account.CountryCode != "86" {
			t.Errorf("expected country code 86, got %s", config.Account.CountryCode)
		}

		if config.Account.Cookie != "" {
			t.Errorf("expected empty cookie, got %s", config.Account.Cookie)
		}

		if config.Target.Custom.Override {
			t.Error("expected custom override to be disabled")
		}

		if config.API.BaseURL != "http://localhost:3000" {
			t.Errorf("expected api base URL http://localhost:3000, got %s", config.API.BaseURL)
		}

		if config.Database.Path != "./cloudup.db" {
			t.Errorf("expected database path ./cloudup.db, got %s", config.Database.Path)
		}

		if !config.Upload.History {
			t.Error("expected upload history to be enabled")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		info, err := os.Stat(configPath)
		if err != nil {
			t.Fatalf("config file should exist: %v", err)
		}
		if info.Mode().Perm() != ConfigFilePerms {
			t.Errorf("expected mode %o, got %o", ConfigFilePerms, info.Mode().Perm())
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.API.BaseURL != DefaultConfig().API.BaseURL {
			t.Errorf("created config base URL doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[account]
cookie = "MUSIC_U=abc"
country_code = "1"
phone = "5550100"
password_hash = "5f4dcc3b5aa765d61d8327deb882cf99"

[target]
file = "/music/song.mp3"

[target.custom]
override = true
name = "Song"
artist = "Artist"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Account.Cookie != "MUSIC_U=abc" {
			t.Errorf("expected cookie MUSIC_U=abc, got %s", config.Account.Cookie)
		}
		if config.Account.CountryCode != "1" {
			t.Errorf("expected country code 1, got %s", config.Account.CountryCode)
		}
		if config.Account.PasswordHash != "5f4dcc3b5aa765d61d8327deb882cf99" {
			t.Errorf("unexpected password hash %s", config.Account.PasswordHash)
		}
		if !config.Target.Custom.Override || config.Target.Custom.Name != "Song" {
			t.Errorf("expected custom override for Song, got %+v", config.Target.Custom)
		}
		if config.API.BaseURL != "http://localhost:3000" {
			t.Errorf("missing sections should keep defaults, got base URL %q", config.API.BaseURL)
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[account\nphone = "), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadOrCreateConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "nested", "config.toml")

		config, created, err := LoadOrCreateConfig(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !created {
			t.Error("expected config to be created on first run")
		}
		if config.Account.CountryCode != DefaultCountryCode {
			t.Errorf("expected default country code, got %s", config.Account.CountryCode)
		}

		_, created, err = LoadOrCreateConfig(configPath)
		if err != nil {
			t.Fatalf("unexpected error on second load: %v", err)
		}
		if created {
			t.Error("expected existing config to be loaded, not created")
		}
	})

	t.Run("FileStore Save Round Trip", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		store := NewFileStore(configPath)

		config := DefaultConfig()
		config.Account.Cookie = "MUSIC_U=xyz"
		config.Account.Phone = "13800000000"
		config.Target.Dir = "/music"

		if err := store.Save(config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}

		if *loaded != *config {
			t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, config)
		}
	})

	t.Run("Clone", func(t *testing.T) {
		config := DefaultConfig()
		clone := config.Clone()
		clone.Account.Phone = "changed"

		if config.Account.Phone == "changed" {
			t.Error("clone should not share state with the original")
		}

		var nilConfig *Config
		if nilConfig.Clone() == nil {
			t.Error("clone of nil config should return defaults")
		}
	})
}

func TestAPIError(t *testing.T) {
	err := &APIError{StatusCode: 200, Code: 502, Body: `{"code":502}`, Err: ErrAuthFailed}

	if !errors.Is(err, ErrAuthFailed) {
		t.Error("expected APIError to unwrap to ErrAuthFailed")
	}
	if errors.Is(err, ErrUploadFailed) {
		t.Error("APIError should not match an unrelated sentinel")
	}

	want := `authentication failed: code 502: {"code":502}`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	httpErr := &APIError{StatusCode: 500, Code: 0, Body: "boom", Err: ErrUploadFailed}
	if httpErr.Error() != "upload failed: HTTP 500 (code 0): boom" {
		t.Errorf("unexpected message %q", httpErr.Error())
	}
}
