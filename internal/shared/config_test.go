package shared

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestConfig(t *testing.T) {
	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("Parses TOML", func(t *testing.T) {
			path := writeConfig(t, `
[credentials.spotify]
client_id = "spot-id"
client_secret = "spot-secret"

[credentials.youtube]
api_key = "yt-key"
refresh_token = "yt-refresh"

[credentials.google]
client_id = "goog-id"
client_secret = "goog-secret"
redirect_uri = "http://localhost:3001/callback"

[server]
host = "0.0.0.0"
port = 8080
`)

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if config.Credentials.Spotify.ClientID != "spot-id" {
				t.Errorf("unexpected spotify client id %q", config.Credentials.Spotify.ClientID)
			}
			if config.Credentials.YouTube.RefreshToken != "yt-refresh" {
				t.Errorf("unexpected refresh token %q", config.Credentials.YouTube.RefreshToken)
			}
			if config.Credentials.Google.RedirectURI != "http://localhost:3001/callback" {
				t.Errorf("unexpected redirect uri %q", config.Credentials.Google.RedirectURI)
			}
			if config.Server.Host != "0.0.0.0" || config.Server.Port != 8080 {
				t.Errorf("unexpected server config %+v", config.Server)
			}
		})

		t.Run("Missing File", func(t *testing.T) {
			_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
			if !errors.Is(err, ErrMissingConfig) {
				t.Errorf("expected ErrMissingConfig, got %v", err)
			}
		})

		t.Run("Invalid TOML", func(t *testing.T) {
			path := writeConfig(t, "not [valid toml")
			_, err := LoadConfig(path)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("Environment Overrides File", func(t *testing.T) {
			path := writeConfig(t, `
[credentials.spotify]
client_id = "from-file"
client_secret = "from-file"
`)

			t.Setenv("SPOTIFY_ID", "from-env")
			t.Setenv("YTB_API_KEY", "env-key")

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if config.Credentials.Spotify.ClientID != "from-env" {
				t.Errorf("expected env to win, got %q", config.Credentials.Spotify.ClientID)
			}
			if config.Credentials.Spotify.ClientSecret != "from-file" {
				t.Errorf("expected file value to survive, got %q", config.Credentials.Spotify.ClientSecret)
			}
			if config.Credentials.YouTube.APIKey != "env-key" {
				t.Errorf("expected env API key, got %q", config.Credentials.YouTube.APIKey)
			}
		})
	})

	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.Host != "localhost" {
			t.Errorf("expected default host localhost, got %q", config.Server.Host)
		}
		if config.Server.Port != 3001 {
			t.Errorf("expected default port 3001, got %d", config.Server.Port)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		t.Run("Complete Credentials", func(t *testing.T) {
			config := &Config{}
			config.Credentials.Spotify.ClientID = "id"
			config.Credentials.Spotify.ClientSecret = "secret"
			config.Credentials.Google.ClientID = "id"
			config.Credentials.Google.ClientSecret = "secret"

			if err := config.Validate(); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})

		t.Run("Missing Credentials", func(t *testing.T) {
			config := &Config{}
			err := config.Validate()
			if !errors.Is(err, ErrMissingCredentials) {
				t.Fatalf("expected ErrMissingCredentials, got %v", err)
			}
			if !strings.Contains(err.Error(), "spotify.client_id") {
				t.Errorf("expected missing field names in error, got %v", err)
			}
		})
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		t.Run("Writes Embedded Example", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := CreateConfigFile(path); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			content, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("expected file to exist: %v", err)
			}
			if !strings.Contains(string(content), "[credentials.spotify]") {
				t.Error("expected example sections in written file")
			}
		})

		t.Run("Refuses Existing File", func(t *testing.T) {
			path := writeConfig(t, "# existing")
			err := CreateConfigFile(path)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	})
}
