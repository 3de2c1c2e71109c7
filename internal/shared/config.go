package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
	YouTube YouTubeConfig `toml:"youtube"`
	Google  GoogleConfig  `toml:"google"`
}

// SpotifyConfig contains Spotify app credentials for the client-credentials grant.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// YouTubeConfig contains the YouTube Data API key and the long-lived OAuth
// refresh token (obtained out-of-band via /login and persisted by the operator).
type YouTubeConfig struct {
	APIKey       string `toml:"api_key"`
	RefreshToken string `toml:"refresh_token"`
}

// GoogleConfig contains Google OAuth client credentials for the
// authorization-code grant.
type GoogleConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified
// path, then applies environment variable overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	config.ApplyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with defaults loaded from the embedded
// example config and environment variables applied on top.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.ApplyEnv()
	return &config
}

// ApplyEnv overlays environment variables onto the config. Env values take
// precedence over file values.
func (c *Config) ApplyEnv() {
	overrides := []struct {
		key    string
		target *string
	}{
		{"SPOTIFY_ID", &c.Credentials.Spotify.ClientID},
		{"SPOTIFY_SECRET", &c.Credentials.Spotify.ClientSecret},
		{"YTB_API_KEY", &c.Credentials.YouTube.APIKey},
		{"YTB_REFRESH_TOKEN", &c.Credentials.YouTube.RefreshToken},
		{"GOOGLE_ID", &c.Credentials.Google.ClientID},
		{"GOOGLE_SECRET", &c.Credentials.Google.ClientSecret},
		{"GOOGLE_REDIRECT_URI", &c.Credentials.Google.RedirectURI},
	}

	for _, o := range overrides {
		if v := os.Getenv(o.key); v != "" {
			*o.target = v
		}
	}
}

// Validate checks that the credentials required at startup are present.
func (c *Config) Validate() error {
	missing := []string{}
	if c.Credentials.Spotify.ClientID == "" {
		missing = append(missing, "spotify.client_id")
	}
	if c.Credentials.Spotify.ClientSecret == "" {
		missing = append(missing, "spotify.client_secret")
	}
	if c.Credentials.Google.ClientID == "" {
		missing = append(missing, "google.client_id")
	}
	if c.Credentials.Google.ClientSecret == "" {
		missing = append(missing, "google.client_secret")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingCredentials, missing)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: config file already exists at %s", ErrInvalidInput, path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
