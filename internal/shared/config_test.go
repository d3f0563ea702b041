package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func envFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./moodtunes.db" {
			t.Errorf("expected database path ./moodtunes.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 5000 {
			t.Errorf("expected server port 5000, got %d", config.Server.Port)
		}

		if config.Credentials.Spotify.TokenURL != "https://accounts.spotify.com/api/token" {
			t.Errorf("unexpected spotify token URL %s", config.Credentials.Spotify.TokenURL)
		}

		if config.Credentials.YouTube.Endpoint != "https://www.googleapis.com/" {
			t.Errorf("unexpected youtube endpoint %s", config.Credentials.YouTube.Endpoint)
		}

		if config.Client.Interval() != 2*time.Second {
			t.Errorf("expected 2s sample interval, got %v", config.Client.Interval())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[server]
port = 8080

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"

[client]
sample_interval = "500ms"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}
		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Spotify.APIURL != "https://api.spotify.com/v1" {
			t.Errorf("expected missing keys to keep defaults, got api_url %q", config.Credentials.Spotify.APIURL)
		}
		if config.Client.Interval() != 500*time.Millisecond {
			t.Errorf("expected 500ms interval, got %v", config.Client.Interval())
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[server\nport ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected error for invalid TOML")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		config := DefaultConfig()
		config.ApplyEnv(envFrom(map[string]string{
			"PORT":                  "7000",
			"MONGO_URI":             "file:legacy.db",
			"SPOTIFY_CLIENT_ID":     "env_id",
			"SPOTIFY_CLIENT_SECRET": "env_secret",
			"YOUTUBE_API_KEY":       "env_key",
		}))

		if config.Server.Port != 7000 {
			t.Errorf("expected port 7000, got %d", config.Server.Port)
		}
		if config.Database.Path != "file:legacy.db" {
			t.Errorf("expected MONGO_URI alias to set database path, got %s", config.Database.Path)
		}
		if config.Credentials.Spotify.ClientID != "env_id" || config.Credentials.Spotify.ClientSecret != "env_secret" {
			t.Errorf("expected spotify credentials from env, got %+v", config.Credentials.Spotify)
		}
		if config.Credentials.YouTube.APIKey != "env_key" {
			t.Errorf("expected youtube key from env, got %s", config.Credentials.YouTube.APIKey)
		}
	})

	t.Run("ApplyEnv Prefers DATABASE_URL", func(t *testing.T) {
		config := DefaultConfig()
		config.ApplyEnv(envFrom(map[string]string{
			"DATABASE_URL": "file:primary.db",
			"MONGO_URI":    "file:legacy.db",
		}))

		if config.Database.Path != "file:primary.db" {
			t.Errorf("expected DATABASE_URL to win, got %s", config.Database.Path)
		}
	})

	t.Run("ApplyEnv Ignores Invalid Port", func(t *testing.T) {
		config := DefaultConfig()
		config.ApplyEnv(envFrom(map[string]string{"PORT": "not-a-port"}))

		if config.Server.Port != 5000 {
			t.Errorf("expected default port to survive, got %d", config.Server.Port)
		}
	})

	t.Run("ResolveConfig Missing File", func(t *testing.T) {
		config, err := ResolveConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if err != nil {
			t.Fatalf("expected defaults for a missing file, got %v", err)
		}
		if config == nil {
			t.Fatal("expected config")
		}
	})

	t.Run("Missing Credentials", func(t *testing.T) {
		creds := CredentialsConfig{Spotify: SpotifyConfig{ClientID: "id"}}
		errs := creds.Missing()
		if len(errs) != 2 {
			t.Fatalf("expected 2 missing credentials, got %v", errs)
		}
		for _, err := range errs {
			if !errors.Is(err, ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		}

		creds.Spotify.ClientSecret = "secret"
		creds.YouTube.APIKey = "key"
		if errs := creds.Missing(); len(errs) != 0 {
			t.Errorf("expected no missing credentials, got %v", errs)
		}
	})

	t.Run("Addr", func(t *testing.T) {
		s := ServerConfig{Host: "127.0.0.1", Port: 5000}
		if s.Addr() != "127.0.0.1:5000" {
			t.Errorf("expected 127.0.0.1:5000, got %s", s.Addr())
		}
	})
}
