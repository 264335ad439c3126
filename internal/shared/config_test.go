package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Backend != "sqlite" {
			t.Errorf("expected database backend sqlite, got %s", config.Database.Backend)
		}

		if config.Database.Path != "songgraph.db" {
			t.Errorf("expected database path songgraph.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3002 {
			t.Errorf("expected server port 3002, got %d", config.Server.Port)
		}

		if config.Songs.BaseURL != "http://localhost:3001" {
			t.Errorf("expected songs base URL http://localhost:3001, got %s", config.Songs.BaseURL)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
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
backend = "neo4j"
neo4j_uri = "bolt://graph:7687"
neo4j_user = "admin"
neo4j_password = "secret"

[server]
host = "0.0.0.0"
port = 8080

[songs]
base_url = "http://songs:3001"
timeout_seconds = 5
rate_limit = 10.0
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Backend != "neo4j" {
			t.Errorf("expected database backend neo4j, got %s", config.Database.Backend)
		}

		if config.Database.Neo4jURI != "bolt://graph:7687" {
			t.Errorf("expected neo4j URI bolt://graph:7687, got %s", config.Database.Neo4jURI)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Songs.Timeout() != 5*time.Second {
			t.Errorf("expected songs timeout 5s, got %s", config.Songs.Timeout())
		}
	})

	t.Run("LoadConfigMissingFile", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("LoadConfigBadToml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[server\nport="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("TimeoutDefault", func(t *testing.T) {
		var songs SongsConfig
		if songs.Timeout() != 10*time.Second {
			t.Errorf("expected default timeout 10s, got %s", songs.Timeout())
		}
	})
}
