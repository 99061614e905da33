package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	UI        UIConfig
	Workspace WorkspaceConfig
	Launch    LaunchConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

// ServerConfig holds the shared embedded HTTP server configuration.
// Port "0" binds an ephemeral port; the bound port is reported by the server.
// Host must be localhost or a loopback IP, Start refuses anything else.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"63342"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// BrowserConfig holds settings for the browser tool window content.
type BrowserConfig struct {
	HomeURL      string        `envconfig:"BROWSER_HOME_URL" default:"about:blank"`
	ZoomStep     float64       `envconfig:"BROWSER_ZOOM_STEP" default:"0.1"`
	FetchEnabled bool          `envconfig:"BROWSER_FETCH_ENABLED" default:"true"`
	FetchTimeout time.Duration `envconfig:"BROWSER_FETCH_TIMEOUT" default:"10s"`
}

// UIConfig holds UI execution context settings.
type UIConfig struct {
	QueueSize int  `envconfig:"UI_QUEUE_SIZE" default:"256"`
	TUI       bool `envconfig:"UI_TUI" default:"false"`
}

// WorkspaceConfig controls the workspace opened at startup.
type WorkspaceConfig struct {
	Name     string `envconfig:"WORKSPACE_NAME" default:"default"`
	Dir      string `envconfig:"WORKSPACE_DIR" default:"."`
	AutoOpen bool   `envconfig:"WORKSPACE_AUTO_OPEN" default:"true"`
}

// LaunchConfig selects a launch profile to run after startup.
type LaunchConfig struct {
	ProfilesPath string `envconfig:"LAUNCH_PROFILES"`
	Profile      string `envconfig:"LAUNCH_PROFILE"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
	File        string `envconfig:"LOG_FILE"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"false"`
	// Global shares one bucket across all clients instead of one per IP
	Global bool `envconfig:"RATE_LIMIT_GLOBAL" default:"false"`
}

// CORSConfig holds the origins allowed to call the loopback endpoints from a page.
type CORSConfig struct {
	AllowOrigins []string `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost,http://127.0.0.1"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "63342",
			Host: "127.0.0.1",
		},
		Browser: BrowserConfig{
			HomeURL:      "about:blank",
			ZoomStep:     0.1,
			FetchEnabled: true,
			FetchTimeout: 10 * time.Second,
		},
		UI: UIConfig{
			QueueSize: 256,
		},
		Workspace: WorkspaceConfig{
			Name:     "default",
			Dir:      ".",
			AutoOpen: true,
		},
		Logging: LogConfig{
			Level: "info",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"http://localhost", "http://127.0.0.1"},
		},
	}
}
