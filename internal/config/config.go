package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/totp-live/tui/internal/client"
)

// Transport names.
const (
	TransportSSE       = "sse"
	TransportWebSocket = "websocket"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Session  SessionConfig  `yaml:"session"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	URL           string `yaml:"url"`
	Transport     string `yaml:"transport"`
	StreamPath    string `yaml:"stream_path"`
	WebSocketPath string `yaml:"websocket_path"`
	Token         string `yaml:"token"`
}

type SessionConfig struct {
	RetryDelay   time.Duration `yaml:"retry_delay"`
	TickInterval time.Duration `yaml:"tick_interval"`
}

// DefaultsConfig pre-fills the parameter inputs.
type DefaultsConfig struct {
	Secret string `yaml:"secret"`
	Digits string `yaml:"digits"`
	Period string `yaml:"period"`
}

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:           "http://127.0.0.1:8080",
			Transport:     TransportSSE,
			StreamPath:    client.DefaultStreamPath,
			WebSocketPath: client.DefaultWebSocketPath,
		},
		Session: SessionConfig{
			RetryDelay:   2 * time.Second,
			TickInterval: time.Second,
		},
		Defaults: DefaultsConfig{
			Digits: "6",
			Period: "30",
		},
		Log: LogConfig{
			File:  "totp-live.log",
			Level: "info",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error when
// optional is set.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values a file or flag may have set.
func (c *Config) Validate() error {
	c.Server.Transport = strings.ToLower(strings.TrimSpace(c.Server.Transport))
	switch c.Server.Transport {
	case TransportSSE, TransportWebSocket:
	default:
		return fmt.Errorf("server.transport must be %q or %q, got %q", TransportSSE, TransportWebSocket, c.Server.Transport)
	}
	if c.Server.URL == "" {
		return errors.New("server.url must be set")
	}
	if c.Session.RetryDelay <= 0 {
		return errors.New("session.retry_delay must be positive")
	}
	if c.Session.TickInterval <= 0 {
		return errors.New("session.tick_interval must be positive")
	}
	return nil
}

// StreamURL is the endpoint the selected transport subscribes to.
func (c *Config) StreamURL() string {
	base := strings.TrimSuffix(c.Server.URL, "/")
	if c.Server.Transport == TransportWebSocket {
		return client.DeriveWSBase(base) + c.Server.WebSocketPath
	}
	return base + c.Server.StreamPath
}
