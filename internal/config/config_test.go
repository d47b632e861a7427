package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  url: "https://codes.example.com"
  transport: WebSocket
  websocket_path: /live
session:
  retry_delay: 5s
defaults:
  secret: JBSWY3DPEHPK3PXP
  digits: "8"
log:
  level: debug
`)

	cfg, err := Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, "https://codes.example.com", cfg.Server.URL)
	assert.Equal(t, TransportWebSocket, cfg.Server.Transport)
	assert.Equal(t, 5*time.Second, cfg.Session.RetryDelay)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", cfg.Defaults.Secret)
	assert.Equal(t, "8", cfg.Defaults.Digits)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Unset keys keep their defaults.
	assert.Equal(t, time.Second, cfg.Session.TickInterval)
	assert.Equal(t, "30", cfg.Defaults.Period)
	assert.Equal(t, "totp-live.log", cfg.Log.File)
	assert.Equal(t, "wss://codes.example.com/live", cfg.StreamURL())
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(path, false)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "server: [unclosed"},
		{"unknown transport", "server:\n  transport: grpc\n"},
		{"zero retry", "session:\n  retry_delay: 0s\n"},
		{"negative tick", "session:\n  tick_interval: -1s\n"},
		{"empty url", "server:\n  url: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), false)
			require.Error(t, err)
		})
	}
}

func TestStreamURL(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "http://127.0.0.1:8080/totp-stream", cfg.StreamURL())

	cfg.Server.URL = "http://127.0.0.1:8080/"
	assert.Equal(t, "http://127.0.0.1:8080/totp-stream", cfg.StreamURL())

	cfg.Server.Transport = TransportWebSocket
	assert.Equal(t, "ws://127.0.0.1:8080/totp-ws", cfg.StreamURL())
}
