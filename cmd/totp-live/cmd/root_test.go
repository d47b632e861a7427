package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totp-live/tui/internal/client"
	"github.com/totp-live/tui/internal/config"
	"github.com/totp-live/tui/internal/params"
)

// newTestCommand builds a command with the same flags as watch and parses args.
func newTestCommand(t *testing.T, args ...string) (*cobra.Command, *options) {
	t.Helper()
	o := &options{}
	c := &cobra.Command{Use: "test"}
	f := c.Flags()
	f.StringVar(&o.config, "config", "", "")
	f.StringVar(&o.url, "url", "", "")
	f.StringVar(&o.transport, "transport", "", "")
	f.StringVar(&o.token, "token", "", "")
	f.StringVar(&o.logFile, "log-file", "", "")
	f.StringVar(&o.logLevel, "log-level", "", "")
	addParamFlags(c, o)
	require.NoError(t, c.ParseFlags(args))
	return c, o
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "totp-live.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestResolveConfigDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	c, o := newTestCommand(t)

	cfg, err := resolveConfig(c, *o)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Server.URL, cfg.Server.URL)
	assert.Equal(t, config.TransportSSE, cfg.Server.Transport)
}

func TestResolveConfigFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `
server:
  url: http://file.example:9000
  transport: sse
  token: from-file
log:
  level: debug
`)
	c, o := newTestCommand(t, "--config", path, "--url", "https://flag.example/", "--transport", "WebSocket")

	cfg, err := resolveConfig(c, *o)
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example", cfg.Server.URL)
	assert.Equal(t, config.TransportWebSocket, cfg.Server.Transport)
	assert.Equal(t, "from-file", cfg.Server.Token)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "wss://flag.example/totp-ws", cfg.StreamURL())
}

func TestResolveConfigExplicitMissingFile(t *testing.T) {
	c, o := newTestCommand(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := resolveConfig(c, *o)
	require.Error(t, err)
}

func TestResolveConfigRejectsTransport(t *testing.T) {
	t.Chdir(t.TempDir())
	c, o := newTestCommand(t, "--transport", "carrier-pigeon")
	_, err := resolveConfig(c, *o)
	require.Error(t, err)
}

func TestResolveParamsLayering(t *testing.T) {
	cfg := config.Default()
	cfg.Defaults.Secret = "DEFAULTSECRET"

	tests := []struct {
		name string
		args []string
		want params.Set
	}{
		{
			name: "config defaults",
			want: params.Set{Secret: "DEFAULTSECRET", Digits: "6", Period: 30},
		},
		{
			name: "uri overrides defaults",
			args: []string{"--uri", "otpauth://totp/Example:alice?secret=URISECRET&digits=8&issuer=Example"},
			want: params.Set{Secret: "URISECRET", Digits: "8", Period: 30},
		},
		{
			name: "flags override uri",
			args: []string{"--uri", "https://codes.example/?secret=URISECRET&period=60", "--secret", "FLAGSECRET", "--period", "45"},
			want: params.Set{Secret: "FLAGSECRET", Digits: "6", Period: 45},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, o := newTestCommand(t, tt.args...)
			got, err := resolveParams(c, cfg, *o)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveParamsBadURI(t *testing.T) {
	c, o := newTestCommand(t, "--uri", "otpauth://hotp/Example?secret=X")
	_, err := resolveParams(c, config.Default(), *o)
	require.Error(t, err)
}

func TestFetchOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, client.DataPath, r.URL.Path)
		assert.Equal(t, "JBSWY3DPEHPK3PXP", r.URL.Query().Get("secret"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"492039","remainingTime":17,"progressPercent":56.67}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := fetchOnce(context.Background(), &out, client.NewHTTPClient(srv.URL, ""),
		params.Set{Secret: "JBSWY3DPEHPK3PXP", Digits: "6", Period: 30})
	require.NoError(t, err)
	assert.Equal(t, "492039  17s remaining (57%)\n", out.String())
}

func TestFetchOnceRequiresParams(t *testing.T) {
	err := fetchOnce(context.Background(), &bytes.Buffer{}, client.NewHTTPClient("http://127.0.0.1:1", ""), params.Set{Digits: "6", Period: 30})
	assert.ErrorIs(t, err, errMissingParams)
}

func healthServer(t *testing.T, status string) *client.HTTPClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"` + status + `"}`))
	}))
	t.Cleanup(srv.Close)
	return client.NewHTTPClient(srv.URL, "")
}

func TestCheckHealth(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, checkHealth(context.Background(), &out, healthServer(t, "UP")))
	assert.Equal(t, "UP\n", out.String())

	require.Error(t, checkHealth(context.Background(), &bytes.Buffer{}, healthServer(t, "DOWN")))
}
