package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/totp-live/tui/internal/config"
	"github.com/totp-live/tui/internal/params"
)

const defaultConfigFile = "totp-live.yaml"

type options struct {
	config    string
	url       string
	transport string
	token     string
	logFile   string
	logLevel  string

	secret string
	digits string
	period string
	uri    string
}

var opts options

var rootCmd = &cobra.Command{
	Use:   "totp-live",
	Short: "Watch live TOTP codes streamed from a code server",
	Long: `totp-live subscribes to a TOTP code server over Server-Sent Events or
WebSocket and shows the current code with a countdown. Editing any parameter
restarts the subscription.`,
	SilenceUsage: true,
	RunE:         runWatch,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.config, "config", "", "config file (default ./"+defaultConfigFile+" if present)")
	pf.StringVar(&opts.url, "url", "", "code server base URL")
	pf.StringVar(&opts.transport, "transport", "", "stream transport: sse or websocket")
	pf.StringVar(&opts.token, "token", "", "bearer token sent with every request")
	pf.StringVar(&opts.logFile, "log-file", "", "log file path")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	addParamFlags(rootCmd, &opts)
}

// addParamFlags registers the session parameter flags on c.
func addParamFlags(c *cobra.Command, o *options) {
	f := c.Flags()
	f.StringVar(&o.secret, "secret", "", "base32 shared secret")
	f.StringVar(&o.digits, "digits", "", "code length")
	f.StringVar(&o.period, "period", "", "code period in seconds")
	f.StringVar(&o.uri, "uri", "", "otpauth:// URI or page URL carrying secret, digits and period")
}

// resolveConfig loads the config file and applies flag overrides. Without
// --config the default file is optional.
func resolveConfig(c *cobra.Command, o options) (*config.Config, error) {
	path, optional := o.config, false
	if path == "" {
		path, optional = defaultConfigFile, true
	}
	cfg, err := config.Load(path, optional)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	f := c.Flags()
	if f.Changed("url") {
		cfg.Server.URL = strings.TrimSuffix(o.url, "/")
	}
	if f.Changed("transport") {
		cfg.Server.Transport = o.transport
	}
	if f.Changed("token") {
		cfg.Server.Token = o.token
	}
	if f.Changed("log-file") {
		cfg.Log.File = o.logFile
	}
	if f.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveParams layers the initial parameters: config defaults, then the
// URI, then explicit flags.
func resolveParams(c *cobra.Command, cfg *config.Config, o options) (params.Set, error) {
	p := params.FromInput(cfg.Defaults.Secret, cfg.Defaults.Digits, cfg.Defaults.Period)

	if o.uri != "" {
		fromURI, err := params.FromURI(o.uri)
		if err != nil {
			return params.Set{}, err
		}
		p = p.Overlay(fromURI)
	}

	var fromFlags params.Set
	f := c.Flags()
	if f.Changed("secret") {
		fromFlags.Secret = o.secret
	}
	if f.Changed("digits") {
		fromFlags.Digits = o.digits
	}
	if f.Changed("period") {
		fromFlags.Period = params.FromInput("", "", o.period).Period
	}
	return p.Overlay(fromFlags), nil
}
