package cmd

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/totp-live/tui/internal/app"
	"github.com/totp-live/tui/internal/client"
	"github.com/totp-live/tui/internal/config"
	"github.com/totp-live/tui/internal/logging"
	"github.com/totp-live/tui/internal/stream"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the live code in a terminal UI (default)",
	RunE:  runWatch,
}

func init() {
	addParamFlags(watchCmd, &opts)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	initial, err := resolveParams(cmd, cfg, opts)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.Open(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	sink := app.NewSink()
	defer sink.Close()

	session := stream.New(newTransport(cfg), sink,
		stream.WithRetryDelay(cfg.Session.RetryDelay),
		stream.WithTickInterval(cfg.Session.TickInterval),
		stream.WithLogger(logger.With("component", "stream")),
		stream.WithObserver(sink.Observe),
	)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = session.Run(ctx)
	}()

	logger.Info("starting", "transport", cfg.Server.Transport, "endpoint", cfg.StreamURL())
	m := app.New(session, sink, initial, cfg.Server.Transport, cfg.StreamURL())
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()

	cancel()
	<-done
	return err
}

// newTransport builds the stream transport selected by the config.
func newTransport(cfg *config.Config) stream.Transport {
	if cfg.Server.Transport == config.TransportWebSocket {
		return client.NewWSClient(cfg.StreamURL(), cfg.Server.Token)
	}
	return client.NewSSEClient(cfg.StreamURL(), cfg.Server.Token)
}
