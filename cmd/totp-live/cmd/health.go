package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/totp-live/tui/internal/client"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the code server is up",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd, opts)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()
		return checkHealth(ctx, cmd.OutOrStdout(), client.NewHTTPClient(cfg.Server.URL, cfg.Server.Token))
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func checkHealth(ctx context.Context, w io.Writer, c *client.HTTPClient) error {
	h, err := c.Health(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, h.Status)
	if h.Status != "UP" {
		return fmt.Errorf("server reports status %q", h.Status)
	}
	return nil
}
