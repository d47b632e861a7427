package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/totp-live/tui/internal/client"
	"github.com/totp-live/tui/internal/params"
)

const requestTimeout = 10 * time.Second

var errMissingParams = errors.New("secret, digits and period are required")

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Fetch the current code once and print it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd, opts)
		if err != nil {
			return err
		}
		p, err := resolveParams(cmd, cfg, opts)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()
		return fetchOnce(ctx, cmd.OutOrStdout(), client.NewHTTPClient(cfg.Server.URL, cfg.Server.Token), p)
	},
}

func init() {
	addParamFlags(onceCmd, &opts)
	rootCmd.AddCommand(onceCmd)
}

func fetchOnce(ctx context.Context, w io.Writer, c *client.HTTPClient, p params.Set) error {
	if !p.Valid() {
		return errMissingParams
	}
	u, err := c.FetchCode(ctx, p)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s  %ds remaining (%.0f%%)\n", u.Code, u.RemainingTime, u.ProgressPercent)
	return err
}
