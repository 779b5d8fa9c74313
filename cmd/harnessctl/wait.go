package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	waitFor      time.Duration
	waitInterval time.Duration
)

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Block until the server answers /ping",
	Long: `wait polls until the server answers /ping or --for elapses. The
discovery file is re-read on every attempt, so wait can be started before the
game has bound its port.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), waitFor)
		defer cancel()

		ticker := time.NewTicker(waitInterval)
		defer ticker.Stop()

		var lastErr error
		for {
			c := newClient()
			res, err := c.Ping(ctx)
			if err == nil {
				green := color.New(color.FgGreen)
				green.Fprintf(cmd.OutOrStdout(), "ready: %s (game %v)\n", c.Addr, res.Body["game"])
				return nil
			}
			lastErr = err

			select {
			case <-ctx.Done():
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					return fmt.Errorf("server not ready after %s: %w", waitFor, lastErr)
				}
				return ctx.Err()
			case <-ticker.C:
			}
		}
	},
}

var portCmd = &cobra.Command{
	Use:   "port",
	Short: "Print the port from the discovery file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		port, err := discoveredPort()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), port)
		return nil
	},
}

func init() {
	waitCmd.Flags().DurationVar(&waitFor, "for", 30*time.Second, "give up after this long")
	waitCmd.Flags().DurationVar(&waitInterval, "interval", 250*time.Millisecond, "delay between attempts")
	rootCmd.AddCommand(waitCmd, portCmd)
}
