package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gameharness/internal/client"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the server and show the attached game",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCall(cmd, func(ctx context.Context, c client.Client) (client.Result, error) {
			return c.Ping(ctx)
		})
	},
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the game state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCall(cmd, func(ctx context.Context, c client.Client) (client.Result, error) {
			return c.State(ctx)
		})
	},
}

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the actions the game accepts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCall(cmd, func(ctx context.Context, c client.Client) (client.Result, error) {
			return c.Actions(ctx)
		})
	},
}

var tapCmd = &cobra.Command{
	Use:   "tap X Y",
	Short: "Tap the scene at X,Y",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid x %q", args[0])
		}
		y, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid y %q", args[1])
		}
		return runCall(cmd, func(ctx context.Context, c client.Client) (client.Result, error) {
			return c.Tap(ctx, x, y)
		})
	},
}

var (
	actionParams     []string
	actionParamsJSON string
)

var actionCmd = &cobra.Command{
	Use:   "action NAME",
	Short: "Run a named game action",
	Example: `  harnessctl action increase_ppt
  harnessctl action select_creature --param creature_id=fire_fire
  harnessctl action tap --params '{"x":200,"y":400}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := buildParams(actionParamsJSON, actionParams)
		if err != nil {
			return err
		}
		return runCall(cmd, func(ctx context.Context, c client.Client) (client.Result, error) {
			return c.Action(ctx, args[0], params)
		})
	},
}

// buildParams merges --params with --param pairs, pairs last. A pair value
// that parses as JSON keeps its type; anything else is a string.
func buildParams(rawJSON string, pairs []string) (map[string]any, error) {
	params := map[string]any{}
	if rawJSON != "" {
		if err := json.Unmarshal([]byte(rawJSON), &params); err != nil || params == nil {
			return nil, fmt.Errorf("--params must be a JSON object")
		}
	}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q, want key=value", pair)
		}
		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			params[key] = decoded
		} else {
			params[key] = value
		}
	}
	return params, nil
}

func init() {
	actionCmd.Flags().StringArrayVar(&actionParams, "param", nil, "action parameter as key=value (repeatable)")
	actionCmd.Flags().StringVar(&actionParamsJSON, "params", "", "action parameters as a JSON object")

	rootCmd.AddCommand(pingCmd, stateCmd, actionsCmd, tapCmd, actionCmd)
}
