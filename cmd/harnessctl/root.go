package main

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"gameharness/internal/adapter/discovery"
	"gameharness/internal/client"

	"github.com/spf13/cobra"
)

var (
	addrFlag      string
	discoveryFile string
	fieldPath     string
	rawOutput     bool
	timeout       time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "harnessctl",
	Short: "Inspect and drive a running game through its automation server",
	Long: `harnessctl sends single requests to the automation server embedded in a
running game. Without --addr the port is read from the discovery file the
server writes when it starts listening.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&addrFlag, "addr", "", "server address (default: discovered port on 127.0.0.1, then "+client.DefaultAddr+")")
	rootCmd.PersistentFlags().StringVar(&discoveryFile, "discovery-file", "", "discovery file path (default: state dir/"+discovery.DefaultFileName+")")
	rootCmd.PersistentFlags().StringVar(&fieldPath, "field", "", "print only this gjson path of the response, e.g. state.score")
	rootCmd.PersistentFlags().BoolVar(&rawOutput, "raw", false, "print the response body unformatted")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "request timeout")
}

func discoveryPath() (string, error) {
	if discoveryFile != "" {
		return discoveryFile, nil
	}
	return discovery.DefaultPath()
}

func discoveredPort() (int, error) {
	path, err := discoveryPath()
	if err != nil {
		return 0, err
	}
	return discovery.ReadPort(path)
}

// resolveAddr prefers --addr, then the discovery file, then the default port.
func resolveAddr() string {
	if addrFlag != "" {
		return addrFlag
	}
	if port, err := discoveredPort(); err == nil {
		return net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	}
	return client.DefaultAddr
}

func newClient() client.Client {
	return client.Client{Addr: resolveAddr(), Timeout: timeout}
}

// runCall performs one request, prints the response and fails when it carries
// an error body.
func runCall(cmd *cobra.Command, call func(ctx context.Context, c client.Client) (client.Result, error)) error {
	c := newClient()
	res, err := call(cmd.Context(), c)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Addr, err)
	}
	if err := printResult(cmd.OutOrStdout(), res.Raw); err != nil {
		return err
	}
	return res.Err()
}
