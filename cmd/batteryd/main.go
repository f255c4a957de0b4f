package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/batteryd/batteryd/pkg/client"
)

var (
	logLevel   = "info"
	configPath = "batteryd.json"
	daemonAddr = "localhost:8080"
)

var (
	gBasic        = "Basic:"
	gAdvanced     = "Advanced:"
	commandGroups = []string{
		gBasic,
		gAdvanced,
	}
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	if errors.Is(err, client.ErrDaemonNotRunning) {
		fmt.Fprintf(os.Stderr, "\nError: nothing is listening on %s\n", daemonAddr)
		fmt.Fprintln(os.Stderr, "Is the daemon running? Start it with 'batteryd serve' or pass --addr.")
	} else if errors.Is(err, client.ErrNotFound) {
		fmt.Fprintln(os.Stderr, "\nError: the daemon could not read the battery")
		fmt.Fprintln(os.Stderr, "  - Run 'batteryd probe --raw' on that machine to see the command output")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batteryd",
		Short: "batteryd serves the battery status of this machine over HTTP",
		Long: `batteryd serves the battery status of this machine over HTTP.

It reads the battery through the platform's own tools (upower on Linux,
pmset on macOS, WMIC on Windows) and answers GET /battery with JSON.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")
	globalFlags.StringVar(&daemonAddr, "addr", daemonAddr, "address of a running batteryd, used by client commands")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewServeCommand(),
		NewStatusCommand(),
		NewProbeCommand(),
		NewConfigCommand(),
		NewVersionCommand(),
	)

	return cmd
}
