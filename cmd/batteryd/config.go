package main

import (
	"encoding/json"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/batteryd/batteryd/pkg/config"
)

// NewConfigCommand edits the config file the daemon reads. A running
// daemon picks changes up on SIGHUP.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Show or change the daemon config file",
		GroupID: gAdvanced,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective config, defaults included",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				conf, err := config.NewFile(configPath)
				if err != nil {
					return pkgerrors.Wrapf(err, "failed to load config")
				}
				return printConfig(cmd, conf)
			},
		},
		&cobra.Command{
			Use:   "set-timeout [seconds]",
			Short: "Set how long the battery command may run",
			RunE: func(_ *cobra.Command, args []string) error {
				seconds, err := parseIntArg(args, "timeout")
				if err != nil {
					return err
				}
				if seconds < 1 {
					return fmt.Errorf("invalid timeout: must be at least 1 second")
				}
				return updateConfig(func(c config.Config) {
					c.SetCommandTimeout(time.Duration(seconds) * time.Second)
				})
			},
		},
		&cobra.Command{
			Use:   "set-origin [origin]",
			Short: "Set the Access-Control-Allow-Origin sent with battery readings",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return updateConfig(func(c config.Config) {
					c.SetAllowedOrigin(args[0])
				})
			},
		},
	)

	return cmd
}

func printConfig(cmd *cobra.Command, c config.Config) error {
	raw, err := config.NewRawFileConfigFromConfig(c)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(raw)
}

func updateConfig(set func(config.Config)) error {
	conf, err := config.NewFile(configPath)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to load config")
	}

	set(conf)

	if err := conf.Save(); err != nil {
		return pkgerrors.Wrapf(err, "failed to save config")
	}

	logrus.WithFields(conf.LogrusFields()).Infof("config saved to %s, send SIGHUP to a running daemon to apply it", configPath)
	return nil
}
