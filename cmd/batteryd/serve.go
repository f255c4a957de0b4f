package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/batteryd/batteryd/pkg/daemon"
	"github.com/batteryd/batteryd/pkg/version"
)

var (
	listenAddr string
	publicDir  string
)

// NewServeCommand .
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve [port]",
		Short:   "Run the battery HTTP server in the foreground",
		GroupID: gBasic,
		Long: `Run the battery HTTP server in the foreground.

The port may be given as the only argument, as in 'batteryd serve 8080'.
It takes precedence over --listen and the config file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			listen := listenAddr
			port, err := parsePortArg(args)
			if err != nil {
				return err
			}
			if port != "" {
				listen = port
			}

			logrus.WithFields(logrus.Fields{
				"version": version.Version,
				"commit":  version.GitCommit,
			}).Info("batteryd starting")

			return daemon.Run(daemon.Options{
				ConfigPath: configPath,
				Listen:     listen,
				PublicDir:  publicDir,
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&listenAddr, "listen", "", "address to listen on, overrides the config file (e.g. :8080)")
	f.StringVar(&publicDir, "public-dir", "", "directory served under /public, overrides the config file")

	return cmd
}
