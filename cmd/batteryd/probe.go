package main

import (
	"context"
	"encoding/json"
	"fmt"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/batteryd/batteryd/pkg/config"
	"github.com/batteryd/batteryd/pkg/executor"
	"github.com/batteryd/batteryd/pkg/platform"
	"github.com/batteryd/batteryd/pkg/service"
)

// NewProbeCommand runs one reading in-process, without a server.
func NewProbeCommand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:     "probe",
		GroupID: gAdvanced,
		Short:   "Read the battery once locally and print the JSON the server would return",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.NewFile(configPath)
			if err != nil {
				return pkgerrors.Wrapf(err, "failed to load config")
			}

			profile := platform.Resolve(platform.Current())
			logrus.WithFields(platform.HostFields()).WithField("profile", profile.ID).Debug("platform resolved")

			shell := executor.NewShell(conf.CommandTimeout())
			return probe(cmd, profile, shell, raw)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "also print the command, its raw output and the parsed fields")

	return cmd
}

func probe(cmd *cobra.Command, profile platform.Profile, e executor.Executor, raw bool) error {
	ctx := context.Background()

	if raw && profile.Supported() {
		out, err := executor.Execute(ctx, e, profile.Command)
		if err != nil {
			return pkgerrors.WithMessage(err, "battery command failed")
		}
		fields, err := json.MarshalIndent(profile.Parse(out), "", "  ")
		if err != nil {
			return err
		}
		cmd.Printf("Command:\n  %s\n", profile.Command)
		cmd.Printf("Output:\n%s\n", out)
		cmd.Printf("Fields:\n%s\n", fields)
	}

	b, err := service.New(profile, e).QueryJSON(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}
