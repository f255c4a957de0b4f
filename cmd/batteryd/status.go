package main

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/batteryd/batteryd/pkg/client"
	"github.com/batteryd/batteryd/pkg/powerinfo"
	"github.com/batteryd/batteryd/pkg/version"
)

func NewStatusCommand() *cobra.Command {
	var (
		asJSON bool
		native bool
	)

	cmd := &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the battery status from a running daemon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			apiClient := client.NewClient(daemonAddr)
			warnVersionMismatch(apiClient)

			get := apiClient.GetBattery
			if native {
				get = apiClient.GetBatteryInfo
			}
			s, err := get()
			if err != nil {
				return fmt.Errorf("failed to get battery status from %s: %w", apiClient.BaseURL(), err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			}

			printStatus(cmd, s)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the reading as JSON")
	cmd.Flags().BoolVar(&native, "native", false, "read the battery through the OS battery API instead of the platform tool")

	return cmd
}

func warnVersionMismatch(c *client.Client) {
	daemonVersion, err := c.GetVersion()
	if err != nil {
		return
	}
	if daemonVersion != version.Version {
		logrus.WithFields(logrus.Fields{
			"clientVersion": version.Version,
			"daemonVersion": daemonVersion,
		}).Warn("Version mismatch between client and daemon.")
	}
}

func printStatus(cmd *cobra.Command, s *powerinfo.Status) {
	if s.IsEmpty() {
		cmd.Println("The daemon reports no battery telemetry for its platform.")
		return
	}

	cmd.Println(bold("Battery status:"))
	if s.Percentage != nil {
		cmd.Printf("  Current charge: %s\n", bold("%d%%", *s.Percentage))
	} else {
		cmd.Printf("  Current charge: %s\n", bold("unknown"))
	}
	cmd.Printf("  State: %s\n", bold("%s", stateText(s.State)))
	if s.TimeToEmpty != "" {
		cmd.Printf("  Time to empty: %s\n", bold("%s", s.TimeToEmpty))
	}
}
