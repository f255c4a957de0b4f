package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"

	"github.com/batteryd/batteryd/pkg/powerinfo"
)

func parseIntArg(args []string, valueName string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("invalid number of arguments")
	}

	value, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", valueName, err)
	}

	return value, nil
}

// parsePortArg turns the optional positional port of serve into a listen
// address.
func parsePortArg(args []string) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	port, err := parseIntArg(args, "port")
	if err != nil {
		return "", err
	}
	if port < 1 || port > 65535 {
		return "", fmt.Errorf("invalid port: %d is out of range", port)
	}

	return ":" + strconv.Itoa(port), nil
}

func stateText(state powerinfo.BatteryState) string {
	switch state {
	case powerinfo.Charging:
		return color.GreenString("charging")
	case powerinfo.Discharging:
		return color.RedString("discharging")
	case powerinfo.Full:
		return "full"
	case "":
		return "unknown"
	default:
		return string(state)
	}
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
