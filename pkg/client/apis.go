package client

import (
	"encoding/json"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/batteryd/batteryd/pkg/powerinfo"
)

// GetBattery returns the reading served at /battery. An empty Status
// means the daemon runs on a platform without battery support.
func (c *Client) GetBattery() (*powerinfo.Status, error) {
	return c.getStatus("/battery", "failed to get battery status")
}

// GetBatteryInfo returns the native OS reading served at /battery-info.
func (c *Client) GetBatteryInfo() (*powerinfo.Status, error) {
	return c.getStatus("/battery-info", "failed to get battery info")
}

func (c *Client) getStatus(path, msg string) (*powerinfo.Status, error) {
	ret, err := c.Get(path)
	if err != nil {
		return nil, pkgerrors.Wrap(err, msg)
	}

	var s powerinfo.Status
	if err := json.Unmarshal([]byte(ret), &s); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal response from %s", path)
	}

	return &s, nil
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}

	var v string
	if err := json.Unmarshal([]byte(strings.TrimSpace(ret)), &v); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to unmarshal version")
	}
	return v, nil
}
