package config

import (
	"time"

	"github.com/sirupsen/logrus"
)

type Config interface {
	// Listen is the TCP address the HTTP server binds to.
	Listen() string
	// PublicDir is the directory served under /public.
	PublicDir() string
	// CommandTimeout bounds each run of the battery diagnostic command.
	CommandTimeout() time.Duration
	// AllowedOrigin is sent as Access-Control-Allow-Origin on battery responses.
	AllowedOrigin() string

	SetListen(string)
	SetPublicDir(string)
	SetCommandTimeout(time.Duration)
	SetAllowedOrigin(string)

	LogrusFields() logrus.Fields

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}
