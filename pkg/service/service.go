// Package service acquires one battery reading per call: it runs the
// platform's diagnostic command, parses its output and normalizes it.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/batteryd/batteryd/pkg/events"
	"github.com/batteryd/batteryd/pkg/executor"
	"github.com/batteryd/batteryd/pkg/parser"
	"github.com/batteryd/batteryd/pkg/platform"
	"github.com/batteryd/batteryd/pkg/powerinfo"
)

var (
	// ErrCommandFailed is returned when the diagnostic command could not
	// run or exited with an error.
	ErrCommandFailed = errors.New("battery command failed")

	// ErrParseFailed is returned when the command ran but its output could
	// not be turned into fields.
	ErrParseFailed = errors.New("failed to parse battery command output")
)

// Service serves battery readings for one platform profile. It holds no
// per-request state and is safe for concurrent use.
type Service struct {
	profile  platform.Profile
	executor executor.Executor
	hub      *events.EventHub
}

// Option configures a Service.
type Option func(*Service)

// WithEventHub publishes every reading and failure to h.
func WithEventHub(h *events.EventHub) Option {
	return func(s *Service) {
		s.hub = h
	}
}

// New returns a Service running profile's command on e.
func New(profile platform.Profile, e executor.Executor, opts ...Option) *Service {
	s := &Service{
		profile:  profile,
		executor: e,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Profile returns the platform profile the service was built with.
func (s *Service) Profile() platform.Profile {
	return s.profile
}

// Query runs the diagnostic command once and returns the normalized
// reading. On an unsupported platform it returns an empty Status without
// running anything.
//
// Cancelling ctx does not stop a command that is already running; it is
// bounded by the executor's timeout instead and its result is discarded.
func (s *Service) Query(ctx context.Context) (*powerinfo.Status, error) {
	if !s.profile.Supported() {
		return &powerinfo.Status{}, nil
	}

	res := <-s.executor.Start(context.WithoutCancel(ctx), s.profile.Command)
	if res.Err != nil {
		s.commandFailed(res.Err)
		return nil, fmt.Errorf("%w: %w", ErrCommandFailed, res.Err)
	}

	fields, err := s.parse(res.Stdout)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"platform": s.profile.ID,
			"output":   res.Stdout,
		}).Errorf("failed to parse battery status: %v", err)
		s.hub.Publish(events.BatteryError, events.BatteryErrorEvent{
			Reason: err.Error(),
			Ts:     time.Now().Unix(),
		})
		return nil, err
	}

	status := powerinfo.Normalize(s.profile.ID, fields)
	s.hub.Publish(events.BatteryStatus, status)

	return &status, nil
}

// QueryJSON is Query with the reading encoded as JSON.
func (s *Service) QueryJSON(ctx context.Context) ([]byte, error) {
	status, err := s.Query(ctx)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(status)
	if err != nil {
		return nil, pkgerrors.Wrapf(ErrParseFailed, "failed to encode battery status: %v", err)
	}
	return b, nil
}

// parse runs the profile's parser and turns a panic into ErrParseFailed.
func (s *Service) parse(raw string) (fields parser.Fields, err error) {
	defer func() {
		if r := recover(); r != nil {
			fields = nil
			err = pkgerrors.Wrapf(ErrParseFailed, "parser panicked: %v", r)
		}
	}()

	fields = s.profile.Parse(raw)
	if fields == nil {
		return nil, pkgerrors.WithMessage(ErrParseFailed, "parser returned no fields")
	}
	return fields, nil
}

func (s *Service) commandFailed(err error) {
	entry := logrus.WithFields(logrus.Fields{
		"platform": s.profile.ID,
		"command":  s.profile.Command,
	})

	code := -1
	var execErr *executor.ExecutionError
	if errors.As(err, &execErr) {
		code = execErr.Code
		if execErr.Stderr != "" {
			entry = entry.WithField("stderr", execErr.Stderr)
		}
	}

	entry.Errorf("child process failed with error code %d: %v", code, err)

	s.hub.Publish(events.BatteryError, events.BatteryErrorEvent{
		Reason: ErrCommandFailed.Error(),
		Code:   code,
		Ts:     time.Now().Unix(),
	})
}
