// Package executor runs battery diagnostic commands through the platform shell.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds a command when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Result is the single completion value of a started command.
type Result struct {
	Stdout string
	Err    error
}

// Executor runs diagnostic commands.
type Executor interface {
	// Start runs command in the background. The returned channel receives
	// exactly one Result and is never closed without one.
	Start(ctx context.Context, command string) <-chan Result
}

// Execute starts command on e and waits for its result.
func Execute(ctx context.Context, e Executor, command string) (string, error) {
	r := <-e.Start(ctx, command)
	return r.Stdout, r.Err
}

// ExecutionError is returned when a command cannot be started, exits
// with a non-zero status, or is killed by the timeout.
type ExecutionError struct {
	Command string
	// Code is the exit status, or -1 if the process did not exit on its
	// own (failed to start, killed).
	Code   int
	Stderr string
	Err    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("command %q failed with code %d: %v", e.Command, e.Code, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Shell runs commands through the platform shell so that pipelines in a
// command string work as written. Stdin is empty; the environment and
// working directory are inherited.
type Shell struct {
	// timeout bounds each command, in nanoseconds. Zero means
	// DefaultTimeout.
	timeout atomic.Int64
}

var _ Executor = &Shell{}

// NewShell returns a Shell with the given timeout.
func NewShell(timeout time.Duration) *Shell {
	s := &Shell{}
	s.SetTimeout(timeout)
	return s
}

// SetTimeout changes the timeout for commands started afterwards.
func (s *Shell) SetTimeout(d time.Duration) {
	s.timeout.Store(int64(d))
}

// Timeout returns the timeout applied to each command.
func (s *Shell) Timeout() time.Duration {
	if d := time.Duration(s.timeout.Load()); d > 0 {
		return d
	}
	return DefaultTimeout
}

func (s *Shell) Start(ctx context.Context, command string) <-chan Result {
	done := make(chan Result, 1)
	go func() {
		done <- s.run(ctx, command)
	}()
	return done
}

func (s *Shell) run(ctx context.Context, command string) Result {
	timeout := s.Timeout()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	name, args := shellCommand(command)
	cmd := exec.CommandContext(ctx, name, args...)
	// Pipelines leave grandchildren holding stdout after the shell is
	// killed; stop waiting for them shortly after.
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logrus.WithFields(logrus.Fields{
		"shell":   name,
		"command": command,
		"timeout": timeout,
	}).Debug("running command")

	err := cmd.Run()
	if err == nil {
		return Result{Stdout: stdout.String()}
	}

	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = pkgerrors.Wrapf(ctxErr, "command did not finish within %s", timeout)
		code = -1
	}

	return Result{Err: &ExecutionError{
		Command: command,
		Code:    code,
		Stderr:  strings.TrimSpace(stderr.String()),
		Err:     err,
	}}
}

func shellCommand(command string) (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C", command}
	}
	return "sh", []string{"-c", command}
}
