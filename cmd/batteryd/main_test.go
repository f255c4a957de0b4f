package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/batteryd/batteryd/pkg/client"
	"github.com/batteryd/batteryd/pkg/config"
	"github.com/batteryd/batteryd/pkg/executor"
	"github.com/batteryd/batteryd/pkg/platform"
	"github.com/batteryd/batteryd/pkg/powerinfo"
	"github.com/batteryd/batteryd/pkg/utils/ptr"
	"github.com/batteryd/batteryd/pkg/version"
)

func init() {
	color.NoColor = true
}

func TestParsePortArg(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "no port", args: nil, want: ""},
		{name: "port", args: []string{"9090"}, want: ":9090"},
		{name: "not a number", args: []string{"http"}, wantErr: true},
		{name: "out of range", args: []string{"70000"}, wantErr: true},
		{name: "zero", args: []string{"0"}, wantErr: true},
		{name: "too many", args: []string{"1", "2"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePortArg(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePortArg() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parsePortArg() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStateText(t *testing.T) {
	tests := []struct {
		state powerinfo.BatteryState
		want  string
	}{
		{state: powerinfo.Charging, want: "charging"},
		{state: powerinfo.Discharging, want: "discharging"},
		{state: powerinfo.Full, want: "full"},
		{state: "", want: "unknown"},
		{state: "pending-charge", want: "pending-charge"},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := stateText(tt.state); got != tt.want {
				t.Errorf("stateText(%q) = %q, want %q", tt.state, got, tt.want)
			}
		})
	}
}

func TestPrintStatus(t *testing.T) {
	tests := []struct {
		name   string
		status powerinfo.Status
		want   []string
	}{
		{
			name:   "discharging",
			status: powerinfo.Status{Percentage: ptr.To(57), State: powerinfo.Discharging, TimeToEmpty: "1:52"},
			want:   []string{"Current charge: 57%", "State: discharging", "Time to empty: 1:52"},
		},
		{
			name:   "no percentage",
			status: powerinfo.Status{State: powerinfo.Full},
			want:   []string{"Current charge: unknown", "State: full"},
		},
		{
			name:   "empty",
			status: powerinfo.Status{},
			want:   []string{"no battery telemetry"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cmd := &cobra.Command{}
			cmd.SetOut(&out)

			printStatus(cmd, &tt.status)

			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output %q does not contain %q", out.String(), w)
				}
			}
		})
	}
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if want := version.Version + " " + version.GitCommit; strings.TrimSpace(out) != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestStatusCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/version":
			_, _ = w.Write([]byte(`"` + version.Version + `"`))
		case "/battery":
			_, _ = w.Write([]byte(`{"percentage":80,"state":"charging"}`))
		case "/battery-info":
			_, _ = w.Write([]byte(`{"percentage":79,"state":"charging"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out, err := runCommand(t, "status", "--addr", srv.URL)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(out, "Current charge: 80%") || !strings.Contains(out, "State: charging") {
		t.Errorf("unexpected output %q", out)
	}

	out, err = runCommand(t, "status", "--json", "--addr", srv.URL)
	if err != nil {
		t.Fatalf("status --json failed: %v", err)
	}
	var s powerinfo.Status
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("output %q is not JSON: %v", out, err)
	}
	if s.Percentage == nil || *s.Percentage != 80 || s.State != powerinfo.Charging {
		t.Errorf("got %+v", s)
	}

	out, err = runCommand(t, "status", "--native", "--addr", srv.URL)
	if err != nil {
		t.Fatalf("status --native failed: %v", err)
	}
	if !strings.Contains(out, "Current charge: 79%") {
		t.Errorf("--native should read /battery-info, got %q", out)
	}
}

func TestStatusCommandDaemonError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "404 - Unable to retrieve battery status", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := runCommand(t, "status", "--addr", srv.URL)
	if !errors.Is(err, client.ErrNotFound) {
		t.Fatalf("status error = %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), srv.URL) {
		t.Errorf("error %q should name the daemon address", err)
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batteryd.json")

	if _, err := runCommand(t, "--config", path, "config", "set-timeout", "9"); err != nil {
		t.Fatalf("set-timeout failed: %v", err)
	}
	if _, err := runCommand(t, "--config", path, "config", "set-origin", "http://localhost:3000"); err != nil {
		t.Fatalf("set-origin failed: %v", err)
	}

	conf, err := config.NewFile(path)
	if err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if got := conf.CommandTimeout(); got != 9*time.Second {
		t.Errorf("CommandTimeout() = %v, want 9s", got)
	}
	if got := conf.AllowedOrigin(); got != "http://localhost:3000" {
		t.Errorf("AllowedOrigin() = %q", got)
	}

	out, err := runCommand(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	var raw config.RawFileConfig
	if err := json.Unmarshal([]byte(out), &raw); err != nil {
		t.Fatalf("show output %q is not JSON: %v", out, err)
	}
	if raw.Listen == nil || *raw.Listen != ":8080" {
		t.Errorf("show should include defaults, got listen %v", raw.Listen)
	}
	if raw.CommandTimeoutSeconds == nil || *raw.CommandTimeoutSeconds != 9 {
		t.Errorf("commandTimeoutSeconds = %v, want 9", raw.CommandTimeoutSeconds)
	}
}

func TestConfigSetTimeoutRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batteryd.json")

	for _, arg := range []string{"0", "-5", "soon"} {
		if _, err := runCommand(t, "--config", path, "config", "set-timeout", arg); err == nil {
			t.Errorf("set-timeout %s should fail", arg)
		}
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("config file should not be written on invalid input, stat err = %v", err)
	}
}

type fakeExecutor struct {
	stdout string
}

func (f fakeExecutor) Start(_ context.Context, _ string) <-chan executor.Result {
	done := make(chan executor.Result, 1)
	done <- executor.Result{Stdout: f.stdout}
	return done
}

func TestProbe(t *testing.T) {
	profile := platform.Resolve(platform.Darwin)
	e := fakeExecutor{stdout: "40%; discharging; 3:10 remaining"}

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	if err := probe(cmd, profile, e, false); err != nil {
		t.Fatalf("probe() error = %v", err)
	}
	if got, want := strings.TrimSpace(out.String()), `{"percentage":40,"state":"discharging","timeToEmpty":"3:10 remaining"}`; got != want {
		t.Errorf("probe() = %q, want %q", got, want)
	}

	out.Reset()
	if err := probe(cmd, profile, e, true); err != nil {
		t.Fatalf("probe(raw) error = %v", err)
	}
	for _, w := range []string{"Command:", profile.Command, `"0": "40%"`} {
		if !strings.Contains(out.String(), w) {
			t.Errorf("raw output %q does not contain %q", out.String(), w)
		}
	}
}

func TestProbeUnsupported(t *testing.T) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	if err := probe(cmd, platform.Resolve(platform.Unsupported), fakeExecutor{}, true); err != nil {
		t.Fatalf("probe() error = %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "{}" {
		t.Errorf("probe() = %q, want {}", got)
	}
}

