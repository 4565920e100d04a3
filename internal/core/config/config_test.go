package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp(t.TempDir(), "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

func TestLoad(t *testing.T) {
	content := `
version = 1

[scan]
exclude_dirs = ["*.cache", "generated"]
include_tests = true
depth = "deep"
workers = 8
session_retention = "5m"

[server]
listen = "0.0.0.0:9000"
rate_limit = 25.0
rate_burst = 50
keep_alive_interval = "15s"

[history]
enabled = true
path = "analysis.db"
busy_timeout = "3s"

[watch]
debounce = "1s"

[telemetry]
otlp_endpoint = "localhost:4317"
sample_ratio = 0.5

[output]
format = "markdown"
path = "report.md"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Scan.ExcludeDirs) != 2 || cfg.Scan.ExcludeDirs[0] != "*.cache" {
		t.Errorf("unexpected exclude_dirs: %v", cfg.Scan.ExcludeDirs)
	}
	if !cfg.Scan.TestsIncluded() {
		t.Error("expected include_tests true")
	}
	if cfg.Scan.Depth != "deep" {
		t.Errorf("expected depth deep, got %s", cfg.Scan.Depth)
	}
	if cfg.Scan.Workers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.Scan.Workers)
	}
	if cfg.Scan.SessionRetention != 5*time.Minute {
		t.Errorf("expected retention 5m, got %v", cfg.Scan.SessionRetention)
	}
	if cfg.Server.Listen != "0.0.0.0:9000" {
		t.Errorf("expected listen 0.0.0.0:9000, got %s", cfg.Server.Listen)
	}
	if cfg.Server.KeepAliveInterval != 15*time.Second {
		t.Errorf("expected keep-alive 15s, got %v", cfg.Server.KeepAliveInterval)
	}
	if !cfg.History.Enabled || cfg.History.Path != "analysis.db" {
		t.Errorf("unexpected history config: %+v", cfg.History)
	}
	if cfg.History.BusyTimeout != 3*time.Second {
		t.Errorf("expected busy timeout 3s, got %v", cfg.History.BusyTimeout)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Telemetry.OTLPEndpoint != "localhost:4317" {
		t.Errorf("expected otlp endpoint localhost:4317, got %s", cfg.Telemetry.OTLPEndpoint)
	}
	if cfg.Telemetry.SampleRatio != 0.5 {
		t.Errorf("expected sample ratio 0.5, got %v", cfg.Telemetry.SampleRatio)
	}
	if cfg.Output.Format != "markdown" || cfg.Output.Path != "report.md" {
		t.Errorf("unexpected output config: %+v", cfg.Output)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("expected default version 1, got %d", cfg.Version)
	}
	if cfg.Scan.Depth != "medium" {
		t.Errorf("expected default depth medium, got %s", cfg.Scan.Depth)
	}
	if !cfg.Scan.TestsIncluded() {
		t.Error("expected tests included when include_tests is absent")
	}
	if cfg.Scan.Workers != 4 {
		t.Errorf("expected default workers 4, got %d", cfg.Scan.Workers)
	}
	if cfg.Scan.SessionRetention != 10*time.Minute {
		t.Errorf("expected default retention 10m, got %v", cfg.Scan.SessionRetention)
	}
	if cfg.Server.Listen != "127.0.0.1:8910" {
		t.Errorf("expected default listen 127.0.0.1:8910, got %s", cfg.Server.Listen)
	}
	if cfg.Server.RateLimit != 10 || cfg.Server.RateBurst != 20 {
		t.Errorf("unexpected default rate limits: %v/%d", cfg.Server.RateLimit, cfg.Server.RateBurst)
	}
	if cfg.Server.KeepAliveInterval != 30*time.Second {
		t.Errorf("expected default keep-alive 30s, got %v", cfg.Server.KeepAliveInterval)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("expected default debounce 500ms, got %v", cfg.Watch.Debounce)
	}
	if cfg.Telemetry.SampleRatio != 1 {
		t.Errorf("expected default sample ratio 1, got %v", cfg.Telemetry.SampleRatio)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("expected default format json, got %s", cfg.Output.Format)
	}
}

func TestDefaultMatchesEmptyLoad(t *testing.T) {
	cfg := Default()
	if cfg.Scan.Depth != "medium" || cfg.Server.Listen != "127.0.0.1:8910" {
		t.Errorf("Default() missing applied defaults: %+v", cfg)
	}
}

func TestLoadError(t *testing.T) {
	_, err := Load("nonexistent.toml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}

	_, err = Load(writeConfig(t, "bad = toml = format"))
	if err == nil {
		t.Error("expected error for malformed TOML")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errSub  string
	}{
		{
			name:    "unsupported version",
			content: "version = 3",
			errSub:  "unsupported config version",
		},
		{
			name: "bad depth",
			content: `
[scan]
depth = "extreme"
`,
			errSub: "scan.depth must be one of",
		},
		{
			name: "empty exclude pattern",
			content: `
[scan]
exclude_dirs = ["ok", ""]
`,
			errSub: "scan.exclude_dirs[1] must not be empty",
		},
		{
			name: "tiny debounce",
			content: `
[watch]
debounce = "10ms"
`,
			errSub: "watch.debounce must be >= 50ms",
		},
		{
			name: "sample ratio out of range",
			content: `
[telemetry]
sample_ratio = 1.5
`,
			errSub: "telemetry.sample_ratio must be within [0, 1]",
		},
		{
			name: "bad output format",
			content: `
[output]
format = "xml"
`,
			errSub: "output.format must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.errSub) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
