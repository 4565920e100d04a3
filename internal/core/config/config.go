package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Version   int       `toml:"version"`
	Scan      Scan      `toml:"scan"`
	Server    Server    `toml:"server"`
	History   History   `toml:"history"`
	Watch     Watch     `toml:"watch"`
	Telemetry Telemetry `toml:"telemetry"`
	Output    Output    `toml:"output"`
}

type Scan struct {
	ExcludeDirs      []string      `toml:"exclude_dirs"` // glob patterns, added to the built-in deny-list
	IncludeTests     *bool         `toml:"include_tests"`
	Depth            string        `toml:"depth"`
	Workers          int           `toml:"workers"`
	SessionRetention time.Duration `toml:"session_retention"`
}

// TestsIncluded defaults to true when include_tests is absent.
func (s Scan) TestsIncluded() bool {
	if s.IncludeTests == nil {
		return true
	}
	return *s.IncludeTests
}

type Server struct {
	Listen            string        `toml:"listen"`
	RateLimit         float64       `toml:"rate_limit"` // requests per second per client
	RateBurst         int           `toml:"rate_burst"`
	KeepAliveInterval time.Duration `toml:"keep_alive_interval"`
}

type History struct {
	Enabled     bool          `toml:"enabled"`
	Path        string        `toml:"path"`
	BusyTimeout time.Duration `toml:"busy_timeout"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Telemetry struct {
	OTLPEndpoint string  `toml:"otlp_endpoint"`
	SampleRatio  float64 `toml:"sample_ratio"`
}

type Output struct {
	Format string `toml:"format"`
	Path   string `toml:"path"` // empty writes to stdout
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateScan(&cfg); err != nil {
		return nil, err
	}
	if err := validateServer(&cfg); err != nil {
		return nil, err
	}
	if err := validateHistory(&cfg); err != nil {
		return nil, err
	}
	if err := validateWatch(&cfg); err != nil {
		return nil, err
	}
	if err := validateTelemetry(&cfg); err != nil {
		return nil, err
	}
	if err := validateOutput(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if strings.TrimSpace(cfg.Scan.Depth) == "" {
		cfg.Scan.Depth = "medium"
	}
	if cfg.Scan.Workers <= 0 {
		cfg.Scan.Workers = 4
	}
	if cfg.Scan.SessionRetention <= 0 {
		cfg.Scan.SessionRetention = 10 * time.Minute
	}

	if strings.TrimSpace(cfg.Server.Listen) == "" {
		cfg.Server.Listen = "127.0.0.1:8910"
	}
	if cfg.Server.RateLimit <= 0 {
		cfg.Server.RateLimit = 10
	}
	if cfg.Server.RateBurst <= 0 {
		cfg.Server.RateBurst = 20
	}
	if cfg.Server.KeepAliveInterval <= 0 {
		cfg.Server.KeepAliveInterval = 30 * time.Second
	}

	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = "codescope.db"
	}
	if cfg.History.BusyTimeout <= 0 {
		cfg.History.BusyTimeout = 5 * time.Second
	}

	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}

	if cfg.Telemetry.SampleRatio == 0 {
		cfg.Telemetry.SampleRatio = 1
	}

	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = "json"
	}
}

func validateVersion(cfg *Config) error {
	if cfg.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", cfg.Version)
	}
	if cfg.Version > 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateScan(cfg *Config) error {
	depth := strings.ToLower(strings.TrimSpace(cfg.Scan.Depth))
	switch depth {
	case "shallow", "medium", "deep":
	default:
		return fmt.Errorf("scan.depth must be one of: shallow, medium, deep")
	}
	if cfg.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be >= 1, got %d", cfg.Scan.Workers)
	}
	for i, pattern := range cfg.Scan.ExcludeDirs {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("scan.exclude_dirs[%d] must not be empty", i)
		}
	}
	return nil
}

func validateServer(cfg *Config) error {
	if strings.TrimSpace(cfg.Server.Listen) == "" {
		return fmt.Errorf("server.listen must not be empty")
	}
	if cfg.Server.RateLimit <= 0 {
		return fmt.Errorf("server.rate_limit must be > 0, got %v", cfg.Server.RateLimit)
	}
	if cfg.Server.RateBurst < 1 {
		return fmt.Errorf("server.rate_burst must be >= 1, got %d", cfg.Server.RateBurst)
	}
	return nil
}

func validateHistory(cfg *Config) error {
	if cfg.History.Enabled && strings.TrimSpace(cfg.History.Path) == "" {
		return fmt.Errorf("history.path must not be empty when history.enabled=true")
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 50*time.Millisecond {
		return fmt.Errorf("watch.debounce must be >= 50ms, got %s", cfg.Watch.Debounce)
	}
	return nil
}

func validateTelemetry(cfg *Config) error {
	if cfg.Telemetry.SampleRatio < 0 || cfg.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry.sample_ratio must be within [0, 1], got %v", cfg.Telemetry.SampleRatio)
	}
	return nil
}

func validateOutput(cfg *Config) error {
	format := strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	switch format {
	case "json", "yaml", "markdown":
	default:
		return fmt.Errorf("output.format must be one of: json, yaml, markdown")
	}
	return nil
}
