package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"codescope/internal/core/config"
)

const version = "1.0.0"

// logLevel is resolved once from --verbose so log redirection for the
// progress display can rebuild the handler at the same level.
var logLevel = slog.LevelInfo

func rootCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "codescope",
		Short: "Analyze project structure, dependencies and code quality",
		Long: `codescope scans a project tree and reports on its structure: the
dependency graph, circular dependencies, duplicated files, quality
metrics and architecture patterns.

Results render as JSON, YAML or Markdown, stream over an HTTP API,
or refresh continuously in watch mode.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logLevel = slog.LevelDebug
			}
			setupLogging(os.Stderr)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default ./codescope.toml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		analyzeCmd(&configPath),
		serveCmd(&configPath),
		watchCmd(&configPath),
		versionCmd(),
	)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the codescope version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("codescope v%s\n", version)
		},
	}
}

func setupLogging(w io.Writer) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})))
}

// loadConfig resolves the effective configuration. An explicit --config path
// must load; without one, a missing ./codescope.toml falls back to defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg, err := config.Load("./codescope.toml")
	if err != nil {
		if os.IsNotExist(err) {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// redirectLogsToFile moves logging off the terminal while the progress
// display owns it. Failures keep the stderr handler.
func redirectLogsToFile() {
	logPath := resolveLogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
		return
	}
	if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
		fmt.Fprintf(os.Stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
		return
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	setupLogging(f)
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "codescope", "codescope.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "codescope", "codescope.log")
	}

	return "codescope.log"
}
