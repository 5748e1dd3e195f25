package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all entrybot configuration.
// It is built once at startup and passed by value into the components.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Remote record source
	Source SourceConfig `yaml:"source"`

	// Target editor process and window
	Editor EditorConfig `yaml:"editor"`

	// Keystroke synthesis
	Typing TypingConfig `yaml:"typing"`

	// Fixed pauses standing in for readiness signals
	Timing TimingConfig `yaml:"timing"`

	// Output files
	Output OutputConfig `yaml:"output"`

	// Platform gate
	Platform PlatformConfig `yaml:"platform"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// OutputConfig configures where record files are written.
type OutputConfig struct {
	// Dir may start with ~ for the user's home directory.
	Dir string `yaml:"dir" validate:"required"`
}

// PlatformConfig names the only OS family the bot runs on.
type PlatformConfig struct {
	RequiredOS string `yaml:"required_os" validate:"required,oneof=windows linux darwin"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "entrybot",
		Version: "1.0.0",

		Source: SourceConfig{
			URL:     "https://jsonplaceholder.typicode.com/posts",
			Limit:   10,
			Timeout: "10s",
		},

		Editor: EditorConfig{
			Executable:  "notepad",
			ImageNames:  []string{"notepad.exe", "Notepad.exe"},
			WindowTitle: "Notepad",
			KillTimeout: "5s",
		},

		Typing: TypingConfig{
			Interval: "8ms",
			FailSafe: true,
		},

		Timing: TimingConfig{
			LaunchSettle:   "2.5s",
			PostTypeSettle: "500ms",
			InterRecord:    "800ms",
		},

		Output: OutputConfig{
			Dir: filepath.Join("~", "Desktop", "tjm_project_posts"),
		},

		Platform: PlatformConfig{
			RequiredOS: "windows",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
// An empty path or a missing file yields the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
// Unparseable numeric values are ignored.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("ENTRYBOT_SOURCE_URL"); url != "" {
		c.Source.URL = url
	}
	if raw := os.Getenv("ENTRYBOT_LIMIT"); raw != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			c.Source.Limit = n
		}
	}
	if dir := os.Getenv("ENTRYBOT_OUTPUT_DIR"); dir != "" {
		c.Output.Dir = dir
	}
	if exe := os.Getenv("ENTRYBOT_EDITOR"); exe != "" {
		c.Editor.Executable = exe
	}
	if level := os.Getenv("ENTRYBOT_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// OutputDir returns the output directory with a leading ~ expanded.
func (c *Config) OutputDir() (string, error) {
	return ExpandHome(c.Output.Dir)
}

// ExpandHome replaces a leading ~ with the current user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

func parseDurationOr(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
