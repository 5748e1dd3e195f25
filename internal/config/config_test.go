package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENTRYBOT_SOURCE_URL", "ENTRYBOT_LIMIT", "ENTRYBOT_OUTPUT_DIR",
		"ENTRYBOT_EDITOR", "ENTRYBOT_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "entrybot", cfg.Name)
	assert.Equal(t, 10, cfg.Source.Limit)
	assert.Equal(t, "notepad", cfg.Editor.Executable)
	assert.Equal(t, []string{"notepad.exe", "Notepad.exe"}, cfg.Editor.ImageNames)
	assert.Equal(t, "windows", cfg.Platform.RequiredOS)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10*time.Second, cfg.GetFetchTimeout())
	assert.Equal(t, 2500*time.Millisecond, cfg.GetLaunchSettle())
	assert.Equal(t, 500*time.Millisecond, cfg.GetPostTypeSettle())
	assert.Equal(t, 800*time.Millisecond, cfg.GetInterRecordPause())
	assert.Equal(t, 8*time.Millisecond, cfg.GetTypingInterval())
	assert.Equal(t, 5*time.Second, cfg.GetKillTimeout())
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nested", "entrybot.yaml")

	cfg := DefaultConfig()
	cfg.Source.Limit = 3
	cfg.Editor.WindowTitle = "Editor"
	cfg.Timing.LaunchSettle = "4s"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Source.Limit)
	assert.Equal(t, "Editor", loaded.Editor.WindowTitle)
	assert.Equal(t, 4*time.Second, loaded.GetLaunchSettle())
	assert.Equal(t, cfg.Editor.ImageNames, loaded.Editor.ImageNames)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "entrybot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source:\n  limit: 2\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Source.Limit)
	assert.Equal(t, "https://jsonplaceholder.typicode.com/posts", cfg.Source.URL)
	assert.Equal(t, "Notepad", cfg.Editor.WindowTitle)
}

func TestLoad_MalformedYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "entrybot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source: [unterminated"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Run("all overrides applied", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ENTRYBOT_SOURCE_URL", "http://127.0.0.1:9999/posts")
		t.Setenv("ENTRYBOT_LIMIT", " 4 ")
		t.Setenv("ENTRYBOT_OUTPUT_DIR", "/tmp/out")
		t.Setenv("ENTRYBOT_EDITOR", `C:\Windows\notepad.exe`)
		t.Setenv("ENTRYBOT_LOG_LEVEL", "debug")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "http://127.0.0.1:9999/posts", cfg.Source.URL)
		assert.Equal(t, 4, cfg.Source.Limit)
		assert.Equal(t, "/tmp/out", cfg.Output.Dir)
		assert.Equal(t, `C:\Windows\notepad.exe`, cfg.Editor.Executable)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("invalid limit is ignored", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ENTRYBOT_LIMIT", "ten")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, 10, cfg.Source.Limit)
	})
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad duration", func(c *Config) { c.Timing.LaunchSettle = "soon" }, "timing.launch_settle"},
		{"limit too large", func(c *Config) { c.Source.Limit = 1000 }, "source.limit"},
		{"negative limit", func(c *Config) { c.Source.Limit = -1 }, "source.limit"},
		{"no image names", func(c *Config) { c.Editor.ImageNames = nil }, "editor.image_names"},
		{"blank image name", func(c *Config) { c.Editor.ImageNames = []string{"notepad.exe", ""} }, "editor.image_names[1]"},
		{"not a url", func(c *Config) { c.Source.URL = "posts" }, "source.url"},
		{"unknown os", func(c *Config) { c.Platform.RequiredOS = "plan9" }, "platform.required_os"},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestDurationGettersFallBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Source.Timeout = "never"
	cfg.Typing.Interval = "-1s"

	assert.Equal(t, 10*time.Second, cfg.GetFetchTimeout())
	assert.Equal(t, 8*time.Millisecond, cfg.GetTypingInterval())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandHome(filepath.Join("~", "Desktop", "posts"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Desktop", "posts"), got)

	got, err = ExpandHome("~")
	require.NoError(t, err)
	assert.Equal(t, home, got)

	got, err = ExpandHome("/var/out")
	require.NoError(t, err)
	assert.Equal(t, "/var/out", got)

	cfg := DefaultConfig()
	dir, err := cfg.OutputDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Desktop", "tjm_project_posts"), dir)
}
