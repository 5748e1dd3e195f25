package config

import "time"

// EditorConfig configures the target editor application.
type EditorConfig struct {
	// Executable is looked up on PATH unless absolute.
	Executable string   `yaml:"executable" validate:"required"`
	Args       []string `yaml:"args,omitempty"`

	// ImageNames are the process names swept by the kill-by-name safety net.
	// Casing variants are listed separately because the host process name varies between builds.
	ImageNames []string `yaml:"image_names" validate:"min=1,dive,required"`

	// WindowTitle must appear in the foreground window title before typing starts.
	WindowTitle string `yaml:"window_title" validate:"required"`

	// KillTimeout bounds each taskkill/pkill invocation.
	KillTimeout string `yaml:"kill_timeout" validate:"duration"`
}

// TypingConfig configures keystroke synthesis.
type TypingConfig struct {
	Interval string `yaml:"interval" validate:"duration"`

	// FailSafe aborts typing when the pointer reaches a screen corner.
	FailSafe bool `yaml:"fail_safe"`
}

// TimingConfig holds the fixed pauses used in place of readiness detection.
type TimingConfig struct {
	LaunchSettle   string `yaml:"launch_settle" validate:"duration"`
	PostTypeSettle string `yaml:"post_type_settle" validate:"duration"`
	InterRecord    string `yaml:"inter_record" validate:"duration"`
}

// GetKillTimeout returns the per-command termination timeout.
func (c *Config) GetKillTimeout() time.Duration {
	return parseDurationOr(c.Editor.KillTimeout, 5*time.Second)
}

// GetTypingInterval returns the pause between synthesized characters.
func (c *Config) GetTypingInterval() time.Duration {
	return parseDurationOr(c.Typing.Interval, 8*time.Millisecond)
}

// GetLaunchSettle returns the wait between launching the editor and checking focus.
func (c *Config) GetLaunchSettle() time.Duration {
	return parseDurationOr(c.Timing.LaunchSettle, 2500*time.Millisecond)
}

// GetPostTypeSettle returns the wait after a record has been typed and saved.
func (c *Config) GetPostTypeSettle() time.Duration {
	return parseDurationOr(c.Timing.PostTypeSettle, 500*time.Millisecond)
}

// GetInterRecordPause returns the wait between two records.
func (c *Config) GetInterRecordPause() time.Duration {
	return parseDurationOr(c.Timing.InterRecord, 800*time.Millisecond)
}
