package config

import "time"

// SourceConfig configures the remote record source.
type SourceConfig struct {
	URL     string `yaml:"url" validate:"required,url"`
	Limit   int    `yaml:"limit" validate:"gte=0,lte=100"`
	Timeout string `yaml:"timeout" validate:"duration"`
}

// GetFetchTimeout returns the source request timeout as a duration.
func (c *Config) GetFetchTimeout() time.Duration {
	return parseDurationOr(c.Source.Timeout, 10*time.Second)
}
