package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete load generator configuration
type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Load      LoadConfig      `yaml:"load"`
	Target    TargetConfig    `yaml:"target"`
	Stats     StatsConfig     `yaml:"stats"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SourceConfig contains the audio file to stream
type SourceConfig struct {
	Path string `yaml:"path"`
}

// LoadConfig contains the load shape: how many listeners, how they pace
// themselves, and how they are spread out on startup
type LoadConfig struct {
	Listeners       int     `yaml:"listeners"`
	IntervalSeconds float64 `yaml:"interval_seconds"`
	StaggerSeconds  float64 `yaml:"stagger_seconds"`
	PageSize        int     `yaml:"page_size"`
}

// TargetConfig contains the upload endpoint configuration
type TargetConfig struct {
	URL string `yaml:"url"`
}

// StatsConfig contains the optional local stats HTTP server configuration
type StatsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// DashboardConfig contains the terminal dashboard configuration
type DashboardConfig struct {
	Enabled     bool `yaml:"enabled"`
	HistorySize int  `yaml:"history_size"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Default returns the configuration used when no config file is given.
// Every field can still be overridden from the command line.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Path: "test_sound.wav",
		},
		Load: LoadConfig{
			Listeners:       5,
			IntervalSeconds: 10,
			StaggerSeconds:  10,
			PageSize:        32768,
		},
		Target: TargetConfig{
			URL: "http://localhost:8000/upload-audio",
		},
		Stats: StatsConfig{
			Enabled: false,
			Address: "localhost:9090",
		},
		Dashboard: DashboardConfig{
			Enabled:     true,
			HistorySize: 12,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	if err := c.Source.Validate(); err != nil {
		return fmt.Errorf("source config: %w", err)
	}

	if err := c.Load.Validate(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := c.Target.Validate(); err != nil {
		return fmt.Errorf("target config: %w", err)
	}

	if err := c.Stats.Validate(); err != nil {
		return fmt.Errorf("stats config: %w", err)
	}

	if err := c.Dashboard.Validate(); err != nil {
		return fmt.Errorf("dashboard config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates the source configuration
func (s *SourceConfig) Validate() error {
	if s.Path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	return nil
}

// Validate validates the load shape configuration
func (l *LoadConfig) Validate() error {
	if l.Listeners < 1 {
		return fmt.Errorf("listeners must be at least 1, got %d", l.Listeners)
	}

	if l.IntervalSeconds < 0 {
		return fmt.Errorf("interval_seconds cannot be negative, got %f", l.IntervalSeconds)
	}

	if l.StaggerSeconds < 0 {
		return fmt.Errorf("stagger_seconds cannot be negative, got %f", l.StaggerSeconds)
	}

	if l.PageSize < 1 {
		return fmt.Errorf("page_size must be at least 1 byte, got %d", l.PageSize)
	}

	if l.PageSize > 0xFFFFFF {
		return fmt.Errorf("page_size must fit the 24-bit frame length field, got %d", l.PageSize)
	}

	return nil
}

// Validate validates the target configuration
func (t *TargetConfig) Validate() error {
	if t.URL == "" {
		return fmt.Errorf("url cannot be empty")
	}

	u, err := url.Parse(t.URL)
	if err != nil {
		return fmt.Errorf("url is not valid: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got '%s'", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("url must include a host")
	}

	return nil
}

// Validate validates the stats server configuration
func (s *StatsConfig) Validate() error {
	if s.Enabled && s.Address == "" {
		return fmt.Errorf("address cannot be empty when stats server is enabled")
	}

	return nil
}

// Validate validates the dashboard configuration
func (d *DashboardConfig) Validate() error {
	if d.HistorySize < 1 {
		return fmt.Errorf("history_size must be at least 1, got %d", d.HistorySize)
	}

	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}

// GetIntervalDuration returns the between-cycle pause as a time.Duration
func (l *LoadConfig) GetIntervalDuration() time.Duration {
	return time.Duration(l.IntervalSeconds * float64(time.Second))
}

// GetStaggerDuration returns the startup stagger window as a time.Duration
func (l *LoadConfig) GetStaggerDuration() time.Duration {
	return time.Duration(l.StaggerSeconds * float64(time.Second))
}
