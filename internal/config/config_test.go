package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
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
			Enabled: true,
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

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid configuration",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name:        "empty source path",
			mutate:      func(c *Config) { c.Source.Path = "" },
			expectError: true,
			errorMsg:    "path cannot be empty",
		},
		{
			name:        "zero listeners",
			mutate:      func(c *Config) { c.Load.Listeners = 0 },
			expectError: true,
			errorMsg:    "listeners must be at least 1",
		},
		{
			name:        "negative interval",
			mutate:      func(c *Config) { c.Load.IntervalSeconds = -1 },
			expectError: true,
			errorMsg:    "interval_seconds cannot be negative",
		},
		{
			name:        "negative stagger",
			mutate:      func(c *Config) { c.Load.StaggerSeconds = -0.5 },
			expectError: true,
			errorMsg:    "stagger_seconds cannot be negative",
		},
		{
			name:        "page size too small",
			mutate:      func(c *Config) { c.Load.PageSize = 0 },
			expectError: true,
			errorMsg:    "page_size must be at least 1 byte",
		},
		{
			name:        "page size exceeds frame length field",
			mutate:      func(c *Config) { c.Load.PageSize = 0x1000000 },
			expectError: true,
			errorMsg:    "24-bit frame length field",
		},
		{
			name:        "empty target URL",
			mutate:      func(c *Config) { c.Target.URL = "" },
			expectError: true,
			errorMsg:    "url cannot be empty",
		},
		{
			name:        "bad target scheme",
			mutate:      func(c *Config) { c.Target.URL = "udp://localhost:4444" },
			expectError: true,
			errorMsg:    "url scheme must be http or https",
		},
		{
			name:        "target URL without host",
			mutate:      func(c *Config) { c.Target.URL = "http://" },
			expectError: true,
			errorMsg:    "url must include a host",
		},
		{
			name:        "stats enabled without address",
			mutate:      func(c *Config) { c.Stats.Address = "" },
			expectError: true,
			errorMsg:    "address cannot be empty when stats server is enabled",
		},
		{
			name:        "zero dashboard history",
			mutate:      func(c *Config) { c.Dashboard.HistorySize = 0 },
			expectError: true,
			errorMsg:    "history_size must be at least 1",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.Logging.Level = "trace" },
			expectError: true,
			errorMsg:    "level must be one of",
		},
		{
			name:        "invalid log format",
			mutate:      func(c *Config) { c.Logging.Format = "xml" },
			expectError: true,
			errorMsg:    "format must be 'json' or 'text'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(&config)

			err := config.Validate()
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				} else if tt.errorMsg != "" && !contains(err.Error(), tt.errorMsg) {
					t.Errorf("Expected error to contain '%s', got '%s'", tt.errorMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("Expected no error but got: %v", err)
				}
			}
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Expected default config to validate, got: %v", err)
	}
}

func TestConfigLoad(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name        string
		configYAML  string
		expectError bool
		errorMsg    string
		check       func(*testing.T, *Config)
	}{
		{
			name: "valid config file",
			configYAML: `
source:
  path: "audio/sample.wav"
load:
  listeners: 20
  interval_seconds: 5
  stagger_seconds: 2.5
  page_size: 16384
target:
  url: "http://audio.example.com:8000/upload-audio"
stats:
  enabled: true
  address: "0.0.0.0:9090"
logging:
  level: "debug"
  format: "json"
  output: "stdout"
`,
			expectError: false,
			check: func(t *testing.T, c *Config) {
				if c.Load.Listeners != 20 {
					t.Errorf("Expected 20 listeners, got %d", c.Load.Listeners)
				}
				if c.Load.PageSize != 16384 {
					t.Errorf("Expected page size 16384, got %d", c.Load.PageSize)
				}
				if c.Source.Path != "audio/sample.wav" {
					t.Errorf("Unexpected source path: %s", c.Source.Path)
				}
			},
		},
		{
			name: "partial config falls back to defaults",
			configYAML: `
load:
  listeners: 3
`,
			expectError: false,
			check: func(t *testing.T, c *Config) {
				if c.Load.Listeners != 3 {
					t.Errorf("Expected 3 listeners, got %d", c.Load.Listeners)
				}
				if c.Load.PageSize != 32768 {
					t.Errorf("Expected default page size, got %d", c.Load.PageSize)
				}
				if c.Target.URL != "http://localhost:8000/upload-audio" {
					t.Errorf("Expected default target URL, got %s", c.Target.URL)
				}
			},
		},
		{
			name: "invalid YAML syntax",
			configYAML: `
load:
  listeners: not_a_number
`,
			expectError: true,
			errorMsg:    "failed to parse",
		},
		{
			name: "validation failure propagates",
			configYAML: `
target:
  url: "ftp://example.com/upload"
`,
			expectError: true,
			errorMsg:    "url scheme must be http or https",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(tempDir, "config.yaml")
			err := os.WriteFile(configPath, []byte(tt.configYAML), 0644)
			if err != nil {
				t.Fatalf("Failed to create test config file: %v", err)
			}

			config, err := Load(configPath)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				} else if tt.errorMsg != "" && !contains(err.Error(), tt.errorMsg) {
					t.Errorf("Expected error to contain '%s', got '%s'", tt.errorMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("Expected no error but got: %v", err)
				} else if config == nil {
					t.Errorf("Expected config to be loaded but got nil")
				} else if tt.check != nil {
					tt.check(t, config)
				}
			}
		})
	}
}

func TestConfigLoadNonexistentFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Errorf("Expected error for nonexistent file but got none")
	}
	if !contains(err.Error(), "failed to read config file") {
		t.Errorf("Expected error about reading file, got: %v", err)
	}
}

func TestDurationHelpers(t *testing.T) {
	load := LoadConfig{
		IntervalSeconds: 10,
		StaggerSeconds:  2.5,
	}

	if load.GetIntervalDuration() != 10*time.Second {
		t.Errorf("Expected 10 seconds, got %v", load.GetIntervalDuration())
	}

	if load.GetStaggerDuration() != 2500*time.Millisecond {
		t.Errorf("Expected 2.5 seconds, got %v", load.GetStaggerDuration())
	}
}

// Helper function to check if a string contains a substring
func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		(len(s) > len(substr) && findSubstring(s, substr)))
}

func findSubstring(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
