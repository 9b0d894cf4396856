package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Literal != "1 2 9 5 3" {
		t.Errorf("Expected default literal '1 2 9 5 3', got '%s'", cfg.Literal)
	}

	if cfg.HashAlgo != "sha256" {
		t.Errorf("Expected default hash algo 'sha256', got '%s'", cfg.HashAlgo)
	}

	if cfg.CreateParents {
		t.Error("Expected CreateParents to be false by default")
	}

	if cfg.MetricsAddr != "" {
		t.Errorf("Expected metrics disabled by default, got '%s'", cfg.MetricsAddr)
	}

	if cfg.StreamPrefix != "=== " {
		t.Errorf("Expected stream prefix '=== ', got '%s'", cfg.StreamPrefix)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LINECHECK_INPUT", "in.txt")
	t.Setenv("LINECHECK_OUTPUT", "out.txt.gz")
	t.Setenv("LINECHECK_EXPECTED", "want.txt")
	t.Setenv("LINECHECK_LITERAL", "9 9 9")
	t.Setenv("LINECHECK_HASH_ALGO", "blake3")
	t.Setenv("LINECHECK_CREATE_PARENTS", "true")
	t.Setenv("LINECHECK_LOG_LEVEL", "debug")
	t.Setenv("LINECHECK_METRICS_ADDR", ":9100")
	t.Setenv("LINECHECK_WATCH_DEBOUNCE", "250ms")
	t.Setenv("LINECHECK_STREAM_PREFIX", "")

	cfg := LoadFromEnv()

	if cfg.InputPath != "in.txt" || cfg.OutputPath != "out.txt.gz" || cfg.ExpectedPath != "want.txt" {
		t.Errorf("Unexpected paths: %q %q %q", cfg.InputPath, cfg.OutputPath, cfg.ExpectedPath)
	}

	if cfg.Literal != "9 9 9" {
		t.Errorf("Expected literal '9 9 9', got '%s'", cfg.Literal)
	}

	if cfg.HashAlgo != "blake3" {
		t.Errorf("Expected hash algo 'blake3', got '%s'", cfg.HashAlgo)
	}

	if !cfg.CreateParents {
		t.Error("Expected CreateParents to be true")
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log level 'debug', got '%s'", cfg.LogLevel)
	}

	if cfg.MetricsAddr != ":9100" {
		t.Errorf("Expected metrics addr ':9100', got '%s'", cfg.MetricsAddr)
	}

	if cfg.WatchDebounce != 250*time.Millisecond {
		t.Errorf("Expected debounce 250ms, got %s", cfg.WatchDebounce)
	}

	if cfg.StreamPrefix != "" {
		t.Errorf("Expected explicitly empty stream prefix, got '%s'", cfg.StreamPrefix)
	}
}

func TestLoadFromEnvIgnoresBadDuration(t *testing.T) {
	t.Setenv("LINECHECK_WATCH_DEBOUNCE", "soon")

	cfg := LoadFromEnv()
	if cfg.WatchDebounce != DefaultConfig().WatchDebounce {
		t.Errorf("Expected default debounce, got %s", cfg.WatchDebounce)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown rule", func(c *Config) { c.Rule = "sort" }, "invalid transform rule"},
		{"unknown hash", func(c *Config) { c.HashAlgo = "md5" }, "invalid hash algorithm"},
		{"unknown level", func(c *Config) { c.LogLevel = "trace" }, "invalid log level"},
		{"negative debounce", func(c *Config) { c.WatchDebounce = -time.Second }, "watch debounce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Expected valid config, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewRule(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Literal = "4 4"

	rule, err := cfg.NewRule()
	if err != nil {
		t.Fatalf("NewRule failed: %v", err)
	}
	if v, _ := rule.Apply(nil); v != "4 4" {
		t.Errorf("Expected literal '4 4', got '%s'", v)
	}
}
