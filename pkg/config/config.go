package config

import (
	"fmt"
	"os"
	"time"

	"github.com/saworbit/linecheck/internal/logging"
	"github.com/saworbit/linecheck/pkg/digest"
	"github.com/saworbit/linecheck/pkg/greeter"
	"github.com/saworbit/linecheck/pkg/transform"
)

// Config holds settings shared by every linecheck command
type Config struct {
	// InputPath is the text file the transformer reads
	InputPath string

	// OutputPath is the file the transformer overwrites
	OutputPath string

	// ExpectedPath is the fixture the comparator checks the output against
	ExpectedPath string

	// Rule names the transform rule ("literal")
	Rule string

	// Literal is the value the literal rule writes
	Literal string

	// HashAlgo specifies the content id algorithm ("sha256" or "blake3")
	HashAlgo string

	// CreateParents creates a missing output directory instead of failing
	CreateParents bool

	// Greeting is the text written by the hello command
	Greeting string

	// LogLevel is one of debug, info, warn, error
	LogLevel string

	// MetricsAddr enables the Prometheus endpoint when non-empty
	MetricsAddr string

	// WatchDebounce coalesces bursts of file events in watch mode
	WatchDebounce time.Duration

	// StreamPrefix is prepended to each record by the stream command
	StreamPrefix string
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		InputPath:     "testdata/input_data.txt",
		OutputPath:    "out/output_data.txt",
		ExpectedPath:  "testdata/expected_output_data.txt",
		Rule:          transform.RuleLiteral,
		Literal:       transform.DefaultLiteral,
		HashAlgo:      digest.AlgoSHA256,
		CreateParents: false,
		Greeting:      greeter.DefaultGreeting,
		LogLevel:      logging.LevelInfo,
		MetricsAddr:   "",
		WatchDebounce: 100 * time.Millisecond,
		StreamPrefix:  "=== ",
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv("LINECHECK_INPUT"); v != "" {
		cfg.InputPath = v
	}
	if v := os.Getenv("LINECHECK_OUTPUT"); v != "" {
		cfg.OutputPath = v
	}
	if v := os.Getenv("LINECHECK_EXPECTED"); v != "" {
		cfg.ExpectedPath = v
	}
	if v := os.Getenv("LINECHECK_RULE"); v != "" {
		cfg.Rule = v
	}
	if v, ok := os.LookupEnv("LINECHECK_LITERAL"); ok {
		cfg.Literal = v
	}
	if v := os.Getenv("LINECHECK_HASH_ALGO"); v != "" {
		cfg.HashAlgo = v
	}
	if v := os.Getenv("LINECHECK_CREATE_PARENTS"); v != "" {
		cfg.CreateParents = v == "1" || v == "true" || v == "TRUE"
	}
	if v := os.Getenv("LINECHECK_GREETING"); v != "" {
		cfg.Greeting = v
	}
	if v := os.Getenv("LINECHECK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LINECHECK_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("LINECHECK_WATCH_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.WatchDebounce = d
		}
	}
	if v, ok := os.LookupEnv("LINECHECK_STREAM_PREFIX"); ok {
		cfg.StreamPrefix = v
	}

	return cfg
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Rule != transform.RuleLiteral {
		return fmt.Errorf("invalid transform rule: %s (must be '%s')", c.Rule, transform.RuleLiteral)
	}

	if c.HashAlgo != digest.AlgoSHA256 && c.HashAlgo != digest.AlgoBlake3 {
		return fmt.Errorf("invalid hash algorithm: %s (must be 'sha256' or 'blake3')", c.HashAlgo)
	}

	switch c.LogLevel {
	case logging.LevelDebug, logging.LevelInfo, logging.LevelWarn, logging.LevelError:
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn or error)", c.LogLevel)
	}

	if c.WatchDebounce < 0 {
		return fmt.Errorf("watch debounce must be >= 0, got: %s", c.WatchDebounce)
	}

	return nil
}

// NewRule builds the configured transform rule
func (c *Config) NewRule() (transform.Rule, error) {
	return transform.NewRule(c.Rule, c.Literal)
}
