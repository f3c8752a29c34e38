// Package config provides configuration management for the event pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrNoSources                = errors.New("at least one source is required")
	ErrSourceMissingName        = errors.New("source name is required")
	ErrSourceMissingURL         = errors.New("source url is required")
	ErrSourceDuplicateName      = errors.New("source name must be unique")
	ErrSourceUnknownKind        = errors.New("source kind must be 'html' or 'json'")
	ErrNoEnabledSources         = errors.New("at least one source must be enabled")
	ErrInvalidMaxAttempts       = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("retry.timeout_sec must be at least 1")
	ErrMissingOutputPath        = errors.New("output.path is required")
	ErrInvalidTitleThreshold    = errors.New("dedup.title_threshold must be in (0, 1]")
	ErrInvalidVenueThreshold    = errors.New("dedup.venue_threshold must be in (0, 1]")
	ErrInvalidProximity         = errors.New("dedup.proximity_minutes must be at least 1")
	ErrInvalidCutoff            = errors.New("dedup.cutoff_hours window must exceed the proximity window")
	ErrInvalidWorkers           = errors.New("pipeline.max_workers must be at least 1")
	ErrInvalidTimezone          = errors.New("pipeline.timezone is not a valid IANA zone")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Source kinds.
const (
	KindHTML = "html"
	KindJSON = "json"
)

// Config represents the complete pipeline configuration.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	Sources  []SourceConfig `yaml:"sources"`
	Dedup    DedupConfig    `yaml:"dedup"`
	Retry    RetryPolicy    `yaml:"retry"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
	Server   ServerConfig   `yaml:"server"`
}

// PipelineConfig contains run-wide settings.
type PipelineConfig struct {
	MaxWorkers        int    `yaml:"max_workers"`
	Timezone          string `yaml:"timezone"`
	PastToleranceDays int    `yaml:"past_tolerance_days"`
	DefaultCity       string `yaml:"default_city"`
	DefaultState      string `yaml:"default_state"`
}

// SourceConfig represents one event source.
type SourceConfig struct {
	Name       string          `yaml:"name"`
	URL        string          `yaml:"url"`
	Kind       string          `yaml:"kind"`
	Priority   int             `yaml:"priority"`
	Enabled    bool            `yaml:"enabled"`
	MinDelayMs int             `yaml:"min_delay_ms"`
	Venue      string          `yaml:"venue"`
	Selectors  SelectorConfig  `yaml:"selectors"`
	Fields     JSONFieldConfig `yaml:"fields"`
}

// SelectorConfig defines CSS selectors for the generic HTML adapter.
type SelectorConfig struct {
	Item        string `yaml:"item"`
	Title       string `yaml:"title"`
	Date        string `yaml:"date"`
	End         string `yaml:"end"`
	Venue       string `yaml:"venue"`
	Address     string `yaml:"address"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Cost        string `yaml:"cost"`
	Link        string `yaml:"link"`
	Image       string `yaml:"image"`
}

// JSONFieldConfig maps JSON feed fields onto raw candidate fields.
type JSONFieldConfig struct {
	Items       string `yaml:"items"`
	Title       string `yaml:"title"`
	Start       string `yaml:"start"`
	End         string `yaml:"end"`
	Venue       string `yaml:"venue"`
	Address     string `yaml:"address"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Cost        string `yaml:"cost"`
	URL         string `yaml:"url"`
	Image       string `yaml:"image"`
	Latitude    string `yaml:"latitude"`
	Longitude   string `yaml:"longitude"`
}

// DedupConfig defines duplicate-judgment thresholds.
type DedupConfig struct {
	TitleThreshold   float64 `yaml:"title_threshold"`
	VenueThreshold   float64 `yaml:"venue_threshold"`
	ProximityMinutes int     `yaml:"proximity_minutes"`
	CutoffHours      int     `yaml:"cutoff_hours"`
	CoordMeters      float64 `yaml:"coordinate_threshold_meters"`
}

// ProximityWindow returns the match window for start times.
func (d DedupConfig) ProximityWindow() time.Duration {
	return time.Duration(d.ProximityMinutes) * time.Minute
}

// CutoffWindow returns the hard non-match window for start times.
func (d DedupConfig) CutoffWindow() time.Duration {
	return time.Duration(d.CutoffHours) * time.Hour
}

// RetryPolicy defines adapter fetch retry behavior.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// OutputConfig defines where and how the canonical dataset is written.
type OutputConfig struct {
	Path         string `yaml:"path"`
	PrettyPrint  bool   `yaml:"pretty_print"`
	CreateBackup bool   `yaml:"create_backup"`
	LockPath     string `yaml:"lock_path"`
}

// GetLockPath returns the run-lock path, defaulting next to the dataset.
func (o OutputConfig) GetLockPath() string {
	if o.LockPath != "" {
		return o.LockPath
	}

	return o.Path + ".lock"
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig defines the read API listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoadConfig loads configuration from a YAML file.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns a configuration with all defaults applied and no sources.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()

	return cfg
}

func (c *Config) applyDefaults() {
	if c.Pipeline.MaxWorkers == 0 {
		c.Pipeline.MaxWorkers = 6
	}

	if c.Pipeline.Timezone == "" {
		c.Pipeline.Timezone = "America/New_York"
	}

	if c.Pipeline.PastToleranceDays == 0 {
		c.Pipeline.PastToleranceDays = 30
	}

	if c.Dedup.TitleThreshold == 0 {
		c.Dedup.TitleThreshold = 0.85
	}

	if c.Dedup.VenueThreshold == 0 {
		c.Dedup.VenueThreshold = 0.70
	}

	if c.Dedup.ProximityMinutes == 0 {
		c.Dedup.ProximityMinutes = 30
	}

	if c.Dedup.CutoffHours == 0 {
		c.Dedup.CutoffHours = 4
	}

	if c.Dedup.CoordMeters == 0 {
		c.Dedup.CoordMeters = 500
	}

	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = 3
	}

	if c.Retry.InitialDelayMs == 0 {
		c.Retry.InitialDelayMs = 500
	}

	if c.Retry.MaxDelayMs == 0 {
		c.Retry.MaxDelayMs = 30000
	}

	if c.Retry.BackoffMultiplier == 0 {
		c.Retry.BackoffMultiplier = 2.0
	}

	if c.Retry.TimeoutSec == 0 {
		c.Retry.TimeoutSec = 30
	}

	if c.Output.Path == "" {
		c.Output.Path = "data/events.json"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}

	for i := range c.Sources {
		if c.Sources[i].Kind == "" {
			c.Sources[i].Kind = KindHTML
		}

		if c.Sources[i].Priority == 0 {
			c.Sources[i].Priority = 1
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return ErrNoSources
	}

	enabledCount := 0
	names := make(map[string]bool, len(c.Sources))

	for i, src := range c.Sources {
		if src.Name == "" {
			return fmt.Errorf("%w: source[%d]", ErrSourceMissingName, i)
		}

		if names[src.Name] {
			return fmt.Errorf("%w: %q", ErrSourceDuplicateName, src.Name)
		}

		names[src.Name] = true

		if src.URL == "" {
			return fmt.Errorf("%w: source[%d]", ErrSourceMissingURL, i)
		}

		if src.Kind != KindHTML && src.Kind != KindJSON {
			return fmt.Errorf("%w: source[%d] has kind %q", ErrSourceUnknownKind, i, src.Kind)
		}

		if src.Enabled {
			enabledCount++
		}
	}

	if enabledCount == 0 {
		return ErrNoEnabledSources
	}

	if c.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if c.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if c.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Output.Path == "" {
		return ErrMissingOutputPath
	}

	if c.Dedup.TitleThreshold <= 0 || c.Dedup.TitleThreshold > 1 {
		return ErrInvalidTitleThreshold
	}

	if c.Dedup.VenueThreshold <= 0 || c.Dedup.VenueThreshold > 1 {
		return ErrInvalidVenueThreshold
	}

	if c.Dedup.ProximityMinutes < 1 {
		return ErrInvalidProximity
	}

	if c.Dedup.CutoffWindow() <= c.Dedup.ProximityWindow() {
		return ErrInvalidCutoff
	}

	if c.Pipeline.MaxWorkers < 1 {
		return ErrInvalidWorkers
	}

	if _, err := time.LoadLocation(c.Pipeline.Timezone); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, c.Pipeline.Timezone)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// GetEnabledSources returns only enabled sources.
func (c *Config) GetEnabledSources() []SourceConfig {
	var enabled []SourceConfig

	for _, src := range c.Sources {
		if src.Enabled {
			enabled = append(enabled, src)
		}
	}

	return enabled
}

// SourcePriorities returns a name → configured priority lookup.
func (c *Config) SourcePriorities() map[string]int {
	priorities := make(map[string]int, len(c.Sources))

	for _, src := range c.Sources {
		priorities[src.Name] = src.Priority
	}

	return priorities
}

// Location resolves the configured pipeline timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Pipeline.Timezone)
	if err != nil {
		return time.UTC
	}

	return loc
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	// Cap at max delay
	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Sources: %d, MaxAttempts: %d, Output: %s}",
		len(c.Sources),
		c.Retry.MaxAttempts,
		c.Output.Path,
	)
}
