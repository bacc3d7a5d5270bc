// Package config defines service configuration and its loading layers.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/jigu1688/sporttools-sub000/internal/domain/scheduling"
	"github.com/jigu1688/sporttools-sub000/internal/domain/scoring"
	"github.com/jigu1688/sporttools-sub000/pkg/logger"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory measurement queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers. Zero picks a default
	// from the CPU count.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds how many measurement ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxRankingLimit caps GET /ranking?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`

	// RankingKeepBest ranks each student by their best record instead of
	// their latest one.
	RankingKeepBest bool `koanf:"ranking_keep_best"`

	// ItemWeights overrides the weight of individual test items.
	ItemWeights map[string]float64 `koanf:"item_weights"`

	// ScheduleBaseTime is the first heat's start, "HH:MM".
	ScheduleBaseTime string `koanf:"schedule_base_time"`

	// ScheduleHeatMinutes is the length of every generated heat.
	ScheduleHeatMinutes int `koanf:"schedule_heat_minutes"`

	// ScheduleMinRestMinutes is the minimum gap between one athlete's heats.
	ScheduleMinRestMinutes int `koanf:"schedule_min_rest_minutes"`

	// ConflictCheckLimit caps how many heats conflict detection inspects.
	ConflictCheckLimit int `koanf:"conflict_check_limit"`

	// ConflictReportLimit caps how many conflicts are returned.
	ConflictReportLimit int `koanf:"conflict_report_limit"`

	// DefaultReferee names the referee used when none are configured.
	DefaultReferee string `koanf:"default_referee"`

	// DefaultVenue names the venue used when none are configured.
	DefaultVenue string `koanf:"default_venue"`

	// SubmitRateLimit caps measurement submissions per second. Zero disables it.
	SubmitRateLimit float64 `koanf:"submit_rate_limit"`

	// SubmitRateBurst is the burst allowed above SubmitRateLimit.
	SubmitRateBurst int `koanf:"submit_rate_burst"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              logger.FormatText,
		Addr:                   ":9080",
		QueueSize:              10_000,
		WorkerCount:            runtime.NumCPU() * 2,
		DedupeSize:             50_000,
		MaxRankingLimit:        500,
		ItemWeights:            map[string]float64{},
		ScheduleBaseTime:       scheduling.FormatClock(scheduling.DefaultBaseTime),
		ScheduleHeatMinutes:    scheduling.DefaultHeatMinutes,
		ScheduleMinRestMinutes: scheduling.DefaultMinRest,
		ConflictCheckLimit:     scheduling.DefaultCheckLimit,
		ConflictReportLimit:    scheduling.DefaultReportLimit,
		DefaultReferee:         scheduling.DefaultRefereeName,
		DefaultVenue:           scheduling.DefaultVenueName,
		SubmitRateLimit:        0,
		SubmitRateBurst:        50,
	}
}

// Validate reports the first invalid setting wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount < 0:
		return fmt.Errorf("%w: worker_count must not be negative", ErrInvalidConfig)
	case c.DedupeSize < 0:
		return fmt.Errorf("%w: dedupe_size must not be negative", ErrInvalidConfig)
	case c.MaxRankingLimit < 1:
		return fmt.Errorf("%w: max_ranking_limit must be positive", ErrInvalidConfig)
	case c.ScheduleHeatMinutes < 1:
		return fmt.Errorf("%w: schedule_heat_minutes must be positive", ErrInvalidConfig)
	case c.ScheduleMinRestMinutes < 0:
		return fmt.Errorf("%w: schedule_min_rest_minutes must not be negative", ErrInvalidConfig)
	case c.ConflictCheckLimit < 0 || c.ConflictReportLimit < 0:
		return fmt.Errorf("%w: conflict limits must not be negative", ErrInvalidConfig)
	case c.SubmitRateLimit < 0 || c.SubmitRateBurst < 0:
		return fmt.Errorf("%w: submit rate settings must not be negative", ErrInvalidConfig)
	}
	if _, err := c.BaseTimeMinutes(); err != nil {
		return fmt.Errorf("%w: schedule_base_time: %w", ErrInvalidConfig, err)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}
	if !strings.EqualFold(c.LogFormat, logger.FormatText) && !strings.EqualFold(c.LogFormat, logger.FormatJSON) {
		return fmt.Errorf("%w: log_format must be text or json", ErrInvalidConfig)
	}
	defaults := scoring.DefaultWeights()
	for code, w := range c.ItemWeights {
		if _, ok := defaults[code]; !ok {
			return fmt.Errorf("%w: unknown item %q in item_weights", ErrInvalidConfig, code)
		}
		if w <= 0 {
			return fmt.Errorf("%w: weight of %s must be positive", ErrInvalidConfig, code)
		}
	}
	return nil
}

// BaseTimeMinutes returns ScheduleBaseTime as minutes after midnight.
func (c *Config) BaseTimeMinutes() (int, error) {
	return scheduling.ParseClock(c.ScheduleBaseTime)
}
