package scheduling

import "github.com/google/uuid"

// Default scheduling parameters.
const (
	DefaultBaseTime    = 9 * 60
	DefaultHeatMinutes = 30
	DefaultMinRest     = 60
	DefaultCheckLimit  = 1000
	DefaultReportLimit = 100
	DefaultRefereeName = "默认裁判"
	DefaultVenueName   = "默认场地"
	WarningNoHeats     = "自动编排完成，但未生成任何赛程，请检查报名数据是否符合条件"
)

// Option applies a configuration option to the Scheduler.
type Option func(*Scheduler)

// WithBaseTime sets the first heat start in minutes after midnight.
func WithBaseTime(minutes int) Option {
	return func(s *Scheduler) {
		if minutes >= 0 {
			s.baseTime = minutes
		}
	}
}

// WithHeatMinutes sets the length of one heat.
func WithHeatMinutes(minutes int) Option {
	return func(s *Scheduler) {
		if minutes > 0 {
			s.heatMinutes = minutes
		}
	}
}

// WithMinRest sets the minimum rest between two heats of the same athlete.
func WithMinRest(minutes int) Option {
	return func(s *Scheduler) {
		if minutes >= 0 {
			s.minRest = minutes
		}
	}
}

// WithDefaultReferee sets the placeholder used when no referee exists.
func WithDefaultReferee(name string) Option {
	return func(s *Scheduler) {
		if name != "" {
			s.defaultReferee = name
		}
	}
}

// WithDefaultVenue sets the placeholder used when no venue exists.
func WithDefaultVenue(name string) Option {
	return func(s *Scheduler) {
		if name != "" {
			s.defaultVenue = name
		}
	}
}

// WithCheckLimit caps how many heats conflict detection examines. Zero
// removes the cap.
func WithCheckLimit(n int) Option {
	return func(s *Scheduler) {
		if n >= 0 {
			s.checkLimit = n
		}
	}
}

// WithReportLimit caps how many conflicts a report lists. Zero removes the cap.
func WithReportLimit(n int) Option {
	return func(s *Scheduler) {
		if n >= 0 {
			s.reportLimit = n
		}
	}
}

// WithIDFunc sets the heat id generator.
func WithIDFunc(fn func() string) Option {
	return func(s *Scheduler) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func defaultScheduler() *Scheduler {
	return &Scheduler{
		baseTime:       DefaultBaseTime,
		heatMinutes:    DefaultHeatMinutes,
		minRest:        DefaultMinRest,
		defaultReferee: DefaultRefereeName,
		defaultVenue:   DefaultVenueName,
		checkLimit:     DefaultCheckLimit,
		reportLimit:    DefaultReportLimit,
		newID:          uuid.NewString,
	}
}
