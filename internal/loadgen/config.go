package loadgen

import "time"

// Config holds configuration for a load run.
type Config struct {
	Count      int           // Number of measurements to submit
	TopN       int           // Number of ranking entries to verify
	Workers    int           // Number of concurrent submitters
	Seed       uint64        // Seed for the value generator
	Settle     time.Duration // How long to wait for the ranking to fill
	OutputFile string        // Optional JSON dump of the submitted measurements
}

// Stats holds run statistics.
type Stats struct {
	Generated  int           `json:"generated"`
	Accepted   int           `json:"accepted"`
	Duplicates int           `json:"duplicates"`
	Throttled  int           `json:"throttled"`
	Failed     int           `json:"failed"`
	Ranked     int           `json:"ranked"`
	Duration   time.Duration `json:"duration"`
}
