package module

import (
	"time"

	"rosterline/internal/platform/config"
)

// Options holds configuration for the ingest service
type Options struct {
	ScreenThreshold int
	ParallelCommits bool
	DecidePoll      time.Duration
}

// FromConfig reads ingest options from config with CORE_INGEST_ prefix
func FromConfig(cfg config.Conf) Options {
	in := cfg.Prefix("CORE_INGEST_")
	return Options{
		ScreenThreshold: in.MayInt("SCREEN_THRESHOLD", 0), // 0 keeps the screener default
		ParallelCommits: in.MayBool("PARALLEL_COMMITS", true),
		DecidePoll:      in.MayDuration("DECIDE_POLL", 2*time.Second),
	}
}
