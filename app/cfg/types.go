package cfg

import (
	"time"
)

type Cfg struct {
	// Import bundle
	Job Job

	// Destination
	Endpoint  string
	Generator string

	// Application configuration
	UserAgent    string
	Timezone     string
	Location     *time.Location
	FetchTimeout time.Duration
	MaxRunTime   time.Duration
	SupportURL   string

	// HTTP intake
	Serve        bool
	Port         string
	APIAccessKey string

	// Application metadata
	Debug   bool
	Version string
}

// Job is the per-run import bundle. It is built once and never mutated.
type Job struct {
	Email       string
	Password    string
	Group       string
	FeedURL     string
	ExtraLabels []string
	Preview     bool
	Debug       bool
	Autocorrect bool
}
