// Package probe drives a running dashboard server with random control
// states and checks every dataset response for consistency.
package probe

import (
	"errors"
	"time"
)

// Sentinel kinds for probe failures.
var (
	ErrUnhealthy     = errors.New("service unhealthy")
	ErrRequestFailed = errors.New("request failed")
	ErrViolations    = errors.New("consistency violations found")
	ErrNoChoices     = errors.New("options response has no choices")
)

// Defaults used when a Config field is left zero.
const (
	DefaultURL      = "http://localhost:8050"
	DefaultRequests = 200
	DefaultWorkers  = 8
	DefaultTimeout  = 10 * time.Second

	// maxThreshold bounds the random medal threshold.
	maxThreshold = 200
	// maxReported caps the violations kept in a Summary.
	maxReported = 50
)

// Config holds configuration for one probe run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Requests int           // Number of dataset requests to issue
	Workers  int           // Number of concurrent requests
	Seed     uint64        // Seed of the state generator; 0 picks one from the clock
	Timeout  time.Duration // HTTP request timeout
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultURL
	}
	if c.Requests <= 0 {
		c.Requests = DefaultRequests
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Seed == 0 {
		c.Seed = uint64(time.Now().UnixNano())
	}
	return c
}

// Request is one generated control state in its wire form.
type Request struct {
	ID        string   `json:"id"`
	Season    string   `json:"season"`
	Gender    string   `json:"gender"`
	Year      string   `json:"year"`
	Threshold int      `json:"threshold"`
	Medals    []string `json:"medals"`
}

// Violation describes one broken property of a response.
type Violation struct {
	Request Request `json:"request"`
	Dataset string  `json:"dataset"`
	Row     int     `json:"row"`
	Reason  string  `json:"reason"`
}

// Summary holds the outcome of a probe run.
type Summary struct {
	RunID      string
	Seed       uint64
	Requested  int
	Succeeded  int
	Failed     int
	Checked    int // rows inspected across all responses
	Violations []Violation
	Violated   int // total count, Violations is capped
	StartTime  time.Time
	Duration   time.Duration
}
