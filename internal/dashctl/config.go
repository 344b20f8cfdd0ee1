package dashctl

import "time"

// Config holds the settings shared by every dashctl command.
type Config struct {
	BaseURL string        // Base URL of the dashboard
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Enable verbose logging
}

// GenConfig describes a synthetic dataset.
type GenConfig struct {
	Rows      int     // Number of data rows
	Countries int     // Number of distinct country uids
	YearFrom  int     // First year, inclusive
	YearTo    int     // Last year, inclusive
	Invalid   float64 // Share of rows with an unparseable number, in [0, 1]
	Seed      uint64  // Seed for the row generator
}

// BenchConfig drives a burst of concurrent toggles.
type BenchConfig struct {
	Toggles int // Number of toggles to send
	Workers int // Number of concurrent workers
	Reuse   int // Every Reuse-th request repeats the previous idempotency key; 0 disables
}

// BenchStats holds the outcome of a bench run.
type BenchStats struct {
	Sent         int
	Applied      int
	Duplicate    int
	Backpressure int
	Failed       int
	Duration     time.Duration
}
