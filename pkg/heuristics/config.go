package heuristics

// Config holds the thresholds used by the heuristics. Every "Min" and
// "Threshold" bound is strict: a package must exceed it.
type Config struct {
	// RecencyDays is the length of the recency window ending at the store's
	// end of time. Whole multiples of 365 are applied as calendar years.
	RecencyDays int `toml:"recency_days"`

	// ActiveThreshold is the number of releases inside the recency window
	// that make a package recently active (at least this many).
	ActiveThreshold int `toml:"active_threshold"`

	// MinUpstream is the bound on present dependencies with another author.
	MinUpstream int `toml:"min_upstream"`

	// MinBusyUpstream is the bound on how many of those are recently active.
	MinBusyUpstream int `toml:"min_busy_upstream"`

	// MinDownstream is the bound on reverse dependencies with another author.
	MinDownstream int `toml:"min_downstream"`

	// ChurnThreshold is the bound on constraint changes a dependent must have
	// made on a dependency for the downstreamer heuristic.
	ChurnThreshold int `toml:"churn_threshold"`

	// AuthorOverlap is the longest common author substring, in characters,
	// below which two authors are considered unaffiliated.
	AuthorOverlap int `toml:"author_overlap"`
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		RecencyDays:     365,
		ActiveThreshold: 2,
		MinUpstream:     2,
		MinBusyUpstream: 1,
		MinDownstream:   2,
		ChurnThreshold:  8,
		AuthorOverlap:   8,
	}
}
