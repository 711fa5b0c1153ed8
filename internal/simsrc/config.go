package simsrc

import "time"

// Default simulator configuration constants.
const (
	defaultAddr         = ":9095"
	defaultGameID       = "simgame64"
	defaultRunsPerCycle = 3
	defaultInterval     = 10 * time.Second
	defaultFeedCap      = 200
)

// Config holds all simulator parameters.
type Config struct {
	Addr         string        // listen address for the fake API
	GameID       string        // game id served and accepted
	RunsPerCycle int           // verified runs appended per interval
	Interval     time.Duration // pause between appended batches
	Verbose      bool          // enable verbose logging
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Addr:         defaultAddr,
		GameID:       defaultGameID,
		RunsPerCycle: defaultRunsPerCycle,
		Interval:     defaultInterval,
	}
}

// Stats tracks what the simulator produced.
type Stats struct {
	RunsGenerated int
	Batches       int
}
