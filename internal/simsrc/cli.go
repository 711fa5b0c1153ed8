package simsrc

import (
	"fmt"
	"os"

	"github.com/okian/srcwatch/pkg/logger"
)

// SetupLogging initializes the structured logger for the simulator CLI.
func SetupLogging(verbose bool) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the run simulator.
func ShowHelp() {
	os.Stdout.WriteString(`srcwatch Run Simulator
======================

Serves a fake speedrun.com API with a rolling feed of generated verified
runs, for exercising the watcher without touching the real site.

Usage:
  go run cmd/test-runs/main.go [options]

Options:
  -addr string
        Listen address for the fake API (default ":9095")
  -game string
        Game id served and accepted (default "simgame64")
  -runs int
        Verified runs appended per interval (default 3)
  -interval duration
        Pause between appended batches (default 10s)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Default settings
  go run cmd/test-runs/main.go

  # Faster feed on a custom port
  go run cmd/test-runs/main.go -addr :8099 -runs 10 -interval 2s

Point the watcher at it:
  SRCWATCH_API_BASE_URL=http://localhost:9095/api/v1/ \
  SRCWATCH_GAME_ID=simgame64 go run cmd/main.go
`)
}
