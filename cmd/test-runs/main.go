package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/srcwatch/internal/simsrc"
)

// Default configuration constants.
const (
	defaultRunsPerCycle = 3
	defaultInterval     = 10 * time.Second
)

func main() {
	var (
		addr     = flag.String("addr", ":9095", "Listen address for the fake API")
		gameID   = flag.String("game", "simgame64", "Game id served and accepted")
		runs     = flag.Int("runs", defaultRunsPerCycle, "Verified runs appended per interval")
		interval = flag.Duration("interval", defaultInterval, "Pause between appended batches")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simsrc.ShowHelp()
		return
	}

	if err := simsrc.SetupLogging(*verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config := &simsrc.Config{
		Addr:         *addr,
		GameID:       *gameID,
		RunsPerCycle: *runs,
		Interval:     *interval,
		Verbose:      *verbose,
	}

	if err := simsrc.NewServer(config).Run(ctx); err != nil {
		os.Stderr.WriteString("Simulator failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
