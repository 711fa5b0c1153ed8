// Package simsrc runs a fake speedrun.com API for local testing. It serves
// the game metadata endpoint and a rolling feed of freshly generated
// verified runs, so the watcher can be pointed at it with a custom base URL.
package simsrc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/okian/srcwatch/pkg/logger"
)

// HTTP server timeout constants.
const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type wirePlayer struct {
	ID    string    `json:"id"`
	Names wireNames `json:"names"`
}

type wirePlayers struct {
	Data []wirePlayer `json:"data"`
}

type wireTimes struct {
	PrimaryT float64 `json:"primary_t"`
}

type wireRun struct {
	ID       string            `json:"id"`
	Level    string            `json:"level"`
	Category string            `json:"category"`
	Times    wireTimes         `json:"times"`
	Players  wirePlayers       `json:"players"`
	Values   map[string]string `json:"values"`
}

// Server is the fake API instance.
type Server struct {
	config *Config
	stats  Stats

	mu   sync.RWMutex
	feed []wireRun // newest first, capped at defaultFeedCap

	httpServer *http.Server
	logger     logger.Logger
}

// NewServer creates a simulator from config.
func NewServer(config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	s := &Server{
		config: config,
		logger: logger.Get().Named("simsrc"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/games/", s.handleGame)
	mux.HandleFunc("/api/v1/runs", s.handleRuns)
	mux.HandleFunc("/api/v1/leaderboards/", s.handleLeaderboard)
	s.httpServer = &http.Server{
		Addr:              config.Addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

// BaseURL returns the API base the watcher should be pointed at.
func (s *Server) BaseURL() string {
	addr := s.config.Addr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return fmt.Sprintf("http://%s/api/v1/", addr)
}

// Run serves the fake API and appends run batches until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	// seed the feed so the first poll sees something
	s.append(generateBatch(s.config.RunsPerCycle))

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "simulator listening",
			logger.String("addr", s.config.Addr),
			logger.String("game", s.config.GameID),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return s.httpServer.Shutdown(shutdownCtx) //nolint:wrapcheck // terminal shutdown error
		case err := <-errCh:
			return fmt.Errorf("simulator server failed: %w", err)
		case <-ticker.C:
			batch := generateBatch(s.config.RunsPerCycle)
			s.append(batch)
			if s.config.Verbose {
				s.logger.Info(ctx, "appended run batch",
					logger.Int("count", len(batch)),
					logger.Int("feed", s.feedLen()),
				)
			}
		}
	}
}

// StatsSnapshot returns a copy of the production counters.
func (s *Server) StatsSnapshot() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *Server) append(batch []wireRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feed = append(batch, s.feed...)
	if len(s.feed) > defaultFeedCap {
		s.feed = s.feed[:defaultFeedCap]
	}
	s.stats.RunsGenerated += len(batch)
	s.stats.Batches++
}

func (s *Server) feedLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.feed)
}

// handleGame serves GET /api/v1/games/{id}.
func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/games/")
	if id != s.config.GameID {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, gamePayload(s.config.GameID))
}

// handleRuns serves GET /api/v1/runs, newest first.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("game") != s.config.GameID {
		http.NotFound(w, r)
		return
	}

	s.mu.RLock()
	runs := make([]wireRun, len(s.feed))
	copy(runs, s.feed)
	s.mu.RUnlock()

	writeJSON(w, map[string]any{"data": runs})
}

// handleLeaderboard serves GET /api/v1/leaderboards/{game}/category/{cat}
// and GET /api/v1/leaderboards/{game}/level/{lvl}/{cat}, ranking the feed
// runs that match the addressed node and any var-{id}={val} constraints.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/v1/leaderboards/"), "/")

	var category, level string
	switch {
	case len(parts) == 3 && parts[1] == "category":
		category = parts[2]
	case len(parts) == 4 && parts[1] == "level":
		level, category = parts[2], parts[3]
	default:
		http.NotFound(w, r)
		return
	}
	if parts[0] != s.config.GameID {
		http.NotFound(w, r)
		return
	}

	constraints := map[string]string{}
	for key, vals := range r.URL.Query() {
		if strings.HasPrefix(key, "var-") && len(vals) > 0 {
			constraints[strings.TrimPrefix(key, "var-")] = vals[0]
		}
	}

	s.mu.RLock()
	var matches []wireRun
	for _, run := range s.feed {
		if run.Category != category || run.Level != level {
			continue
		}
		ok := true
		for id, val := range constraints {
			if run.Values[id] != val {
				ok = false
				break
			}
		}
		if ok {
			matches = append(matches, run)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Times.PrimaryT < matches[j].Times.PrimaryT
	})

	type placedRun struct {
		Place int     `json:"place"`
		Run   wireRun `json:"run"`
	}
	placed := make([]placedRun, 0, len(matches))
	for i, run := range matches {
		placed = append(placed, placedRun{Place: i + 1, Run: run})
	}
	writeJSON(w, map[string]any{"data": map[string]any{"runs": placed}})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}
