package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/atuecke/mock-listener/internal/listener"
)

// StatsServer exposes local HTTP endpoints for observing a running load
// test: Prometheus metrics, a health probe, and a JSON status snapshot of
// every simulated listener.
type StatsServer struct {
	server      *http.Server
	logger      *slog.Logger
	coordinator *listener.Coordinator

	runID     string
	startTime time.Time
}

// NewStatsServer creates a stats server bound to addr. The coordinator is
// queried lazily on each request, so the server can be built before the
// listeners start.
func NewStatsServer(addr, runID string, logger *slog.Logger, coordinator *listener.Coordinator) *StatsServer {
	s := &StatsServer{
		logger:      logger,
		coordinator: coordinator,
		runID:       runID,
		startTime:   time.Now(),
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures the stats endpoints
func (s *StatsServer) setupRoutes(mux *http.ServeMux) {
	// Health check endpoint
	mux.HandleFunc("/healthz", s.handleHealth)

	// Run status with per-listener counters
	mux.HandleFunc("/status", s.handleStatus)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Root endpoint with API documentation
	mux.HandleFunc("/", s.handleRoot)
}

// Start starts the stats server
func (s *StatsServer) Start() error {
	s.logger.Info("Starting stats server",
		slog.String("address", s.server.Addr),
	)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Stats server error", slog.String("error", err.Error()))
		}
	}()

	return nil
}

// Stop gracefully stops the stats server
func (s *StatsServer) Stop(ctx context.Context) error {
	s.logger.Info("Stopping stats server...")

	return s.server.Shutdown(ctx)
}

// handleHealth implements the /healthz endpoint
func (s *StatsServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	health := map[string]interface{}{
		"status":    "healthy",
		"run_id":    s.runID,
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

// handleStatus implements the /status endpoint
func (s *StatsServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	totals := s.coordinator.Totals()
	snapshots := s.coordinator.Snapshots()

	status := map[string]interface{}{
		"run_id":    s.runID,
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startTime).String(),
		"totals":    totals,
		"listeners": snapshots,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// handleRoot implements the / endpoint with API documentation
func (s *StatsServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	apiDoc := map[string]interface{}{
		"service": "mock-listener",
		"run_id":  s.runID,
		"endpoints": map[string]interface{}{
			"GET /":        "API documentation",
			"GET /healthz": "Health check",
			"GET /status":  "Run status with per-listener counters",
			"GET /metrics": "Prometheus metrics",
		},
		"timestamp": time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(apiDoc)
}
