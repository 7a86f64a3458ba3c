package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/marketpulse/internal/adapters/database"
	redisAdapter "github.com/selivandex/marketpulse/internal/adapters/redis"
	"github.com/selivandex/marketpulse/internal/trend"
	"github.com/selivandex/marketpulse/pkg/logger"
)

// Server exposes health probes, the latest trend result and a websocket
// stream of trend updates
type Server struct {
	server    *http.Server
	db        *database.DB
	redis     *redisAdapter.Client
	sidecar   *trend.Sidecar
	hub       *Hub
	ready     bool
	readyMu   sync.RWMutex
	latest    *trend.Result
	latestMu  sync.RWMutex
	startTime time.Time
}

// HealthStatus represents system health
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ReadinessStatus represents system readiness
type ReadinessStatus struct {
	Ready     bool              `json:"ready"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
	Clients   int               `json:"ws_clients"`
}

// NewServer creates the HTTP server
func NewServer(
	addr string,
	db *database.DB,
	redis *redisAdapter.Client,
	sidecar *trend.Sidecar,
	hub *Hub,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		server: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		db:        db,
		redis:     redis,
		sidecar:   sidecar,
		hub:       hub,
		startTime: time.Now(),
	}

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReadiness)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReadiness)
	mux.HandleFunc("/api/trend/latest", s.handleLatestTrend)
	if hub != nil {
		mux.HandleFunc("/ws/trend", hub.HandleWS)
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	logger.Info("http server starting",
		zap.String("addr", s.server.Addr),
	)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	logger.Info("stopping http server...")
	if s.hub != nil {
		s.hub.Close()
	}
	return s.server.Shutdown(ctx)
}

// SetReady marks the service as ready
func (s *Server) SetReady(ready bool) {
	s.readyMu.Lock()
	defer s.readyMu.Unlock()
	s.ready = ready

	if ready {
		logger.Info("service marked as ready")
	} else {
		logger.Warn("service marked as not ready")
	}
}

// PublishResult records the latest analysis result and pushes it to
// websocket subscribers
func (s *Server) PublishResult(res *trend.Result) {
	s.latestMu.Lock()
	s.latest = res
	s.latestMu.Unlock()

	if s.hub != nil {
		s.hub.Broadcast(res)
	}
}

// handleHealth handles the liveness probe. Returns 200 while the process is
// alive even if dependencies are down.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
	}

	if r.URL.Query().Get("verbose") == "true" {
		status.Checks = s.dependencyChecks()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(status)
}

// handleReadiness returns 200 only when startup finished and dependencies
// answer
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	s.readyMu.RLock()
	ready := s.ready
	s.readyMu.RUnlock()

	checks := s.dependencyChecks()
	allHealthy := true
	for _, v := range checks {
		if v != "healthy" {
			allHealthy = false
		}
	}

	isReady := ready && allHealthy

	clients := 0
	if s.hub != nil {
		clients = s.hub.ClientCount()
	}

	status := ReadinessStatus{
		Ready:     isReady,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Clients:   clients,
	}

	w.Header().Set("Content-Type", "application/json")

	if isReady {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	json.NewEncoder(w).Encode(status)
}

// handleLatestTrend serves the most recent analysis result, falling back to
// the persisted sidecar when no run happened in this process yet
func (s *Server) handleLatestTrend(w http.ResponseWriter, r *http.Request) {
	s.latestMu.RLock()
	res := s.latest
	s.latestMu.RUnlock()

	if res == nil && s.sidecar != nil {
		loaded, err := s.sidecar.Load()
		if err == nil {
			res = loaded
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if res == nil {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "no trend analysis available yet"})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(res)
}

func (s *Server) dependencyChecks() map[string]string {
	checks := make(map[string]string)

	if s.db != nil {
		if err := s.db.Health(); err != nil {
			checks["database"] = "unhealthy: " + err.Error()
		} else {
			checks["database"] = "healthy"
		}
	}

	if s.redis != nil {
		if err := s.redis.Health(); err != nil {
			checks["redis"] = "unhealthy: " + err.Error()
		} else {
			checks["redis"] = "healthy"
		}
	}

	return checks
}
