package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/DashNode-Org/zk-blocktime-soundness/pkg/health"
	"github.com/DashNode-Org/zk-blocktime-soundness/pkg/monitor"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Server struct {
	port      int
	timeout   time.Duration
	checker   *health.Checker
	monitor   *monitor.Monitor
	router    *chi.Mux
	startTime time.Time
	httpSrv   *http.Server
}

func NewServer(port int, timeout time.Duration, checker *health.Checker, mon *monitor.Monitor) *Server {
	return &Server{
		port:      port,
		timeout:   timeout,
		checker:   checker,
		monitor:   mon,
		router:    chi.NewRouter(),
		startTime: time.Now(),
	}
}

func (s *Server) Start() error {
	s.setupMiddleware()
	s.setupRoutes()

	s.httpSrv = &http.Server{
		Addr:              ":" + strconv.Itoa(s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().Msgf("Starting server on port %d", s.port)
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv != nil {
		return s.httpSrv.Shutdown(ctx)
	}
	return nil
}

// GetHandler returns the http.Handler for testing or custom usage
func (s *Server) GetHandler() http.Handler {
	s.setupMiddleware()
	s.setupRoutes()
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.timeout + 5*time.Second))
}

func (s *Server) setupRoutes() {
	// Prometheus Metrics Endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/ready", s.handleReady)

	// Latest window analysis
	s.router.Get("/stats", s.handleStats)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.monitor.Latest(); ok {
		w.Write([]byte("READY"))
	} else {
		http.Error(w, "Not Ready", http.StatusServiceUnavailable)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	node := s.checker.Last()

	status := "unhealthy"
	if node.Healthy {
		status = "healthy"
	}

	response := map[string]interface{}{
		"status": status,
		"uptime": time.Since(s.startTime).Seconds(),
		"node":   node,
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.monitor.Latest()
	if !ok {
		http.Error(w, "No analysis yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
