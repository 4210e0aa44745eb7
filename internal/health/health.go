// Package health содержит health check сервер.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"lpbot/internal/worker"

	"go.uber.org/zap"
)

// Response тело ответа health check
type Response struct {
	Status    string        `json:"status"`
	Timestamp string        `json:"timestamp"`
	Parties   *int          `json:"parties,omitempty"`
	Workers   *worker.Stats `json:"workers,omitempty"`
}

// Server представляет health check сервер
type Server struct {
	server  *http.Server
	parties PartyCounter
	workers WorkerStats
	ready   atomic.Bool
	logger  *zap.Logger
}

// NewServer создает новый health check сервер
func NewServer(port string, parties PartyCounter, workers WorkerStats, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	healthServer := &Server{
		server: &http.Server{
			Addr:              ":" + port,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		parties: parties,
		workers: workers,
		logger:  logger,
	}

	mux.HandleFunc("/health", healthServer.healthHandler)
	mux.HandleFunc("/ready", healthServer.readyHandler)
	mux.HandleFunc("/live", healthServer.liveHandler)

	return healthServer
}

// Handler возвращает HTTP обработчик сервера
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// SetReady отмечает готовность бота принимать обновления
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Start запускает health check сервер
func (s *Server) Start() error {
	s.logger.Info("Starting health check server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop останавливает health check сервер
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("Stopping health check server")
	return s.server.Shutdown(ctx)
}

// healthHandler обрабатывает запросы /health
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := Response{Status: "healthy"}
	code := http.StatusOK

	if !s.ready.Load() {
		response.Status = "starting"
		code = http.StatusServiceUnavailable
	}

	if s.parties != nil {
		count := s.parties.Len()
		response.Parties = &count
	}
	if s.workers != nil {
		stats := s.workers.Stats()
		response.Workers = &stats
	}

	s.writeJSON(w, code, response)
}

// readyHandler обрабатывает запросы /ready
func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	if !s.ready.Load() {
		s.writeJSON(w, http.StatusServiceUnavailable, Response{Status: "not ready"})
		return
	}
	s.writeJSON(w, http.StatusOK, Response{Status: "ready"})
}

// liveHandler обрабатывает запросы /live
func (s *Server) liveHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, Response{Status: "alive"})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, response Response) {
	response.Timestamp = time.Now().UTC().Format(time.RFC3339)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error("Failed to write health response", zap.Error(err))
	}
}
