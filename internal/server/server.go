// Package server exposes the aggregation service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ktoiv/epistemo-hippodrome/internal/config"
	"github.com/ktoiv/epistemo-hippodrome/internal/models"
	"github.com/ktoiv/epistemo-hippodrome/internal/service"
)

// Server serves the card, race and race-view endpoints
type Server struct {
	svc    *service.RaceViewService
	cfg    *config.ServerConfig
	server *http.Server
	logger *logrus.Logger
}

// NewServer creates the HTTP server around the aggregation service
func NewServer(svc *service.RaceViewService, cfg *config.ServerConfig, logger *logrus.Logger) *Server {
	return &Server{
		svc:    svc,
		cfg:    cfg,
		logger: logger,
	}
}

// Start runs the server until the context is cancelled
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/cards", s.handleCards)
	mux.HandleFunc("/races", s.handleRaces)
	mux.HandleFunc("/starts", s.handleStarts)
	mux.HandleFunc("/race", s.handleRace)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.withMiddleware(mux),
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.WithError(err).Error("Server shutdown error")
		}
	}()

	s.logger.WithField("port", s.cfg.Port).Info("HTTP server starting")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// handleCards serves GET /cards
func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, s.svc.ListCards(r.Context()))
}

// handleRaces serves GET /races?card=<track>
func (s *Server) handleRaces(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cardName := r.URL.Query().Get("card")
	if cardName == "" {
		http.Error(w, "card parameter required", http.StatusBadRequest)
		return
	}

	races, err := s.svc.ListRaces(r.Context(), cardName)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, races)
}

// handleStarts serves GET /starts?card=<track>
func (s *Server) handleStarts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cardName := r.URL.Query().Get("card")
	if cardName == "" {
		http.Error(w, "card parameter required", http.StatusBadRequest)
		return
	}

	races, err := s.svc.ListRaces(r.Context(), cardName)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.Starts{Count: len(races)})
}

// handleRace serves GET /race?card=<track>&start=<number>
func (s *Server) handleRace(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cardName := r.URL.Query().Get("card")
	startParam := r.URL.Query().Get("start")
	if cardName == "" || startParam == "" {
		http.Error(w, "card and start parameters required", http.StatusBadRequest)
		return
	}

	raceNumber, err := strconv.Atoi(startParam)
	if err != nil {
		http.Error(w, "start parameter must be an integer", http.StatusBadRequest)
		return
	}

	views, err := s.svc.BuildRaceView(r.Context(), cardName, raceNumber)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

// writeError maps service errors to HTTP status codes. Not-found stays a
// quiet 404; anything else is unexpected and surfaces with its message.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, models.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	s.logger.WithError(err).Error("Request failed")
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
