// Package server exposes a crawl's saved results over a small read-only HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pfrederiksen/history-events/internal/calendar"
	"github.com/pfrederiksen/history-events/internal/event"
	"github.com/pfrederiksen/history-events/internal/logger"
)

const shutdownTimeout = 10 * time.Second

// Server answers event queries from an in-memory ResultSet
type Server struct {
	events *event.ResultSet
	now    func() time.Time
	pick   func(n int) int
}

// New creates a Server over events. A nil events set is treated as "not loaded".
func New(events *event.ResultSet) *Server {
	if events != nil {
		logger.SetGauge("api.loaded_dates", float64(events.Len()))
		logger.SetGauge("api.loaded_events", float64(events.TotalEvents()))
	}
	return &Server{
		events: events,
		now:    time.Now,
		pick:   rand.IntN,
	}
}

type dateResponse struct {
	Success bool           `json:"success"`
	Date    string         `json:"date"`
	Events  []event.Record `json:"events"`
}

type randomResponse struct {
	Success bool         `json:"success"`
	Date    string       `json:"date"`
	Event   event.Record `json:"event"`
}

type searchResponse struct {
	Success bool               `json:"success"`
	Year    int                `json:"year"`
	Results []event.DateEvents `json:"results"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(allowAnyOrigin)
	r.Use(logRequests)

	r.Get("/health", s.handleHealth)
	r.Route("/api/events", func(r chi.Router) {
		r.Get("/today", s.handleToday)
		r.Get("/random", s.handleRandom)
		r.Get("/search/{year}", s.handleSearch)
		r.Get("/{month}/{day}", s.handleDate)
	})

	return r
}

// ListenAndServe serves the API on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server starting", logger.Fields{"addr": addr})
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutdown signal received", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDate(w http.ResponseWriter, r *http.Request) {
	key, err := calendar.ParseKey(chi.URLParam(r, "month"), chi.URLParam(r, "day"))
	if err != nil {
		writeError(w, http.StatusNotFound, "no historical events found for this date")
		return
	}
	s.writeDate(w, key, "no historical events found for this date")
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	s.writeDate(w, s.now().Format("01-02"), "no historical events found for today")
}

func (s *Server) writeDate(w http.ResponseWriter, key, notFound string) {
	if s.events == nil {
		writeError(w, http.StatusNotFound, notFound)
		return
	}
	records, ok := s.events.Get(key)
	if !ok {
		writeError(w, http.StatusNotFound, notFound)
		return
	}
	writeJSON(w, http.StatusOK, dateResponse{Success: true, Date: key, Events: records})
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	if s.events == nil || s.events.Len() == 0 {
		writeError(w, http.StatusInternalServerError, "event data not loaded")
		return
	}

	keys := s.events.Keys()
	date := keys[s.pick(len(keys))]
	records, _ := s.events.Get(date)
	if len(records) == 0 {
		writeError(w, http.StatusNotFound, "no historical events found")
		return
	}

	writeJSON(w, http.StatusOK, randomResponse{
		Success: true,
		Date:    date,
		Event:   records[s.pick(len(records))],
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "year")
	year, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year: "+raw)
		return
	}

	if s.events == nil {
		writeError(w, http.StatusInternalServerError, "event data not loaded")
		return
	}

	results := s.events.FindYear(year)
	if len(results) == 0 {
		writeError(w, http.StatusNotFound, "no historical events found for year "+raw)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{Success: true, Year: year, Results: results})
}

// allowAnyOrigin permits cross-origin reads from browsers
func allowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		logger.IncrCounter("api.requests")
		logger.RecordTiming("api.duration", time.Since(start))
		logger.Debug("Request handled", logger.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"request_id": middleware.GetReqID(r.Context()),
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		logger.Error("Encoding response", nil, err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Message: message})
}
