// Package server exposes the session over a small JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/educationrisehub/faceless-reels-generator/internal/ai"
	"github.com/educationrisehub/faceless-reels-generator/internal/content"
	"github.com/educationrisehub/faceless-reels-generator/internal/export"
	"github.com/educationrisehub/faceless-reels-generator/internal/session"
	"github.com/educationrisehub/faceless-reels-generator/pkg/logger"
)

// Server wires HTTP handlers to a single-user session.
type Server struct {
	session *session.Session
	log     *logger.Logger
}

// New creates a server over the given session.
func New(sess *session.Session, log *logger.Logger) *Server {
	return &Server{
		session: sess,
		log:     log.WithComponent("server"),
	}
}

// Routes builds the router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Get("/history", s.handleHistoryList)
		r.Post("/history/{id}/select", s.handleHistorySelect)
		r.Delete("/history", s.handleHistoryClear)
		r.Get("/export/{id}", s.handleExport)
	})

	return r
}

type generateRequest struct {
	Niche       content.Niche       `json:"niche"`
	Mode        content.Mode        `json:"mode"`
	Platform    content.Platform    `json:"platform"`
	ContentType content.ContentType `json:"contentType"`
	Topic       string              `json:"topic"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for _, set := range []func() error{
		func() error { return s.session.SetNiche(req.Niche) },
		func() error { return s.session.SetMode(req.Mode) },
		func() error { return s.session.SetPlatform(req.Platform) },
		func() error { return s.session.SetContentType(req.ContentType) },
	} {
		if err := set(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	s.session.SetTopic(req.Topic)

	result, err := s.session.Generate(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, result)
	case errors.Is(err, session.ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, content.ErrTopicRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ai.ErrGenerationFailed):
		writeError(w, http.StatusBadGateway, "generation failed")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleHistoryList(w http.ResponseWriter, _ *http.Request) {
	history := s.session.History()
	if history == nil {
		history = []content.GenerationResult{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleHistorySelect(w http.ResponseWriter, r *http.Request) {
	result, err := s.session.SelectHistory(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	if err := s.session.ClearHistory(r.Context()); err != nil {
		s.log.Error().Err(err).Msg("Failed to clear history")
		writeError(w, http.StatusInternalServerError, "failed to clear history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	result, err := s.session.HistoryEntry(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "txt"
	}

	title := export.ResultTitle(result.Mode)
	var body, contentType string
	switch format {
	case "txt":
		body = export.Text(result.Data)
		contentType = "text/plain; charset=utf-8"
	case "csv":
		body = export.CSV(result.Data)
		contentType = "text/csv; charset=utf-8"
	default:
		writeError(w, http.StatusBadRequest, "format must be txt or csv")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(title, format)+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
