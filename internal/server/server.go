// Package server is a small HTTP preview surface for the tag cloud:
// it re-reads the store and re-renders the fragment on every request so
// what you see is always the current data.
package server

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tag-cloud-maker/internal/cloud"
	"tag-cloud-maker/internal/db"
	"tag-cloud-maker/internal/directive"
)

// Config holds the preview server settings
type Config struct {
	// Addr is the HTTP listen address
	Addr string
	// BasePath is the link prefix for tag anchors
	BasePath string
	// DefaultDirective is used when a request carries no directive query
	// parameter
	DefaultDirective string
}

// Server serves the rendered tag cloud over HTTP.
type Server struct {
	cfg    Config
	store  *db.DB
	router chi.Router
}

// New creates a Server reading counts from store.
func New(cfg Config, store *db.DB) *Server {
	if cfg.BasePath == "" {
		cfg.BasePath = "/tags"
	}

	s := &Server{
		cfg:    cfg,
		store:  store,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// Handler returns the underlying router (tests mount it on httptest).
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving HTTP on the configured address.
func (s *Server) ListenAndServe() error {
	return http.ListenAndServe(s.cfg.Addr, s.router)
}

func (s *Server) routes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/cloud", s.handleCloud)
}

// renderCloud runs one full pipeline pass with a fresh random source
func (s *Server) renderCloud(raw string) (string, directive.Config, error) {
	counts, err := s.store.TagCounts()
	if err != nil {
		return "", directive.Config{}, fmt.Errorf("reading tag counts: %w", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return cloud.Generate(raw, counts, s.cfg.BasePath, rng), directive.Parse(raw), nil
}

func (s *Server) directiveParam(r *http.Request) string {
	if raw := r.URL.Query().Get("directive"); raw != "" {
		return raw
	}
	return s.cfg.DefaultDirective
}

// handleCloud returns the bare markup fragment for embedding
func (s *Server) handleCloud(w http.ResponseWriter, r *http.Request) {
	fragment, _, err := s.renderCloud(s.directiveParam(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, fragment)
}

// handleIndex returns a minimal page wrapping the fragment in the
// wrapper element matching the directive's style
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	raw := s.directiveParam(r)
	fragment, cfg, err := s.renderCloud(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	openTag, closeTag := "<p>", "</p>"
	if cfg.Style == directive.StyleList {
		openTag, closeTag = "<ul>", "</ul>"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head><title>tag cloud</title></head>\n<body>\n%s\n%s%s\n</body>\n</html>\n", openTag, fragment, closeTag)
}
