package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ravshanbekov/joblens/internal/core"
	"github.com/ravshanbekov/joblens/internal/store"
)

type Server struct {
	router   *chi.Mux
	store    *store.Store
	captures *core.CaptureService
	fetcher  core.Fetcher
}

func NewServer(st *store.Store, captures *core.CaptureService, fetcher core.Fetcher) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		store:    st,
		captures: captures,
		fetcher:  fetcher,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Post("/extract", s.handleExtract)
	s.router.Post("/classify", s.handleClassify)
	s.router.Get("/captures", s.handleListCaptures)
	s.router.Get("/stats", s.handleStats)
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
