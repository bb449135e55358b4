package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"

	"github.com/brandops/automation/internal/log"
	"github.com/brandops/automation/pkg/models"
	"github.com/brandops/automation/pkg/service"
	"github.com/brandops/automation/pkg/storage"
)

// Server exposes the automation engine over HTTP: rule administration,
// the event-publish subscriber entry point, manual runs and
// execution-log inspection.
type Server struct {
	svc    *service.AutomationService
	router *chi.Mux
}

func NewServer(svc *service.AutomationService) *Server {
	s := &Server{svc: svc}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Post("/events", s.handlePublishEvent)

	r.Route("/rules", func(r chi.Router) {
		r.Get("/", s.handleListRules)
		r.Post("/", s.handleCreateRule)

		r.Route("/{ruleID}", func(r chi.Router) {
			r.Get("/", s.handleGetRule)
			r.Put("/", s.handleUpdateRule)
			r.Delete("/", s.handleDeleteRule)
			r.Post("/run", s.handleRunRule)
			r.Get("/executions", s.handleListExecutions)
		})
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start blocks serving the API on the given port.
func (s *Server) Start(port string) error {
	log.GetLogger().Infof("Starting automation server on :%s", port)
	return http.ListenAndServe(":"+port, s)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handlePublishEvent is the in-process event-bus subscriber entry
// point: the platform posts domain events here and the engine matches
// them against event rules before responding.
func (s *Server) handlePublishEvent(w http.ResponseWriter, r *http.Request) {
	var event models.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondError(w, http.StatusBadRequest, "invalid event envelope")
		return
	}
	if event.Name == "" {
		respondError(w, http.StatusBadRequest, "event name is required")
		return
	}
	if err := s.svc.HandleEvent(r.Context(), event); err != nil {
		log.GetLogger().Errorf("Failed to handle event '%s': %v", event.Name, err)
		respondError(w, http.StatusInternalServerError, "failed to process event")
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "processed"})
}

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.svc.ListRules()
	if err != nil {
		log.GetLogger().Errorf("Failed to list rules: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list rules")
		return
	}
	respondJSON(w, http.StatusOK, rules)
}

func (s *Server) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	var rule models.Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		respondError(w, http.StatusBadRequest, "invalid rule")
		return
	}
	created, err := s.svc.CreateRule(rule)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetRule(w http.ResponseWriter, r *http.Request) {
	rule, err := s.svc.GetRule(chi.URLParam(r, "ruleID"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rule)
}

func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	var rule models.Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		respondError(w, http.StatusBadRequest, "invalid rule")
		return
	}
	rule.ID = chi.URLParam(r, "ruleID")
	if err := s.svc.UpdateRule(rule); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "rule not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteRule(chi.URLParam(r, "ruleID")); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleRunRule is the operator "run now" path; it bypasses trigger
// matching and the schedule due-check.
func (s *Server) handleRunRule(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.RunRule(r.Context(), chi.URLParam(r, "ruleID")); err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "executed"})
}

func (s *Server) handleListExecutions(w http.ResponseWriter, r *http.Request) {
	logs, err := s.svc.ListExecutionLogs(chi.URLParam(r, "ruleID"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, logs)
}

func respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "rule not found")
		return
	}
	log.GetLogger().Errorf("Store error: %v", err)
	respondError(w, http.StatusInternalServerError, "internal error")
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.GetLogger().Errorf("Failed to encode response: %v", err)
	}
}
