// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	service "github.com/okian/cfinsight/internal/app"
	"github.com/okian/cfinsight/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ProfileDependencies
	CompareDependencies
	CoachDependencies
}

// Report and HeadToHead mirror the read shapes returned by the service.
type (
	Report     = service.Report
	HeadToHead = service.HeadToHead
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	profileHandler *ProfileHandler
	compareHandler *CompareHandler
	coachHandler   *CoachHandler
	log            logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger that receives the causes behind error answers.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates a new API server with all handlers. sessionTTL is the
// lifetime of cookies issued by the coach endpoint.
func NewServer(deps Dependencies, statsProvider StatsProvider, sessionTTL time.Duration, opts ...Option) *Server {
	s := &Server{log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.profileHandler = &ProfileHandler{deps: deps, log: s.log}
	s.compareHandler = &CompareHandler{deps: deps, log: s.log}
	s.coachHandler = &CoachHandler{deps: deps, sessionTTL: sessionTTL, log: s.log}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/v1/profile/", MetricsMiddleware(s.profileHandler.HandleGetProfile, "profile"))
	mux.HandleFunc("/api/v1/compare", MetricsMiddleware(s.compareHandler.HandleGetCompare, "compare"))
	mux.HandleFunc("/api/v1/coach", MetricsMiddleware(s.coachHandler.HandlePostCoach, "coach"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// fail logs err with its full chain and answers with message only.
func fail(r *http.Request, log logger.Logger, w http.ResponseWriter, status int, code, message string, err error) {
	log.Warn(r.Context(), "request failed",
		logger.String("path", r.URL.Path),
		logger.Int("status", status),
		logger.Error(err),
	)
	writeError(w, status, code, message)
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	return false
}
