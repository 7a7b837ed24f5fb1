// Package api implements the ioflow HTTP API.
//
// The API exposes the same analysis pipeline as the CLI over HTTP, so a
// long-running service can analyze netlists posted by build tooling
// without shelling out. Reports are cached with an "api:" key scope to
// keep API traffic from colliding with CLI cache entries.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mbertsch/ioflow/pkg/buildinfo"
	"github.com/mbertsch/ioflow/pkg/errors"
	"github.com/mbertsch/ioflow/pkg/netlist"
	"github.com/mbertsch/ioflow/pkg/pipeline"
)

// maxBodyBytes bounds request bodies; netlists beyond this are rejected
// before decoding.
const maxBodyBytes = 64 << 20

// Server handles HTTP requests for netlist analysis.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// NewServer creates an API server backed by the given runner.
func NewServer(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Router builds the HTTP route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.Post("/analyze", s.handleAnalyze)
	})

	return r
}

// analyzeRequest is the POST /api/v1/analyze request body. The netlist
// field uses the same JSON schema the CLI reads from disk.
type analyzeRequest struct {
	Netlist json.RawMessage  `json:"netlist"`
	Options pipeline.Options `json:"options"`
}

// errorResponse is the JSON body for failed requests.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if len(req.Netlist) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "request has no netlist"))
		return
	}

	design, err := netlist.ParseJSON(req.Netlist)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), design, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Infof("Analyzed %d modules (run %s, %d cache hits)",
		result.Stats.Modules, result.RunID, result.Stats.CacheHits)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Errorf("Write response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusForCode(code)
	if status >= http.StatusInternalServerError {
		s.logger.Errorf("Request %s failed: %v", middleware.GetReqID(r.Context()), err)
	}
	s.writeJSON(w, status, errorResponse{
		Code:    string(code),
		Message: errors.UserMessage(err),
	})
}

// statusForCode maps structured error codes onto HTTP status codes.
// Analysis failures on valid requests (unsupported cells, cycles) are
// 422s: the request was well-formed but the netlist cannot be analyzed.
func statusForCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidNetlist, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeWidthMismatch, errors.ErrCodeUnsupportedCell,
		errors.ErrCodeInvalidCell, errors.ErrCodeCycleDetected:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeModuleNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
