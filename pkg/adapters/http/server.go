package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/sortviz"
	"github.com/aretw0/sortviz/internal/logging"
	"github.com/aretw0/sortviz/internal/runtime"
	"github.com/aretw0/sortviz/pkg/domain"
	"github.com/aretw0/sortviz/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SessionHeader carries the caller's session on requests and responses.
const SessionHeader = "X-Session-ID"

// Server serves a Recorder over HTTP.
type Server struct {
	Recorder ports.Recorder
	Streams  *StreamManager

	logger   *slog.Logger
	origins  []string
	gatherer prometheus.Gatherer
}

// Option configures the HTTP server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithAllowedOrigins restricts CORS to the given origins. Defaults to "*".
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithGatherer exposes the collectors of g at /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewHandler creates a new HTTP handler for the recorder.
func NewHandler(rec ports.Recorder, opts ...Option) http.Handler {
	server := &Server{
		Recorder: rec,
		Streams:  NewStreamManager(),
		origins:  []string{"*"},
	}
	for _, opt := range opts {
		opt(server)
	}
	if server.logger == nil {
		server.logger = logging.NewNop()
	}
	server.Streams.logger = server.logger

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(server.cors)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/info", server.Info)
	if server.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/events", server.SubscribeEvents)

	r.Route("/api", func(r chi.Router) {
		r.Get("/sessions", server.ListSessions)
		r.Post("/sessions", server.CreateSession)
		r.Delete("/session", server.ResetSession)

		r.Post("/sort/selection/step", server.AdvanceSelectionPass)
		r.Route("/sort/{algorithm}", func(r chi.Router) {
			r.Post("/init", server.InitSort)
			r.Get("/steps", server.GetSteps)
			r.Get("/step/{stepNumber}", server.GetStep)
			r.Get("/replay", server.ReplaySteps)
		})
	})

	return r
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Sortviz API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := s.allowOrigin(r.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+SessionHeader)
		w.Header().Set("Access-Control-Expose-Headers", SessionHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) allowOrigin(origin string) string {
	for _, o := range s.origins {
		if o == "*" {
			return "*"
		}
		if origin != "" && strings.EqualFold(o, origin) {
			return origin
		}
	}
	return ""
}

// sessionID resolves the caller's session and echoes it back.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		id = r.URL.Query().Get("session_id")
	}
	if id == "" {
		id = sortviz.DefaultSessionID
	}
	w.Header().Set(SessionHeader, id)
	return id
}

// Info handles GET /info.
func (s *Server) Info(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	algs := s.Recorder.Algorithms()
	names := make([]string, len(algs))
	for i, a := range algs {
		names[i] = a.String()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"app":         "sortviz-http",
		"version":     strings.TrimSpace(sortviz.Version),
		"api_version": apiVersion,
		"algorithms":  names,
	})
}

type initRequest struct {
	Array []int `json:"array"`
}

// InitSort handles POST /api/sort/{algorithm}/init.
func (s *Server) InitSort(w http.ResponseWriter, r *http.Request) {
	alg, err := bindPathAlgorithm(chi.URLParam(r, "algorithm"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var body initRequest
	if err := decodeBody(r, "InitRequest", &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	id := sessionID(w, r)
	start := time.Now()
	summary, err := s.Recorder.Init(r.Context(), id, alg.String(), body.Array)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("run initialized",
		"session_id", id,
		"algorithm", alg,
		"steps", summary.TotalSteps,
		"duration", time.Since(start),
	)

	s.Streams.Broadcast(id, runReplacedEvent{
		SessionID:  id,
		Algorithm:  alg,
		TotalSteps: summary.TotalSteps,
	})
	writeJSON(w, http.StatusOK, summary)
}

// GetSteps handles GET /api/sort/{algorithm}/steps.
// A run recorded by another algorithm reads as no run at all.
func (s *Server) GetSteps(w http.ResponseWriter, r *http.Request) {
	alg, err := bindPathAlgorithm(chi.URLParam(r, "algorithm"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	steps, err := s.Recorder.Steps(r.Context(), sessionID(w, r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(steps) > 0 && steps[0].Algorithm != alg {
		steps = []domain.Step{}
	}
	writeJSON(w, http.StatusOK, steps)
}

// GetStep handles GET /api/sort/{algorithm}/step/{stepNumber}.
func (s *Server) GetStep(w http.ResponseWriter, r *http.Request) {
	alg, err := bindPathAlgorithm(chi.URLParam(r, "algorithm"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	index, err := bindPathInt("stepNumber", chi.URLParam(r, "stepNumber"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp, err := s.Recorder.Step(r.Context(), sessionID(w, r), index)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if resp.State.Algorithm != alg {
		s.writeError(w, r, fmt.Errorf("%w: %d (no %s run)", domain.ErrInvalidStepIndex, index, alg))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type passRequest struct {
	Array        []int `json:"array"`
	CurrentIndex int   `json:"currentIndex"`
	Reset        bool  `json:"reset"`
}

// AdvanceSelectionPass handles POST /api/sort/selection/step. It keeps no state: the
// client sends back the array and index it received.
func (s *Server) AdvanceSelectionPass(w http.ResponseWriter, r *http.Request) {
	var body passRequest
	if err := decodeBody(r, "PassRequest", &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	var (
		res *runtime.PassResult
		err error
	)
	if body.Reset {
		res, err = runtime.StartPass(body.Array)
	} else {
		res, err = runtime.AdvancePass(body.Array, body.CurrentIndex)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListSessions handles GET /api/sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Recorder.Sessions(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// CreateSession handles POST /api/sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	w.Header().Set(SessionHeader, id)
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": id})
}

// ResetSession handles DELETE /api/session.
func (s *Server) ResetSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Recorder.Reset(r.Context(), sessionID(w, r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownAlgorithm):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrOutOfRangeValue),
		errors.Is(err, domain.ErrInvalidStepIndex):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
