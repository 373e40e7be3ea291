package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/pkg/domain"
)

// MaxCount caps the number of results a single request may ask for.
const MaxCount = 100

// GenerateRequest is the body of POST /generate.
type GenerateRequest struct {
	Start     string         `json:"start,omitempty"`
	Count     int            `json:"count,omitempty"`
	Seed      *int64         `json:"seed,omitempty"`
	Overrides map[string]any `json:"overrides,omitempty"`
}

// GenerateResponse lists the results of one request.
type GenerateResponse struct {
	Results []domain.Result `json:"results"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// Server exposes a Grammar over HTTP.
type Server struct {
	Grammar  *tendril.Grammar
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// HandlerOption configures the handler.
type HandlerOption func(*Server)

// WithMetrics serves the gatherer's metrics on GET /metrics.
func WithMetrics(g prometheus.Gatherer) HandlerOption {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewHandler creates a new HTTP handler for the grammar.
// Without WithLogger, request logs are discarded.
func NewHandler(g *tendril.Grammar, opts ...HandlerOption) http.Handler {
	server := newServer(g, opts)

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/rules", server.GetRules)
	r.Get("/generate", server.GetGenerate)
	r.Post("/generate", server.PostGenerate)
	if server.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func newServer(g *tendril.Grammar, opts []HandlerOption) *Server {
	server := &Server{Grammar: g, Logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(server)
	}
	return server
}

// GetGenerate handles GET /generate?start=&count=&seed=.
func (s *Server) GetGenerate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := GenerateRequest{Start: q.Get("start")}

	if v := q.Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid count: %w", err))
			return
		}
		req.Count = n
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid seed: %w", err))
			return
		}
		req.Seed = &seed
	}

	s.generate(w, req)
}

// PostGenerate handles POST /generate with a JSON body.
func (s *Server) PostGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	overrides, err := SanitizeOverrides(req.Overrides)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	req.Overrides = overrides

	s.generate(w, req)
}

func (s *Server) generate(w http.ResponseWriter, req GenerateRequest) {
	if req.Count == 0 {
		req.Count = 1
	}
	if req.Count < 0 || req.Count > MaxCount {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("count must be between 1 and %d", MaxCount))
		return
	}

	start := s.Grammar.Start()
	if req.Start != "" {
		start = domain.Symbol(req.Start)
	}

	// A seeded request gets its own random source over the shared rules.
	g := s.Grammar
	if req.Seed != nil {
		g = s.Grammar.Fork(*req.Seed)
	}

	resp := GenerateResponse{Results: make([]domain.Result, 0, req.Count)}
	for i := 0; i < req.Count; i++ {
		res, err := g.Expand(start, req.Overrides)
		if err != nil {
			s.writeError(w, statusOf(err), err)
			return
		}
		resp.Results = append(resp.Results, res)
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// GetRules handles GET /rules.
func (s *Server) GetRules(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Grammar.Registry().Rules())
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "tendril-http",
		"version": tendril.Version,
		"grammar": s.Grammar.Name,
	})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingRule):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateRule):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidProduction),
		errors.Is(err, domain.ErrTemplateSyntax),
		errors.Is(err, domain.ErrWeightSum),
		errors.Is(err, domain.ErrUnknownTransform):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "status", status, "error", err)
	} else {
		s.Logger.Warn("request rejected", "status", status, "error", err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kindOf(err)})
}

func kindOf(err error) string {
	for _, k := range []struct {
		target error
		name   string
	}{
		{domain.ErrMissingRule, "missing_rule"},
		{domain.ErrDuplicateRule, "duplicate_rule"},
		{domain.ErrUnknownTransform, "unknown_transform"},
		{domain.ErrWeightSum, "weight_sum"},
		{domain.ErrTemplateSyntax, "template_syntax"},
		{domain.ErrInvalidProduction, "invalid_production"},
		{ErrInputTooLarge, "input_too_large"},
		{ErrInvalidUTF8, "invalid_utf8"},
	} {
		if errors.Is(err, k.target) {
			return k.name
		}
	}
	return ""
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}
