// Package server exposes the resolution pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz       liveness
//	GET  /v1/features   feature catalogue
//	POST /v1/resolve    run the pipeline for a JSON config
//	GET  /metrics       Prometheus metrics
//
// The API never touches a filesystem: file emissions are returned as a plan.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jedrzejginter/toolkit/pkg/constraint"
	"github.com/jedrzejginter/toolkit/pkg/errors"
	"github.com/jedrzejginter/toolkit/pkg/feature"
	"github.com/jedrzejginter/toolkit/pkg/packager"
	"github.com/jedrzejginter/toolkit/pkg/pipeline"
)

const maxBodyBytes = 1 << 20

// Config wires a Server.
type Config struct {
	Runner   *pipeline.Runner
	Logger   *log.Logger
	Gatherer prometheus.Gatherer // nil disables /metrics
	Options  pipeline.Options    // base options for every run
	Timeout  time.Duration       // per-request deadline (default 60s)
}

// Server serves the HTTP API.
type Server struct {
	cfg    Config
	router chi.Router
}

// New builds the router.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	s := &Server{cfg: cfg}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(deadline(cfg.Timeout))
		r.Get("/features", s.handleFeatures)
		r.Post("/resolve", s.handleResolve)
	})
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.cfg.Logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type featureInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleFeatures(w http.ResponseWriter, _ *http.Request) {
	all := feature.All()
	out := make([]featureInfo, len(all))
	for i, f := range all {
		out[i] = featureInfo{Name: f.String(), Description: f.Description()}
	}
	writeJSON(w, http.StatusOK, map[string]any{"features": out})
}

// ResolveRequest is the body of POST /v1/resolve.
type ResolveRequest struct {
	Features    []string          `json:"features"`
	Node        string            `json:"node,omitempty"`
	Packager    string            `json:"packager,omitempty"`
	DropIE11    bool              `json:"drop_ie11,omitempty"`
	CI          bool              `json:"ci,omitempty"`
	CIBranch    string            `json:"ci_branch,omitempty"`
	Constraints map[string]string `json:"constraints,omitempty"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	cfg, overrides, err := req.config()
	if err != nil {
		writeError(w, err)
		return
	}

	opts := s.cfg.Options
	opts.Constraints = opts.Constraints.With(overrides)
	res, err := s.cfg.Runner.Execute(r.Context(), cfg, opts)
	if err != nil {
		if stderrors.Is(r.Context().Err(), context.DeadlineExceeded) {
			writeJSON(w, http.StatusGatewayTimeout, map[string]errorBody{
				"error": {Code: errors.ErrCodeNetwork, Message: "request deadline exceeded: " + errors.UserMessage(err)},
			})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (req ResolveRequest) config() (feature.Config, constraint.Table, error) {
	features, err := feature.ParseList(req.Features)
	if err != nil {
		return feature.Config{}, nil, err
	}
	pm, err := packager.ParseManager(req.Packager)
	if err != nil {
		return feature.Config{}, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "packager")
	}
	cfg, err := feature.NewConfig(feature.Options{
		Features:    features,
		NodeVersion: req.Node,
		Packager:    pm,
		DropIE11:    req.DropIE11,
		CIMode:      req.CI,
		CIBranch:    req.CIBranch,
	})
	if err != nil {
		return feature.Config{}, nil, err
	}

	overrides := make(constraint.Table, len(req.Constraints))
	for name, expr := range req.Constraints {
		if err := errors.ValidateNpmPackageName(name); err != nil {
			return feature.Config{}, nil, err
		}
		if expr == "" {
			overrides[name] = nil
			continue
		}
		fn, err := constraint.Range(expr)
		if err != nil {
			return feature.Config{}, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "constraint for %s", name)
		}
		overrides[name] = fn
	}
	return cfg, overrides, nil
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
		if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
			code = errors.ErrCodeNetwork
		}
	}
	writeJSON(w, statusFor(code), map[string]errorBody{
		"error": {Code: code, Message: errors.UserMessage(err)},
	})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFeature, errors.ErrCodeInvalidManifest, errors.ErrCodeInvalidPackage:
		return http.StatusBadRequest
	case errors.ErrCodeUnsatisfiable:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeRegistry, errors.ErrCodeNotFound, errors.ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey struct{}

// deadline bounds each request's context. Handlers write their own timeout
// response, so nothing is written here once the deadline passes.
func deadline(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestID tags every request with an X-Request-ID, reusing the caller's.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// RequestID returns the request ID stored in ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.cfg.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
			"id", RequestID(r.Context()))
	})
}
