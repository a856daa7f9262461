package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appanalysis "github.com/bryanwahyu/fptaylor-service/internal/application/analysis"
	domain "github.com/bryanwahyu/fptaylor-service/internal/domain/analysis"
	"github.com/bryanwahyu/fptaylor-service/internal/middleware"
)

type Options struct {
	AllowedOrigins []string
	MaxQueryBytes  int
	Checkers       map[string]middleware.HealthChecker
	Logger         *zap.Logger
}

type Router struct {
	svc           *appanalysis.Service
	pages         *Pages
	maxQueryBytes int
	logger        *zap.Logger
}

func NewRouter(svc *appanalysis.Service, pages *Pages, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{svc: svc, pages: pages, maxQueryBytes: opts.MaxQueryBytes, logger: logger}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(middleware.LoggingMiddleware(logger))
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(chimw.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		MaxAge:         300,
	}))

	mux.Get("/health", middleware.HealthHandler(opts.Checkers))
	mux.Get("/healthz", middleware.LivenessHandler)
	mux.Get("/readyz", middleware.ReadinessHandler)
	mux.Method(http.MethodGet, "/metrics", middleware.MetricsHandler())

	mux.Get("/api", r.wrap(r.handleAPI))
	mux.Get("/run", r.wrap(r.handleRun))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequestError marks a client error; its message is safe to return.
type badRequestError struct{ err error }

func (e badRequestError) Error() string { return e.err.Error() }
func (e badRequestError) Unwrap() error { return e.err }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var bad badRequestError
			if errors.As(err, &bad) {
				http.Error(w, bad.Error(), http.StatusBadRequest)
				return
			}
			r.logger.Error("handler failed",
				zap.Error(err),
				zap.String("path", req.URL.Path),
				zap.String("request_id", chimw.GetReqID(req.Context())),
			)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}

func (r *Router) queryParam(req *http.Request) (domain.Query, error) {
	input := req.URL.Query().Get("input")
	if err := middleware.ValidateQuery(input, r.maxQueryBytes); err != nil {
		return "", badRequestError{err}
	}
	return domain.Query(input), nil
}

// GET /api?input=<query>
// Success: {"lower","upper","error","time"}. Failure: one-line plain-text marker.
func (r *Router) handleAPI(w http.ResponseWriter, req *http.Request) error {
	q, err := r.queryParam(req)
	if err != nil {
		return err
	}

	out := r.svc.Analyze(req.Context(), q)
	if !out.OK {
		http.Error(w, out.Failure.Message(), failureStatus(out.Failure))
		return nil
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(out.Result)
}

// GET /run?input=<query>
// Logs the query, then renders one of the result pages.
func (r *Router) handleRun(w http.ResponseWriter, req *http.Request) error {
	q, err := r.queryParam(req)
	if err != nil {
		return err
	}

	r.svc.LogQuery(req.Context(), q)
	out := r.svc.Analyze(req.Context(), q)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return r.pages.Render(w, out)
}

func failureStatus(f domain.FailureClass) int {
	if f == domain.FailureTimeout {
		return http.StatusGatewayTimeout
	}
	return http.StatusUnprocessableEntity
}
