package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/home-valuation/internal/domain"
	"github.com/couchcryptid/home-valuation/internal/service"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 1 << 20

// Valuer is the service surface exposed over HTTP.
type Valuer interface {
	sharedobs.ReadinessChecker
	Estimate(ctx context.Context, req service.EstimateRequest) (service.EstimateResponse, error)
	Prefill(ctx context.Context, address string) (service.PrefillResponse, error)
	Suggest(ctx context.Context, query string) ([]domain.Prediction, error)
}

// Server exposes the valuation API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	valuer     Valuer
	logger     *slog.Logger
}

// NewServer creates the HTTP server. API routes are rate limited to
// ratePerMinute requests per client IP.
func NewServer(addr string, valuer Valuer, ratePerMinute int, logger *slog.Logger) *Server {
	r := chi.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		valuer: valuer,
		logger: logger,
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(valuer))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(httprate.LimitByIP(ratePerMinute, time.Minute)) // protect upstream quota
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Post("/estimate", s.handleEstimate)
		r.Post("/prefill", s.handlePrefill)
		r.Get("/places", s.handlePlaces)
	})

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req service.EstimateRequest
	if err := render.DecodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes), &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := s.valuer.Estimate(r.Context(), req)
	switch {
	case err == nil:
		render.JSON(w, r, resp)
	case service.IsValidation(err):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrGeocodeFailed):
		writeError(w, r, http.StatusUnprocessableEntity, service.ErrGeocodeFailed.Error())
	default:
		s.logger.Error("estimate failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "estimate failed")
	}
}

type prefillRequest struct {
	Address string `json:"address"`
}

func (s *Server) handlePrefill(w http.ResponseWriter, r *http.Request) {
	var req prefillRequest
	if err := render.DecodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes), &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := s.valuer.Prefill(r.Context(), req.Address)
	switch {
	case err == nil:
		render.JSON(w, r, resp)
	case service.IsValidation(err), errors.Is(err, service.ErrGeocodeFailed):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("prefill failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "prefill failed")
	}
}

func (s *Server) handlePlaces(w http.ResponseWriter, r *http.Request) {
	preds, err := s.valuer.Suggest(r.Context(), r.URL.Query().Get("q"))
	switch {
	case err == nil:
		render.JSON(w, r, map[string]any{"predictions": preds})
	case errors.Is(err, service.ErrNotConfigured):
		writeError(w, r, http.StatusBadRequest, "address autocomplete is not configured")
	default:
		s.logger.Warn("autocomplete failed", "error", err)
		writeError(w, r, http.StatusBadGateway, "autocomplete failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}
