// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/crossdash/internal/adapters/export"
	service "github.com/okian/crossdash/internal/app"
	"github.com/okian/crossdash/internal/chart"
	"github.com/okian/crossdash/internal/domain/dedupe"
	"github.com/okian/crossdash/internal/domain/model"
	"github.com/okian/crossdash/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// State returns the last published dashboard state.
	State(ctx context.Context) types.State

	// SetCountry and Toggle apply a command and return once its render
	// cycle finished.
	SetCountry(ctx context.Context, country string) error
	Toggle(ctx context.Context, slot model.Slot, key string) error

	// ChartSVG and ChartPNG draw the named chart.
	ChartSVG(ctx context.Context, name string, w io.Writer, opts chart.RenderOptions) error
	ChartPNG(ctx context.Context, name string, w io.Writer) error
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	stateHandler    *StateHandler
	commandsHandler *CommandsHandler
	chartsHandler   *ChartsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		stateHandler:    NewStateHandler(deps),
		commandsHandler: NewCommandsHandler(deps),
		chartsHandler:   NewChartsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/state", MetricsMiddleware(s.stateHandler.HandleGetState, "state"))
	mux.HandleFunc("/api/commands/country", MetricsMiddleware(s.commandsHandler.HandleSetCountry, "country"))
	mux.HandleFunc("/api/commands/toggle", MetricsMiddleware(s.commandsHandler.HandleToggle, "toggle"))
	mux.HandleFunc("/api/charts/", MetricsMiddleware(s.chartsHandler.HandleChart, "charts"))
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

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify maps an upstream error to a status, a code and an API kind.
func classify(err error) (int, string, error) {
	switch {
	case errors.Is(err, service.ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure", ErrBackpressure
	case errors.Is(err, service.ErrStopped):
		return http.StatusServiceUnavailable, "unavailable", ErrUnavailable
	case errors.Is(err, chart.ErrUnknownChart):
		return http.StatusNotFound, "not_found", ErrNotFound
	case errors.Is(err, export.ErrEmptyChart):
		return http.StatusNotFound, "empty_chart", ErrNotFound
	case errors.Is(err, chart.ErrUnknownKey),
		errors.Is(err, model.ErrUnknownSlot),
		errors.Is(err, model.ErrInvalidCommand),
		errors.Is(err, model.ErrUnknownCommand):
		return http.StatusBadRequest, "bad_request", ErrBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout, "timeout", ErrUnavailable
	default:
		return http.StatusInternalServerError, "internal", ErrInternal
	}
}

func writeClassified(w http.ResponseWriter, op string, err error) {
	status, code, kind := classify(err)
	writeError(w, status, code, WrapKind(op, kind, err))
}
