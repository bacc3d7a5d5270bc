// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	service "github.com/jigu1688/sporttools-sub000/internal/app"
	"github.com/jigu1688/sporttools-sub000/internal/domain/scheduling"
	"github.com/jigu1688/sporttools-sub000/internal/domain/types"
	"github.com/jigu1688/sporttools-sub000/pkg/logger"
)

const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers.
type Dependencies interface {
	ScoreDependencies
	RankingDependencies
	CatalogDependencies
	ScheduleDependencies
	StatsProvider
}

// Entry mirrors the read shape returned by ranking queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	scoresHandler   *ScoresHandler
	rankingHandler  *RankingHandler
	catalogHandler  *CatalogHandler
	scheduleHandler *ScheduleHandler

	maxRankingLimit int
	submitLimiter   *rate.Limiter
	logger          logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		maxRankingLimit: defaultMaxRankingLimit,
		logger:          logger.Get().Named("http"),
	}
	for _, opt := range opts {
		opt(s)
	}
	r := responder{logger: s.logger}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	s.scoresHandler = NewScoresHandler(deps, r)
	s.rankingHandler = NewRankingHandler(deps, s.maxRankingLimit, r)
	s.catalogHandler = NewCatalogHandler(deps, r)
	s.scheduleHandler = NewScheduleHandler(deps, r)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	submit := s.scoresHandler.HandleSubmit
	if s.submitLimiter != nil {
		submit = RateLimitMiddleware(submit, s.submitLimiter)
	}
	mux.HandleFunc("POST /scores/calculate", MetricsMiddleware(s.scoresHandler.HandleCalculate, "scores_calculate"))
	mux.HandleFunc("POST /measurements", MetricsMiddleware(submit, "measurements"))
	mux.HandleFunc("GET /scores", MetricsMiddleware(s.scoresHandler.HandleList, "scores"))
	mux.HandleFunc("GET /scores.xlsx", MetricsMiddleware(s.scoresHandler.HandleExport, "scores_export"))
	mux.HandleFunc("GET /standards", MetricsMiddleware(s.scoresHandler.HandleStandards, "standards"))
	mux.HandleFunc("GET /ranking", MetricsMiddleware(s.rankingHandler.HandleTop, "ranking"))
	mux.HandleFunc("GET /ranking/{studentId}", MetricsMiddleware(s.rankingHandler.HandleStudent, "ranking_student"))

	c := s.catalogHandler
	mux.HandleFunc("GET /meets", MetricsMiddleware(c.HandleListMeets, "meets"))
	mux.HandleFunc("POST /meets", MetricsMiddleware(c.HandleCreateMeet, "meets"))
	mux.HandleFunc("GET /meets/{id}", MetricsMiddleware(c.HandleGetMeet, "meet"))
	mux.HandleFunc("GET /events", MetricsMiddleware(c.HandleListEvents, "events"))
	mux.HandleFunc("POST /events", MetricsMiddleware(c.HandleSaveEvent, "events"))
	mux.HandleFunc("GET /venues", MetricsMiddleware(c.HandleListVenues, "venues"))
	mux.HandleFunc("POST /venues", MetricsMiddleware(c.HandleSaveVenue, "venues"))
	mux.HandleFunc("GET /referees", MetricsMiddleware(c.HandleListReferees, "referees"))
	mux.HandleFunc("POST /referees", MetricsMiddleware(c.HandleSaveReferee, "referees"))
	mux.HandleFunc("GET /registrations", MetricsMiddleware(c.HandleListRegistrations, "registrations"))
	mux.HandleFunc("POST /registrations", MetricsMiddleware(c.HandleSaveRegistration, "registrations"))

	h := s.scheduleHandler
	mux.HandleFunc("POST /meets/{id}/schedule", MetricsMiddleware(h.HandleAutoSchedule, "schedule_generate"))
	mux.HandleFunc("GET /meets/{id}/schedule", MetricsMiddleware(h.HandleGetSchedule, "schedule"))
	mux.HandleFunc("GET /meets/{id}/schedule.xlsx", MetricsMiddleware(h.HandleExportSchedule, "schedule_export"))
	mux.HandleFunc("GET /meets/{id}/conflicts", MetricsMiddleware(h.HandleConflicts, "conflicts"))
	mux.HandleFunc("POST /meets/{id}/heats", MetricsMiddleware(h.HandleCreateHeat, "heats"))
	mux.HandleFunc("PUT /meets/{id}/heats/{heatId}", MetricsMiddleware(h.HandleUpdateHeat, "heats"))
	mux.HandleFunc("DELETE /meets/{id}/heats/{heatId}", MetricsMiddleware(h.HandleDeleteHeat, "heats"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// conflictResponse describes the heat a manual save collided with.
type conflictResponse struct {
	errorResponse
	Type         string `json:"type"`
	Resource     string `json:"resource"`
	ExistingHeat string `json:"existingHeatId"`
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

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

// responder translates service errors into HTTP responses.
type responder struct {
	logger logger.Logger
}

func (rs responder) fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	var ce *scheduling.ConflictError
	switch {
	case errors.As(err, &ce):
		writeJSON(w, http.StatusConflict, conflictResponse{
			errorResponse: errorResponse{Code: "conflict", Message: ce.Error()},
			Type:          string(ce.Type),
			Resource:      ce.Resource,
			ExistingHeat:  ce.Existing.ID,
		})
	case service.IsBackpressure(err):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", Wrap(op, err))
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	default:
		rs.logger.Error(ctx, "request failed", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, errors.New("internal error")))
	}
}

func (rs responder) badRequest(w http.ResponseWriter, op string, err error) {
	writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
}
