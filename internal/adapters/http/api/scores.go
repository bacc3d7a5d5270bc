package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/jigu1688/sporttools-sub000/internal/adapters/export"
	service "github.com/jigu1688/sporttools-sub000/internal/app"
	"github.com/jigu1688/sporttools-sub000/internal/domain/model"
	"github.com/jigu1688/sporttools-sub000/internal/domain/scoring"
)

// ScoreDependencies defines the scoring operations behind the API.
type ScoreDependencies interface {
	Score(ctx context.Context, m model.Measurement) (model.ScoreBreakdown, error)
	Submit(ctx context.Context, m model.Measurement) (service.SubmitResult, error)
	Scores(ctx context.Context, studentID string) []model.ScoreRecord
	Standards(grade, gender string) ([]scoring.ItemStandard, error)
}

// ScoresHandler handles scoring requests.
type ScoresHandler struct {
	deps ScoreDependencies
	responder
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps ScoreDependencies, r responder) *ScoresHandler {
	return &ScoresHandler{deps: deps, responder: r}
}

type ackResponse struct {
	Status    string `json:"status"`
	ID        string `json:"id"`
	Duplicate bool   `json:"duplicate"`
}

// HandleCalculate handles POST /scores/calculate requests.
func (h *ScoresHandler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "api.calculate_score"
	var m model.Measurement
	if err := decodeJSON(w, r, &m); err != nil {
		h.badRequest(w, op, err)
		return
	}
	res, err := h.deps.Score(r.Context(), m)
	if err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleSubmit handles POST /measurements requests.
func (h *ScoresHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_measurement"
	var m model.Measurement
	if err := decodeJSON(w, r, &m); err != nil {
		h.badRequest(w, op, err)
		return
	}
	res, err := h.deps.Submit(r.Context(), m)
	if err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	if res.Duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", ID: res.ID, Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", ID: res.ID})
}

// HandleList handles GET /scores?student_id= requests.
func (h *ScoresHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_scores"
	id, ok := studentParam(r)
	if !ok {
		h.badRequest(w, op, errors.New("missing student_id"))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Scores(r.Context(), id))
}

// HandleExport handles GET /scores.xlsx?student_id= requests.
func (h *ScoresHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_scores"
	id, ok := studentParam(r)
	if !ok {
		h.badRequest(w, op, errors.New("missing student_id"))
		return
	}
	b, err := export.Scores(h.deps.Scores(r.Context(), id))
	if err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	writeWorkbook(w, "scores-"+id+".xlsx", b)
}

// HandleStandards handles GET /standards?grade=&gender= requests.
func (h *ScoresHandler) HandleStandards(w http.ResponseWriter, r *http.Request) {
	const op = "api.standards"
	q := r.URL.Query()
	list, err := h.deps.Standards(q.Get("grade"), q.Get("gender"))
	if err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func studentParam(r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.URL.Query().Get("student_id"))
	return id, id != ""
}

func writeWorkbook(w http.ResponseWriter, filename string, b []byte) {
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(b)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// RankingDependencies defines the ranking reads behind the API.
type RankingDependencies interface {
	Ranking(ctx context.Context, limit int) ([]Entry, error)
	StudentRank(ctx context.Context, studentID string) (Entry, error)
}

// RankingHandler handles ranking requests.
type RankingHandler struct {
	deps     RankingDependencies
	maxLimit int
	responder
}

// NewRankingHandler creates a new ranking handler. Larger limits are capped
// at maxLimit.
func NewRankingHandler(deps RankingDependencies, maxLimit int, r responder) *RankingHandler {
	return &RankingHandler{deps: deps, maxLimit: maxLimit, responder: r}
}

// HandleTop handles GET /ranking?limit=N requests.
func (h *RankingHandler) HandleTop(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_ranking"
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n < 1 {
		h.badRequest(w, op, errors.New("limit must be a positive integer"))
		return
	}
	n = min(n, h.maxLimit)
	entries, err := h.deps.Ranking(r.Context(), n)
	if err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleStudent handles GET /ranking/{studentId} requests.
func (h *RankingHandler) HandleStudent(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_student_rank"
	entry, err := h.deps.StudentRank(r.Context(), r.PathValue("studentId"))
	if err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
