package api

import (
	"context"
	"net/http"

	"github.com/jigu1688/sporttools-sub000/internal/adapters/export"
	service "github.com/jigu1688/sporttools-sub000/internal/app"
	"github.com/jigu1688/sporttools-sub000/internal/domain/model"
	"github.com/jigu1688/sporttools-sub000/internal/domain/scheduling"
)

// ScheduleDependencies defines the scheduling operations behind the API.
type ScheduleDependencies interface {
	AutoSchedule(ctx context.Context, meetID string) (service.ScheduleOutcome, error)
	Schedule(ctx context.Context, meetID string) ([]model.ScheduledHeat, error)
	Conflicts(ctx context.Context, meetID string) (scheduling.ConflictReport, error)
	SaveHeat(ctx context.Context, meetID string, heat model.ScheduledHeat) (model.ScheduledHeat, error)
	DeleteHeat(ctx context.Context, meetID, heatID string) error
}

// ScheduleHandler handles meet schedule requests.
type ScheduleHandler struct {
	deps ScheduleDependencies
	responder
}

// NewScheduleHandler creates a new schedule handler.
func NewScheduleHandler(deps ScheduleDependencies, r responder) *ScheduleHandler {
	return &ScheduleHandler{deps: deps, responder: r}
}

// HandleAutoSchedule handles POST /meets/{id}/schedule. The stored schedule
// is replaced.
func (h *ScheduleHandler) HandleAutoSchedule(w http.ResponseWriter, r *http.Request) {
	out, err := h.deps.AutoSchedule(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(r.Context(), w, "api.auto_schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetSchedule handles GET /meets/{id}/schedule.
func (h *ScheduleHandler) HandleGetSchedule(w http.ResponseWriter, r *http.Request) {
	heats, err := h.deps.Schedule(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(r.Context(), w, "api.get_schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, heats)
}

// HandleExportSchedule handles GET /meets/{id}/schedule.xlsx.
func (h *ScheduleHandler) HandleExportSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_schedule"
	id := r.PathValue("id")
	heats, err := h.deps.Schedule(r.Context(), id)
	if err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	b, err := export.Schedule(heats)
	if err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	writeWorkbook(w, "schedule-"+id+".xlsx", b)
}

// HandleConflicts handles GET /meets/{id}/conflicts.
func (h *ScheduleHandler) HandleConflicts(w http.ResponseWriter, r *http.Request) {
	report, err := h.deps.Conflicts(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(r.Context(), w, "api.conflicts", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleCreateHeat handles POST /meets/{id}/heats.
func (h *ScheduleHandler) HandleCreateHeat(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_heat"
	var heat model.ScheduledHeat
	if err := decodeJSON(w, r, &heat); err != nil {
		h.badRequest(w, op, err)
		return
	}
	heat.ID = ""
	h.saveHeat(w, r, op, heat, http.StatusCreated)
}

// HandleUpdateHeat handles PUT /meets/{id}/heats/{heatId}.
func (h *ScheduleHandler) HandleUpdateHeat(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_heat"
	var heat model.ScheduledHeat
	if err := decodeJSON(w, r, &heat); err != nil {
		h.badRequest(w, op, err)
		return
	}
	heat.ID = r.PathValue("heatId")
	h.saveHeat(w, r, op, heat, http.StatusOK)
}

func (h *ScheduleHandler) saveHeat(w http.ResponseWriter, r *http.Request, op string, heat model.ScheduledHeat, status int) { //nolint:gocritic // hugeParam: request value
	saved, err := h.deps.SaveHeat(r.Context(), r.PathValue("id"), heat)
	if err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	writeJSON(w, status, saved)
}

// HandleDeleteHeat handles DELETE /meets/{id}/heats/{heatId}.
func (h *ScheduleHandler) HandleDeleteHeat(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteHeat(r.Context(), r.PathValue("id"), r.PathValue("heatId")); err != nil {
		h.fail(r.Context(), w, "api.delete_heat", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
