package api

import (
	"context"
	"net/http"

	"github.com/jigu1688/sporttools-sub000/internal/domain/model"
)

// CatalogDependencies defines the meet, event, venue, referee and
// registration operations behind the API.
type CatalogDependencies interface {
	CreateMeet(ctx context.Context, m model.SportsMeet) (model.SportsMeet, error)
	Meet(ctx context.Context, id string) (model.SportsMeet, error)
	Meets(ctx context.Context) []model.SportsMeet
	SaveEvent(ctx context.Context, e model.Event) (model.Event, error)
	Events(ctx context.Context) []model.Event
	SaveVenue(ctx context.Context, v model.Venue) (model.Venue, error)
	Venues(ctx context.Context) []model.Venue
	SaveReferee(ctx context.Context, r model.Referee) (model.Referee, error)
	Referees(ctx context.Context) []model.Referee
	SaveRegistration(ctx context.Context, r model.Registration) (model.Registration, error)
	Registrations(ctx context.Context, f model.RegistrationFilter) []model.Registration
}

// CatalogHandler handles the list and save endpoints.
type CatalogHandler struct {
	deps CatalogDependencies
	responder
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps CatalogDependencies, r responder) *CatalogHandler {
	return &CatalogHandler{deps: deps, responder: r}
}

// save decodes a T from the body, stores it and answers 201.
func save[T any](h *CatalogHandler, w http.ResponseWriter, r *http.Request, op string,
	fn func(context.Context, T) (T, error),
) {
	var v T
	if err := decodeJSON(w, r, &v); err != nil {
		h.badRequest(w, op, err)
		return
	}
	out, err := fn(r.Context(), v)
	if err != nil {
		h.fail(r.Context(), w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// HandleListMeets handles GET /meets.
func (h *CatalogHandler) HandleListMeets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Meets(r.Context()))
}

// HandleCreateMeet handles POST /meets.
func (h *CatalogHandler) HandleCreateMeet(w http.ResponseWriter, r *http.Request) {
	save(h, w, r, "api.create_meet", h.deps.CreateMeet)
}

// HandleGetMeet handles GET /meets/{id}.
func (h *CatalogHandler) HandleGetMeet(w http.ResponseWriter, r *http.Request) {
	m, err := h.deps.Meet(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(r.Context(), w, "api.get_meet", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleListEvents handles GET /events.
func (h *CatalogHandler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Events(r.Context()))
}

// HandleSaveEvent handles POST /events.
func (h *CatalogHandler) HandleSaveEvent(w http.ResponseWriter, r *http.Request) {
	save(h, w, r, "api.save_event", h.deps.SaveEvent)
}

// HandleListVenues handles GET /venues.
func (h *CatalogHandler) HandleListVenues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Venues(r.Context()))
}

// HandleSaveVenue handles POST /venues.
func (h *CatalogHandler) HandleSaveVenue(w http.ResponseWriter, r *http.Request) {
	save(h, w, r, "api.save_venue", h.deps.SaveVenue)
}

// HandleListReferees handles GET /referees.
func (h *CatalogHandler) HandleListReferees(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Referees(r.Context()))
}

// HandleSaveReferee handles POST /referees.
func (h *CatalogHandler) HandleSaveReferee(w http.ResponseWriter, r *http.Request) {
	save(h, w, r, "api.save_referee", h.deps.SaveReferee)
}

// HandleListRegistrations handles GET /registrations with optional
// sportsMeetId, eventId, grade, gender and status filters.
func (h *CatalogHandler) HandleListRegistrations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := model.RegistrationFilter{
		SportsMeetID: q.Get("sportsMeetId"),
		EventID:      q.Get("eventId"),
		Grade:        q.Get("grade"),
		Gender:       q.Get("gender"),
		Status:       model.RegistrationStatus(q.Get("status")),
	}
	writeJSON(w, http.StatusOK, h.deps.Registrations(r.Context(), f))
}

// HandleSaveRegistration handles POST /registrations.
func (h *CatalogHandler) HandleSaveRegistration(w http.ResponseWriter, r *http.Request) {
	save(h, w, r, "api.save_registration", h.deps.SaveRegistration)
}
