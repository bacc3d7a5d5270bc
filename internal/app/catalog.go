package service

import (
	"context"
	"strings"

	"github.com/jigu1688/sporttools-sub000/internal/domain/model"
)

// CreateMeet stores a sports meet. New meets start as 筹备中.
func (s *Service) CreateMeet(ctx context.Context, m model.SportsMeet) (model.SportsMeet, error) {
	if strings.TrimSpace(m.Name) == "" {
		return model.SportsMeet{}, invalid("meet name is required")
	}
	if m.StartDate == "" {
		return model.SportsMeet{}, invalid("meet start date is required")
	}
	if m.EndDate != "" && m.EndDate < m.StartDate {
		return model.SportsMeet{}, invalid("meet ends before it starts")
	}
	m.ID = s.ensureID(m.ID)
	if m.Status == "" {
		m.Status = model.MeetPreparing
	}
	return m, s.stores.Meets.Put(ctx, m)
}

// Meet returns one sports meet.
func (s *Service) Meet(ctx context.Context, id string) (model.SportsMeet, error) {
	return s.stores.Meets.Get(ctx, id)
}

// Meets lists every sports meet.
func (s *Service) Meets(ctx context.Context) []model.SportsMeet {
	return s.stores.Meets.List(ctx, nil)
}

// SaveEvent creates or replaces an event.
func (s *Service) SaveEvent(ctx context.Context, e model.Event) (model.Event, error) {
	if strings.TrimSpace(e.Name) == "" {
		return model.Event{}, invalid("event name is required")
	}
	switch e.Type {
	case model.EventTrack, model.EventField, model.EventTeam:
	default:
		return model.Event{}, invalid("unknown event type %q", e.Type)
	}
	e.ID = s.ensureID(e.ID)
	return e, s.stores.Events.Put(ctx, e)
}

// Events lists every event.
func (s *Service) Events(ctx context.Context) []model.Event {
	return s.stores.Events.List(ctx, nil)
}

// SaveVenue creates or replaces a venue.
func (s *Service) SaveVenue(ctx context.Context, v model.Venue) (model.Venue, error) {
	if strings.TrimSpace(v.Name) == "" {
		return model.Venue{}, invalid("venue name is required")
	}
	switch v.Type {
	case model.VenueTrack, model.VenueField, model.VenueCourt:
	default:
		return model.Venue{}, invalid("unknown venue type %q", v.Type)
	}
	v.ID = s.ensureID(v.ID)
	return v, s.stores.Venues.Put(ctx, v)
}

// Venues lists every venue.
func (s *Service) Venues(ctx context.Context) []model.Venue {
	return s.stores.Venues.List(ctx, nil)
}

// SaveReferee creates or replaces a referee.
func (s *Service) SaveReferee(ctx context.Context, r model.Referee) (model.Referee, error) {
	if strings.TrimSpace(r.Name) == "" {
		return model.Referee{}, invalid("referee name is required")
	}
	r.ID = s.ensureID(r.ID)
	return r, s.stores.Referees.Put(ctx, r)
}

// Referees lists every referee.
func (s *Service) Referees(ctx context.Context) []model.Referee {
	return s.stores.Referees.List(ctx, nil)
}

// SaveRegistration creates or replaces a registration. Gender is stored in
// its normalized form and a missing status defaults to 待审核.
func (s *Service) SaveRegistration(ctx context.Context, r model.Registration) (model.Registration, error) { //nolint:gocritic // hugeParam: request value
	if r.SportsMeetID == "" || r.EventID == "" {
		return model.Registration{}, invalid("sportsMeetId and eventId are required")
	}
	if strings.TrimSpace(r.StudentName) == "" {
		return model.Registration{}, invalid("studentName is required")
	}
	if _, err := s.stores.Meets.Get(ctx, r.SportsMeetID); err != nil {
		return model.Registration{}, err
	}
	if _, err := s.stores.Events.Get(ctx, r.EventID); err != nil {
		return model.Registration{}, err
	}
	switch r.Status {
	case "":
		r.Status = model.StatusPending
	case model.StatusPending, model.StatusApproved, model.StatusRejected:
	default:
		return model.Registration{}, invalid("unknown registration status %q", r.Status)
	}
	r.ID = s.ensureID(r.ID)
	r.Gender = model.NormalizeGender(r.Gender)
	return r, s.stores.Registrations.Put(ctx, r)
}

// Registrations lists the registrations accepted by f.
func (s *Service) Registrations(ctx context.Context, f model.RegistrationFilter) []model.Registration {
	return s.stores.Registrations.List(ctx, f.Match)
}
