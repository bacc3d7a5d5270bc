// Package model contains domain models passed between layers.
package model

// EventType classifies a sports-meet event.
type EventType string

// Event types as recorded by the registration desk.
const (
	EventTrack EventType = "径赛"
	EventField EventType = "田赛"
	EventTeam  EventType = "团体"
)

// VenueType classifies a venue. Track events run on track venues, field
// events on field venues; courts accept anything.
type VenueType string

// Venue types.
const (
	VenueTrack VenueType = "track"
	VenueField VenueType = "field"
	VenueCourt VenueType = "court"
)

// Event is a competition item of a sports meet.
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        EventType `json:"type"`
	IsTeamEvent bool      `json:"isTeamEvent"`
	TeamSize    int       `json:"teamSize,omitempty"`
	GradeGroups []string  `json:"gradeGroups,omitempty"`
	Description string    `json:"description,omitempty"`
}

// Venue is a place heats can be assigned to.
type Venue struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Type     VenueType `json:"type"`
	Capacity int       `json:"capacity"`
}

// Accepts reports whether an event of type t may be held at v.
func (v Venue) Accepts(t EventType) bool {
	switch v.Type {
	case VenueCourt:
		return true
	case VenueTrack:
		return t == EventTrack
	case VenueField:
		return t == EventField
	}
	return false
}

// Referee officiates heats.
type Referee struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
}

// SportsMeet is one track meet with its calendar window.
type SportsMeet struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	StartDate   string `json:"startDate"` // YYYY-MM-DD
	EndDate     string `json:"endDate"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
}

// Sports meet statuses.
const (
	MeetPreparing  = "筹备中"
	MeetScheduling = "编排中"
)
