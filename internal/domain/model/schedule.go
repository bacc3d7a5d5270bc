package model

// HeatStatusScheduled marks a heat that has a slot, venue and referee.
const HeatStatusScheduled = "已安排"

// GroupDetails is the roster of one heat.
type GroupDetails struct {
	Classes       []string       `json:"classes"`
	Athletes      []Registration `json:"athletes"`
	TotalAthletes int            `json:"totalAthletes"`
}

// ScheduledHeat is one heat placed on the meet calendar.
type ScheduledHeat struct {
	ID           string       `json:"id"`
	SportsMeetID string       `json:"sportsMeetId"`
	EventID      string       `json:"eventId"`
	EventName    string       `json:"eventName"`
	Grade        string       `json:"grade"`
	Gender       string       `json:"gender"`
	GroupName    string       `json:"groupName"`
	GroupCount   int          `json:"groupCount"`
	Date         string       `json:"date"`      // YYYY-MM-DD
	StartTime    string       `json:"startTime"` // HH:MM
	EndTime      string       `json:"endTime"`   // HH:MM
	Venue        string       `json:"venue"`
	Referee      string       `json:"referee"`
	Status       string       `json:"status"`
	Manual       bool         `json:"manual,omitempty"`
	GroupDetails GroupDetails `json:"groupDetails"`
}

// ConflictType names the resource two heats compete for.
type ConflictType string

// Conflict kinds.
const (
	ConflictReferee ConflictType = "referee"
	ConflictVenue   ConflictType = "venue"
)

// Conflict reports two heats that overlap in time on the same date and share
// a referee or a venue.
type Conflict struct {
	HeatID1 string       `json:"heatId1"`
	HeatID2 string       `json:"heatId2"`
	Type    ConflictType `json:"type"`
	Reason  string       `json:"reason"`
}
