package model

import "strings"

// RegistrationStatus is the audit state of a registration.
type RegistrationStatus string

// Audit states. Only approved registrations are schedulable.
const (
	StatusPending  RegistrationStatus = "待审核"
	StatusApproved RegistrationStatus = "已通过"
	StatusRejected RegistrationStatus = "已拒绝"
)

// Gender labels used by heats. Registrations may also carry "male"/"female".
const (
	GenderMale   = "男"
	GenderFemale = "女"
)

// Registration is one student signed up for one event.
type Registration struct {
	ID                string             `json:"id"`
	SportsMeetID      string             `json:"sportsMeetId"`
	EventID           string             `json:"eventId"`
	StudentID         string             `json:"studentId,omitempty"`
	StudentName       string             `json:"studentName"`
	ClassName         string             `json:"className"`
	Grade             string             `json:"grade"`
	Gender            string             `json:"gender"`
	CompetitionNumber string             `json:"competitionNumber,omitempty"`
	Status            RegistrationStatus `json:"status"`
}

// Approved reports whether the registration passed audit.
func (r Registration) Approved() bool { return r.Status == StatusApproved }

// AthleteKey identifies the person behind a registration. A student entered
// in several events shares one key across all of them.
func (r Registration) AthleteKey() string {
	if r.StudentID != "" {
		return r.StudentID
	}
	return r.ID
}

// NormalizeGender maps the accepted spellings onto 男/女. Anything else is
// returned trimmed and unchanged.
func NormalizeGender(g string) string {
	switch strings.ToLower(strings.TrimSpace(g)) {
	case "男", "male", "m":
		return GenderMale
	case "女", "female", "f":
		return GenderFemale
	}
	return strings.TrimSpace(g)
}

// RegistrationFilter selects registrations; empty fields match everything.
type RegistrationFilter struct {
	SportsMeetID string
	EventID      string
	Grade        string
	Gender       string
	Status       RegistrationStatus
}

// Match reports whether r passes the filter.
func (f RegistrationFilter) Match(r Registration) bool {
	switch {
	case f.SportsMeetID != "" && r.SportsMeetID != f.SportsMeetID:
		return false
	case f.EventID != "" && r.EventID != f.EventID:
		return false
	case f.Grade != "" && r.Grade != f.Grade:
		return false
	case f.Gender != "" && NormalizeGender(r.Gender) != NormalizeGender(f.Gender):
		return false
	case f.Status != "" && r.Status != f.Status:
		return false
	}
	return true
}
