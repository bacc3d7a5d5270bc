package scheduling

import (
	"errors"
	"fmt"

	model "github.com/jigu1688/sporttools-sub000/internal/domain/model"
)

// Scheduling errors.
var (
	ErrConflict    = errors.New("schedule conflict")
	ErrInvalidTime = errors.New("invalid clock time")
	ErrInvalidHeat = errors.New("invalid heat")
)

// ConflictError rejects a manual heat whose referee or venue is already
// booked for an overlapping window.
type ConflictError struct {
	Type     model.ConflictType
	Resource string
	Existing model.ScheduledHeat
	Message  string
}

func newConflictError(t model.ConflictType, candidate, existing model.ScheduledHeat) *ConflictError {
	var resource, label string
	switch t {
	case model.ConflictReferee:
		resource, label = candidate.Referee, "裁判"
	default:
		resource, label = candidate.Venue, "场馆"
	}
	return &ConflictError{
		Type:     t,
		Resource: resource,
		Existing: existing,
		Message: fmt.Sprintf("%s %s 在 %s %s-%s 时间段已被分配到项目 %s",
			label, resource, candidate.Date, candidate.StartTime, candidate.EndTime, existing.EventName),
	}
}

func (e *ConflictError) Error() string { return e.Message }

// Unwrap lets errors.Is match ErrConflict.
func (e *ConflictError) Unwrap() error { return ErrConflict }
