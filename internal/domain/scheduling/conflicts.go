package scheduling

import (
	"fmt"

	model "github.com/jigu1688/sporttools-sub000/internal/domain/model"
)

// ConflictReport lists the double bookings among a set of heats. Total counts
// every conflict found even when Conflicts was cut to the report limit;
// Unchecked counts heats beyond the check limit.
type ConflictReport struct {
	Conflicts []model.Conflict `json:"conflicts"`
	Total     int              `json:"total"`
	Checked   int              `json:"checked"`
	Unchecked int              `json:"unchecked"`
}

// Truncated reports whether conflicts were left out of the list.
func (r ConflictReport) Truncated() bool { return r.Total > len(r.Conflicts) }

// Overlaps reports whether two heats share a date and their [start, end)
// windows intersect. Heats with unreadable times never overlap.
func Overlaps(a, b model.ScheduledHeat) bool {
	if a.Date != b.Date {
		return false
	}
	s1, e1, err := window(a.StartTime, a.EndTime)
	if err != nil {
		return false
	}
	s2, e2, err := window(b.StartTime, b.EndTime)
	if err != nil {
		return false
	}
	return s1 < e2 && e1 > s2
}

// DetectConflicts compares every pair of heats within the check limit. A pair
// sharing a referee yields a referee conflict and a pair sharing a venue
// yields a venue conflict; one pair may yield both.
func (s *Scheduler) DetectConflicts(heats []model.ScheduledHeat) ConflictReport {
	checked := heats
	if s.checkLimit > 0 && len(checked) > s.checkLimit {
		checked = checked[:s.checkLimit]
	}
	report := ConflictReport{
		Conflicts: []model.Conflict{},
		Checked:   len(checked),
		Unchecked: len(heats) - len(checked),
	}
	emit := func(c model.Conflict) {
		report.Total++
		if s.reportLimit == 0 || len(report.Conflicts) < s.reportLimit {
			report.Conflicts = append(report.Conflicts, c)
		}
	}

	for i := 0; i < len(checked); i++ {
		for j := i + 1; j < len(checked); j++ {
			h1, h2 := checked[i], checked[j]
			if !Overlaps(h1, h2) {
				continue
			}
			if h1.Referee != "" && h1.Referee == h2.Referee {
				emit(model.Conflict{
					HeatID1: h1.ID,
					HeatID2: h2.ID,
					Type:    model.ConflictReferee,
					Reason: fmt.Sprintf("裁判 %s 在 %s %s-%s 时间段同时执裁 %s 和 %s",
						h1.Referee, h1.Date, h1.StartTime, h1.EndTime, h1.EventName, h2.EventName),
				})
			}
			if h1.Venue != "" && h1.Venue == h2.Venue {
				emit(model.Conflict{
					HeatID1: h1.ID,
					HeatID2: h2.ID,
					Type:    model.ConflictVenue,
					Reason: fmt.Sprintf("场馆 %s 在 %s %s-%s 时间段同时安排 %s 和 %s",
						h1.Venue, h1.Date, h1.StartTime, h1.EndTime, h1.EventName, h2.EventName),
				})
			}
		}
	}
	return report
}

// ConflictingIDs returns the ids of heats involved in any listed conflict.
func ConflictingIDs(conflicts []model.Conflict) map[string]bool {
	ids := make(map[string]bool, len(conflicts)*2)
	for _, c := range conflicts {
		ids[c.HeatID1] = true
		ids[c.HeatID2] = true
	}
	return ids
}

// ValidateHeat checks that a manual heat has a date and a positive window.
func ValidateHeat(h model.ScheduledHeat) error {
	if h.Date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidHeat)
	}
	if h.EventID == "" {
		return fmt.Errorf("%w: event is required", ErrInvalidHeat)
	}
	start, end, err := window(h.StartTime, h.EndTime)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHeat, err)
	}
	if end <= start {
		return fmt.Errorf("%w: end %s is not after start %s", ErrInvalidHeat, h.EndTime, h.StartTime)
	}
	return nil
}

// CheckHeat validates a manually created or edited heat against the existing
// ones, skipping the heat with the candidate's id. A referee clash is
// reported before a venue clash.
func (s *Scheduler) CheckHeat(candidate model.ScheduledHeat, existing []model.ScheduledHeat) error {
	if err := ValidateHeat(candidate); err != nil {
		return err
	}
	find := func(same func(model.ScheduledHeat) bool) (model.ScheduledHeat, bool) {
		for _, h := range existing {
			if candidate.ID != "" && h.ID == candidate.ID {
				continue
			}
			if same(h) && Overlaps(candidate, h) {
				return h, true
			}
		}
		return model.ScheduledHeat{}, false
	}
	if candidate.Referee != "" {
		if h, ok := find(func(h model.ScheduledHeat) bool { return h.Referee == candidate.Referee }); ok {
			return newConflictError(model.ConflictReferee, candidate, h)
		}
	}
	if candidate.Venue != "" {
		if h, ok := find(func(h model.ScheduledHeat) bool { return h.Venue == candidate.Venue }); ok {
			return newConflictError(model.ConflictVenue, candidate, h)
		}
	}
	return nil
}
