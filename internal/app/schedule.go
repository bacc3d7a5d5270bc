package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jigu1688/sporttools-sub000/internal/domain/model"
	"github.com/jigu1688/sporttools-sub000/internal/domain/scheduling"
	"github.com/jigu1688/sporttools-sub000/pkg/logger"
	"github.com/jigu1688/sporttools-sub000/pkg/metrics"
)

// ScheduleOutcome is the result of an automatic scheduling run.
type ScheduleOutcome struct {
	Heats     []model.ScheduledHeat     `json:"heats"`
	Warning   string                    `json:"warning,omitempty"`
	Conflicts scheduling.ConflictReport `json:"conflicts"`
}

// AutoSchedule regenerates the schedule of a meet from its approved
// registrations and replaces the generated heats; manual heats stay. The
// conflict report covers every stored heat of the meet. The meet moves to
// 编排中.
func (s *Service) AutoSchedule(ctx context.Context, meetID string) (ScheduleOutcome, error) {
	lock := s.meetLock(meetID)
	lock.Lock()
	defer lock.Unlock()

	meet, err := s.stores.Meets.Get(ctx, meetID)
	if err != nil {
		return ScheduleOutcome{}, err
	}
	if meet.StartDate == "" {
		return ScheduleOutcome{}, invalid("meet %s has no start date", meetID)
	}
	meet.Status = model.MeetScheduling
	if err := s.stores.Meets.Put(ctx, meet); err != nil {
		return ScheduleOutcome{}, err
	}

	start := time.Now()
	res := s.scheduler.AutoSchedule(scheduling.Input{
		SportsMeetID:  meetID,
		StartDate:     meet.StartDate,
		Events:        s.stores.Events.List(ctx, nil),
		Registrations: s.Registrations(ctx, model.RegistrationFilter{SportsMeetID: meetID}),
		Venues:        s.stores.Venues.List(ctx, nil),
		Referees:      s.stores.Referees.List(ctx, nil),
	})
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	// A run without heats leaves the stored schedule alone.
	if len(res.Heats) > 0 {
		if err := s.stores.ReplaceMeetHeats(ctx, meetID, res.Heats); err != nil {
			return ScheduleOutcome{}, fmt.Errorf("store schedule of %s: %w", meetID, err)
		}
	}

	report := s.scheduler.DetectConflicts(s.stores.MeetHeats(ctx, meetID))
	recordConflicts(report)
	metrics.RecordScheduleRun(elapsed, len(res.Heats))

	fields := []logger.Field{
		logger.String("meet", meetID),
		logger.Int("heats", len(res.Heats)),
		logger.Int("conflicts", report.Total),
		logger.Float64("elapsed_ms", elapsed),
	}
	if res.Warning != "" {
		s.logger.Warn(ctx, res.Warning, fields...)
	} else {
		s.logger.Info(ctx, "schedule generated", fields...)
	}

	return ScheduleOutcome{Heats: res.Heats, Warning: res.Warning, Conflicts: report}, nil
}

// Schedule lists the heats of a meet ordered by date and start time.
func (s *Service) Schedule(ctx context.Context, meetID string) ([]model.ScheduledHeat, error) {
	if _, err := s.stores.Meets.Get(ctx, meetID); err != nil {
		return nil, err
	}
	heats := s.stores.MeetHeats(ctx, meetID)
	sort.SliceStable(heats, func(i, j int) bool {
		if heats[i].Date != heats[j].Date {
			return heats[i].Date < heats[j].Date
		}
		return heats[i].StartTime < heats[j].StartTime
	})
	return heats, nil
}

// Conflicts checks the stored schedule of a meet.
func (s *Service) Conflicts(ctx context.Context, meetID string) (scheduling.ConflictReport, error) {
	if _, err := s.stores.Meets.Get(ctx, meetID); err != nil {
		return scheduling.ConflictReport{}, err
	}
	report := s.scheduler.DetectConflicts(s.stores.MeetHeats(ctx, meetID))
	recordConflicts(report)
	return report, nil
}

// SaveHeat creates a heat when it has no id and edits the stored one
// otherwise. A heat that double-books a referee or a venue is rejected with
// a *scheduling.ConflictError. The roster is rebuilt from the approved
// registrations of the heat's event.
func (s *Service) SaveHeat(ctx context.Context, meetID string, heat model.ScheduledHeat) (model.ScheduledHeat, error) { //nolint:gocritic // hugeParam: request value
	lock := s.meetLock(meetID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.stores.Meets.Get(ctx, meetID); err != nil {
		return model.ScheduledHeat{}, err
	}
	if heat.ID != "" {
		stored, err := s.stores.Heats.Get(ctx, heat.ID)
		if err != nil {
			return model.ScheduledHeat{}, err
		}
		if stored.SportsMeetID != meetID {
			return model.ScheduledHeat{}, fmt.Errorf("heat %s in meet %s: %w", heat.ID, meetID, ErrNotFound)
		}
	}
	heat.SportsMeetID = meetID
	heat.Gender = model.NormalizeGender(heat.Gender)

	event, err := s.stores.Events.Get(ctx, heat.EventID)
	if err != nil && heat.EventID != "" {
		return model.ScheduledHeat{}, err
	}
	if heat.EventName == "" {
		heat.EventName = event.Name
	}

	if err := s.scheduler.CheckHeat(heat, s.stores.MeetHeats(ctx, meetID)); err != nil {
		var ce *scheduling.ConflictError
		if errors.As(err, &ce) {
			metrics.RecordManualHeatRejected(string(ce.Type))
			s.logger.Warn(ctx, "manual heat rejected",
				logger.String("meet", meetID),
				logger.String("type", string(ce.Type)),
				logger.String("resource", ce.Resource),
				logger.String("existing", ce.Existing.ID),
			)
			return model.ScheduledHeat{}, err
		}
		return model.ScheduledHeat{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	heat.ID = s.ensureID(heat.ID)
	heat.Manual = true
	if heat.Status == "" {
		heat.Status = model.HeatStatusScheduled
	}
	heat.GroupDetails = scheduling.Roster(heat, s.stores.Registrations.List(ctx, nil))
	if err := s.stores.Heats.Put(ctx, heat); err != nil {
		return model.ScheduledHeat{}, err
	}
	return heat, nil
}

// DeleteHeat removes one heat of a meet.
func (s *Service) DeleteHeat(ctx context.Context, meetID, heatID string) error {
	lock := s.meetLock(meetID)
	lock.Lock()
	defer lock.Unlock()

	heat, err := s.stores.Heats.Get(ctx, heatID)
	if err != nil {
		return err
	}
	if heat.SportsMeetID != meetID {
		return fmt.Errorf("heat %s in meet %s: %w", heatID, meetID, ErrNotFound)
	}
	return s.stores.Heats.Delete(ctx, heatID)
}

func recordConflicts(report scheduling.ConflictReport) {
	counts := map[model.ConflictType]int{model.ConflictReferee: 0, model.ConflictVenue: 0}
	for _, c := range report.Conflicts {
		counts[c.Type]++
	}
	for t, n := range counts {
		metrics.UpdateConflictsDetected(string(t), n)
	}
}
