package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	eventqueue "github.com/jigu1688/sporttools-sub000/internal/adapters/mq/queue"
	"github.com/jigu1688/sporttools-sub000/internal/domain/model"
	"github.com/jigu1688/sporttools-sub000/internal/domain/scoring"
	"github.com/jigu1688/sporttools-sub000/internal/domain/types"
	"github.com/jigu1688/sporttools-sub000/pkg/metrics"
)

// SubmitResult tells the caller what happened to a submission.
type SubmitResult struct {
	ID        string `json:"id"`
	Duplicate bool   `json:"duplicate"`
}

// Score computes a breakdown synchronously without storing it.
func (s *Service) Score(ctx context.Context, m model.Measurement) (model.ScoreBreakdown, error) { //nolint:gocritic // hugeParam: request value
	if err := validateMeasurement(m); err != nil {
		return model.ScoreBreakdown{}, err
	}
	return s.scorer.Score(ctx, m)
}

// Submit queues a measurement for background scoring. A measurement id that
// was already accepted is reported as a duplicate and not queued again.
func (s *Service) Submit(ctx context.Context, m model.Measurement) (SubmitResult, error) { //nolint:gocritic // hugeParam: request value
	if err := validateMeasurement(m); err != nil {
		return SubmitResult{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return SubmitResult{}, ErrNotStarted
	}

	m.ID = s.ensureID(m.ID)
	if s.deduper.SeenAndRecord(ctx, m.ID) {
		metrics.RecordMeasurementDuplicate()
		return SubmitResult{ID: m.ID, Duplicate: true}, nil
	}
	if err := s.queue.Enqueue(ctx, m); err != nil {
		s.deduper.Unrecord(ctx, m.ID)
		return SubmitResult{}, fmt.Errorf("submit %s: %w", m.ID, err)
	}
	return SubmitResult{ID: m.ID}, nil
}

// IsBackpressure reports whether err means the queue could not take more work.
func IsBackpressure(err error) bool {
	return errors.Is(err, eventqueue.ErrQueueFull) || errors.Is(err, eventqueue.ErrQueueClosed)
}

// Record stores a scored measurement and updates the ranking. A student has
// one record per test date; a later record for the same date replaces it.
// Workers call it; it is also used to import already scored records.
func (s *Service) Record(ctx context.Context, rec model.ScoreRecord) error { //nolint:gocritic // hugeParam: stored by value
	s.recordMu.Lock()
	defer s.recordMu.Unlock()

	m := rec.Measurement
	if m.TestDate != "" {
		if prev, ok := s.stores.StudentScoreOn(ctx, m.StudentID, m.TestDate); ok {
			rec.ID = prev.ID
		}
	}
	if rec.ID == "" {
		rec.ID = s.newID()
	}
	if err := s.stores.Scores.Put(ctx, rec); err != nil {
		return err
	}
	_, err := s.ranking.Upsert(ctx, rankingEntry(rec))
	return err
}

func rankingEntry(rec model.ScoreRecord) types.Entry { //nolint:gocritic // hugeParam
	m := rec.Measurement
	return types.Entry{
		StudentID:      m.StudentID,
		Name:           m.Name,
		ClassName:      m.ClassName,
		Grade:          m.Grade,
		Gender:         model.NormalizeGender(m.Gender),
		CompositeScore: rec.Result.CompositeScore,
		StandardScore:  rec.Result.StandardScore,
		BonusScore:     rec.Result.BonusScore,
		GradeLevel:     rec.Result.GradeLevel,
		RecordID:       rec.ID,
		TestDate:       m.TestDate,
	}
}

// Scores lists the stored records of a student, newest test first.
func (s *Service) Scores(ctx context.Context, studentID string) []model.ScoreRecord {
	records := s.stores.StudentScores(ctx, studentID)
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Measurement.TestDate != records[j].Measurement.TestDate {
			return records[i].Measurement.TestDate > records[j].Measurement.TestDate
		}
		return records[i].ScoredAt.After(records[j].ScoredAt)
	})
	return records
}

// Ranking returns the top limit students.
func (s *Service) Ranking(ctx context.Context, limit int) ([]types.Entry, error) {
	return s.ranking.TopN(ctx, limit)
}

// StudentRank returns one student's ranking entry.
func (s *Service) StudentRank(ctx context.Context, studentID string) (types.Entry, error) {
	e, err := s.ranking.Rank(ctx, studentID)
	if err != nil {
		return types.Entry{}, fmt.Errorf("student %s: %w", studentID, err)
	}
	return e, nil
}

// Standards lists the items that apply to a grade and gender with their
// scoring anchors.
func (s *Service) Standards(grade, gender string) ([]scoring.ItemStandard, error) {
	if strings.TrimSpace(grade) == "" {
		return nil, invalid("grade is required")
	}
	return scoring.StandardsFor(grade, model.NormalizeGender(gender)), nil
}

func validateMeasurement(m model.Measurement) error { //nolint:gocritic // hugeParam
	if strings.TrimSpace(m.StudentID) == "" {
		return invalid("studentId is required")
	}
	if strings.TrimSpace(m.Grade) == "" {
		return invalid("grade is required")
	}
	return nil
}
