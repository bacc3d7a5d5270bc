package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/jigu1688/sporttools-sub000/internal/domain/model"
)

// Collection is a keyed in-memory store that lists items in insertion order.
type Collection[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
	key   func(T) string
	kind  string
}

// NewCollection creates a collection keyed by key. kind names the item in
// error messages.
func NewCollection[T any](kind string, key func(T) string) *Collection[T] {
	return &Collection[T]{items: make(map[string]T), key: key, kind: kind}
}

// Put inserts or replaces an item.
func (c *Collection[T]) Put(_ context.Context, item T) error {
	id := c.key(item)
	if id == "" {
		return fmt.Errorf("%s: %w", c.kind, ErrMissingID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		c.order = append(c.order, id)
	}
	c.items[id] = item
	return nil
}

// Get returns the item stored under id.
func (c *Collection[T]) Get(_ context.Context, id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %s: %w", c.kind, id, ErrNotFound)
	}
	return item, nil
}

// List returns the items accepted by keep, or every item when keep is nil.
func (c *Collection[T]) List(_ context.Context, keep func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		item := c.items[id]
		if keep == nil || keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Delete removes the item stored under id.
func (c *Collection[T]) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; !ok {
		return fmt.Errorf("%s %s: %w", c.kind, id, ErrNotFound)
	}
	delete(c.items, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Replace atomically swaps every item accepted by match for items. Items
// rejected by match are untouched.
func (c *Collection[T]) Replace(_ context.Context, match func(T) bool, items []T) error {
	for _, item := range items {
		if c.key(item) == "" {
			return fmt.Errorf("%s: %w", c.kind, ErrMissingID)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.order[:0]
	for _, id := range c.order {
		if match(c.items[id]) {
			delete(c.items, id)
			continue
		}
		kept = append(kept, id)
	}
	c.order = kept
	for _, item := range items {
		id := c.key(item)
		if _, ok := c.items[id]; !ok {
			c.order = append(c.order, id)
		}
		c.items[id] = item
	}
	return nil
}

// Len returns the number of stored items.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stores groups the collections the service reads and writes.
type Stores struct {
	Meets         *Collection[model.SportsMeet]
	Events        *Collection[model.Event]
	Venues        *Collection[model.Venue]
	Referees      *Collection[model.Referee]
	Registrations *Collection[model.Registration]
	Heats         *Collection[model.ScheduledHeat]
	Scores        *Collection[model.ScoreRecord]
}

// NewStores creates empty collections.
func NewStores() *Stores {
	return &Stores{
		Meets:         NewCollection("sports meet", func(m model.SportsMeet) string { return m.ID }),
		Events:        NewCollection("event", func(e model.Event) string { return e.ID }),
		Venues:        NewCollection("venue", func(v model.Venue) string { return v.ID }),
		Referees:      NewCollection("referee", func(r model.Referee) string { return r.ID }),
		Registrations: NewCollection("registration", func(r model.Registration) string { return r.ID }),
		Heats:         NewCollection("heat", func(h model.ScheduledHeat) string { return h.ID }),
		Scores:        NewCollection("score record", func(r model.ScoreRecord) string { return r.ID }),
	}
}

// MeetHeats lists the heats of one sports meet.
func (s *Stores) MeetHeats(ctx context.Context, meetID string) []model.ScheduledHeat {
	return s.Heats.List(ctx, func(h model.ScheduledHeat) bool { return h.SportsMeetID == meetID })
}

// ReplaceMeetHeats swaps the generated schedule of one sports meet. Heats
// saved by hand are kept.
func (s *Stores) ReplaceMeetHeats(ctx context.Context, meetID string, heats []model.ScheduledHeat) error {
	return s.Heats.Replace(ctx, func(h model.ScheduledHeat) bool {
		return h.SportsMeetID == meetID && !h.Manual
	}, heats)
}

// StudentScoreOn returns the record of a student for one test date.
func (s *Stores) StudentScoreOn(ctx context.Context, studentID, testDate string) (model.ScoreRecord, bool) {
	found := s.Scores.List(ctx, func(r model.ScoreRecord) bool {
		return r.Measurement.StudentID == studentID && r.Measurement.TestDate == testDate
	})
	if len(found) == 0 {
		return model.ScoreRecord{}, false
	}
	return found[0], true
}

// StudentScores lists the score records of one student.
func (s *Stores) StudentScores(ctx context.Context, studentID string) []model.ScoreRecord {
	return s.Scores.List(ctx, func(r model.ScoreRecord) bool { return r.Measurement.StudentID == studentID })
}
