// Package repository holds the in-memory stores behind the service: the
// fitness ranking and the keyed collections for meets, events, venues,
// referees, registrations, heats and score records.
package repository

import (
	"context"

	"github.com/jigu1688/sporttools-sub000/internal/domain/types"
)

// Entry is a ranking row.
type Entry = types.Entry

// RankingStore provides read/write access to the ranking state.
type RankingStore interface {
	// Upsert places a student's result in the ranking. It returns false when
	// the existing entry was kept.
	Upsert(ctx context.Context, e Entry) (bool, error)

	// Remove drops a student from the ranking.
	Remove(ctx context.Context, studentID string) error

	// Rank returns the entry and rank of a student, or ErrNotFound.
	Rank(ctx context.Context, studentID string) (Entry, error)

	// TopN returns the first n entries in ranking order.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of ranked students.
	Count(ctx context.Context) int
}
