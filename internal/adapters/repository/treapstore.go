package repository

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/jigu1688/sporttools-sub000/pkg/metrics"
)

// Treap-based, in-memory RankingStore.
//
// Ordering: compositeScore DESC, standardScore DESC, studentID ASC. The BST
// comparator is Entry.Ahead, so in-order traversal yields the ranking from
// first to last. Subtree sizes make Rank O(log n).

type node struct {
	entry Entry
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, e Entry, prio uint64) *node {
	if n == nil {
		return &node{entry: e, prio: prio, size: 1}
	}
	if e.Ahead(n.entry) {
		n.left = insert(n.left, e, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, e, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, e Entry) *node {
	if n == nil {
		return nil
	}
	switch {
	case n.entry.StudentID == e.StudentID && n.entry.Tied(e):
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, e)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, e)
		}
	case e.Ahead(n.entry):
		n.left = deleteNode(n.left, e)
	default:
		n.right = deleteNode(n.right, e)
	}
	fix(n)
	return n
}

// countAhead returns how many entries score strictly better than e.
// Entries tied with e on both scores are not counted.
func countAhead(n *node, e Entry) int {
	count := 0
	for n != nil {
		if !n.entry.Tied(e) && n.entry.Ahead(e) {
			count += nsize(n.left) + 1
			n = n.right
		} else {
			n = n.left
		}
	}
	return count
}

// collectTopN appends up to limit entries in ranking order.
func collectTopN(n *node, limit int, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, n.entry)
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// assignRanks gives tied entries the same rank and skips the positions
// they occupy, so ranks read 1, 1, 3.
func assignRanks(entries []Entry) {
	for i := range entries {
		if i > 0 && entries[i].Tied(entries[i-1]) {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}

// TreapStore ranks students by their current score record.
type TreapStore struct {
	mu       sync.RWMutex
	root     *node
	byID     map[string]Entry
	keepBest bool
}

// NewTreapStore constructs an empty ranking.
func NewTreapStore(opts ...Option) *TreapStore {
	s := &TreapStore{byID: make(map[string]Entry)}
	for _, opt := range opts {
		opt(s)
	}
	metrics.UpdateRankedStudents(0)
	return s
}

// Upsert places e in the ranking. By default the record with the later test
// date wins and equal dates favour the newer call.
func (s *TreapStore) Upsert(_ context.Context, e Entry) (bool, error) { //nolint:gocritic // hugeParam: stored by value
	if e.StudentID == "" {
		return false, fmt.Errorf("ranking entry: %w", ErrMissingID)
	}
	e.Rank = 0

	s.mu.Lock()
	old, ok := s.byID[e.StudentID]
	if ok {
		if !s.replaces(e, old) {
			s.mu.Unlock()
			return false, nil
		}
		s.root = deleteNode(s.root, old)
	}
	s.byID[e.StudentID] = e
	s.root = insert(s.root, e, rand.Uint64())
	count := len(s.byID)
	s.mu.Unlock()

	metrics.RecordRankingUpdate()
	if !ok {
		metrics.UpdateRankedStudents(count)
	}
	return true, nil
}

func (s *TreapStore) replaces(e, old Entry) bool {
	if s.keepBest {
		return !old.Tied(e) && e.Ahead(old)
	}
	return e.TestDate == "" || e.TestDate >= old.TestDate
}

// Remove drops a student from the ranking.
func (s *TreapStore) Remove(_ context.Context, studentID string) error {
	s.mu.Lock()
	old, ok := s.byID[studentID]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.root = deleteNode(s.root, old)
	delete(s.byID, studentID)
	count := len(s.byID)
	s.mu.Unlock()

	metrics.UpdateRankedStudents(count)
	return nil
}

// Rank returns the student's entry with its competition rank.
func (s *TreapStore) Rank(_ context.Context, studentID string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.byID[studentID]
	if !ok {
		return Entry{}, ErrNotFound
	}
	e.Rank = countAhead(s.root, e) + 1
	return e, nil
}

// TopN returns the first n entries in ranking order.
func (s *TreapStore) TopN(_ context.Context, n int) ([]Entry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, 0, min(n, len(s.byID)))
	collectTopN(s.root, n, &out)
	assignRanks(out)
	return out, nil
}

// Count returns the number of ranked students.
func (s *TreapStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
