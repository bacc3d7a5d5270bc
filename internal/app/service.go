// Package service wires the scoring engine, the meet scheduler and the
// in-memory stores into the operations behind the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	eventqueue "github.com/jigu1688/sporttools-sub000/internal/adapters/mq/queue"
	workerpool "github.com/jigu1688/sporttools-sub000/internal/adapters/mq/worker"
	"github.com/jigu1688/sporttools-sub000/internal/adapters/repository"
	"github.com/jigu1688/sporttools-sub000/internal/domain/dedupe"
	"github.com/jigu1688/sporttools-sub000/internal/domain/model"
	"github.com/jigu1688/sporttools-sub000/internal/domain/scheduling"
	"github.com/jigu1688/sporttools-sub000/internal/domain/scoring"
	"github.com/jigu1688/sporttools-sub000/pkg/logger"
)

const (
	defaultQueueSize  = 10_000
	defaultDedupeSize = 50_000
	drainTimeout      = 10 * time.Second
)

// Service implements the API dependencies.
type Service struct {
	mu sync.RWMutex

	stores    *repository.Stores
	ranking   *repository.TreapStore
	scorer    *scoring.Engine
	scheduler *scheduling.Scheduler

	deduper    dedupe.Deduper
	queue      *eventqueue.InMemoryQueue
	workerPool *workerpool.Pool
	cancel     context.CancelFunc

	workerCount   int
	queueSize     int
	dedupeSize    int
	itemWeights   map[string]float64
	keepBest      bool
	schedulerOpts []scheduling.Option
	newID         func() string
	now           func() time.Time

	meetLocksMu sync.Mutex
	meetLocks   map[string]*sync.Mutex

	recordMu sync.Mutex

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of scoring workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the measurement queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many measurement ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithItemWeights overrides item weights used by the scoring engine.
func WithItemWeights(weights map[string]float64) Option {
	return func(s *Service) {
		s.itemWeights = weights
	}
}

// WithRankingKeepBest ranks students by their best record.
func WithRankingKeepBest(keep bool) Option {
	return func(s *Service) {
		s.keepBest = keep
	}
}

// WithSchedulerOptions configures the meet scheduler.
func WithSchedulerOptions(opts ...scheduling.Option) Option {
	return func(s *Service) {
		s.schedulerOpts = append(s.schedulerOpts, opts...)
	}
}

// WithIDFunc replaces the generator used for new ids.
func WithIDFunc(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New builds a service. Catalog, scheduling and synchronous scoring work
// right away; asynchronous submission needs Start.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:  defaultQueueSize,
		dedupeSize: defaultDedupeSize,
		newID:      uuid.NewString,
		now:        time.Now,
		meetLocks:  make(map[string]*sync.Mutex),
		logger:     logger.Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}

	var rankOpts []repository.Option
	if s.keepBest {
		rankOpts = append(rankOpts, repository.WithKeepBest())
	}
	s.stores = repository.NewStores()
	s.ranking = repository.NewTreapStore(rankOpts...)
	s.scorer = scoring.NewEngine(scoring.WithItemWeights(s.itemWeights))
	s.scheduler = scheduling.New(append([]scheduling.Option{scheduling.WithIDFunc(s.newID)}, s.schedulerOpts...)...)
	return s
}

// Start builds the submission pipeline and launches the workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, s.scorer, s,
		workerpool.WithClock(s.now),
		workerpool.WithFailureHook(func(ctx context.Context, m model.Measurement, _ error) {
			s.deduper.Unrecord(ctx, m.ID)
		}),
	)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.workerPool.Start(runCtx)
	s.started = true

	s.logger.Info(ctx, "service started",
		logger.Int("workers", s.workerPool.Size()),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
	)
	return nil
}

// Stop closes the queue, lets the workers drain it and releases them.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	if err := s.queue.Close(); err != nil {
		s.logger.Error(ctx, "error closing queue", logger.Error(err))
	}
	if err := s.workerPool.Wait(ctx); err != nil {
		s.logger.Warn(ctx, "workers did not drain", logger.Error(err))
	}
	s.workerPool.Stop()
	s.cancel()
	s.started = false
	s.logger.Info(ctx, "service stopped", logger.Any("processed", s.workerPool.Processed()))
}

// GetStats returns service statistics.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":        s.started,
		"worker_count":   s.workerCount,
		"queue_capacity": s.queueSize,
		"dedupe_size":    s.dedupeSize,
		"ranked":         s.ranking.Count(ctx),
		"score_records":  s.stores.Scores.Len(),
		"meets":          s.stores.Meets.Len(),
		"heats":          s.stores.Heats.Len(),
		"registrations":  s.stores.Registrations.Len(),
	}
	if s.started {
		stats["queue_size"] = s.queue.Len()
		stats["deduped"] = s.deduper.Size()
		stats["worker_count"] = s.workerPool.Size()
		stats["processed"] = s.workerPool.Processed()
	}
	return stats
}

// Stores exposes the underlying collections.
func (s *Service) Stores() *repository.Stores {
	return s.stores
}

func (s *Service) meetLock(meetID string) *sync.Mutex {
	s.meetLocksMu.Lock()
	defer s.meetLocksMu.Unlock()
	l, ok := s.meetLocks[meetID]
	if !ok {
		l = &sync.Mutex{}
		s.meetLocks[meetID] = l
	}
	return l
}

func (s *Service) ensureID(id string) string {
	if id != "" {
		return id
	}
	return s.newID()
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
