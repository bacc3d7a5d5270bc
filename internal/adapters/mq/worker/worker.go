// Package worker scores queued measurements in the background and hands the
// results to a recorder.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/jigu1688/sporttools-sub000/internal/domain/model"
	"github.com/jigu1688/sporttools-sub000/pkg/logger"
	"github.com/jigu1688/sporttools-sub000/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

const defaultWorkerMultiplier = 2

// Scorer computes the score breakdown of a measurement.
type Scorer interface {
	Score(ctx context.Context, m model.Measurement) (model.ScoreBreakdown, error)
}

// Recorder stores a scored measurement.
type Recorder interface {
	Record(ctx context.Context, rec model.ScoreRecord) error
}

// Queue defines how workers receive measurements.
type Queue interface {
	Dequeue() <-chan model.Measurement
}

// FailureHook observes measurements that were dropped.
type FailureHook func(ctx context.Context, m model.Measurement, err error)

// InMemoryWorker scores measurements read from a queue.
type InMemoryWorker struct {
	queue     Queue
	scorer    Scorer
	recorder  Recorder
	name      string
	now       func() time.Time
	onFailure FailureHook
	processed atomic.Int64
	logger    logger.Logger
}

// NewInMemoryWorker creates a worker with configuration options.
func NewInMemoryWorker(q Queue, scorer Scorer, recorder Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		scorer:   scorer,
		recorder: recorder,
		name:     "worker",
		now:      time.Now,
		logger:   logger.Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run processes measurements until the queue closes or ctx is canceled.
func (w *InMemoryWorker) Run(ctx context.Context) {
	items := w.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-items:
			if !ok {
				return
			}
			metrics.RecordQueueDequeue()
			if err := w.process(ctx, m); err != nil {
				w.logger.Error(ctx, "measurement dropped",
					logger.String("worker", w.name),
					logger.String("measurementID", m.ID),
					logger.Error(err),
				)
				if w.onFailure != nil {
					w.onFailure(ctx, m, err)
				}
			}
		}
	}
}

// Processed returns the number of measurements this worker recorded.
func (w *InMemoryWorker) Processed() int64 {
	return w.processed.Load()
}

func (w *InMemoryWorker) process(ctx context.Context, m model.Measurement) error { //nolint:gocritic // hugeParam: received by value from the channel
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	scoreStart := time.Now()
	breakdown, err := w.scorer.Score(ctx, m)
	metrics.RecordScoringLatency(float64(time.Since(scoreStart).Microseconds()) / 1000)
	if err != nil {
		metrics.RecordScoringError()
		metrics.RecordWorkerError()
		return fmt.Errorf("score measurement %s: %w", m.ID, err)
	}

	rec := model.ScoreRecord{
		ID:          m.ID,
		Measurement: m,
		Result:      breakdown,
		ScoredAt:    w.now(),
	}
	if err := w.recorder.Record(ctx, rec); err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("record measurement %s: %w", m.ID, err)
	}

	metrics.RecordMeasurementScored(breakdown.GradeLevel)
	for code, b := range breakdown.BonusItems {
		metrics.RecordBonusAwarded(code, b.Bonus)
	}
	w.processed.Add(1)
	w.logger.Debug(ctx, "measurement scored",
		logger.String("measurementID", m.ID),
		logger.String("studentID", m.StudentID),
		logger.Int("composite", breakdown.CompositeScore),
		logger.String("level", breakdown.GradeLevel),
	)
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	group   *errgroup.Group
	cancel  context.CancelFunc
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below one uses
// twice the number of CPUs. Options apply to every worker; each one gets
// its own name.
func NewPool(workerCount int, q Queue, scorer Scorer, recorder Recorder, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		logger:  logger.Named("worker-pool"),
	}
	for i := range workerCount {
		workerOpts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		pool.workers[i] = NewInMemoryWorker(q, scorer, recorder, workerOpts...)
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Start runs every worker until the queue is closed or ctx is canceled.
func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range p.workers {
		g.Go(func() error {
			w.Run(gctx)
			return nil
		})
	}
	p.group = g
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Processed returns the number of measurements recorded by the pool.
func (p *Pool) Processed() int64 {
	var total int64
	for _, w := range p.workers {
		total += w.Processed()
	}
	return total
}

// Wait blocks until every worker has returned. Workers return once the
// queue is closed and drained.
func (p *Pool) Wait(ctx context.Context) error {
	if p.group == nil {
		return nil
	}
	done := make(chan error, 1)
	go func() { done <- p.group.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		p.cancel()
		p.logger.Warn(ctx, "worker pool shutdown timed out")
		return fmt.Errorf("worker pool shutdown: %w", ctx.Err())
	}
}

// Stop cancels the workers without draining the queue.
func (p *Pool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	if p.group != nil {
		_ = p.group.Wait()
	}
	metrics.UpdateWorkerCount(0)
}
