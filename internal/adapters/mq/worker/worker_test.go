package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	queue "github.com/jigu1688/sporttools-sub000/internal/adapters/mq/queue"
	worker "github.com/jigu1688/sporttools-sub000/internal/adapters/mq/worker"
	model "github.com/jigu1688/sporttools-sub000/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

type fakeScorer struct {
	fail map[string]error
}

func (s *fakeScorer) Score(_ context.Context, m model.Measurement) (model.ScoreBreakdown, error) {
	if err, ok := s.fail[m.StudentID]; ok {
		return model.ScoreBreakdown{}, err
	}
	return model.ScoreBreakdown{
		StandardScore:  80,
		CompositeScore: 85,
		GradeLevel:     "良好",
		BonusItems:     map[string]model.BonusItem{"ropeSkipping": {Bonus: 5}},
	}, nil
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []model.ScoreRecord
	err     error
}

func (r *fakeRecorder) Record(_ context.Context, rec model.ScoreRecord) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

func (r *fakeRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool reading from a queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(100))
		scorer := &fakeScorer{fail: map[string]error{"bad": errors.New("no standard")}}
		recorder := &fakeRecorder{}

		var mu sync.Mutex
		var failed []string
		fixed := time.Date(2026, 4, 15, 9, 0, 0, 0, time.UTC)
		pool := worker.NewPool(4, q, scorer, recorder,
			worker.WithClock(func() time.Time { return fixed }),
			worker.WithFailureHook(func(_ context.Context, m model.Measurement, _ error) {
				mu.Lock()
				failed = append(failed, m.ID)
				mu.Unlock()
			}),
		)
		convey.So(pool.Size(), convey.ShouldEqual, 4)

		convey.Convey("When measurements are queued and the queue is closed", func() {
			for i := range 20 {
				convey.So(q.Enqueue(ctx, model.Measurement{ID: fmt.Sprintf("m%d", i), StudentID: fmt.Sprintf("s%d", i)}), convey.ShouldBeNil)
			}
			convey.So(q.Enqueue(ctx, model.Measurement{ID: "m-bad", StudentID: "bad"}), convey.ShouldBeNil)
			pool.Start(ctx)
			convey.So(q.Close(), convey.ShouldBeNil)

			waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			err := pool.Wait(waitCtx)

			convey.Convey("Then every valid measurement is recorded and the bad one is reported", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(recorder.count(), convey.ShouldEqual, 20)
				convey.So(pool.Processed(), convey.ShouldEqual, 20)
				convey.So(failed, convey.ShouldResemble, []string{"m-bad"})
				rec := recorder.records[0]
				convey.So(rec.ID, convey.ShouldEqual, rec.Measurement.ID)
				convey.So(rec.ScoredAt, convey.ShouldEqual, fixed)
				convey.So(rec.Result.CompositeScore, convey.ShouldEqual, 85)
			})
		})

		convey.Convey("When the recorder fails", func() {
			recorder.err = errors.New("store unavailable")
			convey.So(q.Enqueue(ctx, model.Measurement{ID: "m1", StudentID: "s1"}), convey.ShouldBeNil)
			pool.Start(ctx)
			convey.So(q.Close(), convey.ShouldBeNil)
			convey.So(pool.Wait(ctx), convey.ShouldBeNil)

			convey.Convey("Then the failure hook sees the measurement", func() {
				convey.So(failed, convey.ShouldResemble, []string{"m1"})
				convey.So(pool.Processed(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the pool is stopped with an open queue", func() {
			pool.Start(ctx)
			done := make(chan struct{})
			go func() {
				pool.Stop()
				close(done)
			}()

			convey.Convey("Then every worker returns", func() {
				select {
				case <-done:
				case <-time.After(5 * time.Second):
					t.Fatal("pool did not stop")
				}
			})
		})
	})

	convey.Convey("Given a pool with no explicit size", t, func() {
		pool := worker.NewPool(0, queue.NewInMemoryQueue(), &fakeScorer{}, &fakeRecorder{})
		convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
		convey.So(pool.Wait(context.Background()), convey.ShouldBeNil)
	})
}
