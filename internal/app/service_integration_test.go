package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	eventqueue "github.com/jigu1688/sporttools-sub000/internal/adapters/mq/queue"
	service "github.com/jigu1688/sporttools-sub000/internal/app"
	"github.com/jigu1688/sporttools-sub000/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestService_SubmitPipeline(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithWorkerCount(4), service.WithQueueSize(64))
		So(svc.Start(ctx), ShouldBeNil)
		Reset(svc.Stop)

		Convey("When measurements are submitted", func() {
			for i := range 10 {
				res, err := svc.Submit(ctx, model.Measurement{
					ID:        fmt.Sprintf("m%d", i),
					StudentID: fmt.Sprintf("s%d", i),
					Grade:     "一年级",
					Gender:    "男",
					Items:     map[string]model.Value{"run50m": model.Number(9.4 + float64(i)*0.3)},
				})
				So(err, ShouldBeNil)
				So(res.Duplicate, ShouldBeFalse)
			}

			Convey("Then workers score them into the ranking", func() {
				So(waitFor(func() bool {
					top, _ := svc.Ranking(ctx, 100)
					return len(top) == 10
				}), ShouldBeTrue)
				top, _ := svc.Ranking(ctx, 3)
				So(top[0].StudentID, ShouldEqual, "s0")
				So(top[0].Rank, ShouldEqual, 1)
				So(svc.Scores(ctx, "s0"), ShouldHaveLength, 1)
			})

			Convey("And a repeated id is reported as a duplicate", func() {
				res, err := svc.Submit(ctx, model.Measurement{ID: "m3", StudentID: "s3", Grade: "一年级"})
				So(err, ShouldBeNil)
				So(res.Duplicate, ShouldBeTrue)
			})
		})

		Convey("When a measurement has no id", func() {
			res, err := svc.Submit(ctx, model.Measurement{StudentID: "s1", Grade: "二年级"})

			Convey("Then one is assigned", func() {
				So(err, ShouldBeNil)
				So(res.ID, ShouldNotBeEmpty)
			})
		})
	})

	Convey("Given a stopped service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithWorkerCount(1), service.WithQueueSize(1))
		So(svc.Start(ctx), ShouldBeNil)
		svc.Stop()

		Convey("Then submissions are refused", func() {
			_, err := svc.Submit(ctx, model.Measurement{StudentID: "s1", Grade: "一年级"})
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})

	Convey("Given queue errors", t, func() {
		So(service.IsBackpressure(fmt.Errorf("submit m1: %w", eventqueue.ErrQueueFull)), ShouldBeTrue)
		So(service.IsBackpressure(eventqueue.ErrQueueClosed), ShouldBeTrue)
		So(service.IsBackpressure(service.ErrInvalidInput), ShouldBeFalse)
	})
}
