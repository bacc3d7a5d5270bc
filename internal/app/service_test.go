package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	service "github.com/jigu1688/sporttools-sub000/internal/app"
	"github.com/jigu1688/sporttools-sub000/internal/domain/model"
	"github.com/jigu1688/sporttools-sub000/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	_ = logger.SetLevelString("error")
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(
			service.WithWorkerCount(2),
			service.WithQueueSize(16),
			service.WithDedupeSize(100),
		)

		Convey("When submitting before Start", func() {
			_, err := svc.Submit(context.Background(), model.Measurement{StudentID: "s1", Grade: "三年级"})
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})

		Convey("When the service is started and stopped", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			started := svc.GetStats()
			svc.Stop()
			svc.Stop()

			Convey("Then the stats follow the state", func() {
				So(started["started"], ShouldEqual, true)
				So(started["worker_count"], ShouldEqual, 2)
				So(started["queue_capacity"], ShouldEqual, 16)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_Score(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service", t, func() {
		svc := service.New()

		Convey("When a measurement is scored synchronously", func() {
			res, err := svc.Score(ctx, model.Measurement{
				StudentID: "s1",
				Grade:     "一年级",
				Gender:    "male",
				Height:    120,
				Weight:    25,
				Items:     map[string]model.Value{"run50m": model.Number(9.4)},
			})

			Convey("Then the breakdown is returned and nothing is stored", func() {
				So(err, ShouldBeNil)
				So(res.Items["run50m"].Score, ShouldEqual, 100)
				So(res.BMI, ShouldNotBeNil)
				So(svc.Scores(ctx, "s1"), ShouldBeEmpty)
			})
		})

		Convey("When the measurement has no student or grade", func() {
			_, err := svc.Score(ctx, model.Measurement{Grade: "一年级"})
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
			_, err = svc.Score(ctx, model.Measurement{StudentID: "s1"})
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When standards are requested", func() {
			list, err := svc.Standards("初一", "女")
			So(err, ShouldBeNil)
			codes := map[string]bool{}
			for _, it := range list {
				codes[it.Code] = true
			}
			So(codes["run800m"], ShouldBeTrue)
			So(codes["pullUps"], ShouldBeFalse)

			_, err = svc.Standards("", "女")
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})
	})
}

func TestService_RecordAndRanking(t *testing.T) {
	ctx := context.Background()

	Convey("Given recorded scores", t, func() {
		svc := service.New(service.WithIDFunc(sequentialIDs()))
		record := func(student string, date string, composite, standard int) {
			err := svc.Record(ctx, model.ScoreRecord{
				Measurement: model.Measurement{StudentID: student, Name: "学生" + student, Grade: "三年级", Gender: "f", TestDate: date},
				Result:      model.ScoreBreakdown{CompositeScore: composite, StandardScore: standard},
			})
			So(err, ShouldBeNil)
		}
		record("s1", "2026-04-01", 90, 90)
		record("s2", "2026-04-01", 95, 88)
		record("s3", "2026-04-01", 90, 90)
		record("s1", "2026-09-01", 70, 70)

		Convey("Then the ranking follows the latest record per student", func() {
			top, err := svc.Ranking(ctx, 10)
			So(err, ShouldBeNil)
			So(top, ShouldHaveLength, 3)
			So(top[0].StudentID, ShouldEqual, "s2")
			So(top[1].StudentID, ShouldEqual, "s3")
			So(top[2].StudentID, ShouldEqual, "s1")
			So(top[2].Gender, ShouldEqual, "女")
		})

		Convey("Then a student's history is listed newest first", func() {
			history := svc.Scores(ctx, "s1")
			So(history, ShouldHaveLength, 2)
			So(history[0].Measurement.TestDate, ShouldEqual, "2026-09-01")
		})

		Convey("When a test date is recorded again", func() {
			before := svc.Scores(ctx, "s1")
			record("s1", "2026-09-01", 75, 75)

			Convey("Then the record of that date is replaced", func() {
				history := svc.Scores(ctx, "s1")
				So(history, ShouldHaveLength, 2)
				So(history[0].ID, ShouldEqual, before[0].ID)
				So(history[0].Result.CompositeScore, ShouldEqual, 75)
				e, err := svc.StudentRank(ctx, "s1")
				So(err, ShouldBeNil)
				So(e.CompositeScore, ShouldEqual, 75)
			})
		})

		Convey("Then unknown students are not found", func() {
			_, err := svc.StudentRank(ctx, "nobody")
			So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)

			e, err := svc.StudentRank(ctx, "s3")
			So(err, ShouldBeNil)
			So(e.Rank, ShouldEqual, 2)
		})
	})
}

func TestService_Catalog(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with a meet and an event", t, func() {
		svc := service.New(service.WithIDFunc(sequentialIDs()))
		meet, err := svc.CreateMeet(ctx, model.SportsMeet{Name: "春季运动会", StartDate: "2026-04-15", EndDate: "2026-04-16"})
		So(err, ShouldBeNil)
		ev, err := svc.SaveEvent(ctx, model.Event{Name: "50米", Type: model.EventTrack})
		So(err, ShouldBeNil)

		Convey("Then defaults are filled in", func() {
			So(meet.ID, ShouldEqual, "id-1")
			So(meet.Status, ShouldEqual, model.MeetPreparing)
			So(svc.Meets(ctx), ShouldHaveLength, 1)
			So(svc.Events(ctx), ShouldHaveLength, 1)
		})

		Convey("When a registration is saved", func() {
			reg, err := svc.SaveRegistration(ctx, model.Registration{
				SportsMeetID: meet.ID, EventID: ev.ID, StudentName: "张三", Gender: "M", Grade: "一年级", ClassName: "1班",
			})

			Convey("Then gender and status are normalized", func() {
				So(err, ShouldBeNil)
				So(reg.Gender, ShouldEqual, "男")
				So(reg.Status, ShouldEqual, model.StatusPending)
				So(svc.Registrations(ctx, model.RegistrationFilter{Gender: "male"}), ShouldHaveLength, 1)
				So(svc.Registrations(ctx, model.RegistrationFilter{Status: model.StatusApproved}), ShouldBeEmpty)
			})
		})

		Convey("When a registration points at a missing event", func() {
			_, err := svc.SaveRegistration(ctx, model.Registration{SportsMeetID: meet.ID, EventID: "nope", StudentName: "李四"})
			So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
		})

		Convey("When invalid catalog items are saved", func() {
			_, err := svc.CreateMeet(ctx, model.SportsMeet{Name: "x", StartDate: "2026-05-02", EndDate: "2026-05-01"})
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
			_, err = svc.SaveEvent(ctx, model.Event{Name: "游泳", Type: "水上"})
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
			_, err = svc.SaveVenue(ctx, model.Venue{Name: "泳池", Type: "pool"})
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
			_, err = svc.SaveReferee(ctx, model.Referee{})
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
			_, err = svc.SaveRegistration(ctx, model.Registration{SportsMeetID: meet.ID, EventID: ev.ID, StudentName: "王五", Status: "unknown"})
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When venues and referees are saved", func() {
			_, err := svc.SaveVenue(ctx, model.Venue{Name: "田径场", Type: model.VenueTrack})
			So(err, ShouldBeNil)
			_, err = svc.SaveReferee(ctx, model.Referee{Name: "张裁判"})
			So(err, ShouldBeNil)
			So(svc.Venues(ctx), ShouldHaveLength, 1)
			So(svc.Referees(ctx), ShouldHaveLength, 1)
		})
	})
}
