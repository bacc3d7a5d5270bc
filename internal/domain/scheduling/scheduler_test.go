package scheduling_test

import (
	"fmt"
	"testing"

	model "github.com/jigu1688/sporttools-sub000/internal/domain/model"
	scheduling "github.com/jigu1688/sporttools-sub000/internal/domain/scheduling"
	. "github.com/smartystreets/goconvey/convey"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("h%d", n)
	}
}

func reg(id, student, event, grade, gender, class string) model.Registration {
	return model.Registration{
		ID:           id,
		SportsMeetID: "m1",
		EventID:      event,
		StudentID:    student,
		StudentName:  "学生" + student,
		ClassName:    class,
		Grade:        grade,
		Gender:       gender,
		Status:       model.StatusApproved,
	}
}

var (
	sprint   = model.Event{ID: "e-sprint", Name: "100米", Type: model.EventTrack}
	longJump = model.Event{ID: "e-jump", Name: "跳远", Type: model.EventField}
	shotPut  = model.Event{ID: "e-shot", Name: "实心球", Type: model.EventField}
	tugOfWar = model.Event{ID: "e-tug", Name: "拔河", Type: model.EventTeam, IsTeamEvent: true}

	track = model.Venue{ID: "v1", Name: "田径场1号跑道", Type: model.VenueTrack}
	pit   = model.Venue{ID: "v2", Name: "沙坑", Type: model.VenueField}
	gym   = model.Venue{ID: "v3", Name: "体育馆", Type: model.VenueCourt}
)

func TestAutoSchedule_Grouping(t *testing.T) {
	Convey("Given two classes entering the sprint", t, func() {
		s := scheduling.New(scheduling.WithIDFunc(sequentialIDs()))
		in := scheduling.Input{
			SportsMeetID: "m1",
			StartDate:    "2026-04-15",
			Events:       []model.Event{sprint},
			Registrations: []model.Registration{
				reg("r1", "s1", sprint.ID, "三年级", "男", "1班"),
				reg("r2", "s2", sprint.ID, "三年级", "male", "1班"),
				reg("r3", "s3", sprint.ID, "三年级", "男", "2班"),
			},
			Venues:   []model.Venue{track, pit},
			Referees: []model.Referee{{ID: "f1", Name: "张裁判"}, {ID: "f2", Name: "李裁判"}},
		}

		Convey("When scheduling", func() {
			res := s.AutoSchedule(in)

			Convey("Then heats follow the largest class", func() {
				So(res.Warning, ShouldBeEmpty)
				So(len(res.Heats), ShouldEqual, 2)
				So(res.Heats[0].GroupCount, ShouldEqual, 2)
				So(res.Heats[0].GroupName, ShouldEqual, "第1组")
				So(res.Heats[1].GroupName, ShouldEqual, "第2组")
			})

			Convey("Then each heat takes one athlete per class", func() {
				first := res.Heats[0].GroupDetails
				So(first.Classes, ShouldResemble, []string{"1班", "2班"})
				So(first.TotalAthletes, ShouldEqual, 2)
				So(first.Athletes[0].ID, ShouldEqual, "r1")
				So(first.Athletes[1].ID, ShouldEqual, "r3")

				second := res.Heats[1].GroupDetails
				So(second.Classes, ShouldResemble, []string{"1班", "2班"})
				So(second.TotalAthletes, ShouldEqual, 1)
				So(second.Athletes[0].ID, ShouldEqual, "r2")
			})

			Convey("Then heats advance by thirty minutes", func() {
				So(res.Heats[0].StartTime, ShouldEqual, "09:00")
				So(res.Heats[0].EndTime, ShouldEqual, "09:30")
				So(res.Heats[1].StartTime, ShouldEqual, "09:30")
				So(res.Heats[1].EndTime, ShouldEqual, "10:00")
			})

			Convey("Then resources are assigned greedily", func() {
				So(res.Heats[0].Venue, ShouldEqual, track.Name)
				So(res.Heats[1].Venue, ShouldEqual, track.Name)
				So(res.Heats[0].Referee, ShouldEqual, "张裁判")
				So(res.Heats[1].Referee, ShouldEqual, "李裁判")
			})

			Convey("Then heats carry the meet, date, status and generated ids", func() {
				h := res.Heats[0]
				So(h.ID, ShouldEqual, "h1")
				So(h.SportsMeetID, ShouldEqual, "m1")
				So(h.EventName, ShouldEqual, "100米")
				So(h.Gender, ShouldEqual, model.GenderMale)
				So(h.Date, ShouldEqual, "2026-04-15")
				So(h.Status, ShouldEqual, model.HeatStatusScheduled)
				So(res.Heats[1].ID, ShouldEqual, "h2")
			})
		})
	})
}

func TestAutoSchedule_Rest(t *testing.T) {
	Convey("Given a student entered in a field and a track event", t, func() {
		s := scheduling.New(scheduling.WithIDFunc(sequentialIDs()))
		in := scheduling.Input{
			SportsMeetID: "m1",
			StartDate:    "2026-04-15",
			Events:       []model.Event{sprint, longJump},
			Registrations: []model.Registration{
				reg("r1", "s1", sprint.ID, "五年级", "男", "1班"),
				reg("r2", "s1", longJump.ID, "五年级", "男", "1班"),
				reg("r3", "s2", sprint.ID, "五年级", "男", "1班"),
			},
			Venues: []model.Venue{track, pit},
		}

		Convey("When scheduling", func() {
			res := s.AutoSchedule(in)

			Convey("Then the field event runs first", func() {
				So(len(res.Heats), ShouldEqual, 3)
				So(res.Heats[0].EventID, ShouldEqual, longJump.ID)
				So(res.Heats[0].StartTime, ShouldEqual, "09:00")
				So(res.Heats[0].Venue, ShouldEqual, pit.Name)
			})

			Convey("Then the sprint heat is pushed back to give sixty minutes rest", func() {
				So(res.Heats[1].EventID, ShouldEqual, sprint.ID)
				So(res.Heats[1].StartTime, ShouldEqual, "10:30")
				So(res.Heats[1].EndTime, ShouldEqual, "11:00")
			})

			Convey("Then a heat without rested athletes keeps its nominal slot", func() {
				So(res.Heats[2].GroupDetails.Athletes[0].StudentID, ShouldEqual, "s2")
				So(res.Heats[2].StartTime, ShouldEqual, "09:30")
			})

			Convey("Then the placeholder referee is used", func() {
				for _, h := range res.Heats {
					So(h.Referee, ShouldEqual, scheduling.DefaultRefereeName)
				}
			})
		})
	})

	Convey("Given a custom rest threshold", t, func() {
		s := scheduling.New(scheduling.WithMinRest(45), scheduling.WithBaseTime(8*60), scheduling.WithHeatMinutes(20))
		res := s.AutoSchedule(scheduling.Input{
			StartDate: "2026-04-15",
			Events:    []model.Event{sprint, longJump},
			Registrations: []model.Registration{
				reg("r1", "s1", sprint.ID, "五年级", "女", "1班"),
				reg("r2", "s1", longJump.ID, "五年级", "女", "1班"),
			},
		})

		Convey("Then the delay follows the configured values", func() {
			So(res.Heats[0].StartTime, ShouldEqual, "08:00")
			So(res.Heats[0].EndTime, ShouldEqual, "08:20")
			So(res.Heats[1].StartTime, ShouldEqual, "09:05")
		})
	})
}

func TestAutoSchedule_Ordering(t *testing.T) {
	Convey("Given registrations across grades, events and genders", t, func() {
		s := scheduling.New()
		in := scheduling.Input{
			SportsMeetID: "m1",
			StartDate:    "2026-04-15",
			Events:       []model.Event{tugOfWar, sprint, longJump, shotPut},
			Registrations: []model.Registration{
				reg("r1", "s1", sprint.ID, "二年级", "女", "1班"),
				reg("r2", "s2", sprint.ID, "二年级", "男", "1班"),
				reg("r3", "s3", longJump.ID, "一年级", "female", "1班"),
				reg("r4", "s4", tugOfWar.ID, "一年级", "男", "1班"),
				reg("r5", "s5", shotPut.ID, "一年级", "男", "1班"),
			},
			Venues: []model.Venue{gym},
		}
		res := s.AutoSchedule(in)

		Convey("Then heats are ordered by grade, event type, name and gender", func() {
			So(len(res.Heats), ShouldEqual, 5)
			order := make([]string, 0, len(res.Heats))
			for _, h := range res.Heats {
				order = append(order, h.Grade+"/"+h.EventName+"/"+h.Gender)
			}
			So(order, ShouldResemble, []string{
				"一年级/实心球/男",
				"一年级/跳远/女",
				"一年级/拔河/男",
				"二年级/100米/男",
				"二年级/100米/女",
			})
		})

		Convey("Then the court hosts every event type", func() {
			for _, h := range res.Heats {
				So(h.Venue, ShouldEqual, gym.Name)
			}
		})
	})
}

func TestAutoSchedule_Degradation(t *testing.T) {
	Convey("Given scheduling inputs that are incomplete", t, func() {
		s := scheduling.New()

		Convey("When there are no registrations", func() {
			res := s.AutoSchedule(scheduling.Input{Events: []model.Event{sprint}})

			Convey("Then an empty result carries a warning", func() {
				So(res.Heats, ShouldNotBeNil)
				So(res.Heats, ShouldBeEmpty)
				So(res.Warning, ShouldEqual, scheduling.WarningNoHeats)
			})
		})

		Convey("When registrations are unapproved or for another meet", func() {
			pending := reg("r1", "s1", sprint.ID, "一年级", "男", "1班")
			pending.Status = model.StatusPending
			other := reg("r2", "s2", sprint.ID, "一年级", "男", "1班")
			other.SportsMeetID = "m2"
			res := s.AutoSchedule(scheduling.Input{
				SportsMeetID:  "m1",
				Events:        []model.Event{sprint},
				Registrations: []model.Registration{pending, other},
			})

			Convey("Then nothing is scheduled", func() {
				So(res.Heats, ShouldBeEmpty)
				So(res.Warning, ShouldNotBeEmpty)
			})
		})

		Convey("When a registration names an unknown event", func() {
			res := s.AutoSchedule(scheduling.Input{
				Events:        []model.Event{sprint},
				Registrations: []model.Registration{reg("r1", "s1", "missing", "一年级", "男", "1班")},
			})
			So(res.Heats, ShouldBeEmpty)
		})

		Convey("When there are no venues", func() {
			res := s.AutoSchedule(scheduling.Input{
				Events:        []model.Event{sprint},
				Registrations: []model.Registration{reg("r1", "s1", sprint.ID, "一年级", "男", "1班")},
			})

			Convey("Then placeholders are used", func() {
				So(res.Heats[0].Venue, ShouldEqual, scheduling.DefaultVenueName)
				So(res.Heats[0].Referee, ShouldEqual, scheduling.DefaultRefereeName)
			})
		})

		Convey("When no venue suits the event type", func() {
			res := s.AutoSchedule(scheduling.Input{
				Events:        []model.Event{sprint},
				Registrations: []model.Registration{reg("r1", "s1", sprint.ID, "一年级", "男", "1班")},
				Venues:        []model.Venue{pit},
			})

			Convey("Then the first venue is used", func() {
				So(res.Heats[0].Venue, ShouldEqual, pit.Name)
			})
		})

		Convey("When the placeholder names are configured", func() {
			res := scheduling.New(scheduling.WithDefaultReferee("待定"), scheduling.WithDefaultVenue("待定场地")).AutoSchedule(scheduling.Input{
				Events:        []model.Event{sprint},
				Registrations: []model.Registration{reg("r1", "s1", sprint.ID, "一年级", "男", "1班")},
			})
			So(res.Heats[0].Referee, ShouldEqual, "待定")
			So(res.Heats[0].Venue, ShouldEqual, "待定场地")
		})
	})
}

func TestRoster(t *testing.T) {
	Convey("Given registrations for a manually placed heat", t, func() {
		pending := reg("r3", "s3", sprint.ID, "一年级", "男", "3班")
		pending.Status = model.StatusPending
		regs := []model.Registration{
			reg("r1", "s1", sprint.ID, "一年级", "男", "2班"),
			reg("r2", "s2", sprint.ID, "一年级", "男", "1班"),
			pending,
			reg("r4", "s4", longJump.ID, "一年级", "男", "1班"),
		}

		Convey("Then approved registrations of the event are grouped by class", func() {
			d := scheduling.Roster(model.ScheduledHeat{SportsMeetID: "m1", EventID: sprint.ID}, regs)
			So(d.Classes, ShouldResemble, []string{"1班", "2班"})
			So(d.TotalAthletes, ShouldEqual, 2)
		})

		Convey("Then the heat gender narrows the roster", func() {
			d := scheduling.Roster(model.ScheduledHeat{SportsMeetID: "m1", EventID: sprint.ID, Gender: "女"}, regs)
			So(d.TotalAthletes, ShouldEqual, 0)
			So(d.Athletes, ShouldNotBeNil)
		})
	})
}

func TestClock(t *testing.T) {
	Convey("Given clock strings", t, func() {
		m, err := scheduling.ParseClock("09:05")
		So(err, ShouldBeNil)
		So(m, ShouldEqual, 545)

		m, err = scheduling.ParseClock("25:00")
		So(err, ShouldBeNil)
		So(scheduling.FormatClock(m), ShouldEqual, "25:00")

		for _, bad := range []string{"", "9", "9:60", "aa:10", "-1:00"} {
			_, err := scheduling.ParseClock(bad)
			So(err, ShouldNotBeNil)
		}
		So(scheduling.FormatClock(9*60), ShouldEqual, "09:00")
	})
}
