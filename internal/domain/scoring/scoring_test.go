package scoring_test

import (
	"context"
	"errors"
	"math"
	"testing"

	model "github.com/jigu1688/sporttools-sub000/internal/domain/model"
	scoring "github.com/jigu1688/sporttools-sub000/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func measurement(grade, gender string, items map[string]model.Value) model.Measurement {
	return model.Measurement{StudentID: "s1", Grade: grade, Gender: gender, Items: items}
}

func TestEngine_Calculate(t *testing.T) {
	Convey("Given a scoring engine with national weights", t, func() {
		engine := scoring.NewEngine()

		Convey("When a first grader is 120cm and 25kg", func() {
			m := measurement("一年级", "男", nil)
			m.Height, m.Weight = 120, 25
			res := engine.Calculate(m)

			Convey("Then the BMI is normal and scores 100", func() {
				So(res.BMI, ShouldNotBeNil)
				So(res.BMI.Value, ShouldEqual, 17.4)
				So(res.BMI.Score, ShouldEqual, 100)
				So(res.BMI.Classification, ShouldEqual, scoring.BMINormal)
				So(res.StandardScore, ShouldEqual, 100)
			})
		})

		Convey("When height and weight arrive as items", func() {
			m := measurement("一年级", "male", map[string]model.Value{
				"height": model.Number(120), "weight": model.Number(35),
			})
			res := engine.Calculate(m)

			Convey("Then they are used for the BMI", func() {
				So(res.BMI, ShouldNotBeNil)
				So(res.BMI.Classification, ShouldEqual, scoring.BMIObese)
				So(res.BMI.Score, ShouldEqual, 60)
			})
		})

		Convey("When run50m equals the 100 anchor", func() {
			res := engine.Calculate(measurement("一年级", "男", map[string]model.Value{"run50m": model.Number(9.4)}))

			Convey("Then the item scores exactly 100", func() {
				So(res.Items["run50m"].Score, ShouldEqual, 100)
				So(res.Items["run50m"].Valid, ShouldBeTrue)
			})
		})

		Convey("When run50m equals the 60 anchor", func() {
			res := engine.Calculate(measurement("一年级", "男", map[string]model.Value{"run50m": model.Number(12.6)}))

			Convey("Then the item scores exactly 60", func() {
				So(res.Items["run50m"].Score, ShouldEqual, 60)
			})
		})

		Convey("When run50m falls between the 100 and 90 anchors", func() {
			res := engine.Calculate(measurement("一年级", "男", map[string]model.Value{"run50m": model.Number(9.8)}))

			Convey("Then the score is interpolated", func() {
				So(res.Items["run50m"].Score, ShouldEqual, 95)
			})
		})

		Convey("When a result is worse than the 60 anchor", func() {
			res := engine.Calculate(measurement("一年级", "男", map[string]model.Value{"ropeSkipping": model.Number(5)}))

			Convey("Then the item floors at 50", func() {
				So(res.Items["ropeSkipping"].Score, ShouldEqual, 50)
				So(res.StandardScore, ShouldEqual, 50)
			})
		})

		Convey("When a first grader skips rope 150 times", func() {
			m := measurement("一年级", "男", map[string]model.Value{
				"run50m":       model.Number(9.4),
				"ropeSkipping": model.Number(150),
			})
			m.Height, m.Weight = 120, 25
			res := engine.Calculate(m)

			Convey("Then the rope skipping bonus is capped at 20", func() {
				So(res.BonusItems["ropeSkipping"].Base100, ShouldEqual, 109)
				So(res.BonusItems["ropeSkipping"].Bonus, ShouldEqual, 20)
				So(res.BonusScore, ShouldEqual, 20)
			})

			Convey("Then the composite score is capped at 120", func() {
				So(res.StandardScore, ShouldEqual, 100)
				So(res.CompositeScore, ShouldEqual, 120)
				So(res.GradeLevel, ShouldEqual, scoring.LevelExcellent)
			})
		})

		Convey("When a bonus lifts a failing standard score", func() {
			res := engine.Calculate(measurement("初一", "女", map[string]model.Value{
				"sitUps":        model.Number(65),
				"run50m":        model.Number(12),
				"vitalCapacity": model.Number(1000),
				"sitAndReach":   model.Number(-5),
			}))

			Convey("Then the grade level still follows the standard score", func() {
				So(res.StandardScore, ShouldEqual, 59)
				So(res.BonusItems["sitUps"].Bonus, ShouldEqual, 10)
				So(res.CompositeScore, ShouldEqual, 69)
				So(res.GradeLevel, ShouldEqual, scoring.LevelFail)
			})
		})

		Convey("When a middle school boy runs 1000m", func() {
			Convey("Then 3.45 is read as 3 minutes 45 seconds", func() {
				res := engine.Calculate(measurement("初一", "男", map[string]model.Value{"run1000m": model.Number(3.45)}))
				So(res.Items["run1000m"].Score, ShouldEqual, 99)
				So(res.BonusItems["run1000m"].Value, ShouldEqual, 225)
				So(res.BonusItems["run1000m"].Bonus, ShouldEqual, 2)
			})

			Convey("Then a minutes.seconds value with 60 or more seconds is invalid", func() {
				res := engine.Calculate(measurement("初一", "男", map[string]model.Value{"run1000m": model.Number(3.75)}))
				So(res.Items["run1000m"].Valid, ShouldBeFalse)
				So(res.Items["run1000m"].Score, ShouldEqual, 0)
				So(res.StandardScore, ShouldEqual, 0)
			})

			Convey("Then a time string is parsed and graded", func() {
				res := engine.Calculate(measurement("初一", "男", map[string]model.Value{"run1000m": model.Text("3'30\"")}))
				So(res.Items["run1000m"].Score, ShouldEqual, 100)
				So(res.BonusItems["run1000m"].Bonus, ShouldEqual, 6)
			})

			Convey("Then plain seconds are taken as is", func() {
				res := engine.Calculate(measurement("初一", "男", map[string]model.Value{"run1000m": model.Number(330)}))
				So(res.Items["run1000m"].Score, ShouldEqual, 60)
				So(res.BonusItems, ShouldBeEmpty)
			})
		})

		Convey("When a middle school boy does 20 pull-ups", func() {
			res := engine.Calculate(measurement("初一", "男", map[string]model.Value{"pullUps": model.Number(20)}))

			Convey("Then the bonus counts reps above the bonus base", func() {
				So(res.Items["pullUps"].Score, ShouldEqual, 100)
				So(res.BonusItems["pullUps"].Base100, ShouldEqual, 13)
				So(res.BonusItems["pullUps"].Bonus, ShouldEqual, 7)
			})
		})

		Convey("When a middle school girl runs 800m in three minutes", func() {
			res := engine.Calculate(measurement("初一", "女", map[string]model.Value{"run800m": model.Text("3:00")}))

			Convey("Then the highest satisfied tier wins", func() {
				So(res.BonusItems["run800m"].Base100, ShouldEqual, 203)
				So(res.BonusItems["run800m"].Bonus, ShouldEqual, 4)
			})
		})

		Convey("When the grade is unknown", func() {
			res := engine.Calculate(measurement("幼儿园", "男", map[string]model.Value{"run50m": model.Number(8)}))

			Convey("Then items without a table row are skipped", func() {
				So(res.Items, ShouldBeEmpty)
				So(res.StandardScore, ShouldEqual, 0)
				So(res.GradeLevel, ShouldEqual, scoring.LevelFail)
			})
		})

		Convey("When an item is recorded as zero", func() {
			res := engine.Calculate(measurement("一年级", "男", map[string]model.Value{
				"run50m":      model.Number(0),
				"sitAndReach": model.Number(0),
			}))

			Convey("Then only sit-and-reach accepts zero", func() {
				So(res.Items["run50m"].Valid, ShouldBeFalse)
				So(res.Items["sitAndReach"].Valid, ShouldBeTrue)
				So(res.Items["sitAndReach"].Score, ShouldEqual, 50)
				So(res.StandardScore, ShouldEqual, 50)
			})
		})

		Convey("When a value is NaN", func() {
			res := engine.Calculate(measurement("一年级", "男", map[string]model.Value{"run50m": model.Number(math.NaN())}))

			Convey("Then it is excluded from the aggregate", func() {
				So(res.Items["run50m"].Valid, ShouldBeFalse)
				So(res.StandardScore, ShouldEqual, 0)
			})
		})

		Convey("When an item does not apply to the grade", func() {
			res := engine.Calculate(measurement("一年级", "男", map[string]model.Value{"pullUps": model.Number(10)}))

			Convey("Then it is ignored", func() {
				So(res.Items, ShouldNotContainKey, "pullUps")
			})
		})
	})
}

func TestEngine_Weights(t *testing.T) {
	Convey("Given a measurement with a fast sprint and weak lungs", t, func() {
		m := measurement("一年级", "男", map[string]model.Value{
			"run50m":        model.Number(9.4),
			"vitalCapacity": model.Number(800),
		})

		Convey("When scored with national weights", func() {
			res := scoring.NewEngine().Calculate(m)
			So(res.StandardScore, ShouldEqual, 79)
		})

		Convey("When run50m weight is raised", func() {
			res := scoring.NewEngine(scoring.WithItemWeights(map[string]float64{"run50m": 60, "unknown": 5, "sitUps": -1})).Calculate(m)
			So(res.StandardScore, ShouldEqual, 90)
			So(res.Items["run50m"].Weight, ShouldEqual, 60)
		})
	})
}

func TestEngine_Score(t *testing.T) {
	Convey("Given a canceled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("When scoring", func() {
			_, err := scoring.NewEngine().Score(ctx, measurement("初一", "男", nil))

			Convey("Then the cancellation is reported", func() {
				So(errors.Is(err, scoring.ErrCanceled), ShouldBeTrue)
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestParseSeconds(t *testing.T) {
	Convey("Given time strings in the accepted notations", t, func() {
		cases := map[string]float64{
			"3'45":    225,
			"3'45\"":  225,
			"3\"45\"": 225,
			"3′45″":   225,
			"3:45.5":  225.5,
			"3分45秒":   225,
			"225":     225,
			" 9.8 ":   9.8,
		}
		for in, want := range cases {
			got, err := scoring.ParseSeconds(in)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, want)
		}
	})

	Convey("Given malformed time strings", t, func() {
		for _, in := range []string{"", "abc", "3'75", "3:"} {
			_, err := scoring.ParseSeconds(in)
			So(errors.Is(err, scoring.ErrInvalidTime), ShouldBeTrue)
		}
	})
}

func TestItemsFor(t *testing.T) {
	Convey("Given grades and genders", t, func() {
		codes := func(list []scoring.Item) []string {
			out := make([]string, 0, len(list))
			for _, it := range list {
				out = append(out, it.Code)
			}
			return out
		}

		Convey("Then first graders test rope skipping but not sit-ups", func() {
			So(codes(scoring.ItemsFor("一年级", "女")), ShouldResemble,
				[]string{"bmi", "vitalCapacity", "run50m", "sitAndReach", "ropeSkipping"})
		})

		Convey("Then fifth graders add sit-ups and the shuttle run", func() {
			So(codes(scoring.ItemsFor("五年级", "男")), ShouldResemble,
				[]string{"bmi", "vitalCapacity", "run50m", "sitAndReach", "ropeSkipping", "sitUps", "run50m8x"})
		})

		Convey("Then secondary items depend on gender", func() {
			So(codes(scoring.ItemsFor("高二", "男")), ShouldContain, "pullUps")
			So(codes(scoring.ItemsFor("高二", "男")), ShouldContain, "run1000m")
			So(codes(scoring.ItemsFor("高二", "女")), ShouldContain, "sitUps")
			So(codes(scoring.ItemsFor("高二", "女")), ShouldContain, "run800m")
		})

		Convey("Then an unknown grade gets the secondary set", func() {
			So(codes(scoring.ItemsFor("研一", "男")), ShouldResemble, codes(scoring.ItemsFor("初一", "男")))
			So(scoring.StageOf("研一"), ShouldEqual, scoring.StageUnknown)
		})

		Convey("Then standards carry anchors for known rows", func() {
			list := scoring.StandardsFor("初一", "male")
			So(len(list), ShouldEqual, 7)
			So(list[0].BMI, ShouldNotBeNil)
			So(list[1].Anchors.V100, ShouldEqual, 3500)
			So(scoring.StandardsFor("研一", "男")[1].Anchors, ShouldBeNil)
		})
	})
}

func TestGradeLevel(t *testing.T) {
	Convey("Given standard scores on the thresholds", t, func() {
		So(scoring.GradeLevel(90), ShouldEqual, scoring.LevelExcellent)
		So(scoring.GradeLevel(89), ShouldEqual, scoring.LevelGood)
		So(scoring.GradeLevel(80), ShouldEqual, scoring.LevelGood)
		So(scoring.GradeLevel(60), ShouldEqual, scoring.LevelPass)
		So(scoring.GradeLevel(59), ShouldEqual, scoring.LevelFail)
	})
}
