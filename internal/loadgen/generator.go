// Package loadgen generates realistic fitness measurements and drives them
// through a running server.
package loadgen

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/jigu1688/sporttools-sub000/internal/domain/model"
	"github.com/jigu1688/sporttools-sub000/internal/domain/scoring"
)

// Body size ranges.
const (
	minHeightCM = 115.0
	heightRange = 70.0
	minBMI      = 14.0
	bmiRange    = 14.0
)

// Values below the pass mark and above full marks are both generated.
const (
	belowPass  = 0.2
	valueRange = 1.4
)

var genders = []string{model.GenderMale, model.GenderFemale} //nolint:gochecknoglobals

// Generator produces measurements from a seeded source.
type Generator struct {
	rng    *rand.Rand
	grades []string
	date   string
}

// NewGenerator returns a generator for the given seed. testDate is stamped on
// every measurement.
func NewGenerator(seed uint64, testDate string) *Generator {
	return &Generator{
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), //nolint:gosec // test data
		grades: scoring.Grades(),
		date:   testDate,
	}
}

// Generate returns n measurements for distinct students.
func (g *Generator) Generate(n int) []model.Measurement {
	out := make([]model.Measurement, n)
	for i := range n {
		out[i] = g.one(i)
	}
	return out
}

func (g *Generator) one(i int) model.Measurement {
	grade := g.grades[g.rng.IntN(len(g.grades))]
	gender := genders[g.rng.IntN(len(genders))]

	height := minHeightCM + g.rng.Float64()*heightRange
	bmi := minBMI + g.rng.Float64()*bmiRange
	weight := bmi * (height / 100) * (height / 100)

	m := model.Measurement{
		ID:        fmt.Sprintf("load-%06d", i),
		StudentID: fmt.Sprintf("S%06d", i),
		Name:      fmt.Sprintf("学生%d", i),
		ClassName: fmt.Sprintf("%d班", 1+g.rng.IntN(8)),
		Grade:     grade,
		Gender:    gender,
		Height:    round1(height),
		Weight:    round1(weight),
		TestDate:  g.date,
		Items:     map[string]model.Value{},
	}
	for _, std := range scoring.StandardsFor(grade, gender) {
		if std.Anchors == nil {
			continue
		}
		m.Items[std.Code] = g.value(std)
	}
	return m
}

// value draws a raw result around the item's scoring anchors. Endurance runs
// are written as m'ss strings.
func (g *Generator) value(std scoring.ItemStandard) model.Value {
	a := std.Anchors
	spread := a.V100 - a.V60
	v := a.V60 - belowPass*spread + g.rng.Float64()*valueRange*spread
	v = math.Max(v, 0)

	switch std.Unit {
	case "个", "ml":
		return model.Number(math.Round(v))
	case "s":
		if v >= 60 {
			secs := int(math.Round(v))
			return model.Text(fmt.Sprintf("%d'%02d", secs/60, secs%60))
		}
	}
	return model.Number(round1(v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
