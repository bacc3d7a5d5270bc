// Package scoring grades physical-fitness measurements against the national
// student physical health standard.
package scoring

import (
	"context"
	"fmt"
	"math"

	model "github.com/jigu1688/sporttools-sub000/internal/domain/model"
)

// Score limits and grade thresholds.
const (
	maxCompositeScore = 120
	floorItemScore    = 50

	excellentThreshold = 90
	goodThreshold      = 80
	passThreshold      = 60
)

// Grade levels.
const (
	LevelExcellent = "优秀"
	LevelGood      = "良好"
	LevelPass      = "及格"
	LevelFail      = "不及格"
)

// BMI classifications.
const (
	BMINormal      = "正常"
	BMIUnderweight = "低体重"
	BMIOverweight  = "超重"
	BMIObese       = "肥胖"
)

// Scorer computes a score breakdown from a measurement.
type Scorer interface {
	// Score grades m, honoring ctx for cancellation.
	Score(ctx context.Context, m model.Measurement) (model.ScoreBreakdown, error)
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithItemWeights overrides item weights. Non-positive weights are ignored.
func WithItemWeights(weights map[string]float64) Option {
	return func(e *Engine) {
		for code, w := range weights {
			if _, ok := itemsByCode[code]; ok && w > 0 {
				e.weights[code] = w
			}
		}
	}
}

// Engine grades measurements. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	weights map[string]float64
}

// NewEngine creates an engine with the national weights.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score implements Scorer.
func (e *Engine) Score(ctx context.Context, m model.Measurement) (model.ScoreBreakdown, error) {
	if err := ctx.Err(); err != nil {
		return model.ScoreBreakdown{}, fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	return e.Calculate(m), nil
}

// Calculate grades m. Items that are absent, invalid or have no table row for
// the grade are left out of the weighted average.
func (e *Engine) Calculate(m model.Measurement) model.ScoreBreakdown {
	gender := tableGender(m.Gender)
	res := model.ScoreBreakdown{
		Items:      make(map[string]model.ItemScore),
		BonusItems: make(map[string]model.BonusItem),
	}

	var weighted, totalWeight float64
	add := func(code string, v model.Value, score float64) {
		w := e.weights[code]
		res.Items[code] = model.ItemScore{Value: v, Score: math.Round(score), Valid: true, Weight: w}
		weighted += score * w
		totalWeight += w
	}

	for _, it := range ItemsFor(m.Grade, gender) {
		if it.Code == ItemBMI {
			bmi, ok := bmiResult(m, gender)
			if !ok {
				continue
			}
			res.BMI = &bmi
			if bmi.Score > 0 {
				add(ItemBMI, model.Number(bmi.Value), bmi.Score)
			}
			continue
		}

		v, present := m.Items[it.Code]
		if !present {
			continue
		}
		anchors, ok := lookup(it.Code, m.Grade, gender)
		if !ok {
			continue
		}
		raw, ok := rawValue(it, v)
		if !ok || (raw <= 0 && it.Code != ItemSitAndReach) {
			res.Items[it.Code] = model.ItemScore{Value: v, Weight: e.weights[it.Code]}
			continue
		}
		add(it.Code, v, interpolate(raw, anchors, it.LowerIsBetter))

		if b, ok := bonusFor(it.Code, m.Grade, gender, raw); ok {
			res.BonusItems[it.Code] = b
			res.BonusScore += b.Bonus
		}
	}

	if totalWeight > 0 {
		res.StandardScore = int(math.Round(weighted / totalWeight))
	}
	res.CompositeScore = min(maxCompositeScore, res.StandardScore+res.BonusScore)
	res.GradeLevel = GradeLevel(res.StandardScore)
	return res
}

// GradeLevel maps a standard score to its grade level.
func GradeLevel(standard int) string {
	switch {
	case standard >= excellentThreshold:
		return LevelExcellent
	case standard >= goodThreshold:
		return LevelGood
	case standard >= passThreshold:
		return LevelPass
	}
	return LevelFail
}

// interpolate scores value linearly between the anchors. Values worse than
// the 60 anchor score 50.
func interpolate(value float64, a Anchors, lowerIsBetter bool) float64 {
	if lowerIsBetter {
		switch {
		case value <= a.V100:
			return 100
		case value <= a.V90:
			return 90 + (a.V90-value)/(a.V90-a.V100)*10
		case value <= a.V80:
			return 80 + (a.V80-value)/(a.V80-a.V90)*10
		case value <= a.V60:
			return 60 + (a.V60-value)/(a.V60-a.V80)*20
		}
		return floorItemScore
	}
	switch {
	case value >= a.V100:
		return 100
	case value >= a.V90:
		return 90 + (value-a.V90)/(a.V100-a.V90)*10
	case value >= a.V80:
		return 80 + (value-a.V80)/(a.V90-a.V80)*10
	case value >= a.V60:
		return 60 + (value-a.V60)/(a.V80-a.V60)*20
	}
	return floorItemScore
}

// bmiResult computes and classifies the BMI. Height and weight come from the
// measurement fields, or the height/weight items when those are unset.
func bmiResult(m model.Measurement, gender string) (model.BMIResult, bool) {
	height, weight := m.Height, m.Weight
	if height <= 0 {
		height = numericItem(m, "height")
	}
	if weight <= 0 {
		weight = numericItem(m, "weight")
	}
	if height <= 0 || weight <= 0 {
		return model.BMIResult{}, false
	}
	hm := height / 100
	bmi := weight / (hm * hm)
	if math.IsNaN(bmi) || math.IsInf(bmi, 0) {
		return model.BMIResult{}, false
	}
	res := model.BMIResult{Value: math.Round(bmi*10) / 10}
	band, ok := BMIBandFor(m.Grade, gender)
	if !ok {
		return res, true
	}
	res.Score, res.Classification = classifyBMI(bmi, band)
	return res, true
}

func classifyBMI(bmi float64, b BMIBand) (float64, string) {
	switch {
	case bmi >= b.NormalLow && bmi <= b.NormalHigh:
		return 100, BMINormal
	case bmi < b.Underweight:
		return 80, BMIUnderweight
	case bmi > b.NormalHigh && bmi < b.Obesity:
		return 80, BMIOverweight
	case bmi >= b.Obesity:
		return 60, BMIObese
	}
	return 100, BMINormal
}

func numericItem(m model.Measurement, code string) float64 {
	v, ok := m.Items[code]
	if !ok {
		return 0
	}
	f, ok := numericValue(Item{Code: code}, v.Num)
	if v.IsText || !ok {
		return 0
	}
	return f
}
