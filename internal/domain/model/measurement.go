package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Value is a raw measurement: either a number or a time string such as
// "3'45" for endurance runs.
type Value struct {
	Num    float64
	Text   string
	IsText bool
}

// Number returns a numeric Value.
func Number(v float64) Value { return Value{Num: v} }

// Text returns a textual Value.
func Text(s string) Value { return Value{Text: s, IsText: true} }

// String renders the value the way it was entered.
func (v Value) String() string {
	if v.IsText {
		return v.Text
	}
	return strconv.FormatFloat(v.Num, 'f', -1, 64)
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsText {
		return json.Marshal(v.Text)
	}
	return json.Marshal(v.Num)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode text value: %w", err)
		}
		*v = Text(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("decode numeric value: %w", err)
	}
	*v = Number(f)
	return nil
}

// Measurement is one student's raw physical-fitness test results. Height is
// in cm and weight in kg; Items maps item codes to raw values.
type Measurement struct {
	ID        string           `json:"id,omitempty"`
	StudentID string           `json:"studentId"`
	Name      string           `json:"name,omitempty"`
	ClassName string           `json:"className,omitempty"`
	Grade     string           `json:"grade"`
	Gender    string           `json:"gender"`
	Height    float64          `json:"height,omitempty"`
	Weight    float64          `json:"weight,omitempty"`
	Items     map[string]Value `json:"items"`
	TestDate  string           `json:"testDate,omitempty"`
}

// ItemScore is the scored value of one test item.
type ItemScore struct {
	Value  Value   `json:"value"`
	Score  float64 `json:"score"`
	Valid  bool    `json:"valid"`
	Weight float64 `json:"weight"`
}

// BMIResult is the BMI reading and its classification.
type BMIResult struct {
	Value          float64 `json:"value"`
	Score          float64 `json:"score"`
	Classification string  `json:"classification"`
}

// BonusItem is the extra credit earned on one item.
type BonusItem struct {
	Value   float64 `json:"value"`
	Base100 float64 `json:"base100"`
	Bonus   int     `json:"bonus"`
}

// ScoreBreakdown is the full scoring result for one measurement.
type ScoreBreakdown struct {
	Items          map[string]ItemScore `json:"items"`
	BMI            *BMIResult           `json:"bmi,omitempty"`
	BonusItems     map[string]BonusItem `json:"bonusItems"`
	StandardScore  int                  `json:"standardScore"`
	BonusScore     int                  `json:"bonusScore"`
	CompositeScore int                  `json:"compositeScore"`
	GradeLevel     string               `json:"gradeLevel"`
}

// ScoreRecord is a stored scoring result.
type ScoreRecord struct {
	ID          string         `json:"id"`
	Measurement Measurement    `json:"measurement"`
	Result      ScoreBreakdown `json:"result"`
	ScoredAt    time.Time      `json:"scoredAt"`
}
