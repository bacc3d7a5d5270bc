package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	model "github.com/jigu1688/sporttools-sub000/internal/domain/model"
)

// enduranceMinutesBelow is the limit under which a plain number entered for an
// endurance run is read as minutes.seconds (3.45 is 3'45").
const enduranceMinutesBelow = 20

var clockPattern = regexp.MustCompile(`^(\d+)\s*(?:'|′|’|"|″|”|:|：|分)\s*(\d+(?:\.\d+)?)\s*(?:"|″|”|''|秒)?$`)

// ParseSeconds converts a time string to seconds. It accepts a bare number,
// M'SS, M"SS", M′SS″, M:SS[.f] and M分SS秒.
func ParseSeconds(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidTime)
	}
	if m := clockPattern.FindStringSubmatch(s); m != nil {
		minutes, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		seconds, err := strconv.ParseFloat(m[2], 64)
		if err != nil || seconds >= 60 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		return minutes*60 + seconds, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "秒"), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return f, nil
}

// minutesDotSeconds reads 3.45 as 3 minutes 45 seconds.
func minutesDotSeconds(f float64) (float64, bool) {
	minutes := math.Floor(f)
	secs := math.Round((f - minutes) * 100)
	if secs >= 60 {
		return 0, false
	}
	return minutes*60 + secs, true
}

// rawValue converts a measurement value to the item's native unit.
func rawValue(it Item, v model.Value) (float64, bool) {
	if v.IsText {
		if it.endurance {
			text := strings.TrimSpace(v.Text)
			if f, err := strconv.ParseFloat(text, 64); err == nil {
				return numericValue(it, f)
			}
			sec, err := ParseSeconds(text)
			if err != nil {
				return 0, false
			}
			return sec, true
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		if err != nil {
			return 0, false
		}
		return numericValue(it, f)
	}
	return numericValue(it, v.Num)
}

func numericValue(it Item, f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if it.endurance && f > 0 && f < enduranceMinutesBelow {
		return minutesDotSeconds(f)
	}
	return f, true
}
