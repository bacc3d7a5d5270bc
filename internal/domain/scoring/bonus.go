package scoring

import (
	"math"

	model "github.com/jigu1688/sporttools-sub000/internal/domain/model"
)

// Bonus caps.
const (
	ropeSkippingBonusCap = 20
	secondaryBonusCap    = 10
	ropeSkippingPerBonus = 2
	sitUpsBonusBase100   = 52
)

// tier grants bonus points once the excess reaches the threshold.
type tier struct {
	excess float64
	bonus  int
}

// Tiers are ordered from the highest bonus down.
var (
	sitUpsTiers = []tier{
		{13, 10}, {12, 9}, {11, 8}, {10, 7}, {9, 6}, {8, 5}, {7, 4}, {6, 3}, {4, 2}, {2, 1},
	}
	run1000mTiers = []tier{
		{35, 10}, {32, 9}, {29, 8}, {26, 7}, {23, 6}, {20, 5}, {16, 4}, {12, 3}, {8, 2}, {4, 1},
	}
	run800mTiers = []tier{
		{50, 10}, {45, 9}, {40, 8}, {35, 7}, {30, 6}, {25, 5}, {20, 4}, {15, 3}, {10, 2}, {5, 1},
	}
)

// pullUpsBonusBase is the repetition count above which male pull-ups earn bonus.
var pullUpsBonusBase = map[string]float64{
	"初一": 13, "初二": 14, "初三": 15,
	"高一": 16, "高二": 17, "高三": 18,
	"大一": 19, "大二": 19, "大三": 20, "大四": 20,
}

var run1000mBonusBase = map[string]float64{
	"初一": 235, "初二": 230, "初三": 225,
	"高一": 220, "高二": 215, "高三": 210,
	"大一": 207, "大二": 207, "大三": 212, "大四": 212,
}

var run800mBonusBase = map[string]float64{
	"初一": 203, "初二": 203, "初三": 203,
	"高一": 201, "高二": 200, "高三": 199,
	"大一": 196, "大二": 196, "大三": 201, "大四": 201,
}

func highestTier(excess float64, tiers []tier) int {
	for _, t := range tiers {
		if excess >= t.excess {
			return t.bonus
		}
	}
	return 0
}

// bonusFor returns the bonus earned on one item, or false when the item is
// not bonus eligible for the grade and gender.
func bonusFor(code, grade, gender string, v float64) (model.BonusItem, bool) {
	var base float64
	var bonus int
	switch {
	case code == ItemRopeSkipping && isElementary(grade):
		a, ok := lookup(ItemRopeSkipping, grade, gender)
		if !ok || v <= a.V100 {
			return model.BonusItem{}, false
		}
		base = a.V100
		bonus = min(ropeSkippingBonusCap, int(math.Floor((v-base)/ropeSkippingPerBonus)))
	case code == ItemPullUps && gender == male && isSecondaryOrAbove(grade):
		b, ok := pullUpsBonusBase[grade]
		if !ok || v <= b {
			return model.BonusItem{}, false
		}
		base = b
		bonus = min(secondaryBonusCap, int(math.Floor(v-base)))
	case code == ItemSitUps && gender == female && isSecondaryOrAbove(grade):
		base = sitUpsBonusBase100
		if v <= base {
			return model.BonusItem{}, false
		}
		bonus = highestTier(v-base, sitUpsTiers)
	case code == ItemRun1000m && gender == male && isSecondaryOrAbove(grade):
		b, ok := run1000mBonusBase[grade]
		if !ok || v >= b {
			return model.BonusItem{}, false
		}
		base = b
		bonus = highestTier(base-v, run1000mTiers)
	case code == ItemRun800m && gender == female && isSecondaryOrAbove(grade):
		b, ok := run800mBonusBase[grade]
		if !ok || v >= b {
			return model.BonusItem{}, false
		}
		base = b
		bonus = highestTier(base-v, run800mTiers)
	default:
		return model.BonusItem{}, false
	}
	if bonus <= 0 {
		return model.BonusItem{}, false
	}
	return model.BonusItem{Value: v, Base100: base, Bonus: bonus}, true
}
