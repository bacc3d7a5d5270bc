package scoring

import "slices"

// Item codes.
const (
	ItemBMI              = "bmi"
	ItemVitalCapacity    = "vitalCapacity"
	ItemRun50m           = "run50m"
	ItemSitAndReach      = "sitAndReach"
	ItemRopeSkipping     = "ropeSkipping"
	ItemSitUps           = "sitUps"
	ItemRun50m8x         = "run50m8x"
	ItemStandingLongJump = "standingLongJump"
	ItemPullUps          = "pullUps"
	ItemRun1000m         = "run1000m"
	ItemRun800m          = "run800m"
)

// Item describes one test item.
type Item struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Unit          string  `json:"unit"`
	Weight        float64 `json:"weight"`
	LowerIsBetter bool    `json:"lowerIsBetter"`

	// endurance items accept minute:second strings.
	endurance bool
	table     table
}

var items = []Item{
	{Code: ItemBMI, Name: "体重指数(BMI)", Unit: "kg/m²", Weight: 15},
	{Code: ItemVitalCapacity, Name: "肺活量", Unit: "ml", Weight: 15, table: vitalCapacityStandards},
	{Code: ItemRun50m, Name: "50米跑", Unit: "s", Weight: 20, LowerIsBetter: true, table: run50mStandards},
	{Code: ItemSitAndReach, Name: "坐位体前屈", Unit: "cm", Weight: 10, table: sitAndReachStandards},
	{Code: ItemRopeSkipping, Name: "一分钟跳绳", Unit: "个", Weight: 20, table: ropeSkippingStandards},
	{Code: ItemSitUps, Name: "一分钟仰卧起坐", Unit: "个", Weight: 10, table: sitUpsStandards},
	{Code: ItemRun50m8x, Name: "50米×8往返跑", Unit: "s", Weight: 20, LowerIsBetter: true, endurance: true, table: run50m8xStandards},
	{Code: ItemStandingLongJump, Name: "立定跳远", Unit: "cm", Weight: 10, table: standingLongJumpStandards},
	{Code: ItemPullUps, Name: "引体向上", Unit: "个", Weight: 10, table: pullUpsStandards},
	{Code: ItemRun1000m, Name: "1000米跑", Unit: "s", Weight: 20, LowerIsBetter: true, endurance: true, table: run1000mStandards},
	{Code: ItemRun800m, Name: "800米跑", Unit: "s", Weight: 20, LowerIsBetter: true, endurance: true, table: run800mStandards},
}

var itemsByCode = func() map[string]Item {
	m := make(map[string]Item, len(items))
	for _, it := range items {
		m[it.Code] = it
	}
	return m
}()

// DefaultWeights returns the item weights of the national standard.
func DefaultWeights() map[string]float64 {
	w := make(map[string]float64, len(items))
	for _, it := range items {
		w[it.Code] = it.Weight
	}
	return w
}

// Stage is a school stage.
type Stage string

// School stages.
const (
	StageElementary Stage = "小学"
	StageMiddle     Stage = "初中"
	StageHigh       Stage = "高中"
	StageUniversity Stage = "大学"
	StageUnknown    Stage = "未知"
)

var (
	elementaryGrades = []string{"一年级", "二年级", "三年级", "四年级", "五年级", "六年级"}
	middleGrades     = []string{"初一", "初二", "初三"}
	highGrades       = []string{"高一", "高二", "高三"}
	universityGrades = []string{"大一", "大二", "大三", "大四"}
)

// Grades lists every grade known to the standards tables in school order.
func Grades() []string {
	return slices.Concat(elementaryGrades, middleGrades, highGrades, universityGrades)
}

// StageOf returns the school stage of a grade.
func StageOf(grade string) Stage {
	switch {
	case slices.Contains(elementaryGrades, grade):
		return StageElementary
	case slices.Contains(middleGrades, grade):
		return StageMiddle
	case slices.Contains(highGrades, grade):
		return StageHigh
	case slices.Contains(universityGrades, grade):
		return StageUniversity
	}
	return StageUnknown
}

func isElementary(grade string) bool { return StageOf(grade) == StageElementary }

func isSecondaryOrAbove(grade string) bool {
	s := StageOf(grade)
	return s == StageMiddle || s == StageHigh || s == StageUniversity
}

// ItemsFor returns the items tested for a grade and gender. Unknown grades
// get the secondary-school set.
func ItemsFor(grade, gender string) []Item {
	g := tableGender(gender)
	var codes []string
	if isElementary(grade) {
		codes = []string{ItemBMI, ItemVitalCapacity, ItemRun50m, ItemSitAndReach, ItemRopeSkipping}
		if grade != "一年级" && grade != "二年级" {
			codes = append(codes, ItemSitUps)
		}
		if grade == "五年级" || grade == "六年级" {
			codes = append(codes, ItemRun50m8x)
		}
	} else {
		codes = []string{ItemBMI, ItemVitalCapacity, ItemRun50m, ItemSitAndReach, ItemStandingLongJump}
		if g == male {
			codes = append(codes, ItemPullUps, ItemRun1000m)
		} else {
			codes = append(codes, ItemSitUps, ItemRun800m)
		}
	}
	out := make([]Item, 0, len(codes))
	for _, c := range codes {
		out = append(out, itemsByCode[c])
	}
	return out
}

// ItemStandard is an item with its anchors for one grade and gender.
type ItemStandard struct {
	Item
	Anchors *Anchors `json:"anchors,omitempty"`
	BMI     *BMIBand `json:"bmi,omitempty"`
}

// StandardsFor lists the applicable items of a grade and gender with their
// anchors. Items without a table row carry no anchors.
func StandardsFor(grade, gender string) []ItemStandard {
	g := tableGender(gender)
	list := ItemsFor(grade, g)
	out := make([]ItemStandard, 0, len(list))
	for _, it := range list {
		s := ItemStandard{Item: it}
		if it.Code == ItemBMI {
			if b, ok := BMIBandFor(grade, g); ok {
				s.BMI = &b
			}
		} else if a, ok := lookup(it.Code, grade, g); ok {
			s.Anchors = &a
		}
		out = append(out, s)
	}
	return out
}
