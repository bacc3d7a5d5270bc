package scoring

import model "github.com/jigu1688/sporttools-sub000/internal/domain/model"

// Anchors are the raw values that earn 100, 90, 80 and 60 points.
type Anchors struct {
	V100 float64 `json:"100"`
	V90  float64 `json:"90"`
	V80  float64 `json:"80"`
	V60  float64 `json:"60"`
}

// BMIBand holds the BMI classification limits of one grade and gender.
type BMIBand struct {
	NormalLow   float64 `json:"normalLow"`
	NormalHigh  float64 `json:"normalHigh"`
	Underweight float64 `json:"underweight"`
	Obesity     float64 `json:"obesity"`
}

// table is keyed by gender then grade.
type table map[string]map[string]Anchors

const (
	male   = model.GenderMale
	female = model.GenderFemale
)

var bmiStandards = map[string]map[string]BMIBand{
	male: {
		"一年级": {13.4, 17.7, 13.4, 19.2},
		"二年级": {13.5, 18.1, 13.5, 19.8},
		"三年级": {13.6, 18.6, 13.6, 20.4},
		"四年级": {13.7, 19.2, 13.7, 21.2},
		"五年级": {13.9, 19.8, 13.9, 22.0},
		"六年级": {14.1, 20.4, 14.1, 22.7},
		"初一":  {14.6, 21.2, 14.6, 24.0},
		"初二":  {15.2, 21.9, 15.2, 25.1},
		"初三":  {15.8, 22.5, 15.8, 25.9},
		"高一":  {16.3, 22.9, 16.3, 26.3},
		"高二":  {16.7, 23.3, 16.7, 26.8},
		"高三":  {17.0, 23.6, 17.0, 27.1},
		"大一":  {17.3, 23.9, 17.3, 27.4},
		"大二":  {17.3, 23.9, 17.3, 27.4},
		"大三":  {17.3, 23.9, 17.3, 27.4},
		"大四":  {17.3, 23.9, 17.3, 27.4},
	},
	female: {
		"一年级": {13.1, 17.2, 13.1, 18.8},
		"二年级": {13.1, 17.6, 13.1, 19.4},
		"三年级": {13.2, 18.1, 13.2, 20.1},
		"四年级": {13.3, 18.7, 13.3, 21.0},
		"五年级": {13.5, 19.3, 13.5, 21.8},
		"六年级": {13.7, 19.9, 13.7, 22.6},
		"初一":  {14.3, 20.8, 14.3, 23.6},
		"初二":  {14.9, 21.6, 14.9, 24.4},
		"初三":  {15.4, 22.2, 15.4, 25.0},
		"高一":  {15.8, 22.6, 15.8, 25.3},
		"高二":  {16.1, 22.8, 16.1, 25.5},
		"高三":  {16.3, 23.0, 16.3, 25.6},
		"大一":  {16.5, 23.2, 16.5, 25.7},
		"大二":  {16.5, 23.2, 16.5, 25.7},
		"大三":  {16.5, 23.2, 16.5, 25.7},
		"大四":  {16.5, 23.2, 16.5, 25.7},
	},
}

var vitalCapacityStandards = table{
	male: {
		"一年级": {1700, 1500, 1300, 900},
		"二年级": {1900, 1700, 1500, 1100},
		"三年级": {2100, 1900, 1700, 1300},
		"四年级": {2300, 2100, 1900, 1500},
		"五年级": {2600, 2400, 2100, 1700},
		"六年级": {3000, 2700, 2400, 1900},
		"初一":  {3500, 3150, 2700, 2200},
		"初二":  {3900, 3500, 3050, 2500},
		"初三":  {4200, 3800, 3350, 2800},
		"高一":  {4500, 4050, 3550, 3000},
		"高二":  {4700, 4250, 3750, 3100},
		"高三":  {4800, 4350, 3850, 3200},
		"大一":  {4800, 4350, 3850, 3200},
		"大二":  {4800, 4350, 3850, 3200},
		"大三":  {4800, 4350, 3850, 3200},
		"大四":  {4800, 4350, 3850, 3200},
	},
	female: {
		"一年级": {1500, 1350, 1200, 800},
		"二年级": {1700, 1500, 1350, 950},
		"三年级": {1850, 1650, 1500, 1100},
		"四年级": {2000, 1800, 1650, 1250},
		"五年级": {2200, 2000, 1800, 1400},
		"六年级": {2400, 2200, 2000, 1550},
		"初一":  {2650, 2400, 2150, 1750},
		"初二":  {2900, 2600, 2300, 1900},
		"初三":  {3050, 2750, 2400, 2000},
		"高一":  {3150, 2850, 2500, 2050},
		"高二":  {3200, 2900, 2550, 2100},
		"高三":  {3250, 2950, 2600, 2150},
		"大一":  {3300, 3000, 2650, 2200},
		"大二":  {3300, 3000, 2650, 2200},
		"大三":  {3300, 3000, 2650, 2200},
		"大四":  {3300, 3000, 2650, 2200},
	},
}

var run50mStandards = table{
	male: {
		"一年级": {9.4, 10.2, 11.0, 12.6},
		"二年级": {8.8, 9.6, 10.4, 12.0},
		"三年级": {8.4, 9.1, 9.8, 11.4},
		"四年级": {8.1, 8.7, 9.4, 10.8},
		"五年级": {7.9, 8.4, 9.0, 10.4},
		"六年级": {7.6, 8.1, 8.7, 10.0},
		"初一":  {7.3, 7.8, 8.4, 9.6},
		"初二":  {7.1, 7.5, 8.1, 9.2},
		"初三":  {6.9, 7.3, 7.8, 8.8},
		"高一":  {6.7, 7.1, 7.6, 8.4},
		"高二":  {6.6, 7.0, 7.5, 8.2},
		"高三":  {6.6, 7.0, 7.4, 8.0},
		"大一":  {6.7, 7.1, 7.5, 8.1},
		"大二":  {6.7, 7.1, 7.5, 8.1},
		"大三":  {6.8, 7.2, 7.6, 8.2},
		"大四":  {6.8, 7.2, 7.6, 8.2},
	},
	female: {
		"一年级": {10.2, 10.8, 11.6, 13.2},
		"二年级": {9.6, 10.2, 11.0, 12.6},
		"三年级": {9.2, 9.8, 10.4, 12.0},
		"四年级": {8.8, 9.4, 10.0, 11.4},
		"五年级": {8.6, 9.2, 9.8, 11.0},
		"六年级": {8.4, 9.0, 9.6, 10.8},
		"初一":  {8.2, 8.8, 9.4, 10.6},
		"初二":  {8.0, 8.6, 9.2, 10.4},
		"初三":  {7.9, 8.5, 9.0, 10.2},
		"高一":  {7.9, 8.4, 9.0, 10.0},
		"高二":  {7.9, 8.4, 9.0, 10.0},
		"高三":  {7.9, 8.4, 9.0, 10.0},
		"大一":  {7.9, 8.4, 9.0, 10.0},
		"大二":  {7.9, 8.4, 9.0, 10.0},
		"大三":  {8.0, 8.5, 9.1, 10.1},
		"大四":  {8.0, 8.5, 9.1, 10.1},
	},
}

var sitAndReachStandards = table{
	male: {
		"一年级": {16.1, 13.0, 9.8, 3.0},
		"二年级": {16.2, 13.0, 9.8, 3.0},
		"三年级": {16.3, 13.1, 9.9, 3.1},
		"四年级": {16.4, 13.2, 10.0, 3.2},
		"五年级": {16.5, 13.3, 10.1, 3.3},
		"六年级": {16.6, 13.4, 10.2, 3.4},
		"初一":  {17.0, 13.5, 10.3, 3.7},
		"初二":  {17.8, 14.2, 10.8, 4.2},
		"初三":  {19.2, 15.4, 11.8, 5.2},
		"高一":  {21.0, 16.8, 13.0, 6.2},
		"高二":  {21.9, 17.6, 13.7, 6.9},
		"高三":  {22.5, 18.1, 14.2, 7.4},
		"大一":  {24.9, 19.9, 15.4, 8.4},
		"大二":  {24.9, 19.9, 15.4, 8.4},
		"大三":  {25.1, 20.1, 15.6, 8.6},
		"大四":  {25.1, 20.1, 15.6, 8.6},
	},
	female: {
		"一年级": {19.3, 15.8, 12.3, 5.4},
		"二年级": {19.5, 15.9, 12.5, 5.6},
		"三年级": {19.7, 16.1, 12.7, 5.8},
		"四年级": {19.9, 16.3, 12.9, 6.0},
		"五年级": {20.2, 16.5, 13.1, 6.2},
		"六年级": {20.5, 16.8, 13.4, 6.5},
		"初一":  {21.0, 17.2, 13.7, 6.8},
		"初二":  {21.7, 17.8, 14.2, 7.3},
		"初三":  {22.4, 18.4, 14.7, 7.8},
		"高一":  {23.1, 19.0, 15.2, 8.3},
		"高二":  {23.5, 19.3, 15.5, 8.6},
		"高三":  {23.8, 19.6, 15.8, 8.9},
		"大一":  {25.8, 21.2, 17.1, 10.2},
		"大二":  {25.8, 21.2, 17.1, 10.2},
		"大三":  {25.9, 21.3, 17.2, 10.3},
		"大四":  {25.9, 21.3, 17.2, 10.3},
	},
}

var ropeSkippingStandards = table{
	male: {
		"一年级": {109, 87, 65, 17},
		"二年级": {117, 97, 77, 25},
		"三年级": {126, 108, 90, 39},
		"四年级": {137, 120, 103, 50},
		"五年级": {148, 132, 116, 63},
		"六年级": {157, 141, 125, 72},
	},
	female: {
		"一年级": {117, 103, 87, 37},
		"二年级": {127, 113, 97, 47},
		"三年级": {139, 125, 109, 59},
		"四年级": {149, 135, 119, 69},
		"五年级": {158, 144, 128, 78},
		"六年级": {166, 152, 136, 86},
	},
}

var sitUpsStandards = table{
	male: {
		"三年级": {42, 36, 30, 16},
		"四年级": {46, 40, 34, 20},
		"五年级": {50, 44, 38, 24},
		"六年级": {51, 45, 39, 25},
	},
	female: {
		"一年级": {52, 45, 38, 21},
		"二年级": {52, 45, 38, 21},
		"三年级": {46, 40, 34, 20},
		"四年级": {49, 43, 37, 23},
		"五年级": {51, 45, 39, 25},
		"六年级": {52, 46, 40, 26},
		"初一":  {52, 46, 40, 26},
		"初二":  {52, 46, 40, 26},
		"初三":  {52, 46, 40, 26},
		"高一":  {52, 46, 40, 26},
		"高二":  {52, 46, 40, 26},
		"高三":  {52, 46, 40, 26},
		"大一":  {56, 49, 42, 26},
		"大二":  {56, 49, 42, 26},
		"大三":  {56, 49, 42, 26},
		"大四":  {56, 49, 42, 26},
	},
}

// run50m8xStandards are in seconds.
var run50m8xStandards = table{
	male: {
		"五年级": {96, 102, 108, 138},
		"六年级": {93, 99, 105, 135},
	},
	female: {
		"五年级": {101, 107, 113, 143},
		"六年级": {98, 104, 110, 140},
	},
}

var standingLongJumpStandards = table{
	male: {
		"初一": {225, 207, 188, 142},
		"初二": {240, 220, 199, 151},
		"初三": {250, 230, 209, 161},
		"高一": {254, 234, 213, 165},
		"高二": {260, 240, 218, 168},
		"高三": {265, 245, 223, 173},
		"大一": {273, 252, 228, 176},
		"大二": {273, 252, 228, 176},
		"大三": {268, 248, 225, 173},
		"大四": {268, 248, 225, 173},
	},
	female: {
		"初一": {195, 176, 156, 106},
		"初二": {196, 177, 157, 107},
		"初三": {197, 178, 158, 108},
		"高一": {198, 179, 159, 109},
		"高二": {199, 180, 160, 110},
		"高三": {200, 181, 161, 111},
		"大一": {207, 186, 164, 112},
		"大二": {207, 186, 164, 112},
		"大三": {201, 182, 162, 112},
		"大四": {201, 182, 162, 112},
	},
}

var pullUpsStandards = table{
	male: {
		"初一": {15, 12, 9, 4},
		"初二": {16, 13, 10, 5},
		"初三": {17, 14, 11, 6},
		"高一": {18, 15, 12, 7},
		"高二": {19, 16, 13, 8},
		"高三": {19, 16, 13, 8},
		"大一": {19, 16, 13, 10},
		"大二": {19, 16, 13, 10},
		"大三": {18, 15, 12, 9},
		"大四": {18, 15, 12, 9},
	},
}

// run1000mStandards are in seconds.
var run1000mStandards = table{
	male: {
		"初一": {222, 245, 270, 330},
		"初二": {218, 238, 260, 315},
		"初三": {215, 232, 252, 302},
		"高一": {213, 227, 245, 290},
		"高二": {211, 225, 242, 285},
		"高三": {210, 223, 240, 280},
		"大一": {207, 220, 237, 277},
		"大二": {207, 220, 237, 277},
		"大三": {212, 225, 242, 282},
		"大四": {212, 225, 242, 282},
	},
}

// run800mStandards are in seconds.
var run800mStandards = table{
	female: {
		"初一": {207, 225, 246, 295},
		"初二": {205, 222, 242, 289},
		"初三": {203, 219, 238, 283},
		"高一": {201, 216, 234, 277},
		"高二": {200, 215, 232, 274},
		"高三": {199, 214, 230, 271},
		"大一": {196, 211, 227, 268},
		"大二": {196, 211, 227, 268},
		"大三": {201, 216, 232, 273},
		"大四": {201, 216, 232, 273},
	},
}

// lookup returns the anchors of code for a grade and gender.
func lookup(code, grade, gender string) (Anchors, bool) {
	it, ok := itemsByCode[code]
	if !ok || it.table == nil {
		return Anchors{}, false
	}
	a, ok := it.table[gender][grade]
	return a, ok
}

// BMIBandFor returns the BMI limits for a grade and gender.
func BMIBandFor(grade, gender string) (BMIBand, bool) {
	b, ok := bmiStandards[tableGender(gender)][grade]
	return b, ok
}

// tableGender maps a gender onto a table key. Anything that is not male is
// scored on the female tables.
func tableGender(g string) string {
	if model.NormalizeGender(g) == male {
		return male
	}
	return female
}
