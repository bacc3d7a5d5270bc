// Package types contains types shared between the ranking store, the
// service layer and the HTTP API.
package types

// Entry is one row of the fitness ranking.
type Entry struct {
	Rank           int    `json:"rank"`
	StudentID      string `json:"studentId"`
	Name           string `json:"name,omitempty"`
	ClassName      string `json:"className,omitempty"`
	Grade          string `json:"grade,omitempty"`
	Gender         string `json:"gender,omitempty"`
	CompositeScore int    `json:"compositeScore"`
	StandardScore  int    `json:"standardScore"`
	BonusScore     int    `json:"bonusScore"`
	GradeLevel     string `json:"gradeLevel"`
	RecordID       string `json:"recordId,omitempty"`
	TestDate       string `json:"testDate,omitempty"`
}

// Ahead reports whether e ranks before o: composite score first, then
// standard score, then student id.
func (e Entry) Ahead(o Entry) bool {
	if e.CompositeScore != o.CompositeScore {
		return e.CompositeScore > o.CompositeScore
	}
	if e.StandardScore != o.StandardScore {
		return e.StandardScore > o.StandardScore
	}
	return e.StudentID < o.StudentID
}

// Tied reports whether e and o share a rank.
func (e Entry) Tied(o Entry) bool {
	return e.CompositeScore == o.CompositeScore && e.StandardScore == o.StandardScore
}
