package models

import "time"

// SemesterTitle enumerates the recognised academic semester titles.
type SemesterTitle string

const (
	SemesterTitleAutumn SemesterTitle = "Autumn"
	SemesterTitleSummer SemesterTitle = "Summer"
	SemesterTitleFall   SemesterTitle = "Fall"
)

// SemesterTitleCodes is the fixed title to code mapping enforced at creation.
var SemesterTitleCodes = map[SemesterTitle]string{
	SemesterTitleAutumn: "01",
	SemesterTitleSummer: "02",
	SemesterTitleFall:   "03",
}

// AcademicSemester models one semester in the academic calendar. At most one
// row carries is_current = TRUE; only the rollover engine flips it.
type AcademicSemester struct {
	ID         string        `db:"id" json:"id"`
	Title      SemesterTitle `db:"title" json:"title"`
	Year       int           `db:"year" json:"year"`
	Code       string        `db:"code" json:"code"`
	StartMonth string        `db:"start_month" json:"start_month"`
	EndMonth   string        `db:"end_month" json:"end_month"`
	IsCurrent  bool          `db:"is_current" json:"is_current"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updated_at"`
}

// SemesterFilter defines filters supported by the semester list endpoint.
type SemesterFilter struct {
	Title     SemesterTitle
	Year      int
	Code      string
	IsCurrent *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
