package models

import "time"

// Course is a catalogue course. Courses form a directed prerequisite graph via
// course_prerequisites join rows.
type Course struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Code      string    `db:"code" json:"code"`
	Credits   int       `db:"credits" json:"credits"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CoursePrerequisite links a course to one of its prerequisites.
type CoursePrerequisite struct {
	CourseID       string `db:"course_id" json:"course_id"`
	PrerequisiteID string `db:"prerequisite_id" json:"prerequisite_id"`
}

// CourseDetail carries a course with both sides of its prerequisite relations.
type CourseDetail struct {
	Course
	Prerequisites   []Course `json:"prerequisites"`
	PrerequisiteFor []Course `json:"prerequisite_for"`
}

// CourseFilter defines filters for the course list endpoint.
type CourseFilter struct {
	Search    string
	Code      string
	Credits   int
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
