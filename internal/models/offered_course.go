package models

import "time"

// OfferedCourse makes a catalogue course available to one department within a
// semester registration. Unique per (department, registration, course).
type OfferedCourse struct {
	ID                     string    `db:"id" json:"id"`
	CourseID               string    `db:"course_id" json:"course_id"`
	AcademicDepartmentID   string    `db:"academic_department_id" json:"academic_department_id"`
	SemesterRegistrationID string    `db:"semester_registration_id" json:"semester_registration_id"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}

// OfferedCourseDetail joins the catalogue course for responses.
type OfferedCourseDetail struct {
	OfferedCourse
	CourseTitle   string `db:"course_title" json:"course_title"`
	CourseCode    string `db:"course_code" json:"course_code"`
	CourseCredits int    `db:"course_credits" json:"course_credits"`
}

// OfferedCourseFilter defines filters for listing offered courses.
type OfferedCourseFilter struct {
	SemesterRegistrationID string
	AcademicDepartmentID   string
	CourseID               string
	Page                   int
	PageSize               int
	SortBy                 string
	SortOrder              string
}

// OfferedCourseSection is a capacity-bounded subdivision of an offered course
// with its own class schedule. currently_enrolled_student never exceeds
// max_capacity.
type OfferedCourseSection struct {
	ID                       string    `db:"id" json:"id"`
	OfferedCourseID          string    `db:"offered_course_id" json:"offered_course_id"`
	SemesterRegistrationID   string    `db:"semester_registration_id" json:"semester_registration_id"`
	Title                    string    `db:"title" json:"title"`
	MaxCapacity              int       `db:"max_capacity" json:"max_capacity"`
	CurrentlyEnrolledStudent int       `db:"currently_enrolled_student" json:"currently_enrolled_student"`
	CreatedAt                time.Time `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time `db:"updated_at" json:"updated_at"`
}

// SectionDetail embeds course and class schedule context for responses.
type SectionDetail struct {
	OfferedCourseSection
	CourseTitle   string                `db:"course_title" json:"course_title"`
	CourseCode    string                `db:"course_code" json:"course_code"`
	CourseCredits int                   `db:"course_credits" json:"course_credits"`
	Schedules     []ClassScheduleDetail `json:"schedules"`
}

// SectionFilter defines filters for listing sections.
type SectionFilter struct {
	SemesterRegistrationID string
	OfferedCourseID        string
	Page                   int
	PageSize               int
	SortBy                 string
	SortOrder              string
}
