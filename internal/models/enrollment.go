package models

import "time"

// StudentSemesterRegistration is the per-student ledger row for one semester
// registration. Created lazily on the student's first registration action.
type StudentSemesterRegistration struct {
	ID                     string    `db:"id" json:"id"`
	StudentID              string    `db:"student_id" json:"student_id"`
	SemesterRegistrationID string    `db:"semester_registration_id" json:"semester_registration_id"`
	TotalCreditsTaken      int       `db:"total_credits_taken" json:"total_credits_taken"`
	IsConfirmed            bool      `db:"is_confirmed" json:"is_confirmed"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}

// StudentSemesterRegistrationCourse is one active enrollment, unique per
// (semester_registration_id, student_id, offered_course_id). Deleted on
// withdraw.
type StudentSemesterRegistrationCourse struct {
	StudentID              string    `db:"student_id" json:"student_id"`
	SemesterRegistrationID string    `db:"semester_registration_id" json:"semester_registration_id"`
	OfferedCourseID        string    `db:"offered_course_id" json:"offered_course_id"`
	OfferedCourseSectionID string    `db:"offered_course_section_id" json:"offered_course_section_id"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
}

// EnrolledSectionDetail is one active enrollment joined with course and
// section context.
type EnrolledSectionDetail struct {
	StudentSemesterRegistrationCourse
	CourseID      string `db:"course_id" json:"course_id"`
	CourseTitle   string `db:"course_title" json:"course_title"`
	CourseCode    string `db:"course_code" json:"course_code"`
	CourseCredits int    `db:"course_credits" json:"course_credits"`
	SectionTitle  string `db:"section_title" json:"section_title"`
}

// AvailableCourse is one offered course of the student's department decorated
// with enrollment and prerequisite state for the registration portal.
type AvailableCourse struct {
	OfferedCourseDetail
	Sections               []OfferedCourseSection `json:"sections"`
	IsTaken                bool                   `json:"is_taken"`
	TakenSectionID         string                 `json:"taken_section_id,omitempty"`
	PrerequisitesFulfilled bool                   `json:"prerequisites_fulfilled"`
	PendingPrerequisites   []string               `json:"pending_prerequisites,omitempty"`
}
