package models

import "time"

// EnrolledCourseStatus tracks the grading lifecycle of an enrolled course.
type EnrolledCourseStatus string

const (
	EnrolledCourseStatusOngoing   EnrolledCourseStatus = "ONGOING"
	EnrolledCourseStatusCompleted EnrolledCourseStatus = "COMPLETED"
)

// ExamType distinguishes the two seeded mark rows per enrolled course.
type ExamType string

const (
	ExamTypeMidterm ExamType = "MIDTERM"
	ExamTypeFinal   ExamType = "FINAL"
)

// StudentEnrolledCourse is materialised at semester rollover, one per
// (student, course, semester). Grade fields stay empty until finalisation.
type StudentEnrolledCourse struct {
	ID                 string               `db:"id" json:"id"`
	StudentID          string               `db:"student_id" json:"student_id"`
	CourseID           string               `db:"course_id" json:"course_id"`
	AcademicSemesterID string               `db:"academic_semester_id" json:"academic_semester_id"`
	Status             EnrolledCourseStatus `db:"status" json:"status"`
	Grade              *string              `db:"grade" json:"grade,omitempty"`
	Point              float64              `db:"point" json:"point"`
	TotalMarks         int                  `db:"total_marks" json:"total_marks"`
	CreatedAt          time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time            `db:"updated_at" json:"updated_at"`
}

// EnrolledCourseDetail joins catalogue course context for transcripts and
// history listings.
type EnrolledCourseDetail struct {
	StudentEnrolledCourse
	CourseTitle   string `db:"course_title" json:"course_title"`
	CourseCode    string `db:"course_code" json:"course_code"`
	CourseCredits int    `db:"course_credits" json:"course_credits"`
	SemesterTitle string `db:"semester_title" json:"semester_title"`
	SemesterYear  int    `db:"semester_year" json:"semester_year"`
}

// StudentEnrolledCourseMark is one exam mark row. Exactly two rows (MIDTERM,
// FINAL) are seeded per enrolled course at rollover with null marks.
type StudentEnrolledCourseMark struct {
	ID                      string    `db:"id" json:"id"`
	StudentID               string    `db:"student_id" json:"student_id"`
	StudentEnrolledCourseID string    `db:"student_enrolled_course_id" json:"student_enrolled_course_id"`
	AcademicSemesterID      string    `db:"academic_semester_id" json:"academic_semester_id"`
	ExamType                ExamType  `db:"exam_type" json:"exam_type"`
	Marks                   *int      `db:"marks" json:"marks,omitempty"`
	Grade                   *string   `db:"grade" json:"grade,omitempty"`
	CreatedAt               time.Time `db:"created_at" json:"created_at"`
	UpdatedAt               time.Time `db:"updated_at" json:"updated_at"`
}

// EnrolledCourseFilter defines filters for listing enrolled courses.
type EnrolledCourseFilter struct {
	StudentID          string               `form:"student_id"`
	AcademicSemesterID string               `form:"academic_semester_id"`
	CourseID           string               `form:"course_id"`
	Status             EnrolledCourseStatus `form:"status"`
	SortBy             string               `form:"sort_by"`
	SortOrder          string               `form:"sort_order"`
	Page               int                  `form:"page"`
	PageSize           int                  `form:"page_size"`
}

// StudentAcademicInfo is the single per-student aggregate row, recomputed
// whenever a course is finalised.
type StudentAcademicInfo struct {
	ID                   string    `db:"id" json:"id"`
	StudentID            string    `db:"student_id" json:"student_id"`
	TotalCompletedCredit int       `db:"total_completed_credit" json:"total_completed_credit"`
	CGPA                 float64   `db:"cgpa" json:"cgpa"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}
