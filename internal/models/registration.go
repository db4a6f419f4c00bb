package models

import "time"

// RegistrationStatus represents the lifecycle state of a semester registration.
type RegistrationStatus string

const (
	RegistrationStatusUpcoming RegistrationStatus = "UPCOMING"
	RegistrationStatusOngoing  RegistrationStatus = "ONGOING"
	RegistrationStatusEnded    RegistrationStatus = "ENDED"
)

// registrationTransitions is the forward-only transition table. A status may
// only advance to the single successor listed here.
var registrationTransitions = map[RegistrationStatus]RegistrationStatus{
	RegistrationStatusUpcoming: RegistrationStatusOngoing,
	RegistrationStatusOngoing:  RegistrationStatusEnded,
}

// CanTransition reports whether moving from current to requested is legal.
// ENDED is terminal; skipping or reversing states is never allowed.
func (s RegistrationStatus) CanTransition(requested RegistrationStatus) bool {
	next, ok := registrationTransitions[s]
	return ok && next == requested
}

// SemesterRegistration is the administrative window during which students
// enroll in course sections for an academic semester.
type SemesterRegistration struct {
	ID                 string             `db:"id" json:"id"`
	AcademicSemesterID string             `db:"academic_semester_id" json:"academic_semester_id"`
	StartDate          time.Time          `db:"start_date" json:"start_date"`
	EndDate            time.Time          `db:"end_date" json:"end_date"`
	Status             RegistrationStatus `db:"status" json:"status"`
	MinCredit          int                `db:"min_credit" json:"min_credit"`
	MaxCredit          int                `db:"max_credit" json:"max_credit"`
	CreatedAt          time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `db:"updated_at" json:"updated_at"`
}

// RegistrationDetail embeds the associated academic semester for responses.
type RegistrationDetail struct {
	SemesterRegistration
	SemesterTitle     SemesterTitle `db:"semester_title" json:"semester_title"`
	SemesterYear      int           `db:"semester_year" json:"semester_year"`
	SemesterCode      string        `db:"semester_code" json:"semester_code"`
	SemesterIsCurrent bool          `db:"semester_is_current" json:"semester_is_current"`
}

// RegistrationFilter defines filters for listing registrations.
type RegistrationFilter struct {
	AcademicSemesterID string
	Status             RegistrationStatus
	Page               int
	PageSize           int
	SortBy             string
	SortOrder          string
}
