package models

import (
	"fmt"
	"time"
)

// DayOfWeek enumerates scheduling days.
type DayOfWeek string

const (
	DaySaturday  DayOfWeek = "SATURDAY"
	DaySunday    DayOfWeek = "SUNDAY"
	DayMonday    DayOfWeek = "MONDAY"
	DayTuesday   DayOfWeek = "TUESDAY"
	DayWednesday DayOfWeek = "WEDNESDAY"
	DayThursday  DayOfWeek = "THURSDAY"
	DayFriday    DayOfWeek = "FRIDAY"
)

// TimeSlot is a day-of-week bounded clock interval, times in 24h HH:MM.
// Intervals are half-open: [StartTime, EndTime).
type TimeSlot struct {
	DayOfWeek DayOfWeek `db:"day_of_week" json:"day_of_week"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
}

// Validate checks clock format and start < end. Cross-midnight spans are not
// supported.
func (t TimeSlot) Validate() error {
	start, err := parseClock(t.StartTime)
	if err != nil {
		return fmt.Errorf("invalid start time %q: %w", t.StartTime, err)
	}
	end, err := parseClock(t.EndTime)
	if err != nil {
		return fmt.Errorf("invalid end time %q: %w", t.EndTime, err)
	}
	if !start.Before(end) {
		return fmt.Errorf("start time %s must be before end time %s", t.StartTime, t.EndTime)
	}
	return nil
}

// Overlaps reports whether two slots conflict. Slots on different days never
// conflict; on the same day they conflict iff the half-open intervals
// intersect, so boundary-touching slots (end == start) are compatible.
func (t TimeSlot) Overlaps(other TimeSlot) bool {
	if t.DayOfWeek != other.DayOfWeek {
		return false
	}
	start, err := parseClock(t.StartTime)
	if err != nil {
		return false
	}
	end, err := parseClock(t.EndTime)
	if err != nil {
		return false
	}
	otherStart, err := parseClock(other.StartTime)
	if err != nil {
		return false
	}
	otherEnd, err := parseClock(other.EndTime)
	if err != nil {
		return false
	}
	return start.Before(otherEnd) && end.After(otherStart)
}

// HasTimeConflict reports whether the candidate slot overlaps any existing one.
func HasTimeConflict(existing []TimeSlot, candidate TimeSlot) bool {
	for _, slot := range existing {
		if candidate.Overlaps(slot) {
			return true
		}
	}
	return false
}

func parseClock(raw string) (time.Time, error) {
	return time.Parse("15:04", raw)
}

// OfferedCourseClassSchedule is one weekly class slot of a section, booking a
// room and a faculty member.
type OfferedCourseClassSchedule struct {
	ID                     string    `db:"id" json:"id"`
	OfferedCourseSectionID string    `db:"offered_course_section_id" json:"offered_course_section_id"`
	SemesterRegistrationID string    `db:"semester_registration_id" json:"semester_registration_id"`
	DayOfWeek              DayOfWeek `db:"day_of_week" json:"day_of_week"`
	StartTime              string    `db:"start_time" json:"start_time"`
	EndTime                string    `db:"end_time" json:"end_time"`
	RoomID                 string    `db:"room_id" json:"room_id"`
	FacultyID              string    `db:"faculty_id" json:"faculty_id"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}

// Slot projects the schedule onto its time slot.
func (s OfferedCourseClassSchedule) Slot() TimeSlot {
	return TimeSlot{DayOfWeek: s.DayOfWeek, StartTime: s.StartTime, EndTime: s.EndTime}
}

// ClassScheduleDetail joins room, building and faculty context for responses.
type ClassScheduleDetail struct {
	OfferedCourseClassSchedule
	RoomNumber    string `db:"room_number" json:"room_number"`
	BuildingTitle string `db:"building_title" json:"building_title"`
	FacultyName   string `db:"faculty_name" json:"faculty_name"`
}

// ScheduleFilter defines filters for the class schedule list endpoint.
type ScheduleFilter struct {
	SemesterRegistrationID string
	OfferedCourseSectionID string
	RoomID                 string
	FacultyID              string
	DayOfWeek              DayOfWeek
	Page                   int
	PageSize               int
	SortBy                 string
	SortOrder              string
}
