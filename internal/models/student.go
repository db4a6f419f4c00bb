package models

import "time"

// Student is the read-model of a student as the registration workflows need
// it. Roster management lives in the admissions system upstream.
type Student struct {
	ID                   string    `db:"id" json:"id"`
	StudentAuthID        string    `db:"student_auth_id" json:"student_auth_id"`
	FullName             string    `db:"full_name" json:"full_name"`
	Email                string    `db:"email" json:"email"`
	AcademicDepartmentID string    `db:"academic_department_id" json:"academic_department_id"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

// FacultyMember is the read-model of a teaching faculty member.
type FacultyMember struct {
	ID            string    `db:"id" json:"id"`
	FacultyAuthID string    `db:"faculty_auth_id" json:"faculty_auth_id"`
	FullName      string    `db:"full_name" json:"full_name"`
	Email         string    `db:"email" json:"email"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Room locates a class inside a building.
type Room struct {
	ID         string    `db:"id" json:"id"`
	RoomNumber string    `db:"room_number" json:"room_number"`
	Floor      string    `db:"floor" json:"floor"`
	BuildingID string    `db:"building_id" json:"building_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
