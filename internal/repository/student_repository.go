package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-sims-api/internal/models"
)

// StudentRepository provides read access to the student and faculty rosters
// and the room inventory synced from upstream systems.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository instantiates a student repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID loads a student by identifier.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, student_auth_id, full_name, email, academic_department_id, created_at, updated_at FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByAuthID loads a student by their auth subject identifier.
func (r *StudentRepository) FindByAuthID(ctx context.Context, authID string) (*models.Student, error) {
	const query = `SELECT id, student_auth_id, full_name, email, academic_department_id, created_at, updated_at FROM students WHERE student_auth_id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, authID); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindFacultyByID loads a faculty member by identifier.
func (r *StudentRepository) FindFacultyByID(ctx context.Context, id string) (*models.FacultyMember, error) {
	const query = `SELECT id, faculty_auth_id, full_name, email, created_at FROM faculty_members WHERE id = $1`
	var faculty models.FacultyMember
	if err := r.db.GetContext(ctx, &faculty, query, id); err != nil {
		return nil, err
	}
	return &faculty, nil
}

// FindRoomByID loads a room by identifier.
func (r *StudentRepository) FindRoomByID(ctx context.Context, id string) (*models.Room, error) {
	const query = `SELECT id, room_number, floor, building_id, created_at FROM rooms WHERE id = $1`
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, err
	}
	return &room, nil
}

// DepartmentExists reports whether an academic department exists.
func (r *StudentRepository) DepartmentExists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT COUNT(*) FROM academic_departments WHERE id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return false, fmt.Errorf("check department: %w", err)
	}
	return count > 0, nil
}
