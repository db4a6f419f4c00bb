package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-sims-api/internal/models"
)

// Conditions detected inside enrollment transactions.
var (
	ErrSectionFull  = errors.New("section capacity exhausted")
	ErrNotEnrolled  = errors.New("student not enrolled in course")
	ErrDoubleEnroll = errors.New("student already enrolled in course")
)

// EnrollmentRepository handles the per-student registration ledger inside a
// registration period.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository instantiates an enrollment repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// FindStudentRegistration loads a student's ledger row for a registration.
func (r *EnrollmentRepository) FindStudentRegistration(ctx context.Context, registrationID, studentID string) (*models.StudentSemesterRegistration, error) {
	const query = `SELECT id, semester_registration_id, student_id, total_credits_taken, is_confirmed, created_at, updated_at
		FROM student_semester_registrations WHERE semester_registration_id = $1 AND student_id = $2`
	var record models.StudentSemesterRegistration
	if err := r.db.GetContext(ctx, &record, query, registrationID, studentID); err != nil {
		return nil, err
	}
	return &record, nil
}

// CreateStudentRegistration opens a student's ledger for a registration.
func (r *EnrollmentRepository) CreateStudentRegistration(ctx context.Context, record *models.StudentSemesterRegistration) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	const query = `INSERT INTO student_semester_registrations (id, semester_registration_id, student_id, total_credits_taken, is_confirmed, created_at, updated_at)
		VALUES (:id, :semester_registration_id, :student_id, :total_credits_taken, :is_confirmed, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create student registration: %w", err)
	}
	return nil
}

// Enroll adds a course section to the student's ledger. The section counter is
// incremented with a capacity guard and the credit total with the course's
// credits, all in one transaction.
func (r *EnrollmentRepository) Enroll(ctx context.Context, registrationID, studentID, offeredCourseID, sectionID string, credits int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin enroll tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var exists int
	const dupQuery = `SELECT 1 FROM student_semester_registration_courses
		WHERE semester_registration_id = $1 AND student_id = $2 AND offered_course_id = $3 LIMIT 1`
	err = tx.GetContext(ctx, &exists, dupQuery, registrationID, studentID, offeredCourseID)
	if err == nil {
		err = ErrDoubleEnroll
		return err
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("check existing enrollment: %w", err)
	}
	err = nil

	now := time.Now().UTC()

	const capacityUpdate = `UPDATE offered_course_sections
		SET currently_enrolled_student = currently_enrolled_student + 1, updated_at = $1
		WHERE id = $2 AND currently_enrolled_student < max_capacity`
	var result sql.Result
	if result, err = tx.ExecContext(ctx, capacityUpdate, now, sectionID); err != nil {
		return fmt.Errorf("increment section counter: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		err = ErrSectionFull
		return err
	}

	const insert = `INSERT INTO student_semester_registration_courses (semester_registration_id, student_id, offered_course_id, offered_course_section_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err = tx.ExecContext(ctx, insert, registrationID, studentID, offeredCourseID, sectionID, now); err != nil {
		return fmt.Errorf("record enrollment: %w", err)
	}

	const creditUpdate = `UPDATE student_semester_registrations
		SET total_credits_taken = total_credits_taken + $1, updated_at = $2
		WHERE semester_registration_id = $3 AND student_id = $4`
	if _, err = tx.ExecContext(ctx, creditUpdate, credits, now, registrationID, studentID); err != nil {
		return fmt.Errorf("update credit total: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit enroll tx: %w", err)
	}
	return nil
}

// Withdraw removes a course from the student's ledger, reversing the section
// counter and the credit total in one transaction.
func (r *EnrollmentRepository) Withdraw(ctx context.Context, registrationID, studentID, offeredCourseID string, credits int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin withdraw tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var sectionID string
	const findQuery = `SELECT offered_course_section_id FROM student_semester_registration_courses
		WHERE semester_registration_id = $1 AND student_id = $2 AND offered_course_id = $3`
	err = tx.GetContext(ctx, &sectionID, findQuery, registrationID, studentID, offeredCourseID)
	if err == sql.ErrNoRows {
		err = ErrNotEnrolled
		return err
	}
	if err != nil {
		return fmt.Errorf("find enrollment: %w", err)
	}

	now := time.Now().UTC()

	const deleteQuery = `DELETE FROM student_semester_registration_courses
		WHERE semester_registration_id = $1 AND student_id = $2 AND offered_course_id = $3`
	if _, err = tx.ExecContext(ctx, deleteQuery, registrationID, studentID, offeredCourseID); err != nil {
		return fmt.Errorf("remove enrollment: %w", err)
	}

	const capacityUpdate = `UPDATE offered_course_sections
		SET currently_enrolled_student = GREATEST(currently_enrolled_student - 1, 0), updated_at = $1
		WHERE id = $2`
	if _, err = tx.ExecContext(ctx, capacityUpdate, now, sectionID); err != nil {
		return fmt.Errorf("decrement section counter: %w", err)
	}

	const creditUpdate = `UPDATE student_semester_registrations
		SET total_credits_taken = GREATEST(total_credits_taken - $1, 0), updated_at = $2
		WHERE semester_registration_id = $3 AND student_id = $4`
	if _, err = tx.ExecContext(ctx, creditUpdate, credits, now, registrationID, studentID); err != nil {
		return fmt.Errorf("update credit total: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit withdraw tx: %w", err)
	}
	return nil
}

// Confirm marks the student's ledger row as confirmed.
func (r *EnrollmentRepository) Confirm(ctx context.Context, registrationID, studentID string) error {
	const query = `UPDATE student_semester_registrations SET is_confirmed = TRUE, updated_at = $1
		WHERE semester_registration_id = $2 AND student_id = $3`
	if _, err := r.db.ExecContext(ctx, query, time.Now().UTC(), registrationID, studentID); err != nil {
		return fmt.Errorf("confirm registration: %w", err)
	}
	return nil
}

// ListEnrolledSections returns the sections a student selected in a registration.
func (r *EnrollmentRepository) ListEnrolledSections(ctx context.Context, registrationID, studentID string) ([]models.EnrolledSectionDetail, error) {
	const query = `SELECT ssrc.semester_registration_id, ssrc.student_id, ssrc.offered_course_id, ssrc.offered_course_section_id, ssrc.created_at,
		oc.course_id, sec.title AS section_title, c.title AS course_title, c.code AS course_code, c.credits AS course_credits
		FROM student_semester_registration_courses ssrc
		JOIN offered_course_sections sec ON sec.id = ssrc.offered_course_section_id
		JOIN offered_courses oc ON oc.id = ssrc.offered_course_id
		JOIN courses c ON c.id = oc.course_id
		WHERE ssrc.semester_registration_id = $1 AND ssrc.student_id = $2
		ORDER BY c.code ASC`
	var sections []models.EnrolledSectionDetail
	if err := r.db.SelectContext(ctx, &sections, query, registrationID, studentID); err != nil {
		return nil, fmt.Errorf("list enrolled sections: %w", err)
	}
	return sections, nil
}

// TakenSections maps offered course IDs to the section the student picked.
func (r *EnrollmentRepository) TakenSections(ctx context.Context, registrationID, studentID string) (map[string]string, error) {
	type row struct {
		OfferedCourseID string `db:"offered_course_id"`
		SectionID       string `db:"offered_course_section_id"`
	}
	const query = `SELECT offered_course_id, offered_course_section_id FROM student_semester_registration_courses
		WHERE semester_registration_id = $1 AND student_id = $2`
	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query, registrationID, studentID); err != nil {
		return nil, fmt.Errorf("load taken sections: %w", err)
	}
	taken := make(map[string]string, len(rows))
	for _, item := range rows {
		taken[item.OfferedCourseID] = item.SectionID
	}
	return taken, nil
}
