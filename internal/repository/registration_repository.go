package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-sims-api/internal/models"
)

// RegistrationRepository handles persistence for semester registration periods.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository instantiates a registration repository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// List returns registration periods matching provided filters.
func (r *RegistrationRepository) List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, int, error) {
	base := `FROM semester_registrations sr JOIN academic_semesters s ON s.id = sr.academic_semester_id WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("sr.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.AcademicSemesterID != "" {
		conditions = append(conditions, fmt.Sprintf("sr.academic_semester_id = $%d", len(args)+1))
		args = append(args, filter.AcademicSemesterID)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"start_date": true,
		"end_date":   true,
		"status":     true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT sr.id, sr.academic_semester_id, sr.start_date, sr.end_date, sr.status,
		sr.min_credit, sr.max_credit, sr.created_at, sr.updated_at,
		s.title AS semester_title, s.year AS semester_year, s.code AS semester_code, s.is_current AS semester_is_current
		%s ORDER BY sr.%s %s LIMIT %d OFFSET %d`, base, sortBy, order, size, offset)

	var registrations []models.RegistrationDetail
	if err := r.db.SelectContext(ctx, &registrations, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count registrations: %w", err)
	}

	return registrations, total, nil
}

// FindByID loads a registration with its semester context.
func (r *RegistrationRepository) FindByID(ctx context.Context, id string) (*models.RegistrationDetail, error) {
	const query = `SELECT sr.id, sr.academic_semester_id, sr.start_date, sr.end_date, sr.status,
		sr.min_credit, sr.max_credit, sr.created_at, sr.updated_at,
		s.title AS semester_title, s.year AS semester_year, s.code AS semester_code, s.is_current AS semester_is_current
		FROM semester_registrations sr
		JOIN academic_semesters s ON s.id = sr.academic_semester_id
		WHERE sr.id = $1`
	var registration models.RegistrationDetail
	if err := r.db.GetContext(ctx, &registration, query, id); err != nil {
		return nil, err
	}
	return &registration, nil
}

// FindOngoing returns the registration currently accepting course selections.
func (r *RegistrationRepository) FindOngoing(ctx context.Context) (*models.RegistrationDetail, error) {
	const query = `SELECT sr.id, sr.academic_semester_id, sr.start_date, sr.end_date, sr.status,
		sr.min_credit, sr.max_credit, sr.created_at, sr.updated_at,
		s.title AS semester_title, s.year AS semester_year, s.code AS semester_code, s.is_current AS semester_is_current
		FROM semester_registrations sr
		JOIN academic_semesters s ON s.id = sr.academic_semester_id
		WHERE sr.status = 'ONGOING' LIMIT 1`
	var registration models.RegistrationDetail
	if err := r.db.GetContext(ctx, &registration, query); err != nil {
		return nil, err
	}
	return &registration, nil
}

// CountOpen returns the number of registrations still UPCOMING or ONGOING.
func (r *RegistrationRepository) CountOpen(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM semester_registrations WHERE status IN ('UPCOMING', 'ONGOING')`
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count open registrations: %w", err)
	}
	return count, nil
}

// Create inserts a new registration period.
func (r *RegistrationRepository) Create(ctx context.Context, registration *models.SemesterRegistration) error {
	if registration.ID == "" {
		registration.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if registration.CreatedAt.IsZero() {
		registration.CreatedAt = now
	}
	registration.UpdatedAt = now

	const query = `INSERT INTO semester_registrations (id, academic_semester_id, start_date, end_date, status, min_credit, max_credit, created_at, updated_at)
		VALUES (:id, :academic_semester_id, :start_date, :end_date, :status, :min_credit, :max_credit, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, registration); err != nil {
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

// Update modifies an existing registration period.
func (r *RegistrationRepository) Update(ctx context.Context, registration *models.SemesterRegistration) error {
	registration.UpdatedAt = time.Now().UTC()
	const query = `UPDATE semester_registrations SET start_date = :start_date, end_date = :end_date, status = :status, min_credit = :min_credit, max_credit = :max_credit, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, registration); err != nil {
		return fmt.Errorf("update registration: %w", err)
	}
	return nil
}

// Delete removes a registration period permanently.
func (r *RegistrationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM semester_registrations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	return nil
}

// CountStudentRegistrations returns how many students joined the registration.
func (r *RegistrationRepository) CountStudentRegistrations(ctx context.Context, id string) (int, error) {
	const query = `SELECT COUNT(*) FROM student_semester_registrations WHERE semester_registration_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count student registrations: %w", err)
	}
	return count, nil
}

type rolloverPaymentRow struct {
	StudentID         string `db:"student_id"`
	TotalCreditsTaken int    `db:"total_credits_taken"`
}

type rolloverCourseRow struct {
	StudentID string `db:"student_id"`
	CourseID  string `db:"course_id"`
}

// MaterializeSemester flips the current semester flag and converts confirmed
// registrations into enrolled courses, seeded marks, and tuition payments.
// Re-running it for the same registration creates no duplicate rows.
func (r *RegistrationRepository) MaterializeSemester(ctx context.Context, registrationID, semesterID string, perCreditFee float64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rollover tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()

	if _, err = tx.ExecContext(ctx, `UPDATE academic_semesters SET is_current = FALSE, updated_at = $1 WHERE is_current = TRUE AND id <> $2`, now, semesterID); err != nil {
		return fmt.Errorf("unset current semesters: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `UPDATE academic_semesters SET is_current = TRUE, updated_at = $1 WHERE id = $2`, now, semesterID); err != nil {
		return fmt.Errorf("set current semester: %w", err)
	}

	var payments []rolloverPaymentRow
	const paymentRowsQuery = `SELECT student_id, total_credits_taken FROM student_semester_registrations
		WHERE semester_registration_id = $1 AND is_confirmed = TRUE AND total_credits_taken > 0`
	if err = tx.SelectContext(ctx, &payments, paymentRowsQuery, registrationID); err != nil {
		return fmt.Errorf("load confirmed registrations: %w", err)
	}

	const insertPayment = `INSERT INTO student_semester_payments (id, student_id, academic_semester_id, total_payment, paid_amount, due_amount, payment_status, created_at, updated_at)
		SELECT $1, $2, $3, $4, 0, $4, 'PENDING', $5, $5
		WHERE NOT EXISTS (SELECT 1 FROM student_semester_payments WHERE student_id = $2 AND academic_semester_id = $3)`
	for _, row := range payments {
		total := float64(row.TotalCreditsTaken) * perCreditFee
		if _, err = tx.ExecContext(ctx, insertPayment, uuid.NewString(), row.StudentID, semesterID, total, now); err != nil {
			return fmt.Errorf("seed semester payment: %w", err)
		}
	}

	var courseRows []rolloverCourseRow
	const courseRowsQuery = `SELECT ssrc.student_id, oc.course_id
		FROM student_semester_registration_courses ssrc
		JOIN offered_courses oc ON oc.id = ssrc.offered_course_id
		JOIN student_semester_registrations ssr
			ON ssr.student_id = ssrc.student_id
			AND ssr.semester_registration_id = ssrc.semester_registration_id
		WHERE ssrc.semester_registration_id = $1 AND ssr.is_confirmed = TRUE`
	if err = tx.SelectContext(ctx, &courseRows, courseRowsQuery, registrationID); err != nil {
		return fmt.Errorf("load confirmed course selections: %w", err)
	}

	const findEnrolled = `SELECT id FROM student_enrolled_courses WHERE student_id = $1 AND course_id = $2 AND academic_semester_id = $3`
	const insertEnrolled = `INSERT INTO student_enrolled_courses (id, student_id, course_id, academic_semester_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'ONGOING', $5, $5)`
	const insertMark = `INSERT INTO student_enrolled_course_marks (id, student_id, student_enrolled_course_id, academic_semester_id, exam_type, created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, $6, $6
		WHERE NOT EXISTS (SELECT 1 FROM student_enrolled_course_marks WHERE student_enrolled_course_id = $3 AND exam_type = $5)`

	for _, row := range courseRows {
		var enrolledID string
		err = tx.GetContext(ctx, &enrolledID, findEnrolled, row.StudentID, row.CourseID, semesterID)
		if err == sql.ErrNoRows {
			enrolledID = uuid.NewString()
			if _, err = tx.ExecContext(ctx, insertEnrolled, enrolledID, row.StudentID, row.CourseID, semesterID, now); err != nil {
				return fmt.Errorf("materialize enrolled course: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("check enrolled course: %w", err)
		}

		for _, examType := range []models.ExamType{models.ExamTypeMidterm, models.ExamTypeFinal} {
			if _, err = tx.ExecContext(ctx, insertMark, uuid.NewString(), row.StudentID, enrolledID, semesterID, examType, now); err != nil {
				return fmt.Errorf("seed %s mark: %w", strings.ToLower(string(examType)), err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit rollover tx: %w", err)
	}
	return nil
}
