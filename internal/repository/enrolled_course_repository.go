package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-sims-api/internal/models"
)

// EnrolledCourseRepository handles courses a student is actively taking,
// their exam marks, and the derived academic summary.
type EnrolledCourseRepository struct {
	db *sqlx.DB
}

// NewEnrolledCourseRepository instantiates an enrolled course repository.
func NewEnrolledCourseRepository(db *sqlx.DB) *EnrolledCourseRepository {
	return &EnrolledCourseRepository{db: db}
}

// List returns enrolled courses matching provided filters.
func (r *EnrolledCourseRepository) List(ctx context.Context, filter models.EnrolledCourseFilter) ([]models.EnrolledCourseDetail, int, error) {
	base := `FROM student_enrolled_courses sec
		JOIN courses c ON c.id = sec.course_id
		JOIN academic_semesters s ON s.id = sec.academic_semester_id
		WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("sec.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.AcademicSemesterID != "" {
		conditions = append(conditions, fmt.Sprintf("sec.academic_semester_id = $%d", len(args)+1))
		args = append(args, filter.AcademicSemesterID)
	}
	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("sec.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("sec.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
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

	query := fmt.Sprintf(`SELECT sec.id, sec.student_id, sec.course_id, sec.academic_semester_id,
		sec.status, sec.grade, sec.point, sec.total_marks, sec.created_at, sec.updated_at,
		c.title AS course_title, c.code AS course_code, c.credits AS course_credits,
		s.title AS semester_title, s.year AS semester_year
		%s ORDER BY sec.%s %s LIMIT %d OFFSET %d`, base, sortBy, order, size, offset)

	var courses []models.EnrolledCourseDetail
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list enrolled courses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count enrolled courses: %w", err)
	}

	return courses, total, nil
}

// FindByID loads an enrolled course with catalog details.
func (r *EnrolledCourseRepository) FindByID(ctx context.Context, id string) (*models.EnrolledCourseDetail, error) {
	const query = `SELECT sec.id, sec.student_id, sec.course_id, sec.academic_semester_id,
		sec.status, sec.grade, sec.point, sec.total_marks, sec.created_at, sec.updated_at,
		c.title AS course_title, c.code AS course_code, c.credits AS course_credits,
		s.title AS semester_title, s.year AS semester_year
		FROM student_enrolled_courses sec
		JOIN courses c ON c.id = sec.course_id
		JOIN academic_semesters s ON s.id = sec.academic_semester_id
		WHERE sec.id = $1`
	var course models.EnrolledCourseDetail
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// ListCompletedCourseIDs returns the catalog course IDs the student finished.
func (r *EnrolledCourseRepository) ListCompletedCourseIDs(ctx context.Context, studentID string) ([]string, error) {
	const query = `SELECT course_id FROM student_enrolled_courses WHERE student_id = $1 AND status = 'COMPLETED'`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, studentID); err != nil {
		return nil, fmt.Errorf("list completed courses: %w", err)
	}
	return ids, nil
}

// ListMarks returns the exam marks of an enrolled course.
func (r *EnrolledCourseRepository) ListMarks(ctx context.Context, enrolledCourseID string) ([]models.StudentEnrolledCourseMark, error) {
	const query = `SELECT id, student_id, student_enrolled_course_id, academic_semester_id, exam_type, marks, grade, created_at, updated_at
		FROM student_enrolled_course_marks WHERE student_enrolled_course_id = $1 ORDER BY exam_type`
	var marks []models.StudentEnrolledCourseMark
	if err := r.db.SelectContext(ctx, &marks, query, enrolledCourseID); err != nil {
		return nil, fmt.Errorf("list course marks: %w", err)
	}
	return marks, nil
}

// FindMark loads a single exam mark row.
func (r *EnrolledCourseRepository) FindMark(ctx context.Context, enrolledCourseID string, examType models.ExamType) (*models.StudentEnrolledCourseMark, error) {
	const query = `SELECT id, student_id, student_enrolled_course_id, academic_semester_id, exam_type, marks, grade, created_at, updated_at
		FROM student_enrolled_course_marks WHERE student_enrolled_course_id = $1 AND exam_type = $2`
	var mark models.StudentEnrolledCourseMark
	if err := r.db.GetContext(ctx, &mark, query, enrolledCourseID, examType); err != nil {
		return nil, err
	}
	return &mark, nil
}

// UpdateMark writes a mark and its letter grade onto an exam row.
func (r *EnrolledCourseRepository) UpdateMark(ctx context.Context, id string, marks int, grade string) error {
	const query = `UPDATE student_enrolled_course_marks SET marks = $1, grade = $2, updated_at = $3 WHERE id = $4`
	if _, err := r.db.ExecContext(ctx, query, marks, grade, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update exam mark: %w", err)
	}
	return nil
}

type academicAggregate struct {
	Credits int     `db:"credits"`
	CGPA    float64 `db:"cgpa"`
}

// Finalize closes an enrolled course with its final result and refreshes the
// student's academic summary from all completed courses, atomically.
func (r *EnrolledCourseRepository) Finalize(ctx context.Context, enrolledCourseID, studentID string, totalMarks int, grade string, point float64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin finalize tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()

	const closeCourse = `UPDATE student_enrolled_courses
		SET grade = $1, point = $2, total_marks = $3, status = 'COMPLETED', updated_at = $4
		WHERE id = $5`
	if _, err = tx.ExecContext(ctx, closeCourse, grade, point, totalMarks, now, enrolledCourseID); err != nil {
		return fmt.Errorf("close enrolled course: %w", err)
	}

	var aggregate academicAggregate
	const aggregateQuery = `SELECT COALESCE(SUM(c.credits), 0) AS credits,
		COALESCE(SUM(sec.point * c.credits) / NULLIF(SUM(c.credits), 0), 0) AS cgpa
		FROM student_enrolled_courses sec
		JOIN courses c ON c.id = sec.course_id
		WHERE sec.student_id = $1 AND sec.status = 'COMPLETED'`
	if err = tx.GetContext(ctx, &aggregate, aggregateQuery, studentID); err != nil {
		return fmt.Errorf("aggregate academic info: %w", err)
	}

	const upsert = `INSERT INTO student_academic_infos (id, student_id, total_completed_credit, cgpa, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (student_id) DO UPDATE SET total_completed_credit = $3, cgpa = $4, updated_at = $5`
	if _, err = tx.ExecContext(ctx, upsert, uuid.NewString(), studentID, aggregate.Credits, aggregate.CGPA, now); err != nil {
		return fmt.Errorf("refresh academic info: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit finalize tx: %w", err)
	}
	return nil
}

// FindAcademicInfo loads a student's academic summary.
func (r *EnrolledCourseRepository) FindAcademicInfo(ctx context.Context, studentID string) (*models.StudentAcademicInfo, error) {
	const query = `SELECT id, student_id, total_completed_credit, cgpa, created_at, updated_at
		FROM student_academic_infos WHERE student_id = $1`
	var info models.StudentAcademicInfo
	if err := r.db.GetContext(ctx, &info, query, studentID); err != nil {
		return nil, err
	}
	return &info, nil
}

// ListCompletedWithCourse returns the student's completed courses joined with
// catalog rows, ordered for transcript rendering.
func (r *EnrolledCourseRepository) ListCompletedWithCourse(ctx context.Context, studentID string) ([]models.EnrolledCourseDetail, error) {
	const query = `SELECT sec.id, sec.student_id, sec.course_id, sec.academic_semester_id,
		sec.status, sec.grade, sec.point, sec.total_marks, sec.created_at, sec.updated_at,
		c.title AS course_title, c.code AS course_code, c.credits AS course_credits,
		s.title AS semester_title, s.year AS semester_year
		FROM student_enrolled_courses sec
		JOIN courses c ON c.id = sec.course_id
		JOIN academic_semesters s ON s.id = sec.academic_semester_id
		WHERE sec.student_id = $1 AND sec.status = 'COMPLETED'
		ORDER BY s.year ASC, s.code ASC, c.code ASC`
	var courses []models.EnrolledCourseDetail
	if err := r.db.SelectContext(ctx, &courses, query, studentID); err != nil {
		return nil, fmt.Errorf("list completed courses: %w", err)
	}
	return courses, nil
}
