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

// OfferedCourseRepository handles persistence for courses offered within a registration.
type OfferedCourseRepository struct {
	db *sqlx.DB
}

// NewOfferedCourseRepository instantiates an offered course repository.
func NewOfferedCourseRepository(db *sqlx.DB) *OfferedCourseRepository {
	return &OfferedCourseRepository{db: db}
}

// List returns offered courses matching provided filters.
func (r *OfferedCourseRepository) List(ctx context.Context, filter models.OfferedCourseFilter) ([]models.OfferedCourseDetail, int, error) {
	base := `FROM offered_courses oc JOIN courses c ON c.id = oc.course_id WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.SemesterRegistrationID != "" {
		conditions = append(conditions, fmt.Sprintf("oc.semester_registration_id = $%d", len(args)+1))
		args = append(args, filter.SemesterRegistrationID)
	}
	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("oc.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.AcademicDepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("oc.academic_department_id = $%d", len(args)+1))
		args = append(args, filter.AcademicDepartmentID)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
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

	query := fmt.Sprintf(`SELECT oc.id, oc.semester_registration_id, oc.course_id, oc.academic_department_id,
		oc.created_at, oc.updated_at,
		c.title AS course_title, c.code AS course_code, c.credits AS course_credits
		%s ORDER BY oc.%s %s LIMIT %d OFFSET %d`, base, sortBy, order, size, offset)

	var offered []models.OfferedCourseDetail
	if err := r.db.SelectContext(ctx, &offered, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list offered courses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count offered courses: %w", err)
	}

	return offered, total, nil
}

// FindByID loads an offered course with catalog details.
func (r *OfferedCourseRepository) FindByID(ctx context.Context, id string) (*models.OfferedCourseDetail, error) {
	const query = `SELECT oc.id, oc.semester_registration_id, oc.course_id, oc.academic_department_id,
		oc.created_at, oc.updated_at,
		c.title AS course_title, c.code AS course_code, c.credits AS course_credits
		FROM offered_courses oc
		JOIN courses c ON c.id = oc.course_id
		WHERE oc.id = $1`
	var offered models.OfferedCourseDetail
	if err := r.db.GetContext(ctx, &offered, query, id); err != nil {
		return nil, err
	}
	return &offered, nil
}

// Exists reports whether the course is already offered in the registration.
func (r *OfferedCourseRepository) Exists(ctx context.Context, registrationID, courseID string) (bool, error) {
	const query = `SELECT 1 FROM offered_courses WHERE semester_registration_id = $1 AND course_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, registrationID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check offered course uniqueness: %w", err)
	}
	return true, nil
}

// CreateBatch inserts offered courses for the given course IDs, skipping duplicates.
func (r *OfferedCourseRepository) CreateBatch(ctx context.Context, registrationID, departmentID string, courseIDs []string) ([]models.OfferedCourse, error) {
	now := time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create offered courses tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insert = `INSERT INTO offered_courses (id, semester_registration_id, course_id, academic_department_id, created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, $5
		WHERE NOT EXISTS (SELECT 1 FROM offered_courses WHERE semester_registration_id = $2 AND course_id = $3)`

	created := make([]models.OfferedCourse, 0, len(courseIDs))
	for _, courseID := range courseIDs {
		offered := models.OfferedCourse{
			ID:                     uuid.NewString(),
			SemesterRegistrationID: registrationID,
			CourseID:               courseID,
			AcademicDepartmentID:   departmentID,
			CreatedAt:              now,
			UpdatedAt:              now,
		}
		var result sql.Result
		if result, err = tx.ExecContext(ctx, insert, offered.ID, registrationID, courseID, departmentID, now); err != nil {
			return nil, fmt.Errorf("create offered course: %w", err)
		}
		if rows, _ := result.RowsAffected(); rows > 0 {
			created = append(created, offered)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create offered courses tx: %w", err)
	}
	return created, nil
}

// Delete removes an offered course permanently.
func (r *OfferedCourseRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM offered_courses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete offered course: %w", err)
	}
	return nil
}

// CountSections returns the number of sections under the offered course.
func (r *OfferedCourseRepository) CountSections(ctx context.Context, id string) (int, error) {
	const query = `SELECT COUNT(*) FROM offered_course_sections WHERE offered_course_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count offered course sections: %w", err)
	}
	return count, nil
}
