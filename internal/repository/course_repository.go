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

// CourseRepository handles persistence for catalog courses and their prerequisites.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository instantiates a course repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns courses matching provided filters.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	base := "FROM courses WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%d OR code ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Code != "" {
		conditions = append(conditions, fmt.Sprintf("code = $%d", len(args)+1))
		args = append(args, filter.Code)
	}
	if filter.Credits != 0 {
		conditions = append(conditions, fmt.Sprintf("credits = $%d", len(args)+1))
		args = append(args, filter.Credits)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"title":      true,
		"code":       true,
		"credits":    true,
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

	query := fmt.Sprintf("SELECT id, title, code, credits, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, sortBy, order, size, offset)

	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	return courses, total, nil
}

// FindByID loads a course by identifier.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, title, code, credits, created_at, updated_at FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// ExistsByCode checks code uniqueness across the catalog.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	base := "SELECT 1 FROM courses WHERE code = $1"
	args := []interface{}{code}
	if excludeID != "" {
		base += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, base+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course uniqueness: %w", err)
	}
	return true, nil
}

// Create inserts a course and its prerequisite links in one transaction.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course, prerequisiteIDs []string) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create course tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertCourse = `INSERT INTO courses (id, title, code, credits, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err = tx.ExecContext(ctx, insertCourse, course.ID, course.Title, course.Code, course.Credits, course.CreatedAt, course.UpdatedAt); err != nil {
		return fmt.Errorf("create course: %w", err)
	}

	const insertPrereq = `INSERT INTO course_prerequisites (course_id, prerequisite_id) VALUES ($1, $2)`
	for _, prereqID := range prerequisiteIDs {
		if _, err = tx.ExecContext(ctx, insertPrereq, course.ID, prereqID); err != nil {
			return fmt.Errorf("link prerequisite: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create course tx: %w", err)
	}
	return nil
}

// Update modifies a course and replaces its prerequisite links when provided.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course, prerequisiteIDs []string, replacePrereqs bool) error {
	course.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update course tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const updateCourse = `UPDATE courses SET title = $1, code = $2, credits = $3, updated_at = $4 WHERE id = $5`
	if _, err = tx.ExecContext(ctx, updateCourse, course.Title, course.Code, course.Credits, course.UpdatedAt, course.ID); err != nil {
		return fmt.Errorf("update course: %w", err)
	}

	if replacePrereqs {
		if _, err = tx.ExecContext(ctx, `DELETE FROM course_prerequisites WHERE course_id = $1`, course.ID); err != nil {
			return fmt.Errorf("clear prerequisites: %w", err)
		}
		const insertPrereq = `INSERT INTO course_prerequisites (course_id, prerequisite_id) VALUES ($1, $2)`
		for _, prereqID := range prerequisiteIDs {
			if _, err = tx.ExecContext(ctx, insertPrereq, course.ID, prereqID); err != nil {
				return fmt.Errorf("link prerequisite: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update course tx: %w", err)
	}
	return nil
}

// Delete removes a course permanently.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}

// ListPrerequisites returns the courses required before taking the given course.
func (r *CourseRepository) ListPrerequisites(ctx context.Context, courseID string) ([]models.Course, error) {
	const query = `SELECT c.id, c.title, c.code, c.credits, c.created_at, c.updated_at
		FROM course_prerequisites cp
		JOIN courses c ON c.id = cp.prerequisite_id
		WHERE cp.course_id = $1
		ORDER BY c.code ASC`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, courseID); err != nil {
		return nil, fmt.Errorf("list prerequisites: %w", err)
	}
	return courses, nil
}

// ListPrerequisiteFor returns the courses that require the given course first.
func (r *CourseRepository) ListPrerequisiteFor(ctx context.Context, courseID string) ([]models.Course, error) {
	const query = `SELECT c.id, c.title, c.code, c.credits, c.created_at, c.updated_at
		FROM course_prerequisites cp
		JOIN courses c ON c.id = cp.course_id
		WHERE cp.prerequisite_id = $1
		ORDER BY c.code ASC`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, courseID); err != nil {
		return nil, fmt.Errorf("list dependent courses: %w", err)
	}
	return courses, nil
}

// CountOfferings returns the number of offered courses referencing the course.
func (r *CourseRepository) CountOfferings(ctx context.Context, id string) (int, error) {
	const query = `SELECT COUNT(*) FROM offered_courses WHERE course_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count course offerings: %w", err)
	}
	return count, nil
}
