package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-sims-api/internal/models"
)

// ScheduleRepository provides read access to class schedules with room and
// faculty context.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository instantiates a schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// List returns class schedules matching provided filters.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ClassScheduleDetail, int, error) {
	base := `FROM offered_course_class_schedules cs
		JOIN rooms rm ON rm.id = cs.room_id
		JOIN buildings b ON b.id = rm.building_id
		JOIN faculty_members f ON f.id = cs.faculty_id
		WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.SemesterRegistrationID != "" {
		conditions = append(conditions, fmt.Sprintf("cs.semester_registration_id = $%d", len(args)+1))
		args = append(args, filter.SemesterRegistrationID)
	}
	if filter.OfferedCourseSectionID != "" {
		conditions = append(conditions, fmt.Sprintf("cs.offered_course_section_id = $%d", len(args)+1))
		args = append(args, filter.OfferedCourseSectionID)
	}
	if filter.RoomID != "" {
		conditions = append(conditions, fmt.Sprintf("cs.room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}
	if filter.FacultyID != "" {
		conditions = append(conditions, fmt.Sprintf("cs.faculty_id = $%d", len(args)+1))
		args = append(args, filter.FacultyID)
	}
	if filter.DayOfWeek != "" {
		conditions = append(conditions, fmt.Sprintf("cs.day_of_week = $%d", len(args)+1))
		args = append(args, filter.DayOfWeek)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"day_of_week": true,
		"start_time":  true,
		"created_at":  true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "start_time"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
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

	query := fmt.Sprintf(`SELECT cs.id, cs.offered_course_section_id, cs.semester_registration_id,
		cs.day_of_week, cs.start_time, cs.end_time, cs.room_id, cs.faculty_id, cs.created_at, cs.updated_at,
		rm.room_number, b.title AS building_title, f.full_name AS faculty_name
		%s ORDER BY cs.%s %s LIMIT %d OFFSET %d`, base, sortBy, order, size, offset)

	var schedules []models.ClassScheduleDetail
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list class schedules: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count class schedules: %w", err)
	}

	return schedules, total, nil
}

// ListForStudent returns the weekly schedule of a student's enrolled sections
// within a registration.
func (r *ScheduleRepository) ListForStudent(ctx context.Context, registrationID, studentID string) ([]models.ClassScheduleDetail, error) {
	const query = `SELECT cs.id, cs.offered_course_section_id, cs.semester_registration_id,
		cs.day_of_week, cs.start_time, cs.end_time, cs.room_id, cs.faculty_id, cs.created_at, cs.updated_at,
		rm.room_number, b.title AS building_title, f.full_name AS faculty_name
		FROM student_semester_registration_courses ssrc
		JOIN offered_course_class_schedules cs ON cs.offered_course_section_id = ssrc.offered_course_section_id
		JOIN rooms rm ON rm.id = cs.room_id
		JOIN buildings b ON b.id = rm.building_id
		JOIN faculty_members f ON f.id = cs.faculty_id
		WHERE ssrc.semester_registration_id = $1 AND ssrc.student_id = $2
		ORDER BY cs.day_of_week, cs.start_time`
	var schedules []models.ClassScheduleDetail
	if err := r.db.SelectContext(ctx, &schedules, query, registrationID, studentID); err != nil {
		return nil, fmt.Errorf("list student schedules: %w", err)
	}
	return schedules, nil
}
