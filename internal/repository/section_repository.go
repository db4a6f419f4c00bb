package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-sims-api/internal/models"
)

// Booking conflicts detected inside the section creation transaction.
var (
	ErrRoomSlotTaken    = errors.New("room slot taken")
	ErrFacultySlotTaken = errors.New("faculty slot taken")
)

// SectionRepository handles persistence for offered course sections and their
// class schedules.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository instantiates a section repository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// List returns sections matching provided filters.
func (r *SectionRepository) List(ctx context.Context, filter models.SectionFilter) ([]models.OfferedCourseSection, int, error) {
	base := "FROM offered_course_sections WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.OfferedCourseID != "" {
		conditions = append(conditions, fmt.Sprintf("offered_course_id = $%d", len(args)+1))
		args = append(args, filter.OfferedCourseID)
	}
	if filter.SemesterRegistrationID != "" {
		conditions = append(conditions, fmt.Sprintf("semester_registration_id = $%d", len(args)+1))
		args = append(args, filter.SemesterRegistrationID)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"title":      true,
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

	query := fmt.Sprintf(`SELECT id, offered_course_id, semester_registration_id, title, max_capacity, currently_enrolled_student, created_at, updated_at
		%s ORDER BY %s %s LIMIT %d OFFSET %d`, base, sortBy, order, size, offset)

	var sections []models.OfferedCourseSection
	if err := r.db.SelectContext(ctx, &sections, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sections: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sections: %w", err)
	}

	return sections, total, nil
}

// FindByID loads a section together with its course and class schedules.
func (r *SectionRepository) FindByID(ctx context.Context, id string) (*models.SectionDetail, error) {
	const query = `SELECT sec.id, sec.offered_course_id, sec.semester_registration_id, sec.title,
		sec.max_capacity, sec.currently_enrolled_student, sec.created_at, sec.updated_at,
		c.title AS course_title, c.code AS course_code, c.credits AS course_credits
		FROM offered_course_sections sec
		JOIN offered_courses oc ON oc.id = sec.offered_course_id
		JOIN courses c ON c.id = oc.course_id
		WHERE sec.id = $1`
	var section models.SectionDetail
	if err := r.db.GetContext(ctx, &section, query, id); err != nil {
		return nil, err
	}

	const scheduleQuery = `SELECT id, offered_course_section_id, semester_registration_id, day_of_week, start_time, end_time, room_id, faculty_id, created_at, updated_at
		FROM offered_course_class_schedules WHERE offered_course_section_id = $1 ORDER BY day_of_week, start_time`
	if err := r.db.SelectContext(ctx, &section.Schedules, scheduleQuery, id); err != nil {
		return nil, fmt.Errorf("load section schedules: %w", err)
	}

	return &section, nil
}

// ExistsByTitle reports whether the offered course already has a section with
// the given title.
func (r *SectionRepository) ExistsByTitle(ctx context.Context, offeredCourseID, title string) (bool, error) {
	const query = `SELECT 1 FROM offered_course_sections WHERE offered_course_id = $1 AND title = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, offeredCourseID, title); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check section uniqueness: %w", err)
	}
	return true, nil
}

// RoomSlots returns the booked time slots of a room within a registration.
func (r *SectionRepository) RoomSlots(ctx context.Context, registrationID, roomID string) ([]models.TimeSlot, error) {
	const query = `SELECT day_of_week, start_time, end_time FROM offered_course_class_schedules
		WHERE semester_registration_id = $1 AND room_id = $2`
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query, registrationID, roomID); err != nil {
		return nil, fmt.Errorf("load room slots: %w", err)
	}
	return slots, nil
}

// FacultySlots returns the booked time slots of a faculty member within a registration.
func (r *SectionRepository) FacultySlots(ctx context.Context, registrationID, facultyID string) ([]models.TimeSlot, error) {
	const query = `SELECT day_of_week, start_time, end_time FROM offered_course_class_schedules
		WHERE semester_registration_id = $1 AND faculty_id = $2`
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query, registrationID, facultyID); err != nil {
		return nil, fmt.Errorf("load faculty slots: %w", err)
	}
	return slots, nil
}

// CreateWithSchedules inserts a section and its class schedules atomically.
// Room and faculty keys are serialized with advisory locks and the slot
// availability is rechecked inside the transaction, so two concurrent creates
// cannot book the same room or faculty for an overlapping slot.
func (r *SectionRepository) CreateWithSchedules(ctx context.Context, section *models.OfferedCourseSection, schedules []models.OfferedCourseClassSchedule) error {
	if section.ID == "" {
		section.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	section.CreatedAt = now
	section.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create section tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, schedule := range schedules {
		if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "room:"+schedule.RoomID); err != nil {
			return fmt.Errorf("lock room: %w", err)
		}
		if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "faculty:"+schedule.FacultyID); err != nil {
			return fmt.Errorf("lock faculty: %w", err)
		}
	}

	const roomSlotsQuery = `SELECT day_of_week, start_time, end_time FROM offered_course_class_schedules
		WHERE semester_registration_id = $1 AND room_id = $2`
	const facultySlotsQuery = `SELECT day_of_week, start_time, end_time FROM offered_course_class_schedules
		WHERE semester_registration_id = $1 AND faculty_id = $2`

	for _, schedule := range schedules {
		var roomSlots []models.TimeSlot
		if err = tx.SelectContext(ctx, &roomSlots, roomSlotsQuery, section.SemesterRegistrationID, schedule.RoomID); err != nil {
			return fmt.Errorf("recheck room slots: %w", err)
		}
		if models.HasTimeConflict(roomSlots, schedule.Slot()) {
			err = ErrRoomSlotTaken
			return err
		}

		var facultySlots []models.TimeSlot
		if err = tx.SelectContext(ctx, &facultySlots, facultySlotsQuery, section.SemesterRegistrationID, schedule.FacultyID); err != nil {
			return fmt.Errorf("recheck faculty slots: %w", err)
		}
		if models.HasTimeConflict(facultySlots, schedule.Slot()) {
			err = ErrFacultySlotTaken
			return err
		}
	}

	const insertSection = `INSERT INTO offered_course_sections (id, offered_course_id, semester_registration_id, title, max_capacity, currently_enrolled_student, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $6)`
	if _, err = tx.ExecContext(ctx, insertSection, section.ID, section.OfferedCourseID, section.SemesterRegistrationID, section.Title, section.MaxCapacity, now); err != nil {
		return fmt.Errorf("create section: %w", err)
	}

	const insertSchedule = `INSERT INTO offered_course_class_schedules (id, offered_course_section_id, semester_registration_id, day_of_week, start_time, end_time, room_id, faculty_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`
	for i := range schedules {
		schedules[i].ID = uuid.NewString()
		schedules[i].OfferedCourseSectionID = section.ID
		schedules[i].SemesterRegistrationID = section.SemesterRegistrationID
		schedules[i].CreatedAt = now
		schedules[i].UpdatedAt = now
		if _, err = tx.ExecContext(ctx, insertSchedule,
			schedules[i].ID, section.ID, section.SemesterRegistrationID,
			schedules[i].DayOfWeek, schedules[i].StartTime, schedules[i].EndTime,
			schedules[i].RoomID, schedules[i].FacultyID, now); err != nil {
			return fmt.Errorf("create class schedule: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create section tx: %w", err)
	}
	return nil
}

// Delete removes a section and its schedules permanently.
func (r *SectionRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete section tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM offered_course_class_schedules WHERE offered_course_section_id = $1`, id); err != nil {
		return fmt.Errorf("delete section schedules: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM offered_course_sections WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete section tx: %w", err)
	}
	return nil
}

// CountEnrollments returns how many students are enrolled into the section.
func (r *SectionRepository) CountEnrollments(ctx context.Context, id string) (int, error) {
	const query = `SELECT COUNT(*) FROM student_semester_registration_courses WHERE offered_course_section_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count section enrollments: %w", err)
	}
	return count, nil
}
