package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-sims-api/internal/models"
	"github.com/noah-isme/uni-sims-api/internal/repository"
	appErrors "github.com/noah-isme/uni-sims-api/pkg/errors"
)

type sectionRepository interface {
	List(ctx context.Context, filter models.SectionFilter) ([]models.OfferedCourseSection, int, error)
	FindByID(ctx context.Context, id string) (*models.SectionDetail, error)
	ExistsByTitle(ctx context.Context, offeredCourseID, title string) (bool, error)
	RoomSlots(ctx context.Context, registrationID, roomID string) ([]models.TimeSlot, error)
	FacultySlots(ctx context.Context, registrationID, facultyID string) ([]models.TimeSlot, error)
	CreateWithSchedules(ctx context.Context, section *models.OfferedCourseSection, schedules []models.OfferedCourseClassSchedule) error
	Delete(ctx context.Context, id string) error
	CountEnrollments(ctx context.Context, id string) (int, error)
}

type sectionOfferedCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.OfferedCourseDetail, error)
}

type sectionRosterRepository interface {
	FindFacultyByID(ctx context.Context, id string) (*models.FacultyMember, error)
	FindRoomByID(ctx context.Context, id string) (*models.Room, error)
}

// SectionScheduleRequest is one weekly class slot of a new section.
type SectionScheduleRequest struct {
	DayOfWeek models.DayOfWeek `json:"day_of_week" validate:"required,oneof=SATURDAY SUNDAY MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY"`
	StartTime string           `json:"start_time" validate:"required"`
	EndTime   string           `json:"end_time" validate:"required"`
	RoomID    string           `json:"room_id" validate:"required"`
	FacultyID string           `json:"faculty_id" validate:"required"`
}

// CreateSectionRequest describes payload for creating a section with its
// class schedules.
type CreateSectionRequest struct {
	OfferedCourseID string                   `json:"offered_course_id" validate:"required"`
	Title           string                   `json:"title" validate:"required"`
	MaxCapacity     int                      `json:"max_capacity" validate:"required,min=1"`
	Schedules       []SectionScheduleRequest `json:"schedules" validate:"required,min=1,dive"`
}

// SectionService creates and inspects course sections with conflict-free
// room and faculty bookings.
type SectionService struct {
	repo      sectionRepository
	offered   sectionOfferedCourseRepository
	roster    sectionRosterRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSectionService creates a new section service instance.
func NewSectionService(repo sectionRepository, offered sectionOfferedCourseRepository, roster sectionRosterRepository, validate *validator.Validate, logger *zap.Logger) *SectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SectionService{repo: repo, offered: offered, roster: roster, validator: validate, logger: logger}
}

// List returns paginated sections.
func (s *SectionService) List(ctx context.Context, filter models.SectionFilter) ([]models.OfferedCourseSection, *models.Pagination, error) {
	sections, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sections")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}

	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return sections, pagination, nil
}

// Get returns a section with its schedules.
func (s *SectionService) Get(ctx context.Context, id string) (*models.SectionDetail, error) {
	section, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}
	return section, nil
}

// Create validates slots, checks room and faculty availability, then creates
// the section and its schedules atomically. The availability check is made
// twice: once here for a fast answer and once inside the creation transaction
// under advisory locks.
func (s *SectionService) Create(ctx context.Context, req CreateSectionRequest) (*models.SectionDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}

	offered, err := s.offered.FindByID(ctx, req.OfferedCourseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "offered course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load offered course")
	}

	exists, err := s.repo.ExistsByTitle(ctx, offered.ID, req.Title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check section uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrValidation, "section title already used for this offered course")
	}

	schedules := make([]models.OfferedCourseClassSchedule, 0, len(req.Schedules))
	requested := make([]models.TimeSlot, 0, len(req.Schedules))
	for _, item := range req.Schedules {
		slot := models.TimeSlot{DayOfWeek: item.DayOfWeek, StartTime: item.StartTime, EndTime: item.EndTime}
		if err := slot.Validate(); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class schedule")
		}
		if models.HasTimeConflict(requested, slot) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "section schedules overlap each other")
		}
		requested = append(requested, slot)

		if _, err := s.roster.FindRoomByID(ctx, item.RoomID); err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
		}
		if _, err := s.roster.FindFacultyByID(ctx, item.FacultyID); err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
		}

		roomSlots, err := s.repo.RoomSlots(ctx, offered.SemesterRegistrationID, item.RoomID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room availability")
		}
		if models.HasTimeConflict(roomSlots, slot) {
			return nil, appErrors.Clone(appErrors.ErrRoomBooked, "room is already booked")
		}

		facultySlots, err := s.repo.FacultySlots(ctx, offered.SemesterRegistrationID, item.FacultyID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check faculty availability")
		}
		if models.HasTimeConflict(facultySlots, slot) {
			return nil, appErrors.Clone(appErrors.ErrFacultyBooked, "faculty is already booked")
		}

		schedules = append(schedules, models.OfferedCourseClassSchedule{
			DayOfWeek: item.DayOfWeek,
			StartTime: item.StartTime,
			EndTime:   item.EndTime,
			RoomID:    item.RoomID,
			FacultyID: item.FacultyID,
		})
	}

	section := &models.OfferedCourseSection{
		OfferedCourseID:        offered.ID,
		SemesterRegistrationID: offered.SemesterRegistrationID,
		Title:                  req.Title,
		MaxCapacity:            req.MaxCapacity,
	}

	if err := s.repo.CreateWithSchedules(ctx, section, schedules); err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomSlotTaken):
			return nil, appErrors.Clone(appErrors.ErrRoomBooked, "room is already booked")
		case errors.Is(err, repository.ErrFacultySlotTaken):
			return nil, appErrors.Clone(appErrors.ErrFacultyBooked, "faculty is already booked")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create section")
		}
	}

	return s.Get(ctx, section.ID)
}

// Delete removes a section nobody enrolled into.
func (s *SectionService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}

	count, err := s.repo.CountEnrollments(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check section usage")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "students are enrolled in this section")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete section")
	}
	return nil
}
