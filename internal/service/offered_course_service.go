package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-sims-api/internal/models"
	appErrors "github.com/noah-isme/uni-sims-api/pkg/errors"
)

type offeredCourseRepository interface {
	List(ctx context.Context, filter models.OfferedCourseFilter) ([]models.OfferedCourseDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.OfferedCourseDetail, error)
	CreateBatch(ctx context.Context, registrationID, departmentID string, courseIDs []string) ([]models.OfferedCourse, error)
	Delete(ctx context.Context, id string) error
	CountSections(ctx context.Context, id string) (int, error)
}

type offeredCourseRegistrationRepository interface {
	FindByID(ctx context.Context, id string) (*models.RegistrationDetail, error)
}

type offeredCourseCatalogueRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type offeredCourseStudentRepository interface {
	DepartmentExists(ctx context.Context, id string) (bool, error)
}

// CreateOfferedCoursesRequest offers a batch of catalogue courses to one
// department within a registration.
type CreateOfferedCoursesRequest struct {
	SemesterRegistrationID string   `json:"semester_registration_id" validate:"required"`
	AcademicDepartmentID   string   `json:"academic_department_id" validate:"required"`
	CourseIDs              []string `json:"course_ids" validate:"required,min=1,dive,required"`
}

// OfferedCourseService manages the per-registration course offer list.
type OfferedCourseService struct {
	repo          offeredCourseRepository
	registrations offeredCourseRegistrationRepository
	courses       offeredCourseCatalogueRepository
	students      offeredCourseStudentRepository
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewOfferedCourseService creates a new offered course service instance.
func NewOfferedCourseService(
	repo offeredCourseRepository,
	registrations offeredCourseRegistrationRepository,
	courses offeredCourseCatalogueRepository,
	students offeredCourseStudentRepository,
	validate *validator.Validate,
	logger *zap.Logger,
) *OfferedCourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OfferedCourseService{repo: repo, registrations: registrations, courses: courses, students: students, validator: validate, logger: logger}
}

// List returns paginated offered courses.
func (s *OfferedCourseService) List(ctx context.Context, filter models.OfferedCourseFilter) ([]models.OfferedCourseDetail, *models.Pagination, error) {
	offered, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list offered courses")
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
	return offered, pagination, nil
}

// Get returns an offered course by ID.
func (s *OfferedCourseService) Get(ctx context.Context, id string) (*models.OfferedCourseDetail, error) {
	offered, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "offered course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load offered course")
	}
	return offered, nil
}

// Create offers the given courses to a department, skipping already offered
// ones.
func (s *OfferedCourseService) Create(ctx context.Context, req CreateOfferedCoursesRequest) ([]models.OfferedCourse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid offered course payload")
	}

	registration, err := s.registrations.FindByID(ctx, req.SemesterRegistrationID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	if registration.Status == models.RegistrationStatusEnded {
		return nil, appErrors.Clone(appErrors.ErrConflict, "registration has ended")
	}

	exists, err := s.students.DepartmentExists(ctx, req.AcademicDepartmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check department")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "academic department not found")
	}

	for _, courseID := range req.CourseIDs {
		if _, err := s.courses.FindByID(ctx, courseID); err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
		}
	}

	created, err := s.repo.CreateBatch(ctx, req.SemesterRegistrationID, req.AcademicDepartmentID, req.CourseIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create offered courses")
	}
	return created, nil
}

// Delete removes an offered course without sections.
func (s *OfferedCourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "offered course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load offered course")
	}

	count, err := s.repo.CountSections(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check offered course usage")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "offered course has sections attached")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete offered course")
	}
	return nil
}
