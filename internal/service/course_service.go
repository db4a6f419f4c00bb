package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-sims-api/internal/models"
	appErrors "github.com/noah-isme/uni-sims-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	Create(ctx context.Context, course *models.Course, prerequisiteIDs []string) error
	Update(ctx context.Context, course *models.Course, prerequisiteIDs []string, replacePrereqs bool) error
	Delete(ctx context.Context, id string) error
	ListPrerequisites(ctx context.Context, courseID string) ([]models.Course, error)
	ListPrerequisiteFor(ctx context.Context, courseID string) ([]models.Course, error)
	CountOfferings(ctx context.Context, id string) (int, error)
}

// CreateCourseRequest describes payload for creating catalogue courses.
type CreateCourseRequest struct {
	Title           string   `json:"title" validate:"required"`
	Code            string   `json:"code" validate:"required"`
	Credits         int      `json:"credits" validate:"required,min=1,max=6"`
	PrerequisiteIDs []string `json:"prerequisite_ids" validate:"dive,required"`
}

// UpdateCourseRequest updates mutable fields on a course.
type UpdateCourseRequest struct {
	Title           string    `json:"title" validate:"required"`
	Code            string    `json:"code" validate:"required"`
	Credits         int       `json:"credits" validate:"required,min=1,max=6"`
	PrerequisiteIDs *[]string `json:"prerequisite_ids" validate:"omitempty,dive,required"`
}

// CourseService orchestrates catalogue course workflows.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService creates a new course service instance.
func NewCourseService(repo courseRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated courses.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
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
	return courses, pagination, nil
}

// Get returns a course with both sides of its prerequisite graph.
func (s *CourseService) Get(ctx context.Context, id string) (*models.CourseDetail, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	prerequisites, err := s.repo.ListPrerequisites(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load prerequisites")
	}
	prerequisiteFor, err := s.repo.ListPrerequisiteFor(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dependent courses")
	}

	return &models.CourseDetail{Course: *course, Prerequisites: prerequisites, PrerequisiteFor: prerequisiteFor}, nil
}

// Create adds a course with optional prerequisite links.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	exists, err := s.repo.ExistsByCode(ctx, req.Code, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course code already exists")
	}

	if err := s.checkPrerequisites(ctx, "", req.PrerequisiteIDs); err != nil {
		return nil, err
	}

	course := &models.Course{Title: req.Title, Code: req.Code, Credits: req.Credits}
	if err := s.repo.Create(ctx, course, req.PrerequisiteIDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// Update modifies a course; prerequisites are replaced only when provided.
func (s *CourseService) Update(ctx context.Context, id string, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	exists, err := s.repo.ExistsByCode(ctx, req.Code, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course code already exists")
	}

	var prereqIDs []string
	replace := false
	if req.PrerequisiteIDs != nil {
		prereqIDs = *req.PrerequisiteIDs
		replace = true
		if err := s.checkPrerequisites(ctx, id, prereqIDs); err != nil {
			return nil, err
		}
	}

	course.Title = req.Title
	course.Code = req.Code
	course.Credits = req.Credits

	if err := s.repo.Update(ctx, course, prereqIDs, replace); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return course, nil
}

// Delete removes a course that has never been offered.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	count, err := s.repo.CountOfferings(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course usage")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "course has offerings attached")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	return nil
}

func (s *CourseService) checkPrerequisites(ctx context.Context, courseID string, prereqIDs []string) error {
	seen := make(map[string]bool, len(prereqIDs))
	for _, prereqID := range prereqIDs {
		if prereqID == courseID {
			return appErrors.Clone(appErrors.ErrValidation, "course cannot be its own prerequisite")
		}
		if seen[prereqID] {
			return appErrors.Clone(appErrors.ErrValidation, "duplicate prerequisite")
		}
		seen[prereqID] = true

		if _, err := s.repo.FindByID(ctx, prereqID); err != nil {
			if err == sql.ErrNoRows {
				return appErrors.Clone(appErrors.ErrNotFound, "prerequisite course not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load prerequisite")
		}
	}
	return nil
}
