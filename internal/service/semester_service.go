package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-sims-api/internal/models"
	appErrors "github.com/noah-isme/uni-sims-api/pkg/errors"
)

const currentSemesterCacheKey = "semesters:current"

type semesterRepository interface {
	List(ctx context.Context, filter models.SemesterFilter) ([]models.AcademicSemester, int, error)
	FindByID(ctx context.Context, id string) (*models.AcademicSemester, error)
	FindCurrent(ctx context.Context) (*models.AcademicSemester, error)
	ExistsByYearAndCode(ctx context.Context, year int, code, excludeID string) (bool, error)
	Create(ctx context.Context, semester *models.AcademicSemester) error
	Update(ctx context.Context, semester *models.AcademicSemester) error
	Delete(ctx context.Context, id string) error
	CountRegistrations(ctx context.Context, id string) (int, error)
}

type semesterCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CreateSemesterRequest describes payload for creating academic semesters.
// The code is derived from the title, never taken from the caller.
type CreateSemesterRequest struct {
	Title      models.SemesterTitle `json:"title" validate:"required"`
	Year       int                  `json:"year" validate:"required,min=2000"`
	StartMonth string               `json:"start_month" validate:"required"`
	EndMonth   string               `json:"end_month" validate:"required"`
}

// UpdateSemesterRequest updates mutable fields on a semester.
type UpdateSemesterRequest struct {
	Title      models.SemesterTitle `json:"title" validate:"required"`
	Year       int                  `json:"year" validate:"required,min=2000"`
	StartMonth string               `json:"start_month" validate:"required"`
	EndMonth   string               `json:"end_month" validate:"required"`
}

// SemesterService orchestrates academic semester workflows.
type SemesterService struct {
	repo      semesterRepository
	cache     semesterCache
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSemesterService creates a new semester service instance.
func NewSemesterService(repo semesterRepository, cache semesterCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *SemesterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SemesterService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns paginated semesters.
func (s *SemesterService) List(ctx context.Context, filter models.SemesterFilter) ([]models.AcademicSemester, *models.Pagination, error) {
	semesters, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list semesters")
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
	return semesters, pagination, nil
}

// Get returns a semester by ID.
func (s *SemesterService) Get(ctx context.Context, id string) (*models.AcademicSemester, error) {
	semester, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}
	return semester, nil
}

// GetCurrent returns the semester flagged current, served from cache when warm.
func (s *SemesterService) GetCurrent(ctx context.Context) (*models.AcademicSemester, error) {
	if s.cache != nil {
		var cached models.AcademicSemester
		if err := s.cache.Get(ctx, currentSemesterCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	semester, err := s.repo.FindCurrent(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no current semester")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load current semester")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, currentSemesterCacheKey, semester, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache current semester", zap.Error(err))
		}
	}
	return semester, nil
}

// Create adds a semester, deriving its code from the title.
func (s *SemesterService) Create(ctx context.Context, req CreateSemesterRequest) (*models.AcademicSemester, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester payload")
	}

	code, ok := models.SemesterTitleCodes[req.Title]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title must be one of Autumn, Summer, Fall")
	}

	exists, err := s.repo.ExistsByYearAndCode(ctx, req.Year, code, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check semester uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "semester already exists for year and title")
	}

	semester := &models.AcademicSemester{
		Title:      req.Title,
		Year:       req.Year,
		Code:       code,
		StartMonth: req.StartMonth,
		EndMonth:   req.EndMonth,
	}
	if err := s.repo.Create(ctx, semester); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create semester")
	}
	return semester, nil
}

// Update modifies a semester, re-deriving the code when the title changes.
func (s *SemesterService) Update(ctx context.Context, id string, req UpdateSemesterRequest) (*models.AcademicSemester, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester payload")
	}

	code, ok := models.SemesterTitleCodes[req.Title]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title must be one of Autumn, Summer, Fall")
	}

	semester, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}

	exists, err := s.repo.ExistsByYearAndCode(ctx, req.Year, code, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check semester uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "semester already exists for year and title")
	}

	semester.Title = req.Title
	semester.Year = req.Year
	semester.Code = code
	semester.StartMonth = req.StartMonth
	semester.EndMonth = req.EndMonth

	if err := s.repo.Update(ctx, semester); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update semester")
	}

	s.invalidateCurrentCache(ctx)
	return semester, nil
}

// Delete removes a semester without registrations.
func (s *SemesterService) Delete(ctx context.Context, id string) error {
	semester, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}
	if semester.IsCurrent {
		return appErrors.Clone(appErrors.ErrConflict, "cannot delete the current semester")
	}

	count, err := s.repo.CountRegistrations(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check semester usage")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "semester has registrations attached")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete semester")
	}
	return nil
}

func (s *SemesterService) invalidateCurrentCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, currentSemesterCacheKey); err != nil {
		s.logger.Warn("failed to invalidate current semester cache", zap.Error(err))
	}
}
