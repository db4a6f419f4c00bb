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

type registrationRepository interface {
	List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.RegistrationDetail, error)
	FindOngoing(ctx context.Context) (*models.RegistrationDetail, error)
	CountOpen(ctx context.Context) (int, error)
	Create(ctx context.Context, registration *models.SemesterRegistration) error
	Update(ctx context.Context, registration *models.SemesterRegistration) error
	Delete(ctx context.Context, id string) error
	CountStudentRegistrations(ctx context.Context, id string) (int, error)
	MaterializeSemester(ctx context.Context, registrationID, semesterID string, perCreditFee float64) error
}

type registrationSemesterRepository interface {
	FindByID(ctx context.Context, id string) (*models.AcademicSemester, error)
}

type registrationCache interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// RegistrationConfig tunes registration workflow policies.
type RegistrationConfig struct {
	EnforceSinglePeriod bool
	PerCreditFee        float64
}

// CreateRegistrationRequest describes payload for opening a registration period.
type CreateRegistrationRequest struct {
	AcademicSemesterID string    `json:"academic_semester_id" validate:"required"`
	StartDate          time.Time `json:"start_date" validate:"required"`
	EndDate            time.Time `json:"end_date" validate:"required"`
	MinCredit          int       `json:"min_credit" validate:"min=0"`
	MaxCredit          int       `json:"max_credit" validate:"min=0"`
}

// UpdateRegistrationRequest updates mutable fields on a registration period.
// Status changes must follow the forward-only lifecycle.
type UpdateRegistrationRequest struct {
	StartDate *time.Time                 `json:"start_date"`
	EndDate   *time.Time                 `json:"end_date"`
	MinCredit *int                       `json:"min_credit" validate:"omitempty,min=0"`
	MaxCredit *int                       `json:"max_credit" validate:"omitempty,min=0"`
	Status    *models.RegistrationStatus `json:"status"`
}

// RegistrationService orchestrates semester registration period workflows and
// the semester rollover.
type RegistrationService struct {
	repo      registrationRepository
	semesters registrationSemesterRepository
	cache     registrationCache
	config    RegistrationConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRegistrationService creates a new registration service instance.
func NewRegistrationService(repo registrationRepository, semesters registrationSemesterRepository, cache registrationCache, config RegistrationConfig, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{repo: repo, semesters: semesters, cache: cache, config: config, validator: validate, logger: logger}
}

// List returns paginated registration periods.
func (s *RegistrationService) List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, *models.Pagination, error) {
	registrations, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list registrations")
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
	return registrations, pagination, nil
}

// Get returns a registration by ID.
func (s *RegistrationService) Get(ctx context.Context, id string) (*models.RegistrationDetail, error) {
	registration, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	return registration, nil
}

// GetOngoing returns the registration currently accepting enrollments.
func (s *RegistrationService) GetOngoing(ctx context.Context) (*models.RegistrationDetail, error) {
	registration, err := s.repo.FindOngoing(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no ongoing registration")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ongoing registration")
	}
	return registration, nil
}

// Create opens a registration period in UPCOMING state.
func (s *RegistrationService) Create(ctx context.Context, req CreateRegistrationRequest) (*models.SemesterRegistration, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	if !req.StartDate.Before(req.EndDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be before end_date")
	}
	if req.MaxCredit > 0 && req.MinCredit > req.MaxCredit {
		return nil, appErrors.Clone(appErrors.ErrValidation, "min_credit must not exceed max_credit")
	}

	if _, err := s.semesters.FindByID(ctx, req.AcademicSemesterID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "academic semester not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}

	if s.config.EnforceSinglePeriod {
		open, err := s.repo.CountOpen(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check open registrations")
		}
		if open > 0 {
			return nil, appErrors.Clone(appErrors.ErrConflict, "an upcoming or ongoing registration already exists")
		}
	}

	registration := &models.SemesterRegistration{
		AcademicSemesterID: req.AcademicSemesterID,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		Status:             models.RegistrationStatusUpcoming,
		MinCredit:          req.MinCredit,
		MaxCredit:          req.MaxCredit,
	}
	if err := s.repo.Create(ctx, registration); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create registration")
	}
	return registration, nil
}

// Update modifies a registration period, enforcing the status lifecycle.
func (s *RegistrationService) Update(ctx context.Context, id string, req UpdateRegistrationRequest) (*models.SemesterRegistration, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	registration := detail.SemesterRegistration

	if req.Status != nil && *req.Status != registration.Status {
		if !registration.Status.CanTransition(*req.Status) {
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "status can only advance UPCOMING to ONGOING to ENDED")
		}
		registration.Status = *req.Status
	}
	if req.StartDate != nil {
		registration.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		registration.EndDate = *req.EndDate
	}
	if !registration.StartDate.Before(registration.EndDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be before end_date")
	}
	if req.MinCredit != nil {
		registration.MinCredit = *req.MinCredit
	}
	if req.MaxCredit != nil {
		registration.MaxCredit = *req.MaxCredit
	}
	if registration.MaxCredit > 0 && registration.MinCredit > registration.MaxCredit {
		return nil, appErrors.Clone(appErrors.ErrValidation, "min_credit must not exceed max_credit")
	}

	if err := s.repo.Update(ctx, &registration); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update registration")
	}
	return &registration, nil
}

// Delete removes a registration period nobody has joined yet.
func (s *RegistrationService) Delete(ctx context.Context, id string) error {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	if detail.Status != models.RegistrationStatusUpcoming {
		return appErrors.Clone(appErrors.ErrConflict, "only upcoming registrations can be deleted")
	}

	count, err := s.repo.CountStudentRegistrations(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check registration usage")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "students already joined this registration")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete registration")
	}
	return nil
}

// StartNewSemester runs the rollover for an ended registration: the target
// semester becomes current and every confirmed student's selections turn into
// enrolled courses, seeded marks and a tuition payment. Safe to re-run.
func (s *RegistrationService) StartNewSemester(ctx context.Context, registrationID string) (*models.RegistrationDetail, error) {
	detail, err := s.repo.FindByID(ctx, registrationID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	if detail.Status != models.RegistrationStatusEnded {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "registration must be ended before starting the semester")
	}
	if detail.SemesterIsCurrent {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semester has already been started")
	}

	if err := s.repo.MaterializeSemester(ctx, registrationID, detail.AcademicSemesterID, s.config.PerCreditFee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start new semester")
	}

	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, "semesters:*"); err != nil {
			s.logger.Warn("failed to invalidate semester cache", zap.Error(err))
		}
		if err := s.cache.DeleteByPattern(ctx, "registrations:*"); err != nil {
			s.logger.Warn("failed to invalidate registration cache", zap.Error(err))
		}
	}

	s.logger.Info("semester rollover completed",
		zap.String("registration_id", registrationID),
		zap.String("semester_id", detail.AcademicSemesterID))
	return detail, nil
}
