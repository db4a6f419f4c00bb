package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/noah-isme/uni-sims-api/internal/models"
	appErrors "github.com/noah-isme/uni-sims-api/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ClassScheduleDetail, int, error)
	ListForStudent(ctx context.Context, registrationID, studentID string) ([]models.ClassScheduleDetail, error)
}

type scheduleRegistrationRepository interface {
	FindOngoing(ctx context.Context) (*models.RegistrationDetail, error)
}

// ScheduleService exposes read access to class schedules.
type ScheduleService struct {
	repo          scheduleRepository
	registrations scheduleRegistrationRepository
	logger        *zap.Logger
}

// NewScheduleService creates a new schedule service instance.
func NewScheduleService(repo scheduleRepository, registrations scheduleRegistrationRepository, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, registrations: registrations, logger: logger}
}

// List returns paginated class schedules.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ClassScheduleDetail, *models.Pagination, error) {
	schedules, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
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
	return schedules, pagination, nil
}

// MySchedule returns the weekly schedule of the student's enrolled sections in
// the ongoing registration.
func (s *ScheduleService) MySchedule(ctx context.Context, studentID string) ([]models.ClassScheduleDetail, error) {
	registration, err := s.registrations.FindOngoing(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no ongoing semester registration")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ongoing registration")
	}

	schedules, err := s.repo.ListForStudent(ctx, registration.ID, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student schedule")
	}
	return schedules, nil
}
