package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-sims-api/internal/models"
	appErrors "github.com/noah-isme/uni-sims-api/pkg/errors"
)

type fakeRegistrationRepo struct {
	registrations map[string]models.RegistrationDetail
	openCount     int
	created       *models.SemesterRegistration
	updated       *models.SemesterRegistration
	studentCount  int
	materialized  []string
	deleted       []string
}

func (f *fakeRegistrationRepo) List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, int, error) {
	return nil, 0, nil
}

func (f *fakeRegistrationRepo) FindByID(ctx context.Context, id string) (*models.RegistrationDetail, error) {
	if r, ok := f.registrations[id]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRegistrationRepo) FindOngoing(ctx context.Context) (*models.RegistrationDetail, error) {
	for _, r := range f.registrations {
		if r.Status == models.RegistrationStatusOngoing {
			return &r, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRegistrationRepo) CountOpen(ctx context.Context) (int, error) {
	return f.openCount, nil
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, registration *models.SemesterRegistration) error {
	if registration.ID == "" {
		registration.ID = "new-registration"
	}
	f.created = registration
	return nil
}

func (f *fakeRegistrationRepo) Update(ctx context.Context, registration *models.SemesterRegistration) error {
	f.updated = registration
	return nil
}

func (f *fakeRegistrationRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRegistrationRepo) CountStudentRegistrations(ctx context.Context, id string) (int, error) {
	return f.studentCount, nil
}

func (f *fakeRegistrationRepo) MaterializeSemester(ctx context.Context, registrationID, semesterID string, perCreditFee float64) error {
	f.materialized = append(f.materialized, registrationID)
	return nil
}

type fakeRegistrationSemesterRepo struct {
	semesters map[string]*models.AcademicSemester
}

func (f *fakeRegistrationSemesterRepo) FindByID(ctx context.Context, id string) (*models.AcademicSemester, error) {
	if s, ok := f.semesters[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type fakeRegistrationCache struct {
	patterns []string
}

func (f *fakeRegistrationCache) DeleteByPattern(ctx context.Context, pattern string) error {
	f.patterns = append(f.patterns, pattern)
	return nil
}

func registrationFixture(id string, status models.RegistrationStatus) models.RegistrationDetail {
	return models.RegistrationDetail{
		SemesterRegistration: models.SemesterRegistration{
			ID:                 id,
			AcademicSemesterID: "sem-1",
			StartDate:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:            time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
			Status:             status,
			MinCredit:          6,
			MaxCredit:          18,
		},
		SemesterTitle: models.SemesterTitleAutumn,
		SemesterYear:  2026,
		SemesterCode:  "01",
	}
}

func newRegistrationService(repo *fakeRegistrationRepo, cache registrationCache) *RegistrationService {
	semesters := &fakeRegistrationSemesterRepo{semesters: map[string]*models.AcademicSemester{"sem-1": {ID: "sem-1"}}}
	cfg := RegistrationConfig{EnforceSinglePeriod: true, PerCreditFee: 5000}
	return NewRegistrationService(repo, semesters, cache, cfg, validator.New(), zap.NewNop())
}

func TestRegistrationServiceCreate(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	svc := newRegistrationService(repo, nil)

	registration, err := svc.Create(context.Background(), CreateRegistrationRequest{
		AcademicSemesterID: "sem-1",
		StartDate:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:            time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		MinCredit:          6,
		MaxCredit:          18,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusUpcoming, registration.Status)
	assert.NotNil(t, repo.created)
}

func TestRegistrationServiceCreateRejectsSecondOpenPeriod(t *testing.T) {
	repo := &fakeRegistrationRepo{openCount: 1}
	svc := newRegistrationService(repo, nil)

	_, err := svc.Create(context.Background(), CreateRegistrationRequest{
		AcademicSemesterID: "sem-1",
		StartDate:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:            time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestRegistrationServiceCreateRejectsInvertedDates(t *testing.T) {
	repo := &fakeRegistrationRepo{}
	svc := newRegistrationService(repo, nil)

	_, err := svc.Create(context.Background(), CreateRegistrationRequest{
		AcademicSemesterID: "sem-1",
		StartDate:          time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:            time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRegistrationServiceUpdateAdvancesStatus(t *testing.T) {
	repo := &fakeRegistrationRepo{registrations: map[string]models.RegistrationDetail{
		"r1": registrationFixture("r1", models.RegistrationStatusUpcoming),
	}}
	svc := newRegistrationService(repo, nil)

	status := models.RegistrationStatusOngoing
	registration, err := svc.Update(context.Background(), "r1", UpdateRegistrationRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusOngoing, registration.Status)
	require.NotNil(t, repo.updated)
	assert.Equal(t, models.RegistrationStatusOngoing, repo.updated.Status)
}

func TestRegistrationServiceUpdateRejectsSkippedStatus(t *testing.T) {
	repo := &fakeRegistrationRepo{registrations: map[string]models.RegistrationDetail{
		"r1": registrationFixture("r1", models.RegistrationStatusUpcoming),
	}}
	svc := newRegistrationService(repo, nil)

	status := models.RegistrationStatusEnded
	_, err := svc.Update(context.Background(), "r1", UpdateRegistrationRequest{Status: &status})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestRegistrationServiceUpdateRejectsReversedStatus(t *testing.T) {
	repo := &fakeRegistrationRepo{registrations: map[string]models.RegistrationDetail{
		"r1": registrationFixture("r1", models.RegistrationStatusOngoing),
	}}
	svc := newRegistrationService(repo, nil)

	status := models.RegistrationStatusUpcoming
	_, err := svc.Update(context.Background(), "r1", UpdateRegistrationRequest{Status: &status})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.updated)
}

func TestRegistrationServiceDeleteRejectsJoinedPeriod(t *testing.T) {
	repo := &fakeRegistrationRepo{
		registrations: map[string]models.RegistrationDetail{"r1": registrationFixture("r1", models.RegistrationStatusUpcoming)},
		studentCount:  3,
	}
	svc := newRegistrationService(repo, nil)

	err := svc.Delete(context.Background(), "r1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}

func TestRegistrationServiceStartNewSemesterRequiresEnded(t *testing.T) {
	repo := &fakeRegistrationRepo{registrations: map[string]models.RegistrationDetail{
		"r1": registrationFixture("r1", models.RegistrationStatusOngoing),
	}}
	svc := newRegistrationService(repo, nil)

	_, err := svc.StartNewSemester(context.Background(), "r1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.materialized)
}

func TestRegistrationServiceStartNewSemesterRejectsCurrentSemester(t *testing.T) {
	started := registrationFixture("r1", models.RegistrationStatusEnded)
	started.SemesterIsCurrent = true
	repo := &fakeRegistrationRepo{registrations: map[string]models.RegistrationDetail{"r1": started}}
	svc := newRegistrationService(repo, nil)

	_, err := svc.StartNewSemester(context.Background(), "r1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.materialized)
}

func TestRegistrationServiceStartNewSemester(t *testing.T) {
	repo := &fakeRegistrationRepo{registrations: map[string]models.RegistrationDetail{
		"r1": registrationFixture("r1", models.RegistrationStatusEnded),
	}}
	cache := &fakeRegistrationCache{}
	svc := newRegistrationService(repo, cache)

	detail, err := svc.StartNewSemester(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", detail.ID)
	assert.Contains(t, repo.materialized, "r1")
	assert.Contains(t, cache.patterns, "semesters:*")
	assert.Contains(t, cache.patterns, "registrations:*")
}
