package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-sims-api/internal/models"
	appErrors "github.com/noah-isme/uni-sims-api/pkg/errors"
)

type fakeSemesterRepo struct {
	semesters         map[string]*models.AcademicSemester
	current           *models.AcademicSemester
	exists            bool
	created           *models.AcademicSemester
	registrationCount int
	deleted           []string
	currentCalls      int
}

func (f *fakeSemesterRepo) List(ctx context.Context, filter models.SemesterFilter) ([]models.AcademicSemester, int, error) {
	return nil, 0, nil
}

func (f *fakeSemesterRepo) FindByID(ctx context.Context, id string) (*models.AcademicSemester, error) {
	if s, ok := f.semesters[id]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSemesterRepo) FindCurrent(ctx context.Context) (*models.AcademicSemester, error) {
	f.currentCalls++
	if f.current == nil {
		return nil, sql.ErrNoRows
	}
	return f.current, nil
}

func (f *fakeSemesterRepo) ExistsByYearAndCode(ctx context.Context, year int, code, excludeID string) (bool, error) {
	return f.exists, nil
}

func (f *fakeSemesterRepo) Create(ctx context.Context, semester *models.AcademicSemester) error {
	if semester.ID == "" {
		semester.ID = "new-semester"
	}
	f.created = semester
	return nil
}

func (f *fakeSemesterRepo) Update(ctx context.Context, semester *models.AcademicSemester) error {
	return nil
}

func (f *fakeSemesterRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeSemesterRepo) CountRegistrations(ctx context.Context, id string) (int, error) {
	return f.registrationCount, nil
}

type fakeSemesterCache struct {
	entries map[string][]byte
	deleted []string
}

func (f *fakeSemesterCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeSemesterCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if f.entries == nil {
		f.entries = make(map[string][]byte)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	return nil
}

func (f *fakeSemesterCache) DeleteByPattern(ctx context.Context, pattern string) error {
	f.deleted = append(f.deleted, pattern)
	return nil
}

func TestSemesterServiceCreateDerivesCode(t *testing.T) {
	repo := &fakeSemesterRepo{}
	svc := NewSemesterService(repo, nil, 0, validator.New(), zap.NewNop())

	semester, err := svc.Create(context.Background(), CreateSemesterRequest{
		Title:      models.SemesterTitleAutumn,
		Year:       2026,
		StartMonth: "January",
		EndMonth:   "April",
	})
	require.NoError(t, err)
	assert.Equal(t, "01", semester.Code)
	assert.NotNil(t, repo.created)
}

func TestSemesterServiceCreateRejectsUnknownTitle(t *testing.T) {
	repo := &fakeSemesterRepo{}
	svc := NewSemesterService(repo, nil, 0, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateSemesterRequest{
		Title:      models.SemesterTitle("Winter"),
		Year:       2026,
		StartMonth: "January",
		EndMonth:   "April",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestSemesterServiceCreateRejectsDuplicate(t *testing.T) {
	repo := &fakeSemesterRepo{exists: true}
	svc := NewSemesterService(repo, nil, 0, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateSemesterRequest{
		Title:      models.SemesterTitleFall,
		Year:       2026,
		StartMonth: "September",
		EndMonth:   "December",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestSemesterServiceGetCurrentCachesResult(t *testing.T) {
	repo := &fakeSemesterRepo{current: &models.AcademicSemester{ID: "sem-1", Title: models.SemesterTitleAutumn, Year: 2026, IsCurrent: true}}
	cache := &fakeSemesterCache{}
	svc := NewSemesterService(repo, cache, time.Minute, validator.New(), zap.NewNop())

	first, err := svc.GetCurrent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sem-1", first.ID)

	second, err := svc.GetCurrent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sem-1", second.ID)
	assert.Equal(t, 1, repo.currentCalls)
}

func TestSemesterServiceDeleteRejectsCurrent(t *testing.T) {
	repo := &fakeSemesterRepo{semesters: map[string]*models.AcademicSemester{
		"sem-1": {ID: "sem-1", IsCurrent: true},
	}}
	svc := NewSemesterService(repo, nil, 0, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), "sem-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}

func TestSemesterServiceDeleteRejectsReferencedSemester(t *testing.T) {
	repo := &fakeSemesterRepo{
		semesters:         map[string]*models.AcademicSemester{"sem-1": {ID: "sem-1"}},
		registrationCount: 2,
	}
	svc := NewSemesterService(repo, nil, 0, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), "sem-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestSemesterServiceDelete(t *testing.T) {
	repo := &fakeSemesterRepo{semesters: map[string]*models.AcademicSemester{"sem-1": {ID: "sem-1"}}}
	svc := NewSemesterService(repo, nil, 0, validator.New(), zap.NewNop())

	err := svc.Delete(context.Background(), "sem-1")
	require.NoError(t, err)
	assert.Contains(t, repo.deleted, "sem-1")
}
