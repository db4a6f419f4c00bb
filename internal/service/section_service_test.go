package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-sims-api/internal/models"
	"github.com/noah-isme/uni-sims-api/internal/repository"
	appErrors "github.com/noah-isme/uni-sims-api/pkg/errors"
)

type fakeSectionRepo struct {
	sections     map[string]*models.SectionDetail
	titleTaken   bool
	roomSlots    []models.TimeSlot
	facultySlots []models.TimeSlot
	createErr    error
	created      *models.OfferedCourseSection
	schedules    []models.OfferedCourseClassSchedule
	enrollments  int
}

func (f *fakeSectionRepo) List(ctx context.Context, filter models.SectionFilter) ([]models.OfferedCourseSection, int, error) {
	return nil, 0, nil
}

func (f *fakeSectionRepo) FindByID(ctx context.Context, id string) (*models.SectionDetail, error) {
	if s, ok := f.sections[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeSectionRepo) ExistsByTitle(ctx context.Context, offeredCourseID, title string) (bool, error) {
	return f.titleTaken, nil
}

func (f *fakeSectionRepo) RoomSlots(ctx context.Context, registrationID, roomID string) ([]models.TimeSlot, error) {
	return f.roomSlots, nil
}

func (f *fakeSectionRepo) FacultySlots(ctx context.Context, registrationID, facultyID string) ([]models.TimeSlot, error) {
	return f.facultySlots, nil
}

func (f *fakeSectionRepo) CreateWithSchedules(ctx context.Context, section *models.OfferedCourseSection, schedules []models.OfferedCourseClassSchedule) error {
	if f.createErr != nil {
		return f.createErr
	}
	if section.ID == "" {
		section.ID = "new-section"
	}
	f.created = section
	f.schedules = schedules
	if f.sections == nil {
		f.sections = make(map[string]*models.SectionDetail)
	}
	f.sections[section.ID] = &models.SectionDetail{OfferedCourseSection: *section}
	return nil
}

func (f *fakeSectionRepo) Delete(ctx context.Context, id string) error {
	delete(f.sections, id)
	return nil
}

func (f *fakeSectionRepo) CountEnrollments(ctx context.Context, id string) (int, error) {
	return f.enrollments, nil
}

type fakeSectionOfferedRepo struct{}

func (f *fakeSectionOfferedRepo) FindByID(ctx context.Context, id string) (*models.OfferedCourseDetail, error) {
	if id == "missing" {
		return nil, sql.ErrNoRows
	}
	return &models.OfferedCourseDetail{
		OfferedCourse: models.OfferedCourse{ID: id, CourseID: "course-1", SemesterRegistrationID: "reg-1"},
		CourseCredits: 3,
	}, nil
}

type fakeRosterRepo struct{}

func (f *fakeRosterRepo) FindFacultyByID(ctx context.Context, id string) (*models.FacultyMember, error) {
	if id == "missing" {
		return nil, sql.ErrNoRows
	}
	return &models.FacultyMember{ID: id, FullName: "Dr. Test"}, nil
}

func (f *fakeRosterRepo) FindRoomByID(ctx context.Context, id string) (*models.Room, error) {
	if id == "missing" {
		return nil, sql.ErrNoRows
	}
	return &models.Room{ID: id, RoomNumber: "101"}, nil
}

func newSectionService(repo *fakeSectionRepo) *SectionService {
	return NewSectionService(repo, &fakeSectionOfferedRepo{}, &fakeRosterRepo{}, validator.New(), zap.NewNop())
}

func sectionRequest(schedules ...SectionScheduleRequest) CreateSectionRequest {
	return CreateSectionRequest{
		OfferedCourseID: "oc-1",
		Title:           "Section A",
		MaxCapacity:     30,
		Schedules:       schedules,
	}
}

func TestSectionServiceCreate(t *testing.T) {
	repo := &fakeSectionRepo{}
	svc := newSectionService(repo)

	section, err := svc.Create(context.Background(), sectionRequest(SectionScheduleRequest{
		DayOfWeek: models.DayMonday, StartTime: "09:00", EndTime: "10:30", RoomID: "room-1", FacultyID: "fac-1",
	}))
	require.NoError(t, err)
	assert.Equal(t, "new-section", section.ID)
	require.Len(t, repo.schedules, 1)
	assert.Equal(t, "room-1", repo.schedules[0].RoomID)
}

func TestSectionServiceCreateRejectsOverlappingSchedules(t *testing.T) {
	repo := &fakeSectionRepo{}
	svc := newSectionService(repo)

	_, err := svc.Create(context.Background(), sectionRequest(
		SectionScheduleRequest{DayOfWeek: models.DayMonday, StartTime: "09:00", EndTime: "11:00", RoomID: "room-1", FacultyID: "fac-1"},
		SectionScheduleRequest{DayOfWeek: models.DayMonday, StartTime: "10:00", EndTime: "12:00", RoomID: "room-2", FacultyID: "fac-2"},
	))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestSectionServiceCreateAllowsAdjacentSchedules(t *testing.T) {
	repo := &fakeSectionRepo{}
	svc := newSectionService(repo)

	_, err := svc.Create(context.Background(), sectionRequest(
		SectionScheduleRequest{DayOfWeek: models.DayMonday, StartTime: "09:00", EndTime: "10:30", RoomID: "room-1", FacultyID: "fac-1"},
		SectionScheduleRequest{DayOfWeek: models.DayMonday, StartTime: "10:30", EndTime: "12:00", RoomID: "room-1", FacultyID: "fac-1"},
	))
	require.NoError(t, err)
	assert.Len(t, repo.schedules, 2)
}

func TestSectionServiceCreateRejectsBookedRoom(t *testing.T) {
	repo := &fakeSectionRepo{roomSlots: []models.TimeSlot{
		{DayOfWeek: models.DayMonday, StartTime: "10:00", EndTime: "11:30"},
	}}
	svc := newSectionService(repo)

	_, err := svc.Create(context.Background(), sectionRequest(SectionScheduleRequest{
		DayOfWeek: models.DayMonday, StartTime: "09:00", EndTime: "10:30", RoomID: "room-1", FacultyID: "fac-1",
	}))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRoomBooked.Code, appErrors.FromError(err).Code)
}

func TestSectionServiceCreateRejectsBookedFaculty(t *testing.T) {
	repo := &fakeSectionRepo{facultySlots: []models.TimeSlot{
		{DayOfWeek: models.DayMonday, StartTime: "09:30", EndTime: "10:00"},
	}}
	svc := newSectionService(repo)

	_, err := svc.Create(context.Background(), sectionRequest(SectionScheduleRequest{
		DayOfWeek: models.DayMonday, StartTime: "09:00", EndTime: "10:30", RoomID: "room-1", FacultyID: "fac-1",
	}))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrFacultyBooked.Code, appErrors.FromError(err).Code)
}

func TestSectionServiceCreateMapsAdvisoryLockConflict(t *testing.T) {
	repo := &fakeSectionRepo{createErr: repository.ErrRoomSlotTaken}
	svc := newSectionService(repo)

	_, err := svc.Create(context.Background(), sectionRequest(SectionScheduleRequest{
		DayOfWeek: models.DayMonday, StartTime: "09:00", EndTime: "10:30", RoomID: "room-1", FacultyID: "fac-1",
	}))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRoomBooked.Code, appErrors.FromError(err).Code)
}

func TestSectionServiceCreateRejectsInvalidSlot(t *testing.T) {
	repo := &fakeSectionRepo{}
	svc := newSectionService(repo)

	_, err := svc.Create(context.Background(), sectionRequest(SectionScheduleRequest{
		DayOfWeek: models.DayMonday, StartTime: "11:00", EndTime: "10:00", RoomID: "room-1", FacultyID: "fac-1",
	}))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSectionServiceCreateRejectsUnknownDay(t *testing.T) {
	repo := &fakeSectionRepo{}
	svc := newSectionService(repo)

	_, err := svc.Create(context.Background(), sectionRequest(SectionScheduleRequest{
		DayOfWeek: models.DayOfWeek("FUNDAY"), StartTime: "09:00", EndTime: "10:30", RoomID: "room-1", FacultyID: "fac-1",
	}))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSectionServiceCreateRejectsDuplicateTitle(t *testing.T) {
	repo := &fakeSectionRepo{titleTaken: true}
	svc := newSectionService(repo)

	_, err := svc.Create(context.Background(), sectionRequest(SectionScheduleRequest{
		DayOfWeek: models.DayMonday, StartTime: "09:00", EndTime: "10:30", RoomID: "room-1", FacultyID: "fac-1",
	}))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSectionServiceDeleteRejectsEnrolledSection(t *testing.T) {
	repo := &fakeSectionRepo{
		sections:    map[string]*models.SectionDetail{"sec-1": {OfferedCourseSection: models.OfferedCourseSection{ID: "sec-1"}}},
		enrollments: 4,
	}
	svc := newSectionService(repo)

	err := svc.Delete(context.Background(), "sec-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}
