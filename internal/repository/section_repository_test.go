package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-sims-api/internal/models"
)

func newSectionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func sectionFixture() (*models.OfferedCourseSection, []models.OfferedCourseClassSchedule) {
	section := &models.OfferedCourseSection{
		OfferedCourseID:        "oc-1",
		SemesterRegistrationID: "reg-1",
		Title:                  "Section A",
		MaxCapacity:            30,
	}
	schedules := []models.OfferedCourseClassSchedule{
		{
			DayOfWeek: models.DayMonday,
			StartTime: "09:00",
			EndTime:   "10:30",
			RoomID:    "room-1",
			FacultyID: "fac-1",
		},
	}
	return section, schedules
}

func TestSectionRepositoryCreateWithSchedules(t *testing.T) {
	db, mock, cleanup := newSectionRepoMock(t)
	defer cleanup()
	repo := NewSectionRepository(db)

	section, schedules := sectionFixture()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("room:room-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("faculty:fac-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("AND room_id = $2")).
		WithArgs("reg-1", "room-1").
		WillReturnRows(sqlmock.NewRows([]string{"day_of_week", "start_time", "end_time"}))
	mock.ExpectQuery(regexp.QuoteMeta("AND faculty_id = $2")).
		WithArgs("reg-1", "fac-1").
		WillReturnRows(sqlmock.NewRows([]string{"day_of_week", "start_time", "end_time"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO offered_course_sections")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO offered_course_class_schedules")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.CreateWithSchedules(context.Background(), section, schedules)
	require.NoError(t, err)
	require.NotEmpty(t, section.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepositoryCreateWithSchedulesRoomBooked(t *testing.T) {
	db, mock, cleanup := newSectionRepoMock(t)
	defer cleanup()
	repo := NewSectionRepository(db)

	section, schedules := sectionFixture()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("room:room-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("faculty:fac-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("AND room_id = $2")).
		WithArgs("reg-1", "room-1").
		WillReturnRows(sqlmock.NewRows([]string{"day_of_week", "start_time", "end_time"}).
			AddRow(models.DayMonday, "10:00", "11:30"))
	mock.ExpectRollback()

	err := repo.CreateWithSchedules(context.Background(), section, schedules)
	require.ErrorIs(t, err, ErrRoomSlotTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepositoryCreateWithSchedulesBoundarySlotAllowed(t *testing.T) {
	db, mock, cleanup := newSectionRepoMock(t)
	defer cleanup()
	repo := NewSectionRepository(db)

	section, schedules := sectionFixture()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("room:room-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("faculty:fac-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("AND room_id = $2")).
		WithArgs("reg-1", "room-1").
		WillReturnRows(sqlmock.NewRows([]string{"day_of_week", "start_time", "end_time"}).
			AddRow(models.DayMonday, "10:30", "12:00"))
	mock.ExpectQuery(regexp.QuoteMeta("AND faculty_id = $2")).
		WithArgs("reg-1", "fac-1").
		WillReturnRows(sqlmock.NewRows([]string{"day_of_week", "start_time", "end_time"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO offered_course_sections")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO offered_course_class_schedules")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.CreateWithSchedules(context.Background(), section, schedules)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
