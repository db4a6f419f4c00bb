package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-sims-api/internal/models"
)

func newRegistrationRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRegistrationRepositoryFindOngoing(t *testing.T) {
	db, mock, cleanup := newRegistrationRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "academic_semester_id", "start_date", "end_date", "status",
		"min_credit", "max_credit", "created_at", "updated_at",
		"semester_title", "semester_year", "semester_code", "semester_is_current",
	}).AddRow("reg-1", "sem-1", time.Now(), time.Now().Add(7*24*time.Hour), models.RegistrationStatusOngoing,
		6, 15, time.Now(), time.Now(), models.SemesterTitleAutumn, 2026, "01", false)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE sr.status = 'ONGOING' LIMIT 1")).
		WillReturnRows(rows)

	registration, err := repo.FindOngoing(context.Background())
	require.NoError(t, err)
	require.Equal(t, "reg-1", registration.ID)
	require.Equal(t, models.RegistrationStatusOngoing, registration.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryFindOngoingNone(t *testing.T) {
	db, mock, cleanup := newRegistrationRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE sr.status = 'ONGOING' LIMIT 1")).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindOngoing(context.Background())
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryMaterializeSemester(t *testing.T) {
	db, mock, cleanup := newRegistrationRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE academic_semesters SET is_current = FALSE")).
		WithArgs(sqlmock.AnyArg(), "sem-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE academic_semesters SET is_current = TRUE")).
		WithArgs(sqlmock.AnyArg(), "sem-2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery(regexp.QuoteMeta("is_confirmed = TRUE AND total_credits_taken > 0")).
		WithArgs("reg-1").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "total_credits_taken"}).AddRow("stu-1", 12))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO student_semester_payments")).
		WithArgs(sqlmock.AnyArg(), "stu-1", "sem-2", float64(60000), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT ssrc.student_id, oc.course_id")).
		WithArgs("reg-1").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "course_id"}).AddRow("stu-1", "course-1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM student_enrolled_courses")).
		WithArgs("stu-1", "course-1", "sem-2").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO student_enrolled_courses")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO student_enrolled_course_marks")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO student_enrolled_course_marks")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.MaterializeSemester(context.Background(), "reg-1", "sem-2", 5000)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryMaterializeSemesterSkipsExisting(t *testing.T) {
	db, mock, cleanup := newRegistrationRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE academic_semesters SET is_current = FALSE")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE academic_semesters SET is_current = TRUE")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT student_id, total_credits_taken FROM student_semester_registrations")).
		WithArgs("reg-1").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "total_credits_taken"}).AddRow("stu-1", 12))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO student_semester_payments")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT ssrc.student_id, oc.course_id")).
		WithArgs("reg-1").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "course_id"}).AddRow("stu-1", "course-1"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM student_enrolled_courses")).
		WithArgs("stu-1", "course-1", "sem-2").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("enrolled-1"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO student_enrolled_course_marks")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO student_enrolled_course_marks")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.MaterializeSemester(context.Background(), "reg-1", "sem-2", 5000)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRegistrationRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO semester_registrations")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	registration := &models.SemesterRegistration{
		AcademicSemesterID: "sem-1",
		StartDate:          time.Now(),
		EndDate:            time.Now().Add(14 * 24 * time.Hour),
		Status:             models.RegistrationStatusUpcoming,
		MinCredit:          6,
		MaxCredit:          15,
	}
	require.NoError(t, repo.Create(context.Background(), registration))
	require.NotEmpty(t, registration.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
