package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newEnrollmentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEnrollmentRepositoryEnroll(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM student_semester_registration_courses")).
		WithArgs("reg-1", "stu-1", "oc-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE offered_course_sections")).
		WithArgs(sqlmock.AnyArg(), "section-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO student_semester_registration_courses")).
		WithArgs("reg-1", "stu-1", "oc-1", "section-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE student_semester_registrations")).
		WithArgs(3, sqlmock.AnyArg(), "reg-1", "stu-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Enroll(context.Background(), "reg-1", "stu-1", "oc-1", "section-1", 3)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryEnrollSectionFull(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM student_semester_registration_courses")).
		WithArgs("reg-1", "stu-1", "oc-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE offered_course_sections")).
		WithArgs(sqlmock.AnyArg(), "section-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Enroll(context.Background(), "reg-1", "stu-1", "oc-1", "section-1", 3)
	require.ErrorIs(t, err, ErrSectionFull)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryEnrollTwiceRejected(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM student_semester_registration_courses")).
		WithArgs("reg-1", "stu-1", "oc-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.Enroll(context.Background(), "reg-1", "stu-1", "oc-1", "section-1", 3)
	require.ErrorIs(t, err, ErrDoubleEnroll)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryWithdraw(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT offered_course_section_id FROM student_semester_registration_courses")).
		WithArgs("reg-1", "stu-1", "oc-1").
		WillReturnRows(sqlmock.NewRows([]string{"offered_course_section_id"}).AddRow("section-1"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM student_semester_registration_courses")).
		WithArgs("reg-1", "stu-1", "oc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE offered_course_sections")).
		WithArgs(sqlmock.AnyArg(), "section-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE student_semester_registrations")).
		WithArgs(3, sqlmock.AnyArg(), "reg-1", "stu-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Withdraw(context.Background(), "reg-1", "stu-1", "oc-1", 3)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryWithdrawNotEnrolled(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT offered_course_section_id FROM student_semester_registration_courses")).
		WithArgs("reg-1", "stu-1", "oc-1").
		WillReturnRows(sqlmock.NewRows([]string{"offered_course_section_id"}))
	mock.ExpectRollback()

	err := repo.Withdraw(context.Background(), "reg-1", "stu-1", "oc-1", 3)
	require.ErrorIs(t, err, ErrNotEnrolled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryConfirm(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE student_semester_registrations SET is_confirmed = TRUE")).
		WithArgs(sqlmock.AnyArg(), "reg-1", "stu-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Confirm(context.Background(), "reg-1", "stu-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryTakenSections(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"offered_course_id", "offered_course_section_id"}).
		AddRow("oc-1", "section-1").
		AddRow("oc-2", "section-9")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT offered_course_id, offered_course_section_id FROM student_semester_registration_courses")).
		WithArgs("reg-1", "stu-1").
		WillReturnRows(rows)

	taken, err := repo.TakenSections(context.Background(), "reg-1", "stu-1")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"oc-1": "section-1", "oc-2": "section-9"}, taken)
	require.NoError(t, mock.ExpectationsWereMet())
}
