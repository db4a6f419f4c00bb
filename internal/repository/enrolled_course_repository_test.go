package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newEnrolledCourseRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEnrolledCourseRepositoryFinalizeWeightsCGPAByCredits(t *testing.T) {
	db, mock, cleanup := newEnrolledCourseRepoMock(t)
	defer cleanup()
	repo := NewEnrolledCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE student_enrolled_courses")).
		WithArgs("A+", 4.0, 85, sqlmock.AnyArg(), "sec-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// A 3-credit 4.00 course with a 6-credit 0.00 course yields 12/9, not the
	// unweighted mean 2.00.
	mock.ExpectQuery(regexp.QuoteMeta("SUM(sec.point * c.credits) / NULLIF(SUM(c.credits), 0)")).
		WithArgs("stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"credits", "cgpa"}).AddRow(9, 12.0/9.0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO student_academic_infos")).
		WithArgs(sqlmock.AnyArg(), "stu-1", 9, 12.0/9.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Finalize(context.Background(), "sec-1", "stu-1", 85, "A+", 4.0)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
