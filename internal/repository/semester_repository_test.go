package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-sims-api/internal/models"
)

func newSemesterRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSemesterRepositoryListFiltersByYear(t *testing.T) {
	db, mock, cleanup := newSemesterRepoMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	rows := sqlmock.NewRows([]string{"id", "title", "year", "code", "start_month", "end_month", "is_current", "created_at", "updated_at"}).
		AddRow("sem-1", models.SemesterTitleAutumn, 2026, "01", "January", "April", true, time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, title, year, code, start_month, end_month, is_current, created_at, updated_at FROM academic_semesters WHERE 1=1 AND year = \\$1").
		WithArgs(2026).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM academic_semesters WHERE 1=1 AND year = $1")).
		WithArgs(2026).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	semesters, total, err := repo.List(context.Background(), models.SemesterFilter{Year: 2026})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, semesters, 1)
	require.True(t, semesters[0].IsCurrent)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSemesterRepositoryFindCurrent(t *testing.T) {
	db, mock, cleanup := newSemesterRepoMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	rows := sqlmock.NewRows([]string{"id", "title", "year", "code", "start_month", "end_month", "is_current", "created_at", "updated_at"}).
		AddRow("sem-1", models.SemesterTitleFall, 2026, "03", "September", "December", true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM academic_semesters WHERE is_current = TRUE LIMIT 1")).
		WillReturnRows(rows)

	semester, err := repo.FindCurrent(context.Background())
	require.NoError(t, err)
	require.Equal(t, "sem-1", semester.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSemesterRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newSemesterRepoMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO academic_semesters")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	semester := &models.AcademicSemester{Title: models.SemesterTitleAutumn, Year: 2026, Code: "01", StartMonth: "January", EndMonth: "April"}
	require.NoError(t, repo.Create(context.Background(), semester))
	require.NotEmpty(t, semester.ID)
	require.False(t, semester.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSemesterRepositoryExistsByYearAndCode(t *testing.T) {
	db, mock, cleanup := newSemesterRepoMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM academic_semesters WHERE year = $1 AND code = $2 LIMIT 1")).
		WithArgs(2026, "01").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.ExistsByYearAndCode(context.Background(), 2026, "01", "")
	require.NoError(t, err)
	require.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}
