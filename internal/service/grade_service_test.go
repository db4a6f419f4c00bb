package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-sims-api/internal/models"
	appErrors "github.com/noah-isme/uni-sims-api/pkg/errors"
)

type fakeGradeRepo struct {
	courses      map[string]*models.EnrolledCourseDetail
	marks        map[string][]models.StudentEnrolledCourseMark
	listResult   []models.EnrolledCourseDetail
	updatedMarks map[string]int
	finalized    *finalizedCall
	academicInfo *models.StudentAcademicInfo
}

type finalizedCall struct {
	enrolledCourseID string
	studentID        string
	totalMarks       int
	grade            string
	point            float64
}

func (f *fakeGradeRepo) List(ctx context.Context, filter models.EnrolledCourseFilter) ([]models.EnrolledCourseDetail, int, error) {
	return f.listResult, len(f.listResult), nil
}

func (f *fakeGradeRepo) FindByID(ctx context.Context, id string) (*models.EnrolledCourseDetail, error) {
	if c, ok := f.courses[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeGradeRepo) ListMarks(ctx context.Context, enrolledCourseID string) ([]models.StudentEnrolledCourseMark, error) {
	return f.marks[enrolledCourseID], nil
}

func (f *fakeGradeRepo) FindMark(ctx context.Context, enrolledCourseID string, examType models.ExamType) (*models.StudentEnrolledCourseMark, error) {
	for _, mark := range f.marks[enrolledCourseID] {
		if mark.ExamType == examType {
			copied := mark
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeGradeRepo) UpdateMark(ctx context.Context, id string, marks int, grade string) error {
	if f.updatedMarks == nil {
		f.updatedMarks = make(map[string]int)
	}
	f.updatedMarks[id] = marks
	return nil
}

func (f *fakeGradeRepo) Finalize(ctx context.Context, enrolledCourseID, studentID string, totalMarks int, grade string, point float64) error {
	f.finalized = &finalizedCall{enrolledCourseID: enrolledCourseID, studentID: studentID, totalMarks: totalMarks, grade: grade, point: point}
	return nil
}

func (f *fakeGradeRepo) FindAcademicInfo(ctx context.Context, studentID string) (*models.StudentAcademicInfo, error) {
	if f.academicInfo == nil {
		return nil, sql.ErrNoRows
	}
	return f.academicInfo, nil
}

func intPtr(v int) *int { return &v }

func newGradeFixture() *fakeGradeRepo {
	return &fakeGradeRepo{
		courses: map[string]*models.EnrolledCourseDetail{
			"ec-1": {
				StudentEnrolledCourse: models.StudentEnrolledCourse{
					ID: "ec-1", StudentID: "stu-1", CourseID: "course-1",
					AcademicSemesterID: "sem-1", Status: models.EnrolledCourseStatusOngoing,
				},
				CourseTitle:   "Data Structures",
				CourseCredits: 3,
			},
		},
		marks: map[string][]models.StudentEnrolledCourseMark{
			"ec-1": {
				{ID: "mark-mid", StudentEnrolledCourseID: "ec-1", ExamType: models.ExamTypeMidterm},
				{ID: "mark-final", StudentEnrolledCourseID: "ec-1", ExamType: models.ExamTypeFinal},
			},
		},
	}
}

func TestGradeForMarks(t *testing.T) {
	cases := []struct {
		marks int
		grade string
		point float64
	}{
		{100, "A+", 4.00},
		{80, "A+", 4.00},
		{79, "A", 3.50},
		{70, "A", 3.50},
		{69, "B", 3.00},
		{60, "B", 3.00},
		{59, "C", 2.50},
		{50, "C", 2.50},
		{49, "D", 2.00},
		{40, "D", 2.00},
		{39, "F", 0.00},
		{0, "F", 0.00},
	}

	for _, tc := range cases {
		grade, point := gradeForMarks(tc.marks)
		assert.Equal(t, tc.grade, grade, "marks %d", tc.marks)
		assert.Equal(t, tc.point, point, "marks %d", tc.marks)
	}
}

func TestGradeServiceUpdateMark(t *testing.T) {
	repo := newGradeFixture()
	svc := NewGradeService(repo, validator.New(), zap.NewNop())

	mark, err := svc.UpdateMark(context.Background(), UpdateMarkRequest{
		StudentEnrolledCourseID: "ec-1",
		ExamType:                models.ExamTypeMidterm,
		Marks:                   72,
	})
	require.NoError(t, err)
	require.NotNil(t, mark.Marks)
	assert.Equal(t, 72, *mark.Marks)
	assert.Equal(t, "A", *mark.Grade)
	assert.Equal(t, 72, repo.updatedMarks["mark-mid"])
}

func TestGradeServiceUpdateMarkRejectsCompletedCourse(t *testing.T) {
	repo := newGradeFixture()
	repo.courses["ec-1"].Status = models.EnrolledCourseStatusCompleted
	svc := NewGradeService(repo, validator.New(), zap.NewNop())

	_, err := svc.UpdateMark(context.Background(), UpdateMarkRequest{
		StudentEnrolledCourseID: "ec-1",
		ExamType:                models.ExamTypeFinal,
		Marks:                   50,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestGradeServiceUpdateMarkRejectsUnknownExamType(t *testing.T) {
	repo := newGradeFixture()
	svc := NewGradeService(repo, validator.New(), zap.NewNop())

	_, err := svc.UpdateMark(context.Background(), UpdateMarkRequest{
		StudentEnrolledCourseID: "ec-1",
		ExamType:                models.ExamType("QUIZ"),
		Marks:                   50,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGradeServiceFinalize(t *testing.T) {
	repo := newGradeFixture()
	repo.marks["ec-1"][0].Marks = intPtr(70)
	repo.marks["ec-1"][1].Marks = intPtr(80)
	svc := NewGradeService(repo, validator.New(), zap.NewNop())

	course, err := svc.Finalize(context.Background(), FinalizeCourseRequest{StudentEnrolledCourseID: "ec-1"})
	require.NoError(t, err)

	// ceil(70*0.4) + ceil(80*0.6) = 28 + 48
	require.NotNil(t, repo.finalized)
	assert.Equal(t, 76, repo.finalized.totalMarks)
	assert.Equal(t, "A", repo.finalized.grade)
	assert.Equal(t, 3.50, repo.finalized.point)
	assert.Equal(t, models.EnrolledCourseStatusCompleted, course.Status)
	assert.Equal(t, 76, course.TotalMarks)
}

func TestGradeServiceFinalizeRoundsExamsUp(t *testing.T) {
	repo := newGradeFixture()
	repo.marks["ec-1"][0].Marks = intPtr(81)
	repo.marks["ec-1"][1].Marks = intPtr(81)
	svc := NewGradeService(repo, validator.New(), zap.NewNop())

	_, err := svc.Finalize(context.Background(), FinalizeCourseRequest{StudentEnrolledCourseID: "ec-1"})
	require.NoError(t, err)

	// ceil(32.4) + ceil(48.6) = 33 + 49
	assert.Equal(t, 82, repo.finalized.totalMarks)
	assert.Equal(t, "A+", repo.finalized.grade)
}

func TestGradeServiceFinalizeTreatsMissingMarksAsZero(t *testing.T) {
	repo := newGradeFixture()
	repo.marks["ec-1"][1].Marks = intPtr(80)
	svc := NewGradeService(repo, validator.New(), zap.NewNop())

	course, err := svc.Finalize(context.Background(), FinalizeCourseRequest{StudentEnrolledCourseID: "ec-1"})
	require.NoError(t, err)

	require.NotNil(t, repo.finalized)
	assert.Equal(t, 48, repo.finalized.totalMarks)
	assert.Equal(t, "D", repo.finalized.grade)
	assert.Equal(t, 2.00, repo.finalized.point)
	assert.Equal(t, models.EnrolledCourseStatusCompleted, course.Status)
}

func TestGradeServiceFinalizeRejectsCompletedCourse(t *testing.T) {
	repo := newGradeFixture()
	repo.courses["ec-1"].Status = models.EnrolledCourseStatusCompleted
	svc := NewGradeService(repo, validator.New(), zap.NewNop())

	_, err := svc.Finalize(context.Background(), FinalizeCourseRequest{StudentEnrolledCourseID: "ec-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestGradeServiceAcademicInfo(t *testing.T) {
	repo := newGradeFixture()
	repo.academicInfo = &models.StudentAcademicInfo{StudentID: "stu-1", TotalCompletedCredit: 12, CGPA: 3.63}
	svc := NewGradeService(repo, validator.New(), zap.NewNop())

	info, err := svc.AcademicInfo(context.Background(), "stu-1")
	require.NoError(t, err)
	assert.Equal(t, 12, info.TotalCompletedCredit)
	assert.InDelta(t, 3.63, info.CGPA, 0.001)
}

func TestGradeServiceExportResults(t *testing.T) {
	repo := newGradeFixture()
	grade := "A"
	repo.listResult = []models.EnrolledCourseDetail{
		{
			StudentEnrolledCourse: models.StudentEnrolledCourse{
				ID: "ec-1", StudentID: "stu-1",
				Status: models.EnrolledCourseStatusCompleted,
				Grade:  &grade, Point: 3.50, TotalMarks: 76,
			},
			CourseTitle:   "Data Structures",
			CourseCode:    "CSE201",
			CourseCredits: 3,
			SemesterTitle: "Autumn",
			SemesterYear:  2025,
		},
	}
	svc := NewGradeService(repo, validator.New(), zap.NewNop())

	sheet, err := svc.ExportResults(context.Background(), models.EnrolledCourseFilter{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(sheet)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "student_id,course_code,course_title,credits,semester,status,total_marks,grade,point", lines[0])
	assert.Equal(t, "stu-1,CSE201,Data Structures,3,Autumn 2025,COMPLETED,76,A,3.50", lines[1])
}
