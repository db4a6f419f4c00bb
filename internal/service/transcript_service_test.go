package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-sims-api/internal/models"
	"github.com/noah-isme/uni-sims-api/pkg/jobs"
	"github.com/noah-isme/uni-sims-api/pkg/storage"
)

type fakeTranscriptRepo struct {
	jobs map[string]*models.TranscriptJob
}

func (f *fakeTranscriptRepo) Create(_ context.Context, job *models.TranscriptJob) error {
	if f.jobs == nil {
		f.jobs = map[string]*models.TranscriptJob{}
	}
	job.Status = models.TranscriptJobQueued
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeTranscriptRepo) FindByID(_ context.Context, id string) (*models.TranscriptJob, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return job, nil
}

func (f *fakeTranscriptRepo) MarkProcessing(_ context.Context, id string) error {
	f.jobs[id].Status = models.TranscriptJobProcessing
	return nil
}

func (f *fakeTranscriptRepo) MarkReady(_ context.Context, id, filePath string) error {
	f.jobs[id].Status = models.TranscriptJobReady
	f.jobs[id].FilePath = filePath
	return nil
}

func (f *fakeTranscriptRepo) MarkFailed(_ context.Context, id, reason string) error {
	f.jobs[id].Status = models.TranscriptJobFailed
	f.jobs[id].Error = reason
	return nil
}

type fakeTranscriptHistoryRepo struct {
	courses []models.EnrolledCourseDetail
	info    *models.StudentAcademicInfo
}

func (f *fakeTranscriptHistoryRepo) ListCompletedWithCourse(_ context.Context, _ string) ([]models.EnrolledCourseDetail, error) {
	return f.courses, nil
}

func (f *fakeTranscriptHistoryRepo) FindAcademicInfo(_ context.Context, _ string) (*models.StudentAcademicInfo, error) {
	if f.info == nil {
		return nil, sql.ErrNoRows
	}
	return f.info, nil
}

type fakeTranscriptStudentRepo struct {
	students map[string]models.Student
}

func (f *fakeTranscriptStudentRepo) FindByID(_ context.Context, id string) (*models.Student, error) {
	student, ok := f.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &student, nil
}

func newTranscriptService(t *testing.T, history *fakeTranscriptHistoryRepo) (*TranscriptService, *fakeTranscriptRepo) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := &fakeTranscriptRepo{}
	students := &fakeTranscriptStudentRepo{students: map[string]models.Student{
		"stu-1": {ID: "stu-1", StudentAuthID: "A-0001", FullName: "Nadia Rahman"},
	}}
	signer := storage.NewSignedURLSigner("transcript-secret", time.Minute)
	svc := NewTranscriptService(repo, history, students, store, signer, jobs.QueueConfig{Workers: 1}, nil)
	return svc, repo
}

func TestTranscriptServiceRenderBuildsPDF(t *testing.T) {
	grade := "A"
	history := &fakeTranscriptHistoryRepo{
		courses: []models.EnrolledCourseDetail{{
			StudentEnrolledCourse: models.StudentEnrolledCourse{
				StudentID: "stu-1",
				Status:    models.EnrolledCourseStatusCompleted,
				Grade:     &grade,
				Point:     3.50,
			},
			CourseTitle:   "Data Structures",
			CourseCode:    "CSE201",
			CourseCredits: 3,
			SemesterTitle: "Autumn",
			SemesterYear:  2025,
		}},
		info: &models.StudentAcademicInfo{StudentID: "stu-1", TotalCompletedCredit: 3, CGPA: 3.5},
	}
	svc, _ := newTranscriptService(t, history)

	data, err := svc.render(context.Background(), "stu-1")
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestTranscriptServiceRequestRejectsUnknownStudent(t *testing.T) {
	svc, repo := newTranscriptService(t, &fakeTranscriptHistoryRepo{})

	_, err := svc.Request(context.Background(), "stu-missing")
	require.Error(t, err)
	assert.Empty(t, repo.jobs)
}
