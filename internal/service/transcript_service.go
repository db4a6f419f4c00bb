package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-sims-api/internal/models"
	appErrors "github.com/noah-isme/uni-sims-api/pkg/errors"
	"github.com/noah-isme/uni-sims-api/pkg/export"
	"github.com/noah-isme/uni-sims-api/pkg/jobs"
	"github.com/noah-isme/uni-sims-api/pkg/storage"
)

type transcriptRepository interface {
	Create(ctx context.Context, job *models.TranscriptJob) error
	FindByID(ctx context.Context, id string) (*models.TranscriptJob, error)
	MarkProcessing(ctx context.Context, id string) error
	MarkReady(ctx context.Context, id, filePath string) error
	MarkFailed(ctx context.Context, id, reason string) error
}

type transcriptHistoryRepository interface {
	ListCompletedWithCourse(ctx context.Context, studentID string) ([]models.EnrolledCourseDetail, error)
	FindAcademicInfo(ctx context.Context, studentID string) (*models.StudentAcademicInfo, error)
}

type transcriptStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// TranscriptService renders student transcripts as PDFs on a background
// worker queue and hands out signed download URLs.
type TranscriptService struct {
	repo     transcriptRepository
	history  transcriptHistoryRepository
	students transcriptStudentRepository
	store    *storage.LocalStorage
	signer   *storage.SignedURLSigner
	exporter *export.PDFExporter
	queue    *jobs.Queue
	metrics  *MetricsService
	logger   *zap.Logger
}

// WithMetrics attaches Prometheus instrumentation. A nil metrics service is a no-op.
func (s *TranscriptService) WithMetrics(m *MetricsService) *TranscriptService {
	s.metrics = m
	return s
}

// NewTranscriptService creates a transcript service. Start must be called
// before requests are accepted.
func NewTranscriptService(
	repo transcriptRepository,
	history transcriptHistoryRepository,
	students transcriptStudentRepository,
	store *storage.LocalStorage,
	signer *storage.SignedURLSigner,
	queueCfg jobs.QueueConfig,
	logger *zap.Logger,
) *TranscriptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &TranscriptService{
		repo:     repo,
		history:  history,
		students: students,
		store:    store,
		signer:   signer,
		exporter: export.NewPDFExporter(),
		logger:   logger,
	}
	s.queue = jobs.NewQueue("transcripts", s.process, queueCfg)
	return s
}

// Start launches the rendering workers.
func (s *TranscriptService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the rendering workers.
func (s *TranscriptService) Stop() {
	s.queue.Stop()
}

// Request queues transcript generation for a student.
func (s *TranscriptService) Request(ctx context.Context, studentID string) (*models.TranscriptJob, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	job := &models.TranscriptJob{ID: uuid.NewString(), StudentID: studentID}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue transcript")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "transcript", Payload: studentID}); err != nil {
		s.logger.Error("failed to enqueue transcript job", zap.Error(err))
		if markErr := s.repo.MarkFailed(ctx, job.ID, "queue unavailable"); markErr != nil {
			s.logger.Error("failed to mark transcript job failed", zap.Error(markErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue transcript")
	}
	return job, nil
}

// Get returns the job state, attaching a signed download handle once READY.
func (s *TranscriptService) Get(ctx context.Context, jobID string) (*models.TranscriptJob, *models.TranscriptDownload, error) {
	job, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "transcript job not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load transcript job")
	}

	if job.Status != models.TranscriptJobReady {
		return job, nil, nil
	}

	token, expiresAt, err := s.signer.Generate(job.ID, job.FilePath)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
	}
	return job, &models.TranscriptDownload{JobID: job.ID, Token: token, ExpiresAt: expiresAt}, nil
}

// Download validates a signed token and streams the rendered PDF.
func (s *TranscriptService) Download(ctx context.Context, token string, w io.Writer) error {
	jobID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}

	job, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "transcript job not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load transcript job")
	}
	if job.Status != models.TranscriptJobReady || job.FilePath != relPath {
		return appErrors.Clone(appErrors.ErrNotFound, "transcript not available")
	}

	file, err := s.store.Open(relPath)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transcript file")
	}
	defer file.Close()

	if _, err := io.Copy(w, file); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stream transcript")
	}
	return nil
}

// process is the queue handler rendering one transcript.
func (s *TranscriptService) process(ctx context.Context, job jobs.Job) error {
	studentID, ok := job.Payload.(string)
	if !ok {
		return fmt.Errorf("transcript job %s: unexpected payload", job.ID)
	}

	if err := s.repo.MarkProcessing(ctx, job.ID); err != nil {
		return err
	}

	data, err := s.render(ctx, studentID)
	if err != nil {
		if markErr := s.repo.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
			s.logger.Error("failed to mark transcript job failed", zap.Error(markErr))
		}
		s.metrics.RecordTranscriptJob(string(models.TranscriptJobFailed))
		return err
	}

	filename := fmt.Sprintf("%s-%d.pdf", studentID, time.Now().UTC().Unix())
	relPath, err := s.store.Save(filename, data)
	if err != nil {
		if markErr := s.repo.MarkFailed(ctx, job.ID, "storage write failed"); markErr != nil {
			s.logger.Error("failed to mark transcript job failed", zap.Error(markErr))
		}
		s.metrics.RecordTranscriptJob(string(models.TranscriptJobFailed))
		return err
	}

	if err := s.repo.MarkReady(ctx, job.ID, relPath); err != nil {
		return err
	}
	s.metrics.RecordTranscriptJob(string(models.TranscriptJobReady))
	s.logger.Info("transcript rendered",
		zap.String("job_id", job.ID),
		zap.String("student_id", studentID))
	return nil
}

func (s *TranscriptService) render(ctx context.Context, studentID string) ([]byte, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load student: %w", err)
	}

	courses, err := s.history.ListCompletedWithCourse(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load completed courses: %w", err)
	}

	summary := []string{fmt.Sprintf("Student: %s (%s)", student.FullName, student.StudentAuthID)}
	info, err := s.history.FindAcademicInfo(ctx, studentID)
	if err == nil {
		summary = append(summary,
			fmt.Sprintf("Completed credits: %d", info.TotalCompletedCredit),
			fmt.Sprintf("CGPA: %.2f", info.CGPA))
	} else if err != sql.ErrNoRows {
		return nil, fmt.Errorf("load academic info: %w", err)
	}

	dataset := export.Dataset{
		Headers: []string{"Semester", "Code", "Course", "Credits", "Grade", "Point"},
	}
	for _, course := range courses {
		grade := ""
		if course.Grade != nil {
			grade = *course.Grade
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Semester": fmt.Sprintf("%s %d", course.SemesterTitle, course.SemesterYear),
			"Code":     course.CourseCode,
			"Course":   course.CourseTitle,
			"Credits":  fmt.Sprintf("%d", course.CourseCredits),
			"Grade":    grade,
			"Point":    fmt.Sprintf("%.2f", course.Point),
		})
	}

	return s.exporter.Render(dataset, "Academic Transcript", summary)
}
