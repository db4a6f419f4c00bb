package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-sims-api/internal/models"
)

// TranscriptRepository tracks asynchronous transcript export jobs.
type TranscriptRepository struct {
	db *sqlx.DB
}

// NewTranscriptRepository instantiates a transcript repository.
func NewTranscriptRepository(db *sqlx.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// Create queues a new transcript job.
func (r *TranscriptRepository) Create(ctx context.Context, job *models.TranscriptJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.RequestedAt.IsZero() {
		job.RequestedAt = time.Now().UTC()
	}
	job.Status = models.TranscriptJobQueued

	const query = `INSERT INTO transcript_jobs (id, student_id, status, file_path, error, requested_at)
		VALUES (:id, :student_id, :status, :file_path, :error, :requested_at)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("create transcript job: %w", err)
	}
	return nil
}

// FindByID loads a transcript job.
func (r *TranscriptRepository) FindByID(ctx context.Context, id string) (*models.TranscriptJob, error) {
	const query = `SELECT id, student_id, status, file_path, error, requested_at, completed_at FROM transcript_jobs WHERE id = $1`
	var job models.TranscriptJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, err
	}
	return &job, nil
}

// MarkProcessing transitions a queued job to PROCESSING.
func (r *TranscriptRepository) MarkProcessing(ctx context.Context, id string) error {
	const query = `UPDATE transcript_jobs SET status = 'PROCESSING' WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("mark transcript processing: %w", err)
	}
	return nil
}

// MarkReady records the rendered file path and completes the job.
func (r *TranscriptRepository) MarkReady(ctx context.Context, id, filePath string) error {
	const query = `UPDATE transcript_jobs SET status = 'READY', file_path = $1, completed_at = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, filePath, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("mark transcript ready: %w", err)
	}
	return nil
}

// MarkFailed records the failure reason and completes the job.
func (r *TranscriptRepository) MarkFailed(ctx context.Context, id, reason string) error {
	const query = `UPDATE transcript_jobs SET status = 'FAILED', error = $1, completed_at = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, reason, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("mark transcript failed: %w", err)
	}
	return nil
}
