package models

import "time"

// TranscriptJobStatus tracks asynchronous transcript generation.
type TranscriptJobStatus string

const (
	TranscriptJobQueued     TranscriptJobStatus = "QUEUED"
	TranscriptJobProcessing TranscriptJobStatus = "PROCESSING"
	TranscriptJobReady      TranscriptJobStatus = "READY"
	TranscriptJobFailed     TranscriptJobStatus = "FAILED"
)

// TranscriptJob is one requested transcript export. The rendered PDF lives on
// the filesystem store and is served through a signed URL.
type TranscriptJob struct {
	ID          string              `db:"id" json:"id"`
	StudentID   string              `db:"student_id" json:"student_id"`
	Status      TranscriptJobStatus `db:"status" json:"status"`
	FilePath    string              `db:"file_path" json:"-"`
	Error       string              `db:"error" json:"error,omitempty"`
	RequestedAt time.Time           `db:"requested_at" json:"requested_at"`
	CompletedAt *time.Time          `db:"completed_at" json:"completed_at,omitempty"`
}

// TranscriptDownload is the signed download handle returned to the caller.
type TranscriptDownload struct {
	JobID     string    `json:"job_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
