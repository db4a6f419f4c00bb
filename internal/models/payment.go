package models

import "time"

// PaymentStatus tracks how much of a semester payment has been settled.
type PaymentStatus string

const (
	PaymentStatusPending     PaymentStatus = "PENDING"
	PaymentStatusPartialPaid PaymentStatus = "PARTIAL_PAID"
	PaymentStatusFullPaid    PaymentStatus = "FULL_PAID"
)

// StudentSemesterPayment is the tuition charge created at semester rollover
// for every confirmed student, totalPayment = credits taken x per-credit fee.
type StudentSemesterPayment struct {
	ID                 string        `db:"id" json:"id"`
	StudentID          string        `db:"student_id" json:"student_id"`
	AcademicSemesterID string        `db:"academic_semester_id" json:"academic_semester_id"`
	TotalPayment       int           `db:"total_payment" json:"total_payment"`
	PaidAmount         int           `db:"paid_amount" json:"paid_amount"`
	DueAmount          int           `db:"due_amount" json:"due_amount"`
	Status             PaymentStatus `db:"status" json:"status"`
	CreatedAt          time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at" json:"updated_at"`
}

// PaymentFilter defines filters for listing semester payments.
type PaymentFilter struct {
	StudentID          string
	AcademicSemesterID string
	Status             PaymentStatus
	Page               int
	PageSize           int
	SortBy             string
	SortOrder          string
}
