package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-sims-api/internal/models"
)

// PaymentRepository handles persistence for semester tuition payments.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository instantiates a payment repository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// List returns semester payments matching provided filters.
func (r *PaymentRepository) List(ctx context.Context, filter models.PaymentFilter) ([]models.StudentSemesterPayment, int, error) {
	base := "FROM student_semester_payments WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.AcademicSemesterID != "" {
		conditions = append(conditions, fmt.Sprintf("academic_semester_id = $%d", len(args)+1))
		args = append(args, filter.AcademicSemesterID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("payment_status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"total_payment": true,
		"due_amount":    true,
		"created_at":    true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, student_id, academic_semester_id, total_payment, paid_amount, due_amount, payment_status AS status, created_at, updated_at
		%s ORDER BY %s %s LIMIT %d OFFSET %d`, base, sortBy, order, size, offset)

	var payments []models.StudentSemesterPayment
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	return payments, total, nil
}

// FindByID loads a payment by identifier.
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*models.StudentSemesterPayment, error) {
	const query = `SELECT id, student_id, academic_semester_id, total_payment, paid_amount, due_amount, payment_status AS status, created_at, updated_at
		FROM student_semester_payments WHERE id = $1`
	var payment models.StudentSemesterPayment
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		return nil, err
	}
	return &payment, nil
}

// FindForStudent loads the payment of a student in a semester.
func (r *PaymentRepository) FindForStudent(ctx context.Context, studentID, semesterID string) (*models.StudentSemesterPayment, error) {
	const query = `SELECT id, student_id, academic_semester_id, total_payment, paid_amount, due_amount, payment_status AS status, created_at, updated_at
		FROM student_semester_payments WHERE student_id = $1 AND academic_semester_id = $2`
	var payment models.StudentSemesterPayment
	if err := r.db.GetContext(ctx, &payment, query, studentID, semesterID); err != nil {
		return nil, err
	}
	return &payment, nil
}

// RecordPayment applies an amount against the payment, updating paid, due and
// status columns.
func (r *PaymentRepository) RecordPayment(ctx context.Context, id string, paid, due int, status models.PaymentStatus) error {
	const query = `UPDATE student_semester_payments SET paid_amount = $1, due_amount = $2, payment_status = $3, updated_at = $4 WHERE id = $5`
	if _, err := r.db.ExecContext(ctx, query, paid, due, status, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("record payment: %w", err)
	}
	return nil
}
