package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-sims-api/internal/models"
	appErrors "github.com/noah-isme/uni-sims-api/pkg/errors"
)

type paymentRepository interface {
	List(ctx context.Context, filter models.PaymentFilter) ([]models.StudentSemesterPayment, int, error)
	FindByID(ctx context.Context, id string) (*models.StudentSemesterPayment, error)
	FindForStudent(ctx context.Context, studentID, semesterID string) (*models.StudentSemesterPayment, error)
	RecordPayment(ctx context.Context, id string, paid, due int, status models.PaymentStatus) error
}

// RecordPaymentRequest applies an amount against a semester payment.
type RecordPaymentRequest struct {
	Amount int `json:"amount" validate:"required,min=1"`
}

// PaymentService manages semester tuition payments.
type PaymentService struct {
	repo      paymentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService creates a new payment service instance.
func NewPaymentService(repo paymentRepository, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated semester payments.
func (s *PaymentService) List(ctx context.Context, filter models.PaymentFilter) ([]models.StudentSemesterPayment, *models.Pagination, error) {
	payments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}

	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return payments, pagination, nil
}

// Get returns a payment by ID.
func (s *PaymentService) Get(ctx context.Context, id string) (*models.StudentSemesterPayment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	return payment, nil
}

// MyPayment returns the student's payment for a semester.
func (s *PaymentService) MyPayment(ctx context.Context, studentID, semesterID string) (*models.StudentSemesterPayment, error) {
	payment, err := s.repo.FindForStudent(ctx, studentID, semesterID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	return payment, nil
}

// RecordPayment applies an amount, never overshooting the due balance, and
// derives the settlement status.
func (s *PaymentService) RecordPayment(ctx context.Context, id string, req RecordPaymentRequest) (*models.StudentSemesterPayment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}

	if payment.Status == models.PaymentStatusFullPaid {
		return nil, appErrors.Clone(appErrors.ErrConflict, "payment already settled")
	}
	if req.Amount > payment.DueAmount {
		return nil, appErrors.Clone(appErrors.ErrValidation, "amount exceeds due balance")
	}

	paid := payment.PaidAmount + req.Amount
	due := payment.TotalPayment - paid
	status := models.PaymentStatusPartialPaid
	if due == 0 {
		status = models.PaymentStatusFullPaid
	}

	if err := s.repo.RecordPayment(ctx, id, paid, due, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record payment")
	}

	payment.PaidAmount = paid
	payment.DueAmount = due
	payment.Status = status
	return payment, nil
}
