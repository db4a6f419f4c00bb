package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-sims-api/internal/models"
	appErrors "github.com/noah-isme/uni-sims-api/pkg/errors"
)

type fakePaymentRepo struct {
	payments map[string]*models.StudentSemesterPayment
	recorded *recordedPayment
}

type recordedPayment struct {
	paid   int
	due    int
	status models.PaymentStatus
}

func (f *fakePaymentRepo) List(ctx context.Context, filter models.PaymentFilter) ([]models.StudentSemesterPayment, int, error) {
	return nil, 0, nil
}

func (f *fakePaymentRepo) FindByID(ctx context.Context, id string) (*models.StudentSemesterPayment, error) {
	if p, ok := f.payments[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakePaymentRepo) FindForStudent(ctx context.Context, studentID, semesterID string) (*models.StudentSemesterPayment, error) {
	for _, p := range f.payments {
		if p.StudentID == studentID && p.AcademicSemesterID == semesterID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakePaymentRepo) RecordPayment(ctx context.Context, id string, paid, due int, status models.PaymentStatus) error {
	f.recorded = &recordedPayment{paid: paid, due: due, status: status}
	return nil
}

func newPaymentFixture() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[string]*models.StudentSemesterPayment{
		"pay-1": {
			ID: "pay-1", StudentID: "stu-1", AcademicSemesterID: "sem-1",
			TotalPayment: 60000, PaidAmount: 0, DueAmount: 60000,
			Status: models.PaymentStatusPending,
		},
	}}
}

func TestPaymentServiceRecordPartialPayment(t *testing.T) {
	repo := newPaymentFixture()
	svc := NewPaymentService(repo, validator.New(), zap.NewNop())

	payment, err := svc.RecordPayment(context.Background(), "pay-1", RecordPaymentRequest{Amount: 20000})
	require.NoError(t, err)
	assert.Equal(t, 20000, payment.PaidAmount)
	assert.Equal(t, 40000, payment.DueAmount)
	assert.Equal(t, models.PaymentStatusPartialPaid, payment.Status)
	require.NotNil(t, repo.recorded)
	assert.Equal(t, models.PaymentStatusPartialPaid, repo.recorded.status)
}

func TestPaymentServiceRecordFullPayment(t *testing.T) {
	repo := newPaymentFixture()
	repo.payments["pay-1"].PaidAmount = 40000
	repo.payments["pay-1"].DueAmount = 20000
	repo.payments["pay-1"].Status = models.PaymentStatusPartialPaid
	svc := NewPaymentService(repo, validator.New(), zap.NewNop())

	payment, err := svc.RecordPayment(context.Background(), "pay-1", RecordPaymentRequest{Amount: 20000})
	require.NoError(t, err)
	assert.Equal(t, 60000, payment.PaidAmount)
	assert.Equal(t, 0, payment.DueAmount)
	assert.Equal(t, models.PaymentStatusFullPaid, payment.Status)
}

func TestPaymentServiceRecordRejectsOvershoot(t *testing.T) {
	repo := newPaymentFixture()
	svc := NewPaymentService(repo, validator.New(), zap.NewNop())

	_, err := svc.RecordPayment(context.Background(), "pay-1", RecordPaymentRequest{Amount: 70000})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.recorded)
}

func TestPaymentServiceRecordRejectsSettledPayment(t *testing.T) {
	repo := newPaymentFixture()
	repo.payments["pay-1"].Status = models.PaymentStatusFullPaid
	repo.payments["pay-1"].PaidAmount = 60000
	repo.payments["pay-1"].DueAmount = 0
	svc := NewPaymentService(repo, validator.New(), zap.NewNop())

	_, err := svc.RecordPayment(context.Background(), "pay-1", RecordPaymentRequest{Amount: 1})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestPaymentServiceRecordRejectsZeroAmount(t *testing.T) {
	repo := newPaymentFixture()
	svc := NewPaymentService(repo, validator.New(), zap.NewNop())

	_, err := svc.RecordPayment(context.Background(), "pay-1", RecordPaymentRequest{Amount: 0})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPaymentServiceMyPayment(t *testing.T) {
	repo := newPaymentFixture()
	svc := NewPaymentService(repo, validator.New(), zap.NewNop())

	payment, err := svc.MyPayment(context.Background(), "stu-1", "sem-1")
	require.NoError(t, err)
	assert.Equal(t, "pay-1", payment.ID)

	_, err = svc.MyPayment(context.Background(), "stu-2", "sem-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
