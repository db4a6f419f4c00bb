package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-sims-api/internal/models"
	"github.com/noah-isme/uni-sims-api/internal/repository"
	appErrors "github.com/noah-isme/uni-sims-api/pkg/errors"
)

type enrollmentRepository interface {
	FindStudentRegistration(ctx context.Context, registrationID, studentID string) (*models.StudentSemesterRegistration, error)
	CreateStudentRegistration(ctx context.Context, record *models.StudentSemesterRegistration) error
	Enroll(ctx context.Context, registrationID, studentID, offeredCourseID, sectionID string, credits int) error
	Withdraw(ctx context.Context, registrationID, studentID, offeredCourseID string, credits int) error
	Confirm(ctx context.Context, registrationID, studentID string) error
	ListEnrolledSections(ctx context.Context, registrationID, studentID string) ([]models.EnrolledSectionDetail, error)
	TakenSections(ctx context.Context, registrationID, studentID string) (map[string]string, error)
}

type enrollmentRegistrationRepository interface {
	FindOngoing(ctx context.Context) (*models.RegistrationDetail, error)
}

type enrollmentOfferedCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.OfferedCourseDetail, error)
	List(ctx context.Context, filter models.OfferedCourseFilter) ([]models.OfferedCourseDetail, int, error)
}

type enrollmentSectionRepository interface {
	FindByID(ctx context.Context, id string) (*models.SectionDetail, error)
	List(ctx context.Context, filter models.SectionFilter) ([]models.OfferedCourseSection, int, error)
}

type enrollmentStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type enrollmentCourseRepository interface {
	ListPrerequisites(ctx context.Context, courseID string) ([]models.Course, error)
}

type enrollmentHistoryRepository interface {
	ListCompletedCourseIDs(ctx context.Context, studentID string) ([]string, error)
}

type enrollmentCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// EnrollRequest selects a section of an offered course.
type EnrollRequest struct {
	OfferedCourseID        string `json:"offered_course_id" validate:"required"`
	OfferedCourseSectionID string `json:"offered_course_section_id" validate:"required"`
}

// WithdrawRequest drops an offered course.
type WithdrawRequest struct {
	OfferedCourseID string `json:"offered_course_id" validate:"required"`
}

// StudentRegistrationView pairs the registration window with the student's
// ledger and current selections.
type StudentRegistrationView struct {
	Registration *models.RegistrationDetail          `json:"registration"`
	Student      *models.StudentSemesterRegistration `json:"student_registration"`
	Courses      []models.EnrolledSectionDetail      `json:"courses"`
}

// EnrollmentService drives the student-facing registration workflow.
type EnrollmentService struct {
	repo          enrollmentRepository
	registrations enrollmentRegistrationRepository
	offered       enrollmentOfferedCourseRepository
	sections      enrollmentSectionRepository
	students      enrollmentStudentRepository
	courses       enrollmentCourseRepository
	history       enrollmentHistoryRepository
	cache         enrollmentCache
	cacheTTL      time.Duration
	metrics       *MetricsService
	validator     *validator.Validate
	logger        *zap.Logger
}

// WithMetrics attaches Prometheus instrumentation. A nil metrics service is a no-op.
func (s *EnrollmentService) WithMetrics(m *MetricsService) *EnrollmentService {
	s.metrics = m
	return s
}

func (s *EnrollmentService) recordOutcome(operation string, err error) {
	if err != nil {
		s.metrics.RecordEnrollment(operation, appErrors.FromError(err).Code)
		return
	}
	s.metrics.RecordEnrollment(operation, "ok")
}

// NewEnrollmentService creates a new enrollment service instance.
func NewEnrollmentService(
	repo enrollmentRepository,
	registrations enrollmentRegistrationRepository,
	offered enrollmentOfferedCourseRepository,
	sections enrollmentSectionRepository,
	students enrollmentStudentRepository,
	courses enrollmentCourseRepository,
	history enrollmentHistoryRepository,
	cache enrollmentCache,
	cacheTTL time.Duration,
	validate *validator.Validate,
	logger *zap.Logger,
) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		repo:          repo,
		registrations: registrations,
		offered:       offered,
		sections:      sections,
		students:      students,
		courses:       courses,
		history:       history,
		cache:         cache,
		cacheTTL:      cacheTTL,
		validator:     validate,
		logger:        logger,
	}
}

func (s *EnrollmentService) ongoingRegistration(ctx context.Context) (*models.RegistrationDetail, error) {
	registration, err := s.registrations.FindOngoing(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no ongoing semester registration")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ongoing registration")
	}
	return registration, nil
}

// StartRegistration opens the student's ledger for the ongoing registration.
// Calling it again returns the existing ledger unchanged.
func (s *EnrollmentService) StartRegistration(ctx context.Context, studentID string) (*StudentRegistrationView, error) {
	registration, err := s.ongoingRegistration(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	record, err := s.repo.FindStudentRegistration(ctx, registration.ID, studentID)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student registration")
	}
	if record == nil {
		record = &models.StudentSemesterRegistration{
			StudentID:              studentID,
			SemesterRegistrationID: registration.ID,
		}
		if err := s.repo.CreateStudentRegistration(ctx, record); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start registration")
		}
	}

	return &StudentRegistrationView{Registration: registration, Student: record}, nil
}

// MyRegistration returns the student's ledger and selected courses for the
// ongoing registration.
func (s *EnrollmentService) MyRegistration(ctx context.Context, studentID string) (*StudentRegistrationView, error) {
	registration, err := s.ongoingRegistration(ctx)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.FindStudentRegistration(ctx, registration.ID, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not started")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student registration")
	}

	courses, err := s.repo.ListEnrolledSections(ctx, registration.ID, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrolled courses")
	}

	return &StudentRegistrationView{Registration: registration, Student: record, Courses: courses}, nil
}

// Enroll books a section for the student inside the ongoing registration.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID string, req EnrollRequest) (*StudentRegistrationView, error) {
	view, err := s.enroll(ctx, studentID, req)
	s.recordOutcome("enroll", err)
	return view, err
}

func (s *EnrollmentService) enroll(ctx context.Context, studentID string, req EnrollRequest) (*StudentRegistrationView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	registration, err := s.ongoingRegistration(ctx)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.FindStudentRegistration(ctx, registration.ID, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not started")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student registration")
	}
	if record.IsConfirmed {
		return nil, appErrors.Clone(appErrors.ErrConflict, "registration already confirmed")
	}

	offered, err := s.offered.FindByID(ctx, req.OfferedCourseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "offered course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load offered course")
	}
	if offered.SemesterRegistrationID != registration.ID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "offered course does not belong to the ongoing registration")
	}

	section, err := s.sections.FindByID(ctx, req.OfferedCourseSectionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}
	if section.OfferedCourseID != offered.ID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "section does not belong to the offered course")
	}

	if err := s.repo.Enroll(ctx, registration.ID, studentID, offered.ID, section.ID, offered.CourseCredits); err != nil {
		switch {
		case errors.Is(err, repository.ErrSectionFull):
			return nil, appErrors.Clone(appErrors.ErrCapacityFull, "student capacity is full")
		case errors.Is(err, repository.ErrDoubleEnroll):
			return nil, appErrors.Clone(appErrors.ErrConflict, "course already taken")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll into course")
		}
	}

	s.logger.Info("student enrolled into section",
		zap.String("student_id", studentID),
		zap.String("section_id", section.ID))
	return s.MyRegistration(ctx, studentID)
}

// Withdraw drops an offered course the student previously enrolled into.
func (s *EnrollmentService) Withdraw(ctx context.Context, studentID string, req WithdrawRequest) (*StudentRegistrationView, error) {
	view, err := s.withdraw(ctx, studentID, req)
	s.recordOutcome("withdraw", err)
	return view, err
}

func (s *EnrollmentService) withdraw(ctx context.Context, studentID string, req WithdrawRequest) (*StudentRegistrationView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid withdrawal payload")
	}

	registration, err := s.ongoingRegistration(ctx)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.FindStudentRegistration(ctx, registration.ID, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not started")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student registration")
	}
	if record.IsConfirmed {
		return nil, appErrors.Clone(appErrors.ErrConflict, "registration already confirmed")
	}

	offered, err := s.offered.FindByID(ctx, req.OfferedCourseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "offered course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load offered course")
	}

	if err := s.repo.Withdraw(ctx, registration.ID, studentID, offered.ID, offered.CourseCredits); err != nil {
		if errors.Is(err, repository.ErrNotEnrolled) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not enrolled")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to withdraw from course")
	}

	return s.MyRegistration(ctx, studentID)
}

// Confirm locks the student's selections, enforcing the registration's credit
// bounds.
func (s *EnrollmentService) Confirm(ctx context.Context, studentID string) (*StudentRegistrationView, error) {
	view, err := s.confirm(ctx, studentID)
	s.recordOutcome("confirm", err)
	return view, err
}

func (s *EnrollmentService) confirm(ctx context.Context, studentID string) (*StudentRegistrationView, error) {
	registration, err := s.ongoingRegistration(ctx)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.FindStudentRegistration(ctx, registration.ID, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not started")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student registration")
	}
	if record.IsConfirmed {
		return nil, appErrors.Clone(appErrors.ErrConflict, "registration already confirmed")
	}

	if record.TotalCreditsTaken == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no courses enrolled")
	}
	if registration.MinCredit > 0 || registration.MaxCredit > 0 {
		if record.TotalCreditsTaken < registration.MinCredit || record.TotalCreditsTaken > registration.MaxCredit {
			return nil, appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("total credits must be between %d and %d", registration.MinCredit, registration.MaxCredit))
		}
	}

	if err := s.repo.Confirm(ctx, registration.ID, studentID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to confirm registration")
	}
	record.IsConfirmed = true

	return s.MyRegistration(ctx, studentID)
}

// AvailableCourses lists the offered courses of the student's department with
// section availability, enrollment state and prerequisite readiness.
func (s *EnrollmentService) AvailableCourses(ctx context.Context, studentID string) ([]models.AvailableCourse, error) {
	registration, err := s.ongoingRegistration(ctx)
	if err != nil {
		return nil, err
	}

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	catalogue, err := s.departmentCatalogue(ctx, registration.ID, student.AcademicDepartmentID)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.TakenSections(ctx, registration.ID, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment state")
	}

	completedIDs, err := s.history.ListCompletedCourseIDs(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course history")
	}
	completed := make(map[string]bool, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = true
	}

	available := make([]models.AvailableCourse, 0, len(catalogue))
	for _, entry := range catalogue {
		course := models.AvailableCourse{
			OfferedCourseDetail: entry.OfferedCourseDetail,
			Sections:            entry.Sections,
		}
		if sectionID, ok := taken[entry.ID]; ok {
			course.IsTaken = true
			course.TakenSectionID = sectionID
		}

		prerequisites, err := s.courses.ListPrerequisites(ctx, entry.CourseID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load prerequisites")
		}
		course.PrerequisitesFulfilled = true
		for _, prereq := range prerequisites {
			if !completed[prereq.ID] {
				course.PrerequisitesFulfilled = false
				course.PendingPrerequisites = append(course.PendingPrerequisites, prereq.Code)
			}
		}

		available = append(available, course)
	}
	return available, nil
}

type catalogueEntry struct {
	models.OfferedCourseDetail
	Sections []models.OfferedCourseSection `json:"sections"`
}

// departmentCatalogue returns the offered courses of a department with their
// sections. The payload is student independent, so it is cached per
// registration and department.
func (s *EnrollmentService) departmentCatalogue(ctx context.Context, registrationID, departmentID string) ([]catalogueEntry, error) {
	cacheKey := fmt.Sprintf("registrations:%s:catalogue:%s", registrationID, departmentID)
	if s.cache != nil {
		var cached []catalogueEntry
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	offered, _, err := s.offered.List(ctx, models.OfferedCourseFilter{
		SemesterRegistrationID: registrationID,
		AcademicDepartmentID:   departmentID,
		PageSize:               100,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load offered courses")
	}

	catalogue := make([]catalogueEntry, 0, len(offered))
	for _, item := range offered {
		sections, _, err := s.sections.List(ctx, models.SectionFilter{OfferedCourseID: item.ID, PageSize: 100})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sections")
		}
		catalogue = append(catalogue, catalogueEntry{OfferedCourseDetail: item, Sections: sections})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, catalogue, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache department catalogue", zap.Error(err))
		}
	}
	return catalogue, nil
}
