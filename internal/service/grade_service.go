package service

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/uni-sims-api/internal/models"
	appErrors "github.com/noah-isme/uni-sims-api/pkg/errors"
	"github.com/noah-isme/uni-sims-api/pkg/export"
)

// Weighting of the two exams in the final result.
const (
	midtermWeight = 0.4
	finalWeight   = 0.6
)

// exportPageSize caps one CSV export.
const exportPageSize = 10000

type gradeRepository interface {
	List(ctx context.Context, filter models.EnrolledCourseFilter) ([]models.EnrolledCourseDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.EnrolledCourseDetail, error)
	ListMarks(ctx context.Context, enrolledCourseID string) ([]models.StudentEnrolledCourseMark, error)
	FindMark(ctx context.Context, enrolledCourseID string, examType models.ExamType) (*models.StudentEnrolledCourseMark, error)
	UpdateMark(ctx context.Context, id string, marks int, grade string) error
	Finalize(ctx context.Context, enrolledCourseID, studentID string, totalMarks int, grade string, point float64) error
	FindAcademicInfo(ctx context.Context, studentID string) (*models.StudentAcademicInfo, error)
}

// UpdateMarkRequest writes one exam result.
type UpdateMarkRequest struct {
	StudentEnrolledCourseID string          `json:"student_enrolled_course_id" validate:"required"`
	ExamType                models.ExamType `json:"exam_type" validate:"required,oneof=MIDTERM FINAL"`
	Marks                   int             `json:"marks" validate:"min=0,max=100"`
}

// FinalizeCourseRequest closes grading for one enrolled course.
type FinalizeCourseRequest struct {
	StudentEnrolledCourseID string `json:"student_enrolled_course_id" validate:"required"`
}

// GradeService manages exam marks and final grading of enrolled courses.
type GradeService struct {
	repo      gradeRepository
	exporter  *export.CSVExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeService creates a new grade service instance.
func NewGradeService(repo gradeRepository, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{repo: repo, exporter: export.NewCSVExporter(), validator: validate, logger: logger}
}

// gradeForMarks maps a 0..100 result onto the letter grade and grade point.
func gradeForMarks(marks int) (string, float64) {
	switch {
	case marks >= 80:
		return "A+", 4.00
	case marks >= 70:
		return "A", 3.50
	case marks >= 60:
		return "B", 3.00
	case marks >= 50:
		return "C", 2.50
	case marks >= 40:
		return "D", 2.00
	default:
		return "F", 0.00
	}
}

// List returns paginated enrolled courses with grading state.
func (s *GradeService) List(ctx context.Context, filter models.EnrolledCourseFilter) ([]models.EnrolledCourseDetail, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrolled courses")
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
	return courses, pagination, nil
}

// ExportResults renders the filtered enrolled courses as a CSV sheet.
func (s *GradeService) ExportResults(ctx context.Context, filter models.EnrolledCourseFilter) ([]byte, error) {
	filter.Page = 1
	filter.PageSize = exportPageSize

	courses, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrolled courses")
	}

	dataset := export.Dataset{
		Headers: []string{"student_id", "course_code", "course_title", "credits", "semester", "status", "total_marks", "grade", "point"},
	}
	for _, course := range courses {
		grade := ""
		if course.Grade != nil {
			grade = *course.Grade
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"student_id":   course.StudentID,
			"course_code":  course.CourseCode,
			"course_title": course.CourseTitle,
			"credits":      strconv.Itoa(course.CourseCredits),
			"semester":     fmt.Sprintf("%s %d", course.SemesterTitle, course.SemesterYear),
			"status":       string(course.Status),
			"total_marks":  strconv.Itoa(course.TotalMarks),
			"grade":        grade,
			"point":        strconv.FormatFloat(course.Point, 'f', 2, 64),
		})
	}

	sheet, err := s.exporter.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render results sheet")
	}
	return sheet, nil
}

// Get returns one enrolled course with its exam marks.
func (s *GradeService) Get(ctx context.Context, id string) (*models.EnrolledCourseDetail, []models.StudentEnrolledCourseMark, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "enrolled course not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrolled course")
	}

	marks, err := s.repo.ListMarks(ctx, id)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load marks")
	}
	return course, marks, nil
}

// UpdateMark records one exam mark and its letter grade. Only courses still
// ONGOING accept mark changes.
func (s *GradeService) UpdateMark(ctx context.Context, req UpdateMarkRequest) (*models.StudentEnrolledCourseMark, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mark payload")
	}

	course, err := s.repo.FindByID(ctx, req.StudentEnrolledCourseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrolled course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrolled course")
	}
	if course.Status != models.EnrolledCourseStatusOngoing {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course grading is already finalised")
	}

	mark, err := s.repo.FindMark(ctx, req.StudentEnrolledCourseID, req.ExamType)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam mark not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam mark")
	}

	grade, _ := gradeForMarks(req.Marks)
	if err := s.repo.UpdateMark(ctx, mark.ID, req.Marks, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update exam mark")
	}

	mark.Marks = &req.Marks
	mark.Grade = &grade
	return mark, nil
}

// Finalize combines the midterm and final marks into the course result,
// completes the course and refreshes the student's academic summary.
func (s *GradeService) Finalize(ctx context.Context, req FinalizeCourseRequest) (*models.EnrolledCourseDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid finalize payload")
	}

	course, err := s.repo.FindByID(ctx, req.StudentEnrolledCourseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrolled course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrolled course")
	}
	if course.Status != models.EnrolledCourseStatusOngoing {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course grading is already finalised")
	}

	marks, err := s.repo.ListMarks(ctx, req.StudentEnrolledCourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load marks")
	}

	// Unrecorded exams count as zero.
	var midterm, final int
	for _, mark := range marks {
		if mark.Marks == nil {
			continue
		}
		switch mark.ExamType {
		case models.ExamTypeMidterm:
			midterm = *mark.Marks
		case models.ExamTypeFinal:
			final = *mark.Marks
		}
	}

	totalMarks := int(math.Ceil(float64(midterm)*midtermWeight)) + int(math.Ceil(float64(final)*finalWeight))
	grade, point := gradeForMarks(totalMarks)

	if err := s.repo.Finalize(ctx, course.ID, course.StudentID, totalMarks, grade, point); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to finalize course")
	}

	course.Status = models.EnrolledCourseStatusCompleted
	course.Grade = &grade
	course.Point = point
	course.TotalMarks = totalMarks

	s.logger.Info("course grading finalised",
		zap.String("enrolled_course_id", course.ID),
		zap.String("grade", grade))
	return course, nil
}

// AcademicInfo returns the student's aggregate of completed credits and CGPA.
func (s *GradeService) AcademicInfo(ctx context.Context, studentID string) (*models.StudentAcademicInfo, error) {
	info, err := s.repo.FindAcademicInfo(ctx, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "academic info not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academic info")
	}
	return info, nil
}
