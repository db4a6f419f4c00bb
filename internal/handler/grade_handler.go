package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-sims-api/internal/models"
	"github.com/noah-isme/uni-sims-api/internal/service"
	appErrors "github.com/noah-isme/uni-sims-api/pkg/errors"
	"github.com/noah-isme/uni-sims-api/pkg/response"
)

// GradeHandler exposes exam mark and grading endpoints.
type GradeHandler struct {
	service *service.GradeService
}

// NewGradeHandler constructs a grade handler.
func NewGradeHandler(svc *service.GradeService) *GradeHandler {
	return &GradeHandler{service: svc}
}

// List godoc
// @Summary List enrolled courses with grading state
// @Tags Grades
// @Produce json
// @Param student_id query string false "Filter by student"
// @Param academic_semester_id query string false "Filter by semester"
// @Param course_id query string false "Filter by course"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /enrolled-courses [get]
func (h *GradeHandler) List(c *gin.Context) {
	var filter models.EnrolledCourseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}

	courses, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, pagination)
}

// Export godoc
// @Summary Export enrolled course results as CSV
// @Tags Grades
// @Produce text/csv
// @Param student_id query string false "Filter by student"
// @Param academic_semester_id query string false "Filter by semester"
// @Param course_id query string false "Filter by course"
// @Param status query string false "Filter by status"
// @Success 200 {string} string "CSV sheet"
// @Router /enrolled-courses/export [get]
func (h *GradeHandler) Export(c *gin.Context) {
	var filter models.EnrolledCourseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}

	sheet, err := h.service.ExportResults(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="results.csv"`)
	c.Data(http.StatusOK, "text/csv", sheet)
}

// Get godoc
// @Summary Get an enrolled course with its exam marks
// @Tags Grades
// @Produce json
// @Param id path string true "Enrolled course ID"
// @Success 200 {object} response.Envelope
// @Router /enrolled-courses/{id} [get]
func (h *GradeHandler) Get(c *gin.Context) {
	course, marks, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"course": course, "marks": marks}, nil)
}

// UpdateMark godoc
// @Summary Record one exam mark
// @Tags Grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.UpdateMarkRequest true "Mark payload"
// @Success 200 {object} response.Envelope
// @Router /enrolled-courses/update-marks [patch]
func (h *GradeHandler) UpdateMark(c *gin.Context) {
	var req service.UpdateMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	mark, err := h.service.UpdateMark(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mark, nil)
}

// Finalize godoc
// @Summary Finalize grading for an enrolled course
// @Description Combines midterm and final marks, completes the course and refreshes the student's CGPA
// @Tags Grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.FinalizeCourseRequest true "Finalize payload"
// @Success 200 {object} response.Envelope
// @Router /enrolled-courses/finalize [post]
func (h *GradeHandler) Finalize(c *gin.Context) {
	var req service.FinalizeCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.service.Finalize(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// MyAcademicInfo godoc
// @Summary Get the authenticated student's academic summary
// @Tags Grades
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /academic-info/my [get]
func (h *GradeHandler) MyAcademicInfo(c *gin.Context) {
	studentID := subjectFromContext(c)
	if studentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	info, err := h.service.AcademicInfo(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}

// AcademicInfo godoc
// @Summary Get a student's academic summary
// @Tags Grades
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /academic-info/{studentId} [get]
func (h *GradeHandler) AcademicInfo(c *gin.Context) {
	info, err := h.service.AcademicInfo(c.Request.Context(), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}
