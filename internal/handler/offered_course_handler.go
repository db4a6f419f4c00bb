package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-sims-api/internal/models"
	"github.com/noah-isme/uni-sims-api/internal/service"
	appErrors "github.com/noah-isme/uni-sims-api/pkg/errors"
	"github.com/noah-isme/uni-sims-api/pkg/response"
)

// OfferedCourseHandler exposes offered course endpoints.
type OfferedCourseHandler struct {
	service *service.OfferedCourseService
}

// NewOfferedCourseHandler constructs an offered course handler.
func NewOfferedCourseHandler(svc *service.OfferedCourseService) *OfferedCourseHandler {
	return &OfferedCourseHandler{service: svc}
}

// List godoc
// @Summary List offered courses
// @Tags OfferedCourses
// @Produce json
// @Param semesterRegistrationId query string false "Filter by registration"
// @Param academicDepartmentId query string false "Filter by department"
// @Param courseId query string false "Filter by course"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /offered-courses [get]
func (h *OfferedCourseHandler) List(c *gin.Context) {
	var filter models.OfferedCourseFilter
	filter.SemesterRegistrationID = c.Query("semesterRegistrationId")
	filter.AcademicDepartmentID = c.Query("academicDepartmentId")
	filter.CourseID = c.Query("courseId")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	offered, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offered, pagination)
}

// Get godoc
// @Summary Get an offered course
// @Tags OfferedCourses
// @Produce json
// @Param id path string true "Offered course ID"
// @Success 200 {object} response.Envelope
// @Router /offered-courses/{id} [get]
func (h *OfferedCourseHandler) Get(c *gin.Context) {
	offered, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offered, nil)
}

// Create godoc
// @Summary Offer catalogue courses to a department
// @Description Creates one offered course per course ID, skipping duplicates
// @Tags OfferedCourses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateOfferedCoursesRequest true "Offered courses payload"
// @Success 201 {object} response.Envelope
// @Router /offered-courses [post]
func (h *OfferedCourseHandler) Create(c *gin.Context) {
	var req service.CreateOfferedCoursesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	offered, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, offered)
}

// Delete godoc
// @Summary Delete an offered course
// @Tags OfferedCourses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offered course ID"
// @Success 204
// @Router /offered-courses/{id} [delete]
func (h *OfferedCourseHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
