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

// ScheduleHandler exposes class schedule endpoints.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler constructs a schedule handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// List godoc
// @Summary List class schedules
// @Tags Schedules
// @Produce json
// @Param semesterRegistrationId query string false "Filter by registration"
// @Param sectionId query string false "Filter by section"
// @Param roomId query string false "Filter by room"
// @Param facultyId query string false "Filter by faculty"
// @Param dayOfWeek query string false "Filter by day"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /class-schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	var filter models.ScheduleFilter
	filter.SemesterRegistrationID = c.Query("semesterRegistrationId")
	filter.OfferedCourseSectionID = c.Query("sectionId")
	filter.RoomID = c.Query("roomId")
	filter.FacultyID = c.Query("facultyId")
	if day := c.Query("dayOfWeek"); day != "" {
		filter.DayOfWeek = models.DayOfWeek(day)
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	schedules, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, pagination)
}

// MySchedule godoc
// @Summary Get the authenticated student's weekly schedule
// @Tags Schedules
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /class-schedules/my [get]
func (h *ScheduleHandler) MySchedule(c *gin.Context) {
	studentID := subjectFromContext(c)
	if studentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	schedules, err := h.service.MySchedule(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, nil)
}
