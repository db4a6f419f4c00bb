package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-sims-api/internal/service"
	appErrors "github.com/noah-isme/uni-sims-api/pkg/errors"
	"github.com/noah-isme/uni-sims-api/pkg/response"
)

// EnrollmentHandler exposes the student-facing registration workflow.
type EnrollmentHandler struct {
	service *service.EnrollmentService
}

// NewEnrollmentHandler constructs an enrollment handler.
func NewEnrollmentHandler(svc *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc}
}

// StartRegistration godoc
// @Summary Start the semester registration for the authenticated student
// @Description Opens the student's ledger; repeating the call is harmless
// @Tags StudentRegistration
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /my-registration/start [post]
func (h *EnrollmentHandler) StartRegistration(c *gin.Context) {
	studentID := subjectFromContext(c)
	if studentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	view, err := h.service.StartRegistration(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// MyRegistration godoc
// @Summary Get the authenticated student's registration state
// @Tags StudentRegistration
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /my-registration [get]
func (h *EnrollmentHandler) MyRegistration(c *gin.Context) {
	studentID := subjectFromContext(c)
	if studentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	view, err := h.service.MyRegistration(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// AvailableCourses godoc
// @Summary List courses the student can enroll into
// @Description Offered courses of the student's department with section availability and prerequisite state
// @Tags StudentRegistration
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /my-registration/available-courses [get]
func (h *EnrollmentHandler) AvailableCourses(c *gin.Context) {
	studentID := subjectFromContext(c)
	if studentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	courses, err := h.service.AvailableCourses(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Enroll godoc
// @Summary Enroll into a section of an offered course
// @Tags StudentRegistration
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.EnrollRequest true "Enrollment payload"
// @Success 200 {object} response.Envelope
// @Router /my-registration/enroll [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	studentID := subjectFromContext(c)
	if studentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	view, err := h.service.Enroll(c.Request.Context(), studentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Withdraw godoc
// @Summary Withdraw from an enrolled offered course
// @Tags StudentRegistration
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.WithdrawRequest true "Withdrawal payload"
// @Success 200 {object} response.Envelope
// @Router /my-registration/withdraw [post]
func (h *EnrollmentHandler) Withdraw(c *gin.Context) {
	studentID := subjectFromContext(c)
	if studentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	view, err := h.service.Withdraw(c.Request.Context(), studentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Confirm godoc
// @Summary Confirm the student's course selections
// @Description Locks the ledger after checking the registration's credit bounds
// @Tags StudentRegistration
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /my-registration/confirm [post]
func (h *EnrollmentHandler) Confirm(c *gin.Context) {
	studentID := subjectFromContext(c)
	if studentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	view, err := h.service.Confirm(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}
