package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-sims-api/internal/service"
	appErrors "github.com/noah-isme/uni-sims-api/pkg/errors"
	"github.com/noah-isme/uni-sims-api/pkg/response"
)

// TranscriptHandler exposes transcript export endpoints.
type TranscriptHandler struct {
	service *service.TranscriptService
}

// NewTranscriptHandler constructs a transcript handler.
func NewTranscriptHandler(svc *service.TranscriptService) *TranscriptHandler {
	return &TranscriptHandler{service: svc}
}

// Request godoc
// @Summary Request a transcript export for the authenticated student
// @Description Queues asynchronous PDF generation and returns the job
// @Tags Transcripts
// @Produce json
// @Security BearerAuth
// @Success 202 {object} response.Envelope
// @Router /transcripts [post]
func (h *TranscriptHandler) Request(c *gin.Context) {
	studentID := subjectFromContext(c)
	if studentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	job, err := h.service.Request(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Get godoc
// @Summary Get a transcript job
// @Description Returns the job state; READY jobs include a signed download handle
// @Tags Transcripts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /transcripts/{id} [get]
func (h *TranscriptHandler) Get(c *gin.Context) {
	job, download, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	payload := gin.H{"job": job}
	if download != nil {
		payload["download"] = download
	}
	response.JSON(c, http.StatusOK, payload, nil)
}

// Download godoc
// @Summary Download a rendered transcript PDF
// @Tags Transcripts
// @Produce application/pdf
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Router /transcripts/download [get]
func (h *TranscriptHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="transcript.pdf"`)
	if err := h.service.Download(c.Request.Context(), token, c.Writer); err != nil {
		response.Error(c, err)
		return
	}
}
