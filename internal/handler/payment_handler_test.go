package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-sims-api/internal/middleware"
	"github.com/noah-isme/uni-sims-api/internal/models"
)

func TestPaymentHandlerMyPaymentRequiresSemester(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewPaymentHandler(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/payments/my", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Role: models.RoleStudent, SubjectID: "stu-1"})

	handler.MyPayment(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandlerMyPaymentRequiresClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewPaymentHandler(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/payments/my?academicSemesterId=sem-1", nil)
	c.Request = req

	handler.MyPayment(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
