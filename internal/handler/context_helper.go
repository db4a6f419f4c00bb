package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/uni-sims-api/internal/middleware"
	"github.com/noah-isme/uni-sims-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// subjectFromContext returns the student or faculty identifier behind the
// authenticated account.
func subjectFromContext(c *gin.Context) string {
	claims := claimsFromContext(c)
	if claims == nil {
		return ""
	}
	return claims.SubjectID
}
