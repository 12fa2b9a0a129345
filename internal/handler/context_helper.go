package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/studygrid/scheduler-api/internal/middleware"
	"github.com/studygrid/scheduler-api/internal/models"
)

// claimsFromContext returns the JWT claims stored by the auth middleware,
// or nil for unauthenticated requests.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	v, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*models.JWTClaims)
	return claims
}
