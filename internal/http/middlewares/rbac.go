package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tiendahub/backoffice/internal/auth"
)

// RequireRoles authorizes the authenticated identity against a required role
// set. The claims' roles only need to intersect the required set; an empty
// required set admits any authenticated identity.
func (m *AuthMiddleware) RequireRoles(required ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)

		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Missing identity context",
			})
			return
		}

		if !auth.Authorize(claims, required...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "Insufficient permissions",
			})
			return
		}

		c.Next()
	}
}
