package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/daosail/daosail-server/internal/domain/roles"
)

// RequireTier rejects callers below the given role tier. Guests always fail
// because their label parses to the public tier.
func RequireTier(min roles.Tier) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.ID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Authentication required",
			})
			c.Abort()
			return
		}

		tier := roles.ParseTier(principal.RoleLabel)
		if !tier.AtLeast(min) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "Forbidden",
				"message": "Insufficient role",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin gates admin-only endpoints.
func RequireAdmin() gin.HandlerFunc {
	return RequireTier(roles.TierAdmin)
}
