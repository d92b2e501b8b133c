package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mirxonjon/charge-one-backend/domain"
)

// RequireRoles gates a route on the subject's stored role. The decision
// itself is the pure domain.RoleAllowed check; this middleware only resolves
// the subject's current role from storage.
func RequireRoles(userRepo domain.UserRepository, required ...domain.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(required) == 0 {
			c.Next()
			return
		}

		userID, ok := SubjectID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		user, err := userRepo.FindByID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
			c.Abort()
			return
		}

		if !domain.RoleAllowed(user.Role.Name, required...) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
			c.Abort()
			return
		}

		c.Next()
	}
}
