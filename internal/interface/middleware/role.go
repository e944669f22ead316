package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/frontfolio/frontfolio-api/internal/domain/entity"
	"github.com/frontfolio/frontfolio-api/pkg/response"
)

// RequireRole gates a route to users whose token carries the given role.
// Must run after Auth.
func RequireRole(role entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserRoleKey) != string(role) {
			response.AbortError(c, http.StatusForbidden, "insufficient permissions", nil)
			return
		}
		c.Next()
	}
}
