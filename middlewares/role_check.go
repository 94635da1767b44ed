package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein-backend/utils"
)

// RoleCheck allows the request through when the caller has one of roles.
// It must run after AuthMiddleware.
func RoleCheck(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(KeyRole)
		if !exists {
			utils.AbortFail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		for _, r := range roles {
			if userRole == r {
				c.Next()
				return
			}
		}
		utils.AbortFail(c, http.StatusForbidden, "Insufficient permissions")
	}
}
