package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein-backend/utils"
)

// WebSocketAuthMiddleware reads the staff token from the token query
// parameter, since browsers cannot set headers on a websocket handshake.
func WebSocketAuthMiddleware(tokens *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = bearerToken(c)
		}
		if token == "" {
			utils.AbortFail(c, http.StatusUnauthorized, "Token is required")
			return
		}

		claims, err := tokens.ParseToken(token)
		if err != nil || claims.Type != utils.TokenTypeUser {
			utils.AbortFail(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if claims.RestaurantID == nil {
			utils.AbortFail(c, http.StatusForbidden, "No restaurant assigned to this account")
			return
		}

		c.Set(KeyUserID, claims.UserID)
		c.Set(KeyRole, claims.Role)
		c.Set(KeyRestaurantID, *claims.RestaurantID)
		c.Next()
	}
}
