package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein-backend/utils"
)

// Context keys set by the auth middlewares.
const (
	KeyUserID       = "userID"
	KeyRole         = "role"
	KeyRestaurantID = "restaurantID"
	KeyCustomerID   = "customerID"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// AuthMiddleware accepts staff tokens only.
func AuthMiddleware(tokens *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			utils.AbortFail(c, http.StatusUnauthorized, "Authorization header missing")
			return
		}

		claims, err := tokens.ParseToken(tokenString)
		if err != nil || claims.Type != utils.TokenTypeUser || claims.UserID == 0 {
			utils.AbortFail(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(KeyUserID, claims.UserID)
		c.Set(KeyRole, claims.Role)
		if claims.RestaurantID != nil {
			c.Set(KeyRestaurantID, *claims.RestaurantID)
		}
		c.Next()
	}
}

// CustomerAuth accepts customer tokens only.
func CustomerAuth(tokens *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			utils.AbortFail(c, http.StatusUnauthorized, "Authorization header missing")
			return
		}

		claims, err := tokens.ParseToken(tokenString)
		if err != nil || claims.Type != utils.TokenTypeCustomer || claims.CustomerID == 0 {
			utils.AbortFail(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(KeyCustomerID, claims.CustomerID)
		c.Next()
	}
}

// RequireRestaurant rejects staff tokens that are not bound to a restaurant.
func RequireRestaurant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(KeyRestaurantID); !ok {
			utils.AbortFail(c, http.StatusForbidden, "No restaurant assigned to this account")
			return
		}
		c.Next()
	}
}
