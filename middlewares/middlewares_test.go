package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/dinein-backend/utils"
)

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	utils.SilenceLogger()
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID":       c.GetUint(KeyUserID),
			"role":         c.GetString(KeyRole),
			"restaurantID": c.GetUint(KeyRestaurantID),
			"customerID":   c.GetUint(KeyCustomerID),
		})
	})
	r.GET("/ping", handlers...)
	return r
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenIssuer("secret", time.Hour, time.Hour)
	r := newTestRouter(AuthMiddleware(tokens), RoleCheck("manager", "staff"))

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "garbage").Code)

	customer, err := tokens.GenerateCustomerToken(5)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, customer).Code)

	rid := uint(3)
	staff, err := tokens.GenerateUserToken(9, "staff", &rid)
	require.NoError(t, err)
	w := get(r, staff)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userID":9,"role":"staff","restaurantID":3,"customerID":0}`, w.Body.String())

	admin, err := tokens.GenerateUserToken(1, "admin", nil)
	require.NoError(t, err)
	w = get(r, admin)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"fail"`)
}

func TestCustomerAuthAndRequireRestaurant(t *testing.T) {
	tokens := utils.NewTokenIssuer("secret", time.Hour, time.Hour)

	r := newTestRouter(CustomerAuth(tokens))
	customer, err := tokens.GenerateCustomerToken(5)
	require.NoError(t, err)
	w := get(r, customer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"customerID":5`)

	staff, err := tokens.GenerateUserToken(9, "staff", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, staff).Code)

	scoped := newTestRouter(AuthMiddleware(tokens), RequireRestaurant())
	assert.Equal(t, http.StatusForbidden, get(scoped, staff).Code)
}

func TestRateLimiter(t *testing.T) {
	r := newTestRouter(NewRateLimiter(time.Hour, 2).RateLimit())

	assert.Equal(t, http.StatusOK, get(r, "").Code)
	assert.Equal(t, http.StatusOK, get(r, "").Code)
	w := get(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"fail"`)
}

func TestWebSocketAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenIssuer("secret", time.Hour, time.Hour)
	r := newTestRouter(WebSocketAuthMiddleware(tokens))

	rid := uint(4)
	staff, err := tokens.GenerateUserToken(2, "staff", &rid)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ping?token="+staff, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"restaurantID":4`)

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
}
