package utils

import (
	"github.com/gin-gonic/gin"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// JSONResponse is the envelope every endpoint answers with.
type JSONResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondJSON writes a success envelope.
func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// RespondFail writes a client-error envelope (4xx).
func RespondFail(c *gin.Context, code int, message string) {
	c.JSON(code, JSONResponse{
		Status:  StatusFail,
		Message: message,
	})
}

// RespondError writes a server-error envelope carrying the raw error text.
func RespondError(c *gin.Context, code int, message string, err error) {
	c.JSON(code, JSONResponse{
		Status:  StatusError,
		Message: message,
		Data:    gin.H{"error": err.Error()},
	})
}

// AbortFail is RespondFail for middlewares.
func AbortFail(c *gin.Context, code int, message string) {
	RespondFail(c, code, message)
	c.Abort()
}
