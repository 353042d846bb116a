package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response standardizes the API JSON response
type Response struct {
	Success         bool        `json:"success"`
	Message         string      `json:"message"`
	Data            interface{} `json:"data,omitempty"`
	Error           interface{} `json:"error,omitempty"`
	RequestID       string      `json:"request_id,omitempty"`
	UpgradeRequired bool        `json:"upgradeRequired,omitempty"`
}

func requestID(c *gin.Context) string {
	reqID, _ := c.Get("RequestID")
	idStr, _ := reqID.(string) // Safe type assertion
	return idStr
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: requestID(c),
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string, err interface{}) {
	c.JSON(code, Response{
		Success:   false,
		Message:   message,
		Error:     err,
		RequestID: requestID(c),
	})
}

// QuotaExceeded sends the 429 body that tells the client to upgrade
func QuotaExceeded(c *gin.Context, message string) {
	c.JSON(http.StatusTooManyRequests, Response{
		Success:         false,
		Message:         message,
		Error:           "quota_exceeded",
		RequestID:       requestID(c),
		UpgradeRequired: true,
	})
}
