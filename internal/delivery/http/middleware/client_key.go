package middleware

import (
	"go-ats-backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClientIDHeader is an optional anonymous client identifier
const ClientIDHeader = "X-Client-ID"

// ClientKey derives the quota key: a valid UUID from X-Client-ID, otherwise the client IP
func ClientKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(domain.KeyClientID), resolveClientKey(c))
		c.Next()
	}
}

func resolveClientKey(c *gin.Context) string {
	if raw := c.GetHeader(ClientIDHeader); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			return "cid:" + id.String()
		}
	}
	return "ip:" + c.ClientIP()
}

// GetClientKey returns the key set by ClientKey, computing it if the middleware did not run
func GetClientKey(c *gin.Context) string {
	if key := c.GetString(string(domain.KeyClientID)); key != "" {
		return key
	}
	return resolveClientKey(c)
}
