package api

import (
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/http/response"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/service"

	"github.com/gin-gonic/gin"
)

func getContextUint(c *gin.Context, key string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		respondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			respondError(c, response.CodeBadRequest, "invalid "+key, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			respondError(c, response.CodeBadRequest, "invalid "+key, nil)
			return 0, false
		}
		return uint(v), true
	default:
		respondError(c, response.CodeInternal, "unexpected "+key+" type", nil)
		return 0, false
	}
}

func getContextString(c *gin.Context, key string) string {
	if value, ok := c.Get(key); ok {
		if s, ok := value.(string); ok {
			return s
		}
	}
	return ""
}

// actingIdentity resolves the caller from the values the auth middleware
// attached. It writes the error response itself when identity is missing.
func actingIdentity(c *gin.Context) (service.ActingIdentity, bool) {
	workerID, ok := getContextUint(c, "worker_id")
	if !ok {
		return service.ActingIdentity{}, false
	}
	return service.ActingIdentity{
		WorkerID: workerID,
		Role:     getContextString(c, "worker_role"),
		Name:     getContextString(c, "worker_name"),
	}, true
}
