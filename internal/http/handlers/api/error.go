package api

import (
	"errors"

	"github.com/Shatar6/Gereltjin-Cargo-App/internal/http/response"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/logger"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// requestLog returns a logger carrying the request_id.
func requestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// respondError writes an error response and logs the underlying cause.
func respondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		requestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// respondServiceError maps service sentinel errors to business codes. The
// client relies on distinct messages to tell "not your order" from
// "status locked" from "malformed input".
func respondServiceError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrWorkerNotFound),
		errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrForbidden):
		respondError(c, response.CodeForbidden, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidWorkerCode):
		respondError(c, response.CodeBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrEditNotAllowed):
		respondError(c, response.CodeUnprocessable, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidPassword):
		respondError(c, response.CodeUnauthorized, err.Error(), nil)
	case errors.Is(err, service.ErrOrderNumberExhausted):
		respondError(c, response.CodeConflict, err.Error(), err)
	default:
		respondError(c, response.CodeInternal, fallbackMsg, err)
	}
}
