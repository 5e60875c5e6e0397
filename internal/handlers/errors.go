package handlers

import (
	"errors"
	"net/http"

	"smart_channels/internal/executor"
	"smart_channels/internal/paramconfig"
	"smart_channels/internal/ratelimit"
	"smart_channels/internal/service"

	"github.com/gin-gonic/gin"
)

// statusFromError maps service and domain sentinels onto HTTP codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, executor.ErrUnsupportedAction),
		errors.Is(err, executor.ErrInvalidActionParams),
		errors.Is(err, paramconfig.ErrUnsupportedConfigForFunction),
		errors.Is(err, paramconfig.ErrInvalidConfigValue),
		errors.Is(err, paramconfig.ErrInvalidChannelLink),
		errors.Is(err, ratelimit.ErrInvalidRateLimitFormat),
		errors.Is(err, service.ErrInvalidLimit),
		errors.Is(err, service.ErrInvalidTimeRange):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrChannelNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		if httpCode >= http.StatusInternalServerError {
			h.log.Errorw(logKey, fields...)
		} else {
			h.log.Infow(logKey, fields...)
		}
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondError picks the status from err. Client errors echo the cause, server errors use fallback.
func (h *Handler) respondError(c *gin.Context, err error, fallback, logKey string, kv ...interface{}) {
	code := statusFromError(err)
	msg := fallback
	if code < http.StatusInternalServerError {
		msg = err.Error()
	}
	h.logAndJSONError(c, code, msg, logKey, err, kv...)
}
