package handlers

import (
	"net/http"
	"time"

	"smart_channels/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimitStatus describes the caller's current API rate window.
type RateLimitStatus struct {
	Rule          string    `json:"rule" example:"1000/3600"`
	Default       bool      `json:"default"`
	Limit         int       `json:"limit" example:"1000"`
	PeriodSeconds int       `json:"period_seconds" example:"3600"`
	Remaining     int       `json:"remaining" example:"998"`
	ResetAt       time.Time `json:"reset_at"`
}

func newRateLimitStatus(d ratelimit.Decision) RateLimitStatus {
	return RateLimitStatus{
		Rule:          d.Rule.String(),
		Default:       d.Rule.IsDefault(),
		Limit:         d.Rule.Limit,
		PeriodSeconds: d.Rule.PeriodSeconds,
		Remaining:     d.Remaining,
		ResetAt:       d.ResetAt.UTC(),
	}
}

// @Summary      Current rate limit
// @Description  The rule applied to the caller and the state of the window, this request included
// @Tags         users
// @Produce      json
// @Success      200  {object}  RateLimitStatus
// @Failure      401  {object}  map[string]string
// @Failure      429  {object}  map[string]string
// @Router       /api/v1/users/current/rate-limit [get]
// @Security     BearerAuth
func (h *Handler) getRateLimit(c *gin.Context) {
	v, ok := c.Get(ctxRateDecision)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "rate limiting is disabled"})
		return
	}
	c.JSON(http.StatusOK, newRateLimitStatus(v.(ratelimit.Decision)))
}
