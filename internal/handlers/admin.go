package handlers

import (
	"net/http"

	"smart_channels/internal/models"
	"smart_channels/internal/service"

	"github.com/gin-gonic/gin"
)

const errChangeLimits = "failed to change user limits"

// ChangeLimitsRequest changes a user's object limits and API rate rule.
// Absent fields are left unchanged; limit_for_all wins over limits.
type ChangeLimitsRequest struct {
	LimitForAll  *int           `json:"limit_for_all,omitempty" example:"10"`
	Limits       *models.Limits `json:"limits,omitempty"`
	APIRateLimit *string        `json:"api_rate_limit,omitempty" example:"100/60"` // "limit/seconds" or "default"
}

// @Summary      Change user limits
// @Description  Admin only. Changing the API rate rule clears the user's request counter.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        username       path      string               true  "Username"
// @Param        X-Admin-Token  header    string               true  "Admin token"
// @Param        body           body      ChangeLimitsRequest  true  "Changes"
// @Success      200  {object}  models.User
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /admin/users/{username}/limits [put]
func (h *Handler) changeUserLimits(c *gin.Context) {
	username := c.Param("username")
	var req ChangeLimitsRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	u, err := h.services.UserLimits.Change(c.Request.Context(), username, service.LimitsChange{
		LimitForAll:  req.LimitForAll,
		Limits:       req.Limits,
		APIRateLimit: req.APIRateLimit,
	})
	if err != nil {
		h.respondError(c, err, errChangeLimits, "user_limits_change_failed", "username", username)
		return
	}
	if h.log != nil {
		h.log.Infow("user_limits_changed", "username", username, "user_id", u.ID)
	}
	c.JSON(http.StatusOK, u)
}
