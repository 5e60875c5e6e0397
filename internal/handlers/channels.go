package handlers

import (
	"net/http"
	"strconv"

	"smart_channels/internal/models"
	"smart_channels/internal/paramconfig"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errListChannels = "failed to load channels"
	errGetChannel   = "failed to load channel"
	errExecute      = "failed to execute action"
	errGetConfig    = "failed to load channel config"
	errUpdateConfig = "failed to update channel config"
	errChannelID    = "invalid channel id"
)

// ExecuteActionRequest is the body of POST /channels/{id}/actions.
type ExecuteActionRequest struct {
	// One of TURN_ON, TURN_OFF, OPEN, CLOSE, SHUT, REVEAL, SHUT_PARTIALLY, REVEAL_PARTIALLY, STOP
	Action string `json:"action" binding:"required" example:"SHUT_PARTIALLY"`
	// Action specific values, e.g. {"percentage": 40} or {"brightness": 70}
	Params map[string]any `json:"params,omitempty" swaggertype:"object"`
}

// ExecuteActionResponse reports the command that was produced.
type ExecuteActionResponse struct {
	ChannelID int                 `json:"channel_id" example:"3"`
	Action    models.ActionKind   `json:"action" swaggertype:"string" example:"SHUT_PARTIALLY"`
	Command   models.CommandValue `json:"command"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// channelID reads the :id path parameter and writes a 400 on failure.
func (h *Handler) channelID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errChannelID})
		return 0, false
	}
	return id, true
}

// @Summary      List channels
// @Tags         channels
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, channels"
// @Failure      401  {object}  map[string]string
// @Failure      429  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/channels [get]
// @Security     BearerAuth
func (h *Handler) listChannels(c *gin.Context) {
	userID := c.GetInt(ctxUserID)
	chs, err := h.services.Channels.List(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, errListChannels, "channel_list_failed", "user_id", userID)
		return
	}
	if chs == nil {
		chs = []models.Channel{}
	}
	c.JSON(http.StatusOK, gin.H{
		"count":    len(chs),
		"channels": chs,
	})
}

// @Summary      Get channel
// @Description  Channel with the actions its function supports and its config keys
// @Tags         channels
// @Produce      json
// @Param        id   path      int  true  "Channel id"
// @Success      200  {object}  service.ChannelDetails
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/channels/{id} [get]
// @Security     BearerAuth
func (h *Handler) getChannel(c *gin.Context) {
	id, ok := h.channelID(c)
	if !ok {
		return
	}
	details, err := h.services.Channels.Get(c.Request.Context(), c.GetInt(ctxUserID), id)
	if err != nil {
		h.respondError(c, err, errGetChannel, "channel_get_failed", "channel_id", id)
		return
	}
	c.JSON(http.StatusOK, details)
}

// @Summary      Execute action
// @Description  Translates a logical action into the command value for the channel
// @Tags         channels
// @Accept       json
// @Produce      json
// @Param        id    path      int                   true  "Channel id"
// @Param        body  body      ExecuteActionRequest  true  "Action payload"
// @Success      200   {object}  ExecuteActionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/channels/{id}/actions [post]
// @Security     BearerAuth
func (h *Handler) executeAction(c *gin.Context) {
	id, ok := h.channelID(c)
	if !ok {
		return
	}
	var req ExecuteActionRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	kind, err := models.ParseActionKind(req.Action)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd, err := h.services.Channels.ExecuteAction(c.Request.Context(), c.GetInt(ctxUserID), id, kind, models.ActionParams(req.Params))
	if err != nil {
		h.respondError(c, err, errExecute, "channel_action_failed", "channel_id", id, "action", kind)
		return
	}
	c.JSON(http.StatusOK, ExecuteActionResponse{ChannelID: id, Action: kind, Command: cmd})
}

// @Summary      Get channel config
// @Tags         channels
// @Produce      json
// @Param        id   path      int  true  "Channel id"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/channels/{id}/config [get]
// @Security     BearerAuth
func (h *Handler) getChannelConfig(c *gin.Context) {
	id, ok := h.channelID(c)
	if !ok {
		return
	}
	cfg, err := h.services.Channels.GetConfig(c.Request.Context(), c.GetInt(ctxUserID), id)
	if err != nil {
		h.respondError(c, err, errGetConfig, "channel_config_get_failed", "channel_id", id)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// @Summary      Update channel config
// @Description  Partial update, e.g. {"openingTimeS": 12.5, "openingSensorChannelId": 4}. Unknown keys are ignored.
// @Tags         channels
// @Accept       json
// @Produce      json
// @Param        id    path      int                     true  "Channel id"
// @Param        body  body      map[string]interface{}  true  "Config keys to change"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/channels/{id}/config [patch]
// @Security     BearerAuth
func (h *Handler) updateChannelConfig(c *gin.Context) {
	id, ok := h.channelID(c)
	if !ok {
		return
	}
	var body map[string]any
	if ok := h.bindJSONOrBadRequest(c, &body); !ok {
		return
	}
	cfg, err := h.services.Channels.UpdateConfig(c.Request.Context(), c.GetInt(ctxUserID), id, paramconfig.Config(body))
	if err != nil {
		h.respondError(c, err, errUpdateConfig, "channel_config_update_failed", "channel_id", id)
		return
	}
	c.JSON(http.StatusOK, cfg)
}
