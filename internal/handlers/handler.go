package handlers

import (
	"smart_channels/internal/logger"
	"smart_channels/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options holds the HTTP-layer settings that are not services.
type Options struct {
	AdminToken string  // empty disables the admin routes
	AuthRate   float64 // sign-up/sign-in requests per second per client IP
	AuthBurst  int
}

const (
	defaultAuthRate  = 1.0
	defaultAuthBurst = 5
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
	throttle *ipThrottle
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if opts.AuthRate <= 0 {
		opts.AuthRate = defaultAuthRate
	}
	if opts.AuthBurst <= 0 {
		opts.AuthBurst = defaultAuthBurst
	}
	return &Handler{
		services: services,
		log:      log,
		opts:     opts,
		throttle: newIPThrottle(opts.AuthRate, opts.AuthBurst),
	}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)
	h.registerAdminRoutes(router)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth", h.authThrottleMiddleware)
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware, h.rateLimitMiddleware)
	{
		h.registerChannelRoutes(api)
		h.registerLogRoutes(api)
		api.GET("/users/current/rate-limit", h.getRateLimit)
	}
}

func (h *Handler) registerChannelRoutes(api *gin.RouterGroup) {
	channels := api.Group("/channels")
	{
		channels.GET("", h.listChannels)
		channels.GET("/:id", h.getChannel)
		// Body example: {"action":"SHUT_PARTIALLY","params":{"percentage":40}}
		channels.POST("/:id/actions", h.executeAction)
		channels.GET("/:id/config", h.getChannelConfig)
		channels.PATCH("/:id/config", h.updateChannelConfig)
		channels.GET("/:id/ws", h.wsConnect)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	api.GET("/logs", h.getLogs)
}

func (h *Handler) registerAdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin", h.adminMiddleware)
	{
		admin.PUT("/users/:username/limits", h.changeUserLimits)
	}
}
