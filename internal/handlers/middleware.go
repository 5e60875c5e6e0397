package handlers

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"smart_channels/internal/ratelimit"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	ctxUserID       = "userId"
	ctxRateDecision = "rateLimitDecision"

	headerRateLimit     = "X-RateLimit-Limit"
	headerRateRemaining = "X-RateLimit-Remaining"
	headerRateReset     = "X-RateLimit-Reset"
	headerAdminToken    = "X-Admin-Token"
)

func (h *Handler) userIdMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	userId, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Set(ctxUserID, userId)
	c.Next()
}

// rateLimitMiddleware counts the request against the caller's rule.
// It must run after userIdMiddleware.
func (h *Handler) rateLimitMiddleware(c *gin.Context) {
	if h.services.RateLimits == nil {
		c.Next()
		return
	}
	userID := c.GetInt(ctxUserID)
	d, err := h.services.RateLimits.Check(c.Request.Context(), userID)
	if err != nil {
		h.logAndJSONError(c, statusFromError(err), "failed to check rate limit", "rate_limit_check_failed", err, "user_id", userID)
		c.Abort()
		return
	}
	setRateHeaders(c, d)
	c.Set(ctxRateDecision, d)
	if !d.Allowed {
		if h.log != nil {
			h.log.Infow("rate_limit_throttled", "user_id", userID, "rule", d.Rule.String(), "count", d.Count)
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "API rate limit exceeded"})
		return
	}
	c.Next()
}

func setRateHeaders(c *gin.Context, d ratelimit.Decision) {
	c.Header(headerRateLimit, strconv.Itoa(d.Rule.Limit))
	c.Header(headerRateRemaining, strconv.Itoa(d.Remaining))
	c.Header(headerRateReset, strconv.FormatInt(d.ResetAt.Unix(), 10))
}

func (h *Handler) adminMiddleware(c *gin.Context) {
	if h.opts.AdminToken == "" {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin API is disabled"})
		return
	}
	got := c.GetHeader(headerAdminToken)
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.opts.AdminToken)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin token"})
		return
	}
	c.Next()
}

func (h *Handler) authThrottleMiddleware(c *gin.Context) {
	if !h.throttle.allow(c.ClientIP()) {
		if h.log != nil {
			h.log.Infow("auth_throttled", "ip", c.ClientIP(), "path", c.FullPath())
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		return
	}
	c.Next()
}

// ipThrottle keeps one token bucket per client address.
type ipThrottle struct {
	mu       sync.Mutex
	limiters map[string]*throttleEntry
	limit    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

type throttleEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPThrottle(perSecond float64, burst int) *ipThrottle {
	return &ipThrottle{
		limiters: make(map[string]*throttleEntry),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		idle:     10 * time.Minute,
		now:      time.Now,
	}
}

func (t *ipThrottle) allow(ip string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for k, e := range t.limiters {
		if now.Sub(e.lastSeen) > t.idle {
			delete(t.limiters, k)
		}
	}
	e, ok := t.limiters[ip]
	if !ok {
		e = &throttleEntry{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.limiters[ip] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}
