package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/portfolio/internal/config"
)

// ContextKeyActor holds who is performing the request.
const ContextKeyActor = "auth_actor"

const (
	ActorAdmin     = "admin"
	ActorAnonymous = "anonymous"
)

// AdminGuard authenticates admin requests with a static bearer token.
type AdminGuard struct {
	token   string
	hash    string
	limiter *RateLimiter
	logger  *zap.Logger
}

// NewAdminGuard builds a guard from config. A nil limiter disables rate
// limiting of failed attempts.
func NewAdminGuard(cfg config.Auth, limiter *RateLimiter, logger *zap.Logger) *AdminGuard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminGuard{
		token:   cfg.AdminToken,
		hash:    cfg.AdminTokenHash,
		limiter: limiter,
		logger:  logger,
	}
}

// Enabled reports whether a token is configured.
func (g *AdminGuard) Enabled() bool {
	return g.token != "" || g.hash != ""
}

// Middleware rejects requests without a valid admin token.
func (g *AdminGuard) Middleware() gin.HandlerFunc {
	if !g.Enabled() {
		return func(c *gin.Context) {
			c.Set(ContextKeyActor, ActorAdmin)
			c.Next()
		}
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()

		if g.limiter != nil {
			if allowed, retryAfter := g.limiter.Allow(ip); !allowed {
				c.Header("Retry-After", retryAfter.String())
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"error":       "too many failed authentication attempts",
					"retry_after": retryAfter.String(),
				})
				return
			}
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok || !g.Verify(token) {
			if g.limiter != nil {
				g.limiter.RecordFailure(ip)
			}
			g.logger.Warn("rejected admin request",
				zap.String("ip", ip),
				zap.String("path", c.Request.URL.Path),
				zap.Bool("token_present", ok),
			)
			c.Header("WWW-Authenticate", `Bearer realm="admin"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		if g.limiter != nil {
			g.limiter.RecordSuccess(ip)
		}
		c.Set(ContextKeyActor, ActorAdmin)
		c.Next()
	}
}

// Verify checks a presented token against the configured hash or token.
func (g *AdminGuard) Verify(token string) bool {
	if token == "" {
		return false
	}
	if g.hash != "" {
		return CheckToken(token, g.hash) == nil
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(g.token)) == 1
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Actor returns who is performing the request.
func Actor(c *gin.Context) string {
	if v, exists := c.Get(ContextKeyActor); exists {
		if actor, ok := v.(string); ok && actor != "" {
			return actor
		}
	}
	return ActorAnonymous
}
