// Package readonly blocks write requests while the catalogue is frozen, for
// example during a migration or on a public mirror.
package readonly

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextKeyReadOnly stores the read-only flag in the request context.
const ContextKeyReadOnly = "read_only"

// Middleware blocks write operations in read-only mode.
// Safe methods (GET, HEAD, OPTIONS) are always allowed, as are allowlisted
// path prefixes.
type Middleware struct {
	enabled bool
	allowed []string
}

// NewMiddleware creates a read-only middleware. allowedPrefixes lists paths
// that accept writes even when enabled.
func NewMiddleware(enabled bool, allowedPrefixes ...string) *Middleware {
	return &Middleware{enabled: enabled, allowed: allowedPrefixes}
}

// IsEnabled returns whether read-only mode is active.
func (m *Middleware) IsEnabled() bool {
	return m.enabled
}

// Handler returns a Gin middleware that blocks write operations.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyReadOnly, m.enabled)

		if !m.enabled {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if m.isAllowedPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "the catalogue is read-only",
			"read_only": true,
		})
	}
}

func (m *Middleware) isAllowedPath(path string) bool {
	for _, allowed := range m.allowed {
		if strings.HasPrefix(path, allowed) {
			return true
		}
	}
	return false
}
