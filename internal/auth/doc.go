// Package auth guards the admin API.
//
// Mutating endpoints (project creation, deletion and bulk import) require a
// bearer token. The token is configured either in plain text or as a bcrypt
// hash:
//
//	AUTH_ADMIN_TOKEN=<token>            # compared in constant time
//	AUTH_ADMIN_TOKEN_HASH=<bcrypt hash> # takes precedence when set
//
// When neither is set the guard is disabled and every request acts as the
// admin. Generate a hash with:
//
//	portfolio hash-token <token>
//
// # Usage
//
//	guard := auth.NewAdminGuard(cfg.Auth, auth.NewRateLimiter(auth.DefaultRateLimitConfig()), logger)
//	admin := router.Group("/api", guard.Middleware())
//
// Handlers read the acting identity with auth.Actor(c).
//
// Failed token checks are rate limited per client IP.
package auth
