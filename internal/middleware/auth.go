package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/manforhire/contractor-api/internal/auth"
	"github.com/manforhire/contractor-api/internal/config"
)

const ContextIdentity = "identity"

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// RequireAuth admits only callers holding a valid token of the given
// identity kind. Missing or bad credentials are 401; a valid token of the
// wrong kind is 403.
func RequireAuth(cfg *config.Config, kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		identity, err := auth.VerifyToken(cfg, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		if identity.Kind != kind {
			msg := "Access denied. User account required."
			if kind == auth.KindAdmin {
				msg = "Access denied. Admin account required."
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": msg})
			return
		}

		c.Set(ContextIdentity, identity)
		c.Next()
	}
}

// OptionalAuth attaches a user identity when a valid user token is
// presented, and otherwise lets the request through as a guest. An invalid
// or expired token is never a reason to reject on routes using this
// policy.
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if identity, err := auth.VerifyToken(cfg, tokenString); err == nil && identity.Kind == auth.KindUser {
				c.Set(ContextIdentity, identity)
			}
		}
		c.Next()
	}
}

// IdentityFrom returns the verified identity set by RequireAuth or
// OptionalAuth, if any.
func IdentityFrom(c *gin.Context) (*auth.Identity, bool) {
	v, exists := c.Get(ContextIdentity)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*auth.Identity)
	return identity, ok
}
