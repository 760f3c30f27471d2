package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/armonia-music/pos-backend/internal/auth/domain"
	"github.com/armonia-music/pos-backend/internal/auth/service"
)

const (
	ctxUserName = "authUserName"
	ctxUserRole = "authUserRole"
)

// RequireAuth validates the Bearer token and stores the identity on the gin
// context for downstream handlers.
func RequireAuth(as service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			return
		}

		user, err := as.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ctxUserName, user.Name)
		c.Set(ctxUserRole, user.Role)
		c.Next()
	}
}

// RequireRoles allows the request through only when the authenticated role is
// one of the given roles. Must run after RequireAuth.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, ok := c.Get(ctxUserRole)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		for _, role := range roles {
			if current == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// CurrentUserName returns the authenticated name set by RequireAuth, or an
// empty string on unauthenticated routes.
func CurrentUserName(c *gin.Context) string {
	return c.GetString(ctxUserName)
}
