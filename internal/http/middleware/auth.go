package middleware

import (
	"net/http"

	"backoffice/internal/auth"
	"backoffice/internal/domain/models"

	"github.com/gin-gonic/gin"
)

const userKey = "current_user"

// WithAuth extracts the session cookie, verifies it, and stores the resolved
// user on the context. Requests without a valid session stop here with 401.
func WithAuth(guard auth.Guard, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "authentication required",
			})
			return
		}

		user, err := guard.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "invalid or expired session",
			})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user WithAuth stored on the context.
func CurrentUser(c *gin.Context) (models.AdminUser, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return models.AdminUser{}, false
	}
	user, ok := v.(models.AdminUser)
	return user, ok
}

// RequirePermission gates a route on a server-side permission grant. Must run
// after WithAuth.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "authentication required",
			})
			return
		}
		if !auth.HasPermission(user, permission) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "insufficient permissions",
			})
			return
		}
		c.Next()
	}
}

// RequireRole gates a route on role membership. Must run after WithAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "authentication required",
			})
			return
		}
		for _, role := range roles {
			if user.HasRole(role) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "insufficient role",
		})
	}
}
