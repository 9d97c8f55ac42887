// Package middleware provides gin middleware for the web layer.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/justaleaf/audiovault/database/model"
	"github.com/justaleaf/audiovault/web/service"
)

const userKey = "user"

// RequireAuth verifies the Authorization bearer token and stores the
// resolved user in the request context.
func RequireAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(h, "Bearer ")

		user, err := authService.CurrentUser(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidToken.Error()})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user resolved by RequireAuth, or nil when the
// request is unauthenticated.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}
