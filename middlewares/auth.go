package middlewares

import (
	"net/http"
	"strings"

	"backend/configs"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

// verifies the bearer token and (optionally) enforces a role:
// citizen | officer | worker
func AuthMiddleware(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing or invalid token"})
			c.Abort()
			return
		}

		cfg := configs.LoadConfig()
		claims, err := utils.ParseToken(strings.TrimPrefix(h, "Bearer "), cfg.JWTSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			c.Abort()
			return
		}

		c.Set("userId", claims.UserID)
		c.Set("role", claims.Role)

		if len(requiredRoles) > 0 {
			allowed := false
			for _, r := range requiredRoles {
				if claims.Role == r {
					allowed = true
					break
				}
			}
			if !allowed {
				c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "forbidden"})
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is present but
// lets anonymous requests through (SOS intake).
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			c.Next()
			return
		}

		cfg := configs.LoadConfig()
		if claims, err := utils.ParseToken(strings.TrimPrefix(h, "Bearer "), cfg.JWTSecret); err == nil {
			c.Set("userId", claims.UserID)
			c.Set("role", claims.Role)
		}
		c.Next()
	}
}
