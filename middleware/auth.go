package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"eventura-api/utils"
)

const (
	ctxUserEmail = "user_email"
	ctxUserName  = "user_name"
)

// AuthMiddleware validates the bearer session token and stashes the
// authenticated identity on the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		claims, err := utils.ParseAccessToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set(ctxUserEmail, claims.Email)
		c.Set(ctxUserName, claims.Name)
		c.Next()
	}
}

// GetUserEmail returns the authenticated caller's email, or "" when the
// request did not pass AuthMiddleware.
func GetUserEmail(c *gin.Context) string {
	return c.GetString(ctxUserEmail)
}

func GetUserName(c *gin.Context) string {
	return c.GetString(ctxUserName)
}
