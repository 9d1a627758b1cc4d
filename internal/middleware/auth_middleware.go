package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "focustrack/internal/errors"
)

const UserIDContextKey = "userID"

// TokenParser turns a bearer token into the user id it was issued for.
type TokenParser interface {
	ParseToken(token string) (string, *apperrors.APIError)
}

func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, apperrors.Unauthorized("missing authorization header"))
			return
		}

		token, found := strings.CutPrefix(authHeader, "Bearer ")
		token = strings.TrimSpace(token)
		if !found || token == "" {
			abort(c, apperrors.Unauthorized("invalid authorization format"))
			return
		}

		userID, apiErr := parser.ParseToken(token)
		if apiErr != nil {
			abort(c, apiErr)
			return
		}

		c.Set(UserIDContextKey, userID)
		c.Next()
	}
}

func UserID(c *gin.Context) string {
	return c.GetString(UserIDContextKey)
}

func abort(c *gin.Context, apiErr *apperrors.APIError) {
	c.AbortWithStatusJSON(apiErr.Status, gin.H{
		"error": gin.H{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		},
	})
}
