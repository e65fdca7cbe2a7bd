package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ownerIDKey = "ownerID"

// AuthRequired resolves the Authorization bearer token into an owner id and
// aborts with 401 when it is missing or invalid.
func AuthRequired(auth AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
			return
		}

		userID, err := auth.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid token"})
			return
		}

		c.Set(ownerIDKey, userID)
		c.Next()
	}
}

// ownerID returns the authenticated user id set by AuthRequired.
func ownerID(c *gin.Context) string {
	return c.GetString(ownerIDKey)
}
